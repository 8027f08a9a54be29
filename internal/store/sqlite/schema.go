package sqlite

// schemaStatements is applied in order on every startup. Each CREATE uses
// IF NOT EXISTS so repeated calls are idempotent; there is no separate
// migration-version table because the schema has never needed a breaking
// change yet.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS kb_entry (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chunk (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entry_id INTEGER NOT NULL REFERENCES kb_entry(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		text TEXT NOT NULL,
		embedding BLOB
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chunk_entry_id ON chunk(entry_id)`,

	`CREATE TABLE IF NOT EXISTS message (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		role TEXT NOT NULL,
		text TEXT NOT NULL,
		sources TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_message_user_id ON message(user_id, id)`,

	`CREATE TABLE IF NOT EXISTS summary (
		user_id TEXT PRIMARY KEY,
		summary_text TEXT NOT NULL,
		cumulative_message_count INTEGER NOT NULL,
		last_summarized_message_id INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS agent_request (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		platform_handle TEXT NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		handled_at INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_agent_request_status ON agent_request(status)`,

	`CREATE TABLE IF NOT EXISTS appointment (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		platform_handle TEXT NOT NULL,
		service TEXT NOT NULL,
		preferred_date TEXT NOT NULL,
		preferred_time TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointment_user_id ON appointment(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_appointment_status ON appointment(status)`,

	`CREATE TABLE IF NOT EXISTS live_chat_session (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		active INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		ended_at INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_live_chat_user_active ON live_chat_session(user_id, active)`,

	`CREATE TABLE IF NOT EXISTS unanswered_question (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		question TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		resolved_at INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_unanswered_status ON unanswered_question(status)`,

	`CREATE TABLE IF NOT EXISTS business_hours (
		day_of_week INTEGER PRIMARY KEY,
		open_time TEXT,
		close_time TEXT,
		closed INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS special_day (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		open_time TEXT,
		close_time TEXT,
		closed INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_special_day_date ON special_day(date)`,

	`CREATE TABLE IF NOT EXISTS vacation_mode (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		active INTEGER NOT NULL DEFAULT 0,
		end_date TEXT,
		custom_message TEXT
	)`,
	`INSERT OR IGNORE INTO vacation_mode (id, active) VALUES (1, 0)`,

	`CREATE TABLE IF NOT EXISTS referral (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		referrer_id TEXT NOT NULL,
		referred_id TEXT UNIQUE,
		code TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		completed_at INTEGER,
		sent INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_referral_referrer ON referral(referrer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_referral_code ON referral(code)`,

	`CREATE TABLE IF NOT EXISTS credit (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		amount REAL NOT NULL,
		type TEXT NOT NULL,
		reason TEXT NOT NULL,
		used INTEGER NOT NULL DEFAULT 0,
		expires_at INTEGER,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_credit_user_id ON credit(user_id, used)`,

	`CREATE TABLE IF NOT EXISTS broadcast (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		audience_label TEXT NOT NULL,
		recipient_count INTEGER NOT NULL DEFAULT 0,
		sent_count INTEGER NOT NULL DEFAULT 0,
		failed_count INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS subscription (
		user_id TEXT PRIMARY KEY,
		subscribed INTEGER NOT NULL DEFAULT 1,
		updated_at INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS bot_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		tone TEXT NOT NULL DEFAULT 'friendly',
		custom_phrases TEXT NOT NULL DEFAULT '',
		follow_up_enabled INTEGER NOT NULL DEFAULT 1
	)`,
	`INSERT OR IGNORE INTO bot_settings (id, tone, custom_phrases, follow_up_enabled) VALUES (1, 'friendly', '', 1)`,
}
