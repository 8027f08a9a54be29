// Package store provides database access to all durable objects owned by
// the relational store: knowledge base entries and chunks, conversations,
// summaries, appointments, agent requests, live-chat sessions, business
// hours, vacation mode, referrals, credits, broadcasts, subscriptions, and
// bot settings.
package store

import "context"

// Store provides database access to all raw objects, delegating to a
// concrete Driver. Components depend on *Store, never on the driver
// directly, so storage backends stay swappable at the composition root.
type Store struct {
	driver Driver
}

// New creates a Store backed by the given driver.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

// Driver returns the underlying Driver, for migrations and the rare
// admin operation that needs the raw *sql.DB (e.g. WAL checkpoint).
func (s *Store) Driver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// Migrate applies schema migrations. Safe to call on every startup.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

// Driver is implemented by each storage backend. This system runs with a
// single embedded backend (sqlite) per spec's Non-goals ("horizontal scale
// beyond one process with one backing store"); the interface boundary is
// kept anyway so the sqlite package and the in-memory fake used by tests
// can both satisfy it.
type Driver interface {
	Migrate(ctx context.Context) error
	Close() error

	KBStore
	ChunkStore
	ConversationStore
	SummaryStore
	AgentRequestStore
	AppointmentStore
	LiveChatStore
	UnansweredQuestionStore
	HoursStore
	VacationStore
	ReferralStore
	CreditStore
	BroadcastStore
	SubscriptionStore
	SettingsStore
}
