package store

import "context"

// BotSettings is the singleton row controlling the Conversation
// Orchestrator's persona and the follow-up-question feature toggle.
type BotSettings struct {
	Tone             string
	CustomPhrases    string // free-form, appended verbatim to the system prompt
	FollowUpEnabled  bool
}

// SettingsStore persists the singleton bot settings row.
type SettingsStore interface {
	GetBotSettings(ctx context.Context) (*BotSettings, error)
	UpdateBotSettings(ctx context.Context, s *BotSettings) (*BotSettings, error)
}

func (s *Store) GetBotSettings(ctx context.Context) (*BotSettings, error) {
	return s.driver.GetBotSettings(ctx)
}

func (s *Store) UpdateBotSettings(ctx context.Context, settings *BotSettings) (*BotSettings, error) {
	return s.driver.UpdateBotSettings(ctx, settings)
}
