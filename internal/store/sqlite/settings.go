package sqlite

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

func (d *DB) GetBotSettings(ctx context.Context) (*store.BotSettings, error) {
	row := d.db.QueryRowContext(ctx, `SELECT tone, custom_phrases, follow_up_enabled FROM bot_settings WHERE id = 1`)
	var s store.BotSettings
	if err := row.Scan(&s.Tone, &s.CustomPhrases, &s.FollowUpEnabled); err != nil {
		return nil, errors.Wrap(err, "failed to get bot settings")
	}
	return &s, nil
}

func (d *DB) UpdateBotSettings(ctx context.Context, s *store.BotSettings) (*store.BotSettings, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE bot_settings SET tone = ?, custom_phrases = ?, follow_up_enabled = ? WHERE id = 1
		RETURNING tone, custom_phrases, follow_up_enabled
	`, s.Tone, s.CustomPhrases, s.FollowUpEnabled)
	var out store.BotSettings
	if err := row.Scan(&out.Tone, &out.CustomPhrases, &out.FollowUpEnabled); err != nil {
		return nil, errors.Wrap(err, "failed to update bot settings")
	}
	return &out, nil
}
