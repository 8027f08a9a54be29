// Package seed loads a JSON fixture of knowledge-base entries and
// business hours through the same store calls the admin surface uses,
// for bringing up a fresh deployment with demo content.
package seed

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

// Fixture is the on-disk shape a --seed file must match.
type Fixture struct {
	KnowledgeBase []KBEntry       `json:"knowledge_base"`
	BusinessHours []BusinessHours `json:"business_hours"`
}

type KBEntry struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

type BusinessHours struct {
	DayOfWeek int     `json:"day_of_week"`
	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
	Closed    bool    `json:"closed"`
}

// LoadFixture reads path and inserts its content, skipping nothing and
// erroring on the first failed insert — a seed run is expected to be run
// once against an empty store, not merged idempotently.
func LoadFixture(ctx context.Context, s *store.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read fixture file")
	}

	var fixture Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return errors.Wrap(err, "failed to parse fixture JSON")
	}

	for _, e := range fixture.KnowledgeBase {
		if _, err := s.CreateKBEntry(ctx, &store.KBEntry{
			Category: e.Category,
			Title:    e.Title,
			Content:  e.Content,
			Active:   true,
		}); err != nil {
			return errors.Wrapf(err, "failed to create knowledge base entry %q", e.Title)
		}
	}

	for _, h := range fixture.BusinessHours {
		if _, err := s.UpsertHours(ctx, &store.BusinessHours{
			DayOfWeek: h.DayOfWeek,
			OpenTime:  h.OpenTime,
			CloseTime: h.CloseTime,
			Closed:    h.Closed,
		}); err != nil {
			return errors.Wrapf(err, "failed to upsert business hours for day %d", h.DayOfWeek)
		}
	}

	return nil
}
