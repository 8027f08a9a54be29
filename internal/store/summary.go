package store

import "context"

// Summary is the single per-user conversation summary row. A new summary
// replaces the prior one; LastSummarizedMessageID is a strict high-water
// mark over Message.ID.
type Summary struct {
	UserID                   string
	SummaryText              string
	CumulativeMessageCount   int
	LastSummarizedMessageID  int64
	CreatedAt                int64
}

// UpsertSummary is the upsert condition for Summary.
type UpsertSummary struct {
	UserID                  string
	SummaryText             string
	CumulativeMessageCount  int
	LastSummarizedMessageID int64
}

// SummaryStore persists the single-row-per-user conversation summary.
type SummaryStore interface {
	GetSummary(ctx context.Context, userID string) (*Summary, error)
	UpsertSummary(ctx context.Context, u *UpsertSummary) (*Summary, error)
}

func (s *Store) GetSummary(ctx context.Context, userID string) (*Summary, error) {
	return s.driver.GetSummary(ctx, userID)
}

func (s *Store) UpsertSummary(ctx context.Context, u *UpsertSummary) (*Summary, error) {
	return s.driver.UpsertSummary(ctx, u)
}
