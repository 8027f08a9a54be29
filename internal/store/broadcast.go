package store

import "context"

// BroadcastStatus is the lifecycle state of a broadcast send.
type BroadcastStatus string

const (
	BroadcastQueued    BroadcastStatus = "queued"
	BroadcastSending   BroadcastStatus = "sending"
	BroadcastCompleted BroadcastStatus = "completed"
	BroadcastFailed    BroadcastStatus = "failed"
)

// Broadcast is a single admin-initiated blast to a subscriber audience.
// RecipientCount is snapshotted at enqueue time; Sent/Failed accumulate as
// the worker processes the fan-out, so progress is readable mid-flight.
type Broadcast struct {
	ID             int64
	Text           string
	AudienceLabel  string
	RecipientCount int
	SentCount      int
	FailedCount    int
	Status         BroadcastStatus
	CreatedAt      int64
	UpdatedAt      int64
}

// BroadcastStore persists broadcasts and their progress checkpoints.
type BroadcastStore interface {
	CreateBroadcast(ctx context.Context, b *Broadcast) (*Broadcast, error)
	GetBroadcast(ctx context.Context, id int64) (*Broadcast, error)
	ListBroadcasts(ctx context.Context) ([]*Broadcast, error)
	UpdateBroadcastStatus(ctx context.Context, id int64, status BroadcastStatus) (*Broadcast, error)
	// IncrementBroadcastProgress is the checkpoint write issued after each
	// recipient: it must be safe to call repeatedly if the worker restarts
	// mid-run (checkpoint column only advances, never resets).
	IncrementBroadcastProgress(ctx context.Context, id int64, sentDelta, failedDelta int) (*Broadcast, error)
}

func (s *Store) CreateBroadcast(ctx context.Context, b *Broadcast) (*Broadcast, error) {
	return s.driver.CreateBroadcast(ctx, b)
}

func (s *Store) GetBroadcast(ctx context.Context, id int64) (*Broadcast, error) {
	return s.driver.GetBroadcast(ctx, id)
}

func (s *Store) ListBroadcasts(ctx context.Context) ([]*Broadcast, error) {
	return s.driver.ListBroadcasts(ctx)
}

func (s *Store) UpdateBroadcastStatus(ctx context.Context, id int64, status BroadcastStatus) (*Broadcast, error) {
	return s.driver.UpdateBroadcastStatus(ctx, id, status)
}

func (s *Store) IncrementBroadcastProgress(ctx context.Context, id int64, sentDelta, failedDelta int) (*Broadcast, error) {
	return s.driver.IncrementBroadcastProgress(ctx, id, sentDelta, failedDelta)
}
