package store

import "context"

// Subscription tracks whether a user accepts broadcast messages. A row is
// only written by SetSubscribed; a user with no row counts as subscribed.
type Subscription struct {
	UserID     string
	Subscribed bool
	UpdatedAt  int64
}

// SubscriptionStore persists broadcast opt-in/opt-out state.
type SubscriptionStore interface {
	GetSubscription(ctx context.Context, userID string) (*Subscription, error)
	SetSubscribed(ctx context.Context, userID string, subscribed bool) (*Subscription, error)
	ListSubscribedUserIDs(ctx context.Context) ([]string, error)
	CountSubscribed(ctx context.Context) (int, error)
}

func (s *Store) GetSubscription(ctx context.Context, userID string) (*Subscription, error) {
	return s.driver.GetSubscription(ctx, userID)
}

func (s *Store) SetSubscribed(ctx context.Context, userID string, subscribed bool) (*Subscription, error) {
	return s.driver.SetSubscribed(ctx, userID, subscribed)
}

func (s *Store) ListSubscribedUserIDs(ctx context.Context) ([]string, error) {
	return s.driver.ListSubscribedUserIDs(ctx)
}

func (s *Store) CountSubscribed(ctx context.Context) (int, error) {
	return s.driver.CountSubscribed(ctx)
}
