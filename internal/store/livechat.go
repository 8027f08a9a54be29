package store

import "context"

// LiveChatSession is a human-takeover session. At most one active row per
// user_id: StartLiveChatSession ends any stale active row before inserting.
type LiveChatSession struct {
	ID        int64
	UserID    string
	Username  string
	Active    bool
	StartedAt int64
	EndedAt   *int64
}

// LiveChatStore persists live-chat takeover sessions.
type LiveChatStore interface {
	// StartLiveChatSession ends any existing active session for userID and
	// inserts a new active one, in a single transaction.
	StartLiveChatSession(ctx context.Context, userID, username string) (*LiveChatSession, error)
	// EndLiveChatSession marks the active session for userID ended, if any.
	EndLiveChatSession(ctx context.Context, userID string) (*LiveChatSession, error)
	GetActiveLiveChatSession(ctx context.Context, userID string) (*LiveChatSession, error)
	ListActiveLiveChatSessions(ctx context.Context) ([]*LiveChatSession, error)
	// EndAllActiveLiveChatSessions is the startup sweep: end every session
	// left active from a prior process run.
	EndAllActiveLiveChatSessions(ctx context.Context) (int, error)
}

func (s *Store) StartLiveChatSession(ctx context.Context, userID, username string) (*LiveChatSession, error) {
	return s.driver.StartLiveChatSession(ctx, userID, username)
}

func (s *Store) EndLiveChatSession(ctx context.Context, userID string) (*LiveChatSession, error) {
	return s.driver.EndLiveChatSession(ctx, userID)
}

func (s *Store) GetActiveLiveChatSession(ctx context.Context, userID string) (*LiveChatSession, error) {
	return s.driver.GetActiveLiveChatSession(ctx, userID)
}

func (s *Store) ListActiveLiveChatSessions(ctx context.Context) ([]*LiveChatSession, error) {
	return s.driver.ListActiveLiveChatSessions(ctx)
}

func (s *Store) EndAllActiveLiveChatSessions(ctx context.Context) (int, error) {
	return s.driver.EndAllActiveLiveChatSessions(ctx)
}
