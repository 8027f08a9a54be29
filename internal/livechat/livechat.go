// Package livechat implements the human-takeover state machine: each user
// is either BOT_ACTIVE or LIVE_CHAT, backed by the store's single-active-
// session-per-user invariant.
package livechat

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

const (
	handoffMessage = "You're now chatting with our team. We'll be with you shortly."
	resumedMessage = "Thanks for your patience — you're now back to chatting with our assistant."
)

// Notifier delivers a message to a user on the chat channel. The telegram
// adapter implements this; the admin panel's broadcast/live-chat handlers
// use the same interface so the takeover flow never depends on a transport.
type Notifier interface {
	Send(ctx context.Context, userID, text string) error
}

// Result reports the outcome of a takeover transition for the caller to
// render, distinguishing idempotent no-ops from actual transitions.
type Result struct {
	AlreadyActive bool
	AlreadyEnded  bool
	NotifyFailed  bool
	Session       *store.LiveChatSession
}

type Service struct {
	store    *store.Store
	notifier Notifier
}

func New(s *store.Store, notifier Notifier) *Service {
	return &Service{store: s, notifier: notifier}
}

// Start begins a live-chat takeover for userID. Idempotent: if a session is
// already active, it reports AlreadyActive rather than starting a second
// one. The session is persisted first and the transition message is sent
// after it; a send failure does not undo the takeover — the operator is
// already watching, so a delivery failure shouldn't block them.
func (s *Service) Start(ctx context.Context, userID, username string) (*Result, error) {
	existing, err := s.store.GetActiveLiveChatSession(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existing live-chat session")
	}
	if existing != nil {
		return &Result{AlreadyActive: true, Session: existing}, nil
	}

	session, err := s.store.StartLiveChatSession(ctx, userID, username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to start live-chat session")
	}

	notifyFailed := false
	if err := s.notifier.Send(ctx, userID, handoffMessage); err != nil {
		notifyFailed = true
	} else {
		_, _ = s.store.AppendMessage(ctx, &store.Message{UserID: userID, Role: store.RoleAssistant, Text: handoffMessage})
	}

	return &Result{Session: session, NotifyFailed: notifyFailed}, nil
}

// End ends the active live-chat session for userID, notifying the user
// that the bot has resumed before deactivating the session — so a crash
// between the two never leaves the user silently unowned by the bot.
func (s *Service) End(ctx context.Context, userID string) (*Result, error) {
	existing, err := s.store.GetActiveLiveChatSession(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check active live-chat session")
	}
	if existing == nil {
		return &Result{AlreadyEnded: true}, nil
	}

	notifyFailed := false
	if err := s.notifier.Send(ctx, userID, resumedMessage); err != nil {
		notifyFailed = true
	} else {
		_, _ = s.store.AppendMessage(ctx, &store.Message{UserID: userID, Role: store.RoleAssistant, Text: resumedMessage})
	}

	session, err := s.store.EndLiveChatSession(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to end live-chat session")
	}

	return &Result{Session: session, NotifyFailed: notifyFailed}, nil
}

// Send relays an operator's message to the user, and requires an active
// session: the admin panel is expected to check IsActive first, but this
// guards the invariant regardless of caller.
func (s *Service) Send(ctx context.Context, userID, text string) error {
	if text == "" {
		return errors.New("message text must not be empty")
	}
	active, err := s.IsActive(ctx, userID)
	if err != nil {
		return err
	}
	if !active {
		return errors.New("no active live-chat session for user")
	}
	if err := s.notifier.Send(ctx, userID, text); err != nil {
		return errors.Wrap(err, "failed to deliver live-chat message")
	}
	_, err = s.store.AppendMessage(ctx, &store.Message{UserID: userID, Role: store.RoleAssistant, Text: text})
	return errors.Wrap(err, "failed to persist live-chat message")
}

// IsActive reports whether userID currently has an active takeover
// session — the orchestrator's guard chain calls this before routing a
// message to the bot.
func (s *Service) IsActive(ctx context.Context, userID string) (bool, error) {
	session, err := s.store.GetActiveLiveChatSession(ctx, userID)
	if err != nil {
		return false, errors.Wrap(err, "failed to check live-chat status")
	}
	return session != nil, nil
}

// SweepStartup ends every session left active from a prior process run.
// Only ever called once, at bot startup.
func (s *Service) SweepStartup(ctx context.Context) (int, error) {
	return s.store.EndAllActiveLiveChatSessions(ctx)
}
