// Package broadcast runs the fan-out worker that delivers one admin
// message to every subscribed user, checkpointing progress so a restart
// mid-run never loses sent/failed counts.
package broadcast

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/nadlanit/concierge/internal/store"
)

// ErrKind classifies why a send failed, so the worker knows whether to
// retry, unsubscribe the recipient, or just record a failure.
type ErrKind int

const (
	ErrTransient ErrKind = iota
	ErrBlocked           // recipient blocked the bot or the account no longer exists
	ErrRateLimited
)

// SendError carries the classification a Sender's error maps to. A plain
// (non-SendError) error from Send is treated as ErrTransient.
type SendError struct {
	Kind       ErrKind
	RetryAfter time.Duration
	Err        error
}

func (e *SendError) Error() string { return e.Err.Error() }
func (e *SendError) Unwrap() error { return e.Err }

// Sender delivers one broadcast message to one recipient.
type Sender interface {
	Send(ctx context.Context, userID, text string) error
}

const (
	perRecipientDelay = 50 * time.Millisecond
	checkpointEvery   = 10
)

type Worker struct {
	store  *store.Store
	sender Sender
}

func NewWorker(s *store.Store, sender Sender) *Worker {
	return &Worker{store: s, sender: sender}
}

// Enqueue records the current subscribed-audience size and creates a queued
// broadcast row; Run (typically launched in its own goroutine) does the
// actual sending, to the subscriber list as it stands when Run starts.
func (w *Worker) Enqueue(ctx context.Context, text string) (*store.Broadcast, error) {
	recipients, err := w.store.ListSubscribedUserIDs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list subscribed recipients")
	}
	b, err := w.store.CreateBroadcast(ctx, &store.Broadcast{
		Text:           text,
		AudienceLabel:  "all subscribers",
		RecipientCount: len(recipients),
		Status:         store.BroadcastQueued,
	})
	return b, errors.Wrap(err, "failed to create broadcast")
}

// Run processes recipients one at a time, in its own loop: a per-recipient
// delay, block-detection auto-unsubscribe, a single sleep-and-retry on
// rate limiting, and a checkpoint write every checkpointEvery recipients
// (plus a final one) so the sent/failed counts survive a crash mid-run.
func (w *Worker) Run(ctx context.Context, broadcastID int64) error {
	b, err := w.store.GetBroadcast(ctx, broadcastID)
	if err != nil {
		return errors.Wrap(err, "failed to load broadcast")
	}
	if b == nil {
		return errors.New("broadcast not found")
	}

	recipients, err := w.store.ListSubscribedUserIDs(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list subscribed recipients")
	}

	if _, err := w.store.UpdateBroadcastStatus(ctx, broadcastID, store.BroadcastSending); err != nil {
		return errors.Wrap(err, "failed to mark broadcast sending")
	}

	pacer := rate.NewLimiter(rate.Every(perRecipientDelay), 1)

	sentDelta, failedDelta := 0, 0
	flush := func() error {
		if sentDelta == 0 && failedDelta == 0 {
			return nil
		}
		if _, err := w.store.IncrementBroadcastProgress(ctx, broadcastID, sentDelta, failedDelta); err != nil {
			return err
		}
		sentDelta, failedDelta = 0, 0
		return nil
	}

	for i, userID := range recipients {
		if err := pacer.Wait(ctx); err != nil {
			_ = flush()
			_, _ = w.store.UpdateBroadcastStatus(ctx, broadcastID, store.BroadcastFailed)
			return err
		}

		switch w.deliverOne(ctx, userID, b.Text) {
		case outcomeSent:
			sentDelta++
		case outcomeUnsubscribed, outcomeFailed:
			failedDelta++
		}

		if (i+1)%checkpointEvery == 0 {
			if err := flush(); err != nil {
				return errors.Wrap(err, "failed to checkpoint broadcast progress")
			}
		}
	}

	if err := flush(); err != nil {
		return errors.Wrap(err, "failed to checkpoint final broadcast progress")
	}
	_, err = w.store.UpdateBroadcastStatus(ctx, broadcastID, store.BroadcastCompleted)
	return errors.Wrap(err, "failed to mark broadcast completed")
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeUnsubscribed
	outcomeFailed
)

func (w *Worker) deliverOne(ctx context.Context, userID, text string) outcome {
	out, rateLimitErr := w.classify(ctx, userID, w.sender.Send(ctx, userID, text))
	if rateLimitErr == nil {
		return out
	}

	wait := rateLimitErr.RetryAfter
	if wait <= 0 {
		wait = time.Second
	}
	time.Sleep(wait)

	out, _ = w.classify(ctx, userID, w.sender.Send(ctx, userID, text))
	return out
}

// classify turns a send attempt's error into an outcome. A non-nil
// *SendError return means the attempt hit a rate limit and deliverOne
// should retry once — classifying the retry's own result the same way,
// so a retry that comes back blocked still unsubscribes the user instead
// of being counted as a plain failure.
func (w *Worker) classify(ctx context.Context, userID string, err error) (outcome, *SendError) {
	if err == nil {
		return outcomeSent, nil
	}

	var sendErr *SendError
	if !errors.As(err, &sendErr) {
		return outcomeFailed, nil
	}

	switch sendErr.Kind {
	case ErrBlocked:
		_, _ = w.store.SetSubscribed(ctx, userID, false)
		return outcomeUnsubscribed, nil
	case ErrRateLimited:
		return outcomeFailed, sendErr
	default:
		return outcomeFailed, nil
	}
}
