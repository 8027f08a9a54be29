package broadcast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadlanit/concierge/internal/store"
)

// fakeDriver implements store.Driver by embedding the nil interface and
// overriding only SetSubscribed, the one method deliverOne's block-handling
// path calls.
type fakeDriver struct {
	store.Driver
	unsubscribed []string
}

func (f *fakeDriver) SetSubscribed(_ context.Context, userID string, subscribed bool) (*store.Subscription, error) {
	if !subscribed {
		f.unsubscribed = append(f.unsubscribed, userID)
	}
	return &store.Subscription{UserID: userID, Subscribed: subscribed}, nil
}

type fakeSender struct {
	calls int
	errs  []error // returned in order, one per call; nil once exhausted
}

func (f *fakeSender) Send(_ context.Context, _, _ string) error {
	var err error
	if f.calls < len(f.errs) {
		err = f.errs[f.calls]
	}
	f.calls++
	return err
}

func TestDeliverOne_Success(t *testing.T) {
	w := &Worker{store: store.New(&fakeDriver{}), sender: &fakeSender{}}
	outcome := w.deliverOne(context.Background(), "user-1", "hello")
	assert.Equal(t, outcomeSent, outcome)
}

func TestDeliverOne_PlainErrorIsTreatedAsTransientFailure(t *testing.T) {
	w := &Worker{store: store.New(&fakeDriver{}), sender: &fakeSender{errs: []error{errors.New("boom")}}}
	outcome := w.deliverOne(context.Background(), "user-1", "hello")
	assert.Equal(t, outcomeFailed, outcome)
}

func TestDeliverOne_BlockedUnsubscribes(t *testing.T) {
	driver := &fakeDriver{}
	w := &Worker{store: store.New(driver), sender: &fakeSender{errs: []error{&SendError{Kind: ErrBlocked, Err: errors.New("blocked")}}}}

	outcome := w.deliverOne(context.Background(), "user-1", "hello")

	assert.Equal(t, outcomeUnsubscribed, outcome)
	assert.Equal(t, []string{"user-1"}, driver.unsubscribed)
}

func TestDeliverOne_RateLimitedRetriesOnce(t *testing.T) {
	sender := &fakeSender{errs: []error{&SendError{Kind: ErrRateLimited, RetryAfter: time.Millisecond, Err: errors.New("slow down")}, nil}}
	w := &Worker{store: store.New(&fakeDriver{}), sender: sender}

	outcome := w.deliverOne(context.Background(), "user-1", "hello")

	assert.Equal(t, outcomeSent, outcome)
	assert.Equal(t, 2, sender.calls)
}

func TestDeliverOne_RateLimitedRetryAlsoFails(t *testing.T) {
	sender := &fakeSender{errs: []error{
		&SendError{Kind: ErrRateLimited, Err: errors.New("slow down")},
		&SendError{Kind: ErrRateLimited, Err: errors.New("still slow")},
	}}
	w := &Worker{store: store.New(&fakeDriver{}), sender: sender}

	outcome := w.deliverOne(context.Background(), "user-1", "hello")

	assert.Equal(t, outcomeFailed, outcome)
}

func TestDeliverOne_RateLimitedRetryThatComesBackBlockedUnsubscribes(t *testing.T) {
	driver := &fakeDriver{}
	sender := &fakeSender{errs: []error{
		&SendError{Kind: ErrRateLimited, RetryAfter: time.Millisecond, Err: errors.New("slow down")},
		&SendError{Kind: ErrBlocked, Err: errors.New("blocked")},
	}}
	w := &Worker{store: store.New(driver), sender: sender}

	outcome := w.deliverOne(context.Background(), "user-1", "hello")

	assert.Equal(t, outcomeUnsubscribed, outcome)
	assert.Equal(t, []string{"user-1"}, driver.unsubscribed)
}

func TestSendError_UnwrapAndError(t *testing.T) {
	inner := errors.New("root cause")
	sendErr := &SendError{Kind: ErrTransient, Err: inner}

	assert.Equal(t, "root cause", sendErr.Error())
	require.ErrorIs(t, sendErr, inner)
}
