// Package memory implements the sliding conversation-context window and
// recursive summarization with a message-id high-water mark.
package memory

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/llmclient"
	"github.com/nadlanit/concierge/internal/store"
)

const lockMapCapacity = 1000

const summarizePrompt = `You maintain a running summary of a customer conversation for a small
business's chat assistant. Merge the prior summary with the new messages
below into one updated summary.

Rules:
- Capture customer preferences, requests, and context useful for continuity.
- Never include business facts such as prices, hours, or the address — those
  always come from the knowledge base, not from memory.
- Keep it concise: a few sentences, not a transcript.

Prior summary:
%s

New messages:
%s`

// Summarizer runs the bounded, per-user-locked summarization pipeline.
type Summarizer struct {
	store     *store.Store
	llm       *llmclient.Client
	threshold int

	locks *lockMap
}

func NewSummarizer(s *store.Store, llm *llmclient.Client, threshold int) (*Summarizer, error) {
	locks, err := newLockMap(lockMapCapacity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create summarization lock map")
	}
	return &Summarizer{store: s, llm: llm, threshold: threshold, locks: locks}, nil
}

// UnsummarizedCount is robust to deletion of older rows: it counts by
// message id relative to the high-water mark, not by a stored counter.
func (s *Summarizer) UnsummarizedCount(ctx context.Context, userID string) (int, error) {
	summary, err := s.store.GetSummary(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to load summary")
	}
	hwm := int64(0)
	if summary != nil {
		hwm = summary.LastSummarizedMessageID
	}
	return s.store.CountMessagesAfter(ctx, userID, hwm)
}

// MaybeSummarize attempts a non-blocking per-user lock, then runs the
// threshold check and merge. Intended to be launched fire-and-forget after
// every assistant reply.
func (s *Summarizer) MaybeSummarize(ctx context.Context, userID string) error {
	mu, acquired := s.locks.tryLock(userID)
	if !acquired {
		return nil
	}
	defer s.locks.unlock(userID, mu)

	count, err := s.UnsummarizedCount(ctx, userID)
	if err != nil {
		return err
	}
	if count < s.threshold {
		return nil
	}

	prior, err := s.store.GetSummary(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "failed to load prior summary")
	}
	hwm := int64(0)
	priorText := "(none yet)"
	priorCount := 0
	if prior != nil {
		hwm = prior.LastSummarizedMessageID
		priorText = prior.SummaryText
		priorCount = prior.CumulativeMessageCount
	}

	messages, err := s.store.ListMessages(ctx, &store.FindMessage{UserID: &userID, AfterID: &hwm, Limit: &s.threshold})
	if err != nil {
		return errors.Wrap(err, "failed to load unsummarized messages")
	}
	if len(messages) == 0 {
		return nil
	}

	newText := renderMessages(messages)
	prompt := fmt.Sprintf(summarizePrompt, priorText, newText)

	reply, err := s.llm.Chat(ctx, []llmclient.Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: "Produce the updated summary now, as plain text, no preamble."},
	})
	if err != nil {
		// Provider failure: leave the high-water mark untouched so the
		// same window is retried on the next trigger.
		return nil
	}

	newHWM := messages[len(messages)-1].ID
	_, err = s.store.UpsertSummary(ctx, &store.UpsertSummary{
		UserID:                  userID,
		SummaryText:             reply,
		CumulativeMessageCount:  priorCount + len(messages),
		LastSummarizedMessageID: newHWM,
	})
	return errors.Wrap(err, "failed to persist summary")
}

func renderMessages(messages []*store.Message) string {
	out := ""
	for _, m := range messages {
		out += fmt.Sprintf("%s: %s\n", m.Role, m.Text)
	}
	return out
}

// RecentHistory returns the last limit messages for userID, in
// chronological order, for the LLM Pipeline's sliding context window.
func (s *Summarizer) RecentHistory(ctx context.Context, userID string, limit int) ([]*store.Message, error) {
	return s.store.ListRecentMessages(ctx, userID, limit)
}
