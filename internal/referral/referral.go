// Package referral implements code generation, registration, and the
// dual-credit completion lifecycle of the referral program.
package referral

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/livechat"
	"github.com/nadlanit/concierge/internal/store"
)

// CodePrefix marks the deep-link payload so /start handling can
// distinguish a referral code from an ordinary bot-start invocation.
const CodePrefix = "REF_"

const codeRetries = 5

type Service struct {
	store          *store.Store
	notifier       livechat.Notifier
	creditAmount   float64
	creditLifetime time.Duration
	botUsername    string
}

func New(s *store.Store, notifier livechat.Notifier, creditAmount float64, creditExpiryDays int, botUsername string) *Service {
	return &Service{
		store:          s,
		notifier:       notifier,
		creditAmount:   creditAmount,
		creditLifetime: time.Duration(creditExpiryDays) * 24 * time.Hour,
		botUsername:    botUsername,
	}
}

// GenerateCode returns userID's referral code, creating one on first call
// and returning the existing one on every subsequent call (idempotent).
func (s *Service) GenerateCode(ctx context.Context, userID string) (*store.Referral, error) {
	existing, err := s.store.GetReferralByReferrer(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up existing referral code")
	}
	if existing != nil {
		return existing, nil
	}

	for attempt := 0; attempt < codeRetries; attempt++ {
		code := newCode()
		created, err := s.store.CreateReferral(ctx, &store.Referral{ReferrerID: userID, Code: code, Status: store.ReferralPending})
		if err == nil {
			return created, nil
		}
		if !isUniqueViolation(err) {
			return nil, errors.Wrap(err, "failed to create referral code")
		}
	}
	return nil, errors.New("failed to generate a unique referral code after retries")
}

func newCode() string {
	return CodePrefix + strings.ToUpper(shortuuid.New())[:8]
}

// isUniqueViolation treats an error as a code collision when its message
// mentions "unique", since sqlite driver error types aren't asserted here;
// any other failure is not retried and is returned at once.
func isUniqueViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}

// DeepLink builds the /start payload URL for sharing, falling back to the
// bare code when no bot username is configured.
func (s *Service) DeepLink(code string) string {
	if s.botUsername == "" {
		return code
	}
	return fmt.Sprintf("https://t.me/%s?start=%s", s.botUsername, code)
}

// SendCode generates (or reuses) userID's code, marks it sent, and
// delivers the deep link, unmarking sent on delivery failure so a retry
// is possible.
func (s *Service) SendCode(ctx context.Context, userID string) error {
	referral, err := s.GenerateCode(ctx, userID)
	if err != nil {
		return err
	}

	marked, err := s.store.MarkReferralSent(ctx, referral.ID)
	if err != nil {
		return errors.Wrap(err, "failed to mark referral sent")
	}
	if !marked {
		// Already sent; nothing to do.
		return nil
	}

	text := fmt.Sprintf("Share this link with friends: %s", s.DeepLink(referral.Code))
	if err := s.notifier.Send(ctx, userID, text); err != nil {
		if unmarkErr := s.store.UnmarkReferralSent(ctx, referral.ID); unmarkErr != nil {
			return errors.Wrap(unmarkErr, "failed to deliver referral code and failed to unmark sent")
		}
		return errors.Wrap(err, "failed to deliver referral code")
	}
	return nil
}

// ExtractCode parses a /start payload, returning the referral code if it
// has the referral prefix.
func ExtractCode(startPayload string) (string, bool) {
	if strings.HasPrefix(startPayload, CodePrefix) && len(startPayload) >= len(CodePrefix)+6 {
		return startPayload, true
	}
	return "", false
}

// Register attaches a new user to the referrer identified by code. A
// false result means a precondition failed (unknown code, self-referral,
// already-attributed user) and is not an error.
func (s *Service) Register(ctx context.Context, code, referredID string) (bool, error) {
	ok, err := s.store.RegisterReferral(ctx, code, referredID)
	return ok, errors.Wrap(err, "failed to register referral")
}

// Complete marks referredID's referral completed and mints a credit for
// each side, each worth creditAmount and expiring after creditLifetime.
// A nil result with no error means referredID has no pending referral.
func (s *Service) Complete(ctx context.Context, referredID string) (*store.Referral, error) {
	pending, err := s.store.GetReferralByReferred(ctx, referredID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up referral")
	}
	if pending == nil || pending.Status != store.ReferralPending {
		return nil, nil
	}

	expiresAt := time.Now().Add(s.creditLifetime).Unix()
	referral, err := s.store.CompleteReferral(ctx, referredID,
		&store.Credit{UserID: pending.ReferrerID, Amount: s.creditAmount, Type: store.CreditReferrer, Reason: "referral completed", ExpiresAt: &expiresAt},
		&store.Credit{UserID: referredID, Amount: s.creditAmount, Type: store.CreditReferred, Reason: "signed up via referral", ExpiresAt: &expiresAt},
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to complete referral")
	}
	if referral == nil {
		// Another caller completed it first between the check and the write.
		return nil, nil
	}

	if err := s.notifier.Send(ctx, referral.ReferrerID, fmt.Sprintf("Your referral signed up! You've earned a %.0f credit.", s.creditAmount)); err != nil {
		// Best-effort notification; the credit is already minted.
		return referral, nil
	}
	return referral, nil
}

// HasCode reports whether userID already has a referral code as referrer.
func (s *Service) HasCode(ctx context.Context, userID string) (bool, error) {
	existing, err := s.store.GetReferralByReferrer(ctx, userID)
	if err != nil {
		return false, errors.Wrap(err, "failed to look up referral code")
	}
	return existing != nil, nil
}

// AvailableCredit returns userID's sum of unused, unexpired credits.
func (s *Service) AvailableCredit(ctx context.Context, userID string) (float64, error) {
	total, err := s.store.SumAvailableCredits(ctx, userID)
	return total, errors.Wrap(err, "failed to sum available credits")
}

const (
	engagementShortWindow = 30 * time.Minute
	engagementShortCount  = 10
	engagementLongWindow  = 24 * time.Hour
	engagementLongCount   = 20
)

// CheckEngagement reports whether userID is at or above one of the
// engagement thresholds (10 messages in 30 minutes, or 20 in 24 hours).
// Intended to be scheduled after each general/pricing answer; the
// orchestrator uses the result to prompt a referral share.
func (s *Service) CheckEngagement(ctx context.Context, userID string, now time.Time) (bool, error) {
	shortCount, err := s.store.CountMessagesSince(ctx, userID, now.Add(-engagementShortWindow).Unix())
	if err != nil {
		return false, errors.Wrap(err, "failed to count recent messages")
	}
	if shortCount >= engagementShortCount {
		return true, nil
	}

	longCount, err := s.store.CountMessagesSince(ctx, userID, now.Add(-engagementLongWindow).Unix())
	if err != nil {
		return false, errors.Wrap(err, "failed to count recent messages")
	}
	return longCount >= engagementLongCount, nil
}
