package store

import "context"

// ReferralStatus is the lifecycle state of a referral.
type ReferralStatus string

const (
	ReferralPending   ReferralStatus = "pending"
	ReferralCompleted ReferralStatus = "completed"
)

// Referral links a referrer to at most one referred user. ReferredID is
// unique across referrals (no multi-attribution); self-referral is
// rejected at the service layer.
type Referral struct {
	ID          int64
	ReferrerID  string
	ReferredID  *string
	Code        string
	Status      ReferralStatus
	CreatedAt   int64
	CompletedAt *int64
	Sent        bool
}

// ReferralStore persists referral codes and their registration/completion lifecycle.
type ReferralStore interface {
	CreateReferral(ctx context.Context, r *Referral) (*Referral, error)
	GetReferralByReferrer(ctx context.Context, referrerID string) (*Referral, error)
	GetReferralByCode(ctx context.Context, code string) (*Referral, error)
	GetReferralByReferred(ctx context.Context, referredID string) (*Referral, error)
	// RegisterReferral atomically attaches referredID to the referral
	// identified by code, enforcing: code exists, referrer != referredID,
	// referred_id is currently null, and referredID has no other referral
	// row. Returns (false, nil) when any precondition fails (no-op).
	RegisterReferral(ctx context.Context, code, referredID string) (bool, error)
	// CompleteReferral atomically marks the referral completed and mints
	// the two credit rows in a single transaction.
	CompleteReferral(ctx context.Context, referredID string, referrerCredit, referredCredit *Credit) (*Referral, error)
	MarkReferralSent(ctx context.Context, referralID int64) (bool, error)
	UnmarkReferralSent(ctx context.Context, referralID int64) error
	ListReferrals(ctx context.Context) ([]*Referral, error)
	TopReferrers(ctx context.Context, limit int) ([]*ReferrerStats, error)
}

// ReferrerStats is an aggregate row for the admin referrals leaderboard.
type ReferrerStats struct {
	ReferrerID      string
	CompletedCount  int
	PendingCount    int
}

func (s *Store) CreateReferral(ctx context.Context, r *Referral) (*Referral, error) {
	return s.driver.CreateReferral(ctx, r)
}

func (s *Store) GetReferralByReferrer(ctx context.Context, referrerID string) (*Referral, error) {
	return s.driver.GetReferralByReferrer(ctx, referrerID)
}

func (s *Store) GetReferralByCode(ctx context.Context, code string) (*Referral, error) {
	return s.driver.GetReferralByCode(ctx, code)
}

func (s *Store) GetReferralByReferred(ctx context.Context, referredID string) (*Referral, error) {
	return s.driver.GetReferralByReferred(ctx, referredID)
}

func (s *Store) RegisterReferral(ctx context.Context, code, referredID string) (bool, error) {
	return s.driver.RegisterReferral(ctx, code, referredID)
}

func (s *Store) CompleteReferral(ctx context.Context, referredID string, referrerCredit, referredCredit *Credit) (*Referral, error) {
	return s.driver.CompleteReferral(ctx, referredID, referrerCredit, referredCredit)
}

func (s *Store) MarkReferralSent(ctx context.Context, referralID int64) (bool, error) {
	return s.driver.MarkReferralSent(ctx, referralID)
}

func (s *Store) UnmarkReferralSent(ctx context.Context, referralID int64) error {
	return s.driver.UnmarkReferralSent(ctx, referralID)
}

func (s *Store) ListReferrals(ctx context.Context) ([]*Referral, error) {
	return s.driver.ListReferrals(ctx)
}

func (s *Store) TopReferrers(ctx context.Context, limit int) ([]*ReferrerStats, error) {
	return s.driver.TopReferrers(ctx, limit)
}
