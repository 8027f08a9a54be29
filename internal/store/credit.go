package store

import "context"

// CreditType distinguishes the two sides minted when a referral completes.
type CreditType string

const (
	CreditReferrer CreditType = "referrer"
	CreditReferred CreditType = "referred"
)

// Credit is one redeemable unit granted to a user, either as the referrer
// or the referred party of a completed referral.
type Credit struct {
	ID        int64
	UserID    string
	Amount    float64
	Type      CreditType
	Reason    string
	Used      bool
	ExpiresAt *int64
	CreatedAt int64
}

// FindCredit is the find condition for Credit.
type FindCredit struct {
	UserID     *string
	UnusedOnly bool
}

// CreditStore persists referral credits.
type CreditStore interface {
	CreateCredit(ctx context.Context, c *Credit) (*Credit, error)
	ListCredits(ctx context.Context, find *FindCredit) ([]*Credit, error)
	MarkCreditUsed(ctx context.Context, id int64) (*Credit, error)
	SumAvailableCredits(ctx context.Context, userID string) (float64, error)
}

func (s *Store) CreateCredit(ctx context.Context, c *Credit) (*Credit, error) {
	return s.driver.CreateCredit(ctx, c)
}

func (s *Store) ListCredits(ctx context.Context, find *FindCredit) ([]*Credit, error) {
	return s.driver.ListCredits(ctx, find)
}

func (s *Store) MarkCreditUsed(ctx context.Context, id int64) (*Credit, error) {
	return s.driver.MarkCreditUsed(ctx, id)
}

func (s *Store) SumAvailableCredits(ctx context.Context, userID string) (float64, error) {
	return s.driver.SumAvailableCredits(ctx, userID)
}
