package store

import "context"

// UnansweredQuestionStatus tracks whether an admin has triaged a knowledge gap.
type UnansweredQuestionStatus string

const (
	UnansweredOpen     UnansweredQuestionStatus = "open"
	UnansweredResolved UnansweredQuestionStatus = "resolved"
)

// UnansweredQuestion is logged whenever the LLM Pipeline's quality check
// fails and the customer-facing answer falls back, feeding the admin's
// Knowledge Gaps view.
type UnansweredQuestion struct {
	ID         int64
	UserID     string
	Username   string
	Question   string
	Status     UnansweredQuestionStatus
	CreatedAt  int64
	ResolvedAt *int64
}

// FindUnansweredQuestion is the find condition for UnansweredQuestion.
type FindUnansweredQuestion struct {
	Status *UnansweredQuestionStatus
}

// UnansweredQuestionStore persists knowledge-gap records.
type UnansweredQuestionStore interface {
	CreateUnansweredQuestion(ctx context.Context, q *UnansweredQuestion) (*UnansweredQuestion, error)
	ListUnansweredQuestions(ctx context.Context, find *FindUnansweredQuestion) ([]*UnansweredQuestion, error)
	ResolveUnansweredQuestion(ctx context.Context, id int64) (*UnansweredQuestion, error)
}

func (s *Store) CreateUnansweredQuestion(ctx context.Context, q *UnansweredQuestion) (*UnansweredQuestion, error) {
	return s.driver.CreateUnansweredQuestion(ctx, q)
}

func (s *Store) ListUnansweredQuestions(ctx context.Context, find *FindUnansweredQuestion) ([]*UnansweredQuestion, error) {
	return s.driver.ListUnansweredQuestions(ctx, find)
}

func (s *Store) ResolveUnansweredQuestion(ctx context.Context, id int64) (*UnansweredQuestion, error) {
	return s.driver.ResolveUnansweredQuestion(ctx, id)
}
