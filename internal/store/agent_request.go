package store

import "context"

// AgentRequestStatus is the triage state of an escalation to a human operator.
type AgentRequestStatus string

const (
	AgentRequestPending   AgentRequestStatus = "pending"
	AgentRequestHandled   AgentRequestStatus = "handled"
	AgentRequestDismissed AgentRequestStatus = "dismissed"
)

// AgentRequest is a human-escalation record: missing knowledge, an explicit
// handoff request, or a triaged appointment-cancellation confirmation.
type AgentRequest struct {
	ID             int64
	UserID         string
	Username       string
	PlatformHandle string
	Reason         string
	Status         AgentRequestStatus
	CreatedAt      int64
	HandledAt      *int64
}

// FindAgentRequest is the find condition for AgentRequest.
type FindAgentRequest struct {
	Status *AgentRequestStatus
}

// AgentRequestStore persists human-escalation records.
type AgentRequestStore interface {
	CreateAgentRequest(ctx context.Context, r *AgentRequest) (*AgentRequest, error)
	GetAgentRequest(ctx context.Context, id int64) (*AgentRequest, error)
	ListAgentRequests(ctx context.Context, find *FindAgentRequest) ([]*AgentRequest, error)
	UpdateAgentRequestStatus(ctx context.Context, id int64, status AgentRequestStatus) (*AgentRequest, error)
}

func (s *Store) CreateAgentRequest(ctx context.Context, r *AgentRequest) (*AgentRequest, error) {
	return s.driver.CreateAgentRequest(ctx, r)
}

func (s *Store) GetAgentRequest(ctx context.Context, id int64) (*AgentRequest, error) {
	return s.driver.GetAgentRequest(ctx, id)
}

func (s *Store) ListAgentRequests(ctx context.Context, find *FindAgentRequest) ([]*AgentRequest, error) {
	return s.driver.ListAgentRequests(ctx, find)
}

func (s *Store) UpdateAgentRequestStatus(ctx context.Context, id int64, status AgentRequestStatus) (*AgentRequest, error) {
	return s.driver.UpdateAgentRequestStatus(ctx, id, status)
}
