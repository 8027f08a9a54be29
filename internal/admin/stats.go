package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nadlanit/concierge/internal/store"
)

type statsResponse struct {
	SubscribedUsers      int `json:"subscribed_users"`
	ActiveLiveChats      int `json:"active_live_chats"`
	OpenAgentRequests    int `json:"open_agent_requests"`
	OpenKnowledgeGaps    int `json:"open_knowledge_gaps"`
	PendingAppointments  int `json:"pending_appointments"`
	CompletedReferrals   int `json:"completed_referrals"`
}

func (s *Server) handleStatsJSON(c echo.Context) error {
	ctx := c.Request().Context()

	subs, err := s.store.CountSubscribed(ctx)
	if err != nil {
		return err
	}
	activeSessions, err := s.store.ListActiveLiveChatSessions(ctx)
	if err != nil {
		return err
	}
	pendingStatus, openStatus := store.AgentRequestPending, store.UnansweredOpen
	pendingRequests, err := s.store.ListAgentRequests(ctx, &store.FindAgentRequest{Status: &pendingStatus})
	if err != nil {
		return err
	}
	gaps, err := s.store.ListUnansweredQuestions(ctx, &store.FindUnansweredQuestion{Status: &openStatus})
	if err != nil {
		return err
	}
	appts, err := s.store.ListAppointments(ctx, nil)
	if err != nil {
		return err
	}
	referrals, err := s.store.ListReferrals(ctx)
	if err != nil {
		return err
	}

	pendingAppts, completedReferrals := 0, 0
	for _, a := range appts {
		if a.Status == "pending" {
			pendingAppts++
		}
	}
	for _, r := range referrals {
		if r.Status == "completed" {
			completedReferrals++
		}
	}

	return c.JSON(http.StatusOK, statsResponse{
		SubscribedUsers:     subs,
		ActiveLiveChats:     len(activeSessions),
		OpenAgentRequests:   len(pendingRequests),
		OpenKnowledgeGaps:   len(gaps),
		PendingAppointments: pendingAppts,
		CompletedReferrals:  completedReferrals,
	})
}
