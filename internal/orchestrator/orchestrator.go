// Package orchestrator implements the per-message pipeline: guard chain,
// intent routing, the booking dialog, RAG+LLM invocation, and the
// handoff decision, tying together every other domain service.
package orchestrator

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/config"
	"github.com/nadlanit/concierge/internal/hours"
	"github.com/nadlanit/concierge/internal/intent"
	"github.com/nadlanit/concierge/internal/livechat"
	"github.com/nadlanit/concierge/internal/llmpipeline"
	"github.com/nadlanit/concierge/internal/memory"
	"github.com/nadlanit/concierge/internal/ragindex"
	"github.com/nadlanit/concierge/internal/ratelimit"
	"github.com/nadlanit/concierge/internal/referral"
	"github.com/nadlanit/concierge/internal/store"
)

const vacationMessage = "We're currently closed for vacation. We'll respond as soon as we're back — thank you for your patience."

// Service is the Conversation Orchestrator. It owns no transport; the
// channel adapter hands it Events and relays the returned Reply.
type Service struct {
	store       *store.Store
	rateLimiter *ratelimit.Limiter
	liveChat    *livechat.Service
	hoursResolver *hours.Resolver
	ragManager  *ragindex.Manager
	pipeline    *llmpipeline.Pipeline
	summarizer  *memory.Summarizer
	referrals   *referral.Service
	owner       livechat.Notifier
	ownerChatID string

	contextWindow int
	ragTopK       int

	bookings *bookingSessions
}

type Config struct {
	Store         *store.Store
	RateLimiter   *ratelimit.Limiter
	LiveChat      *livechat.Service
	HoursResolver *hours.Resolver
	RAGManager    *ragindex.Manager
	Pipeline      *llmpipeline.Pipeline
	Summarizer    *memory.Summarizer
	Referrals     *referral.Service
	Owner         livechat.Notifier
	Cfg           *config.Config
}

func New(c Config) *Service {
	return &Service{
		store:         c.Store,
		rateLimiter:   c.RateLimiter,
		liveChat:      c.LiveChat,
		hoursResolver: c.HoursResolver,
		ragManager:    c.RAGManager,
		pipeline:      c.Pipeline,
		summarizer:    c.Summarizer,
		referrals:     c.Referrals,
		owner:         c.Owner,
		ownerChatID:   strconv.FormatInt(c.Cfg.TelegramOwnerChatID, 10),
		contextWindow: c.Cfg.ContextWindowSize,
		ragTopK:       c.Cfg.RAGTopK,
		bookings:      newBookingSessions(),
	}
}

// HandleEvent runs the full guard chain, intent routing, and booking/RAG
// dispatch for one inbound update. A nil Reply means stay silent.
func (s *Service) HandleEvent(ctx context.Context, ev Event) (*Reply, error) {
	now := time.Now()

	liveActive, err := s.liveChat.IsActive(ctx, ev.UserID)
	if err != nil {
		return s.fallbackReply(), nil
	}

	// Guard 1: rate limit, skipped during an active live-chat takeover.
	if !liveActive {
		if ok, msg := s.rateLimiter.Check(ev.UserID, now); !ok {
			return &Reply{Text: msg, Kind: ReplyPlain}, nil
		}
		s.rateLimiter.Record(ev.UserID, now)
	}

	s.persistInbound(ctx, ev)

	// Guard 2: live-chat takeover — the bot goes silent.
	if liveActive {
		return nil, nil
	}

	// /start with a referral code payload.
	if ev.Kind == KindCommand {
		if code, ok := parseStartPayload(ev.Text); ok {
			_, _ = s.referrals.Register(ctx, code, ev.UserID)
		}
	}

	// Menu button press clears any in-flight booking and is routed fresh.
	if ev.Kind == KindMenuButton {
		s.bookings.clear(ev.UserID)
	}

	if ev.Text == "/cancel" {
		s.bookings.clear(ev.UserID)
		return s.persistReply(ctx, ev.UserID, &Reply{Text: "Cancelled.", Kind: ReplyPlain}), nil
	}

	if session, inBooking := s.bookings.get(ev.UserID); inBooking {
		reply, err := s.advanceBooking(ctx, ev, session)
		if err != nil {
			return s.fallbackReply(), nil
		}
		return s.persistReply(ctx, ev.UserID, reply), nil
	}

	// Guard 3: vacation mode, only for booking-start and agent-request paths.
	vac, err := s.store.GetVacationMode(ctx)
	if err != nil {
		return s.fallbackReply(), nil
	}
	vacation := projectVacation(vac)

	if ev.Kind == KindMenuButton && isBookingTrigger(ev.Text) {
		if vacation.active {
			return s.persistReply(ctx, ev.UserID, &Reply{Text: vacationMessage, Kind: ReplyPlain}), nil
		}
		return s.persistReply(ctx, ev.UserID, s.startBooking(ctx, ev)), nil
	}

	classified := intent.Classify(ev.Text)

	switch classified {
	case intent.Greeting:
		return s.persistReply(ctx, ev.UserID, &Reply{Text: greetingReply(ev.Text), Kind: ReplyPlain}), nil
	case intent.Farewell:
		return s.persistReply(ctx, ev.UserID, &Reply{Text: "Goodbye! Reach out any time.", Kind: ReplyPlain}), nil
	case intent.BusinessHours:
		return s.persistReply(ctx, ev.UserID, s.businessHoursReply(ctx, now)), nil
	case intent.AppointmentBooking:
		if vacation.active {
			return s.persistReply(ctx, ev.UserID, &Reply{Text: vacationMessage, Kind: ReplyPlain}), nil
		}
		return s.persistReply(ctx, ev.UserID, &Reply{Text: "Tap the Book Appointment button to get started.", Kind: ReplyBookingMenu}), nil
	case intent.AppointmentCancel:
		return s.persistReply(ctx, ev.UserID, &Reply{Text: "Would you like to cancel your appointment?", Kind: ReplyCancelConfirm}), nil
	case intent.Pricing:
		reply := s.answerWithRAG(ctx, ev, llmpipeline.PricingPrefix+ev.Text, vacation)
		s.maybeCheckEngagement(ctx, ev.UserID, now, reply)
		return s.persistReply(ctx, ev.UserID, reply), nil
	default:
		reply := s.answerWithRAG(ctx, ev, ev.Text, vacation)
		s.maybeCheckEngagement(ctx, ev.UserID, now, reply)
		return s.persistReply(ctx, ev.UserID, reply), nil
	}
}

// HandleCancelConfirm handles the yes/no inline callback following a
// ReplyCancelConfirm prompt.
func (s *Service) HandleCancelConfirm(ctx context.Context, ev Event, confirmed bool) (*Reply, error) {
	if !confirmed {
		return s.persistReply(ctx, ev.UserID, &Reply{Text: "Okay, your appointment is unchanged.", Kind: ReplyPlain}), nil
	}
	if vac, err := s.store.GetVacationMode(ctx); err == nil && projectVacation(vac).active {
		return s.persistReply(ctx, ev.UserID, &Reply{Text: vacationMessage, Kind: ReplyPlain}), nil
	}
	_, err := s.store.CreateAgentRequest(ctx, &store.AgentRequest{
		UserID: ev.UserID, Username: ev.DisplayName, PlatformHandle: ev.PlatformHandle,
		Reason: "confirmed cancellation", Status: store.AgentRequestPending,
	})
	if err != nil {
		return s.fallbackReply(), nil
	}
	s.notifyOwner(ctx, fmt.Sprintf("%s requested to cancel their appointment.", ev.DisplayName))
	return s.persistReply(ctx, ev.UserID, &Reply{Text: "We've flagged your cancellation request to our team.", Kind: ReplyPlain}), nil
}

func (s *Service) answerWithRAG(ctx context.Context, ev Event, query string, vacation vacationStatus) *Reply {
	req, err := s.buildPipelineRequest(ctx, ev, query, vacation)
	if err != nil {
		return s.fallbackReply()
	}

	resp := s.pipeline.Run(ctx, req)
	if resp.Fallback() {
		_ = llmpipeline.RecordUnanswered(ctx, s.store, ev.UserID, ev.DisplayName, ev.Text)
		return s.handoffReply(ctx, ev, resp.FallbackReason)
	}

	return &Reply{Text: resp.Answer, Kind: ReplyFollowUp, FollowUpQuestions: resp.FollowUpQuestions, Sources: resp.Sources}
}

func (s *Service) handoffReply(ctx context.Context, ev Event, reason string) *Reply {
	if reason == "" {
		reason = "RAG could not answer from knowledge base"
	}
	_, err := s.store.CreateAgentRequest(ctx, &store.AgentRequest{
		UserID: ev.UserID, Username: ev.DisplayName, PlatformHandle: ev.PlatformHandle,
		Reason: reason, Status: store.AgentRequestPending,
	})
	if err == nil {
		s.notifyOwner(ctx, fmt.Sprintf("%s needs help — the assistant couldn't answer.", ev.DisplayName))
	}
	return &Reply{Text: llmpipeline.FallbackAnswer, Kind: ReplyPlain}
}

func (s *Service) buildPipelineRequest(ctx context.Context, ev Event, query string, vacation vacationStatus) (*llmpipeline.Request, error) {
	chunks, err := s.ragManager.Retrieve(ctx, query, s.ragTopK)
	if err != nil {
		return nil, errors.Wrap(err, "failed to retrieve context")
	}

	history, err := s.summarizer.RecentHistory(ctx, ev.UserID, s.contextWindow)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load recent history")
	}

	summary, err := s.store.GetSummary(ctx, ev.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load summary")
	}

	status, err := s.hoursResolver.IsCurrentlyOpen(ctx, time.Now())
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve business hours")
	}

	week, err := s.store.GetWeekHours(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load weekly hours")
	}

	from := time.Now().Format("2006-01-02")
	to := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	special, err := s.store.ListSpecialDays(ctx, &store.FindSpecialDay{From: &from, To: &to})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load upcoming special days")
	}

	settings, err := s.store.GetBotSettings(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load bot settings")
	}

	return &llmpipeline.Request{
		UserText:     ev.Text,
		History:      history,
		Summary:      summary,
		RetrievedCtx: chunks,
		HoursStatus:  status,
		WeekSchedule: week,
		UpcomingDays: special,
		VacationNote: vacation.message,
		Settings:     settings,
	}, nil
}

func (s *Service) businessHoursReply(ctx context.Context, now time.Time) *Reply {
	status, err := s.hoursResolver.IsCurrentlyOpen(ctx, now)
	if err != nil {
		return s.fallbackReply()
	}
	return &Reply{Text: status.Message, Kind: ReplyPlain}
}

func (s *Service) notifyOwner(ctx context.Context, text string) {
	if s.ownerChatID == "" || s.ownerChatID == "0" {
		return
	}
	_ = s.owner.Send(ctx, s.ownerChatID, text)
}

func (s *Service) maybeCheckEngagement(ctx context.Context, userID string, now time.Time, reply *Reply) {
	if reply.Text == llmpipeline.FallbackAnswer {
		return
	}
	hasCode, err := s.referrals.HasCode(ctx, userID)
	if err != nil || hasCode {
		return
	}
	crossed, err := s.referrals.CheckEngagement(ctx, userID, now)
	if err != nil || !crossed {
		return
	}
	_ = s.referrals.SendCode(ctx, userID)
}

func (s *Service) persistInbound(ctx context.Context, ev Event) {
	_, _ = s.store.AppendMessage(ctx, &store.Message{
		UserID: ev.UserID, Username: ev.DisplayName, Role: store.RoleUser, Text: ev.Text,
	})
}

// persistReply persists the assistant-visible reply before the caller
// sends it over the network, then fires the summarization trigger.
func (s *Service) persistReply(ctx context.Context, userID string, reply *Reply) *Reply {
	if reply == nil {
		return nil
	}
	sources := strings.Join(reply.Sources, "; ")
	_, _ = s.store.AppendMessage(ctx, &store.Message{UserID: userID, Role: store.RoleAssistant, Text: reply.Text, Sources: sources})
	go func() {
		_ = s.summarizer.MaybeSummarize(context.Background(), userID)
	}()
	return reply
}

func (s *Service) fallbackReply() *Reply {
	return &Reply{Text: llmpipeline.FallbackAnswer, Kind: ReplyPlain}
}

func greetingReply(text string) string {
	if containsHebrew(text) {
		return "שלום! איך אפשר לעזור?"
	}
	return "Hi there! How can I help you today?"
}

func containsHebrew(text string) bool {
	for _, r := range text {
		if r >= 0x0590 && r <= 0x05FF {
			return true
		}
	}
	return false
}

// isBookingTrigger matches the booking menu button regardless of any
// emoji prefix the channel adapter decorates its label with.
func isBookingTrigger(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return strings.Contains(t, "book appointment") || t == "book" || t == "/book"
}

var startPayloadPattern = regexp.MustCompile(`^/start\s+(\S+)$`)

func parseStartPayload(text string) (string, bool) {
	match := startPayloadPattern.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return "", false
	}
	return referral.ExtractCode(match[1])
}

// SweepStartup ends any stale live-chat sessions left over from a prior
// process run. Call this once, only from the bot entry point.
func (s *Service) SweepStartup(ctx context.Context) error {
	_, err := s.liveChat.SweepStartup(ctx)
	return err
}
