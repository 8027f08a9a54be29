// Package admin implements the external-collaborator HTTP surface: a
// server-rendered control panel over the knowledge base, conversations,
// live chat, appointments, hours, referrals, and broadcasts, sitting on
// top of the same domain services the chat channel drives.
package admin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/broadcast"
	"github.com/nadlanit/concierge/internal/config"
	"github.com/nadlanit/concierge/internal/hours"
	"github.com/nadlanit/concierge/internal/livechat"
	"github.com/nadlanit/concierge/internal/ragindex"
	"github.com/nadlanit/concierge/internal/referral"
	"github.com/nadlanit/concierge/internal/store"
)

// Server is the admin HTTP surface's composition root.
type Server struct {
	echo *echo.Echo
	cfg  *config.Config

	store     *store.Store
	liveChat  *livechat.Service
	referrals *referral.Service
	broadcast *broadcast.Worker
	ragMgr    *ragindex.Manager
	hoursRes  *hours.Resolver
}

// Deps bundles the domain services the admin surface drives.
type Deps struct {
	Cfg       *config.Config
	Store     *store.Store
	LiveChat  *livechat.Service
	Referrals *referral.Service
	Broadcast *broadcast.Worker
	RAGMgr    *ragindex.Manager
	HoursRes  *hours.Resolver
}

func NewServer(d Deps) *Server {
	s := &Server{
		echo:      echo.New(),
		cfg:       d.Cfg,
		store:     d.Store,
		liveChat:  d.LiveChat,
		referrals: d.Referrals,
		broadcast: d.Broadcast,
		ragMgr:    d.RAGMgr,
		hoursRes:  d.HoursRes,
	}
	s.echo.HideBanner = true
	s.echo.Use(middleware.Logger())
	s.echo.Use(middleware.Recover())
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo

	e.GET("/login", s.handleLoginForm)
	e.POST("/login", s.handleLoginSubmit)

	g := e.Group("")
	g.Use(s.requireSession)

	g.GET("/logout", s.handleLogout)
	g.GET("/", s.handleDashboard)

	g.GET("/kb", s.handleKBList)
	g.GET("/kb/add", s.handleKBAddForm)
	g.POST("/kb/add", s.handleKBAdd, s.requireCSRF)
	g.GET("/kb/edit/:id", s.handleKBEditForm)
	g.POST("/kb/edit/:id", s.handleKBEdit, s.requireCSRF)
	g.POST("/kb/delete/:id", s.handleKBDelete, s.requireCSRF)
	g.POST("/kb/rebuild", s.handleKBRebuild, s.requireCSRF)

	g.GET("/conversations", s.handleConversationsList)
	g.GET("/conversations/:user_id", s.handleConversationHistory)

	g.GET("/live-chat/:user_id", s.handleLiveChatView)
	g.POST("/live-chat/:user_id/start", s.handleLiveChatStart, s.requireCSRF)
	g.POST("/live-chat/:user_id/end", s.handleLiveChatEnd, s.requireCSRF)
	g.POST("/live-chat/:user_id/send", s.handleLiveChatSend, s.requireCSRF)
	g.GET("/api/live-chat/:user_id/messages", s.handleLiveChatMessagesJSON)

	g.GET("/requests", s.handleRequestsList)
	g.POST("/requests/:id/handle", s.handleRequestHandle, s.requireCSRF)

	g.GET("/appointments", s.handleAppointmentsList)
	g.POST("/appointments/:id/update", s.handleAppointmentUpdate, s.requireCSRF)

	g.GET("/knowledge-gaps", s.handleKnowledgeGapsList)
	g.POST("/knowledge-gaps/:id/resolve", s.handleKnowledgeGapResolve, s.requireCSRF)

	g.GET("/business-hours", s.handleBusinessHoursForm)
	g.POST("/business-hours", s.handleBusinessHoursUpdate, s.requireCSRF)
	g.POST("/business-hours/special-days/add", s.handleSpecialDayAdd, s.requireCSRF)
	g.POST("/business-hours/special-days/delete/:id", s.handleSpecialDayDelete, s.requireCSRF)

	g.GET("/vacation-mode", s.handleVacationForm)
	g.POST("/vacation-mode", s.handleVacationUpdate, s.requireCSRF)

	g.GET("/bot-personality", s.handleBotPersonalityForm)
	g.POST("/bot-personality", s.handleBotPersonalityUpdate, s.requireCSRF)

	g.GET("/referrals", s.handleReferralsList)

	g.GET("/qr-code", s.handleQRCodePage)
	g.GET("/qr-code/download", s.handleQRCodeDownload)

	g.GET("/broadcast", s.handleBroadcastForm)
	g.POST("/broadcast", s.handleBroadcastCreate, s.requireCSRF)

	g.GET("/api/stats", s.handleStatsJSON)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.AdminHost, s.cfg.AdminPort)

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		return s.echo.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
