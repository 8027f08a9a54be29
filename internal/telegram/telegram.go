// Package telegram implements the Telegram long-polling channel adapter:
// it turns inbound updates into orchestrator.Event values, renders
// replies with the persistent menu and inline keyboards, and doubles as
// the livechat.Notifier / broadcast.Sender implementation used to push
// messages that don't originate from an inbound update.
package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/orchestrator"
)

const (
	bookAppointmentLabel = "📅 Book Appointment"
	cancelAppointmentLabel = "✖️ Cancel Appointment"
	talkToHumanLabel       = "🙋 Talk to a Person"

	pollTimeoutSeconds = 30
)

// Channel runs the Telegram long-poller and dispatches updates to an
// orchestrator.Service, relaying its replies back over the bot API.
type Channel struct {
	bot          *tgbotapi.BotAPI
	orchestrator *orchestrator.Service
}

// New constructs a Channel around an already-authenticated bot API
// client, mirroring the teacher's NewTelegramChannel constructor.
func New(botToken string, orch *orchestrator.Service) (*Channel, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Telegram bot")
	}
	return &Channel{bot: bot, orchestrator: orch}, nil
}

// Run starts long-polling and blocks until ctx is cancelled.
func (c *Channel) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := c.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			c.bot.StopReceivingUpdates()
			return nil
		case update := <-updates:
			c.handleUpdate(ctx, update)
		}
	}
}

func (c *Channel) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		c.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		c.handleMessage(ctx, update.Message)
	}
}

func (c *Channel) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	ev := orchestrator.Event{
		UserID:         strconv.FormatInt(msg.From.ID, 10),
		DisplayName:    displayName(msg.From),
		PlatformHandle: msg.From.UserName,
		Text:           msg.Text,
		Kind:           classifyKind(msg.Text),
	}

	reply, err := c.orchestrator.HandleEvent(ctx, ev)
	if err != nil {
		slog.Error("telegram: orchestrator failed", "user_id", ev.UserID, "error", err)
		return
	}
	if reply == nil {
		return
	}

	c.send(msg.Chat.ID, reply)
}

func (c *Channel) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	ack := tgbotapi.NewCallback(cb.ID, "")
	if _, err := c.bot.Request(ack); err != nil {
		slog.Warn("telegram: failed to ack callback", "error", err)
	}

	ev := orchestrator.Event{
		UserID:         strconv.FormatInt(cb.From.ID, 10),
		DisplayName:    displayName(cb.From),
		PlatformHandle: cb.From.UserName,
		Text:           cb.Data,
		Kind:           orchestrator.KindInlineCallback,
	}

	var reply *orchestrator.Reply
	var err error
	switch cb.Data {
	case callbackCancelYes:
		reply, err = c.orchestrator.HandleCancelConfirm(ctx, ev, true)
	case callbackCancelNo:
		reply, err = c.orchestrator.HandleCancelConfirm(ctx, ev, false)
	default:
		// A follow-up suggestion button: treat its label as free text.
		ev.Kind = orchestrator.KindText
		reply, err = c.orchestrator.HandleEvent(ctx, ev)
	}
	if err != nil {
		slog.Error("telegram: orchestrator failed on callback", "user_id", ev.UserID, "error", err)
		return
	}
	if reply == nil {
		return
	}
	if cb.Message != nil {
		c.send(cb.Message.Chat.ID, reply)
	}
}

func classifyKind(text string) orchestrator.UpdateKind {
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, "/"):
		return orchestrator.KindCommand
	case trimmed == bookAppointmentLabel || trimmed == cancelAppointmentLabel || trimmed == talkToHumanLabel:
		return orchestrator.KindMenuButton
	default:
		return orchestrator.KindText
	}
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if name == "" {
		name = u.UserName
	}
	return name
}

// mainMenu is the persistent reply keyboard shown on every text reply,
// matching isBookingTrigger's expected button text.
func mainMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(bookAppointmentLabel)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(cancelAppointmentLabel), tgbotapi.NewKeyboardButton(talkToHumanLabel)),
	)
}

const (
	callbackCancelYes = "cancel_confirm:yes"
	callbackCancelNo  = "cancel_confirm:no"
)

func cancelConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yes, cancel it", callbackCancelYes),
			tgbotapi.NewInlineKeyboardButtonData("No, keep it", callbackCancelNo),
		),
	)
}

// followUpKeyboard renders each suggested question as its own button,
// with the question text itself as the callback payload so tapping it
// re-enters the orchestrator as if the customer had typed it. Telegram
// caps callback_data at 64 bytes, so longer questions are truncated for
// both the label and the payload — tapping replays the truncated text.
func followUpKeyboard(questions []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(questions))
	for _, q := range questions {
		payload := q
		if len(payload) > 64 {
			payload = payload[:64]
		}
		label := q
		if len(label) > 60 {
			label = label[:57] + "..."
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, payload),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// send renders a Reply into the right Telegram message shape and sends
// it, falling back to a plain send if the richer markup is rejected.
func (c *Channel) send(chatID int64, reply *orchestrator.Reply) {
	msg := tgbotapi.NewMessage(chatID, reply.Text)

	switch reply.Kind {
	case orchestrator.ReplyBookingMenu:
		msg.ReplyMarkup = mainMenu()
	case orchestrator.ReplyCancelConfirm:
		msg.ReplyMarkup = cancelConfirmKeyboard()
	case orchestrator.ReplyFollowUp:
		if len(reply.FollowUpQuestions) > 0 {
			msg.ReplyMarkup = followUpKeyboard(reply.FollowUpQuestions)
		} else {
			msg.ReplyMarkup = mainMenu()
		}
	default:
		msg.ReplyMarkup = mainMenu()
	}

	if _, err := c.bot.Send(msg); err != nil {
		slog.Error("telegram: send failed, retrying without markup", "chat_id", chatID, "error", err)
		plain := tgbotapi.NewMessage(chatID, reply.Text)
		if _, retryErr := c.bot.Send(plain); retryErr != nil {
			slog.Error("telegram: plain send also failed", "chat_id", chatID, "error", retryErr)
		}
	}
}

// Send implements livechat.Notifier and broadcast.Sender: a plain-text
// push to userID's chat, outside of any inbound-update cycle.
func (c *Channel) Send(ctx context.Context, userID, text string) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return errors.Wrap(err, "invalid telegram chat id")
	}
	msg := tgbotapi.NewMessage(chatID, text)
	_, err = c.bot.Send(msg)
	return errors.Wrap(err, "failed to send telegram message")
}
