package orchestrator

import "github.com/nadlanit/concierge/internal/store"

// UpdateKind distinguishes the shape of an inbound chat-platform update,
// so the orchestrator can tell a typed command from free text without
// depending on a transport-specific type.
type UpdateKind string

const (
	KindCommand        UpdateKind = "command"
	KindText           UpdateKind = "text"
	KindMenuButton     UpdateKind = "menu_button"
	KindInlineCallback UpdateKind = "inline_callback"
)

// Event is one inbound chat-platform update, transport-agnostic.
type Event struct {
	UserID         string
	DisplayName    string
	PlatformHandle string
	Text           string
	Kind           UpdateKind
}

// ReplyKind hints to the channel adapter what UI affordance (if any) the
// adapter should attach to Text — inline buttons, the persistent menu —
// without the orchestrator depending on a keyboard type.
type ReplyKind string

const (
	ReplyPlain           ReplyKind = "plain"
	ReplyBookingMenu     ReplyKind = "booking_menu"
	ReplyCancelConfirm   ReplyKind = "cancel_confirm"
	ReplyFollowUp        ReplyKind = "follow_up"
)

// Reply is what the orchestrator wants delivered back to the user. A nil
// Reply (from HandleEvent) means stay silent.
type Reply struct {
	Text              string
	Kind              ReplyKind
	FollowUpQuestions []string
	Sources           []string
}

// BookingStep is one state of the booking dialog's linear state machine.
type BookingStep string

const (
	StepIdle        BookingStep = "idle"
	StepAskService  BookingStep = "ask_service"
	StepAskDate     BookingStep = "ask_date"
	StepAskTime     BookingStep = "ask_time"
	StepConfirm     BookingStep = "confirm"
)

// bookingSession is the in-memory, process-local booking dialog state for
// one user — there is no persistent table for it, matching the rest of
// the orchestrator's process-local component state (rate limiter,
// summarization locks).
type bookingSession struct {
	Step    BookingStep
	Service string
	Date    string
	Time    string
}

// vacationStatus is a small projection of store.VacationMode used when
// composing the vacation guard reply and the LLM Pipeline's hours context.
type vacationStatus struct {
	active  bool
	message string
}

func projectVacation(v *store.VacationMode) vacationStatus {
	if v == nil || !v.Active {
		return vacationStatus{}
	}
	msg := "We're currently on vacation and may be slower to respond."
	if v.CustomMessage != nil && *v.CustomMessage != "" {
		msg = *v.CustomMessage
	}
	return vacationStatus{active: true, message: msg}
}
