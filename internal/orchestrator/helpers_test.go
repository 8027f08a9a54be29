package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nadlanit/concierge/internal/store"
)

func TestIsBookingTrigger(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want bool
	}{
		{"emoji-prefixed menu label", "📅 Book Appointment", true},
		{"plain phrase", "book appointment", true},
		{"mixed case", "Book Appointment", true},
		{"short command word", "book", true},
		{"slash command", "/book", true},
		{"surrounding whitespace", "  book  ", true},
		{"unrelated text containing book as substring of another word", "I read a good book", false},
		{"cancel is not booking", "cancel appointment", false},
		{"empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isBookingTrigger(tc.text))
		})
	}
}

func TestParseStartPayload(t *testing.T) {
	t.Run("no payload", func(t *testing.T) {
		_, ok := parseStartPayload("/start")
		assert.False(t, ok)
	})

	t.Run("unrelated text", func(t *testing.T) {
		_, ok := parseStartPayload("hello there")
		assert.False(t, ok)
	})

	t.Run("referral payload", func(t *testing.T) {
		code, ok := parseStartPayload("/start REF_ABC123")
		assert.True(t, ok)
		assert.Equal(t, "REF_ABC123", code)
	})

	t.Run("too-short payload is not a valid code", func(t *testing.T) {
		_, ok := parseStartPayload("/start REF_A")
		assert.False(t, ok)
	})
}

func TestProjectVacation(t *testing.T) {
	t.Run("nil vacation is inactive", func(t *testing.T) {
		status := projectVacation(nil)
		assert.False(t, status.active)
		assert.Empty(t, status.message)
	})

	t.Run("inactive vacation row", func(t *testing.T) {
		status := projectVacation(&store.VacationMode{Active: false})
		assert.False(t, status.active)
	})

	t.Run("active with default message", func(t *testing.T) {
		status := projectVacation(&store.VacationMode{Active: true})
		assert.True(t, status.active)
		assert.Contains(t, status.message, "vacation")
	})

	t.Run("active with custom message", func(t *testing.T) {
		custom := "Closed for the holidays, back on the 5th."
		status := projectVacation(&store.VacationMode{Active: true, CustomMessage: &custom})
		assert.True(t, status.active)
		assert.Equal(t, custom, status.message)
	})

	t.Run("active with empty custom message falls back to default", func(t *testing.T) {
		empty := ""
		status := projectVacation(&store.VacationMode{Active: true, CustomMessage: &empty})
		assert.True(t, status.active)
		assert.Contains(t, status.message, "vacation")
	})
}
