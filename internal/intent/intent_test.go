package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want Intent
	}{
		{"plain hello", "hello", Greeting},
		{"hello with punctuation", "Hey!", Greeting},
		{"hebrew greeting", "שלום", Greeting},
		{"greeting embedded in question is not a greeting", "hi, what are your hours?", BusinessHours},
		{"farewell", "bye", Farewell},
		{"hebrew farewell", "להתראות", Farewell},
		{"cancel appointment", "I need to cancel my appointment", AppointmentCancel},
		{"cancel appointment reordered", "appointment cancel please", AppointmentCancel},
		{"hebrew cancel", "רוצה לבטל את התור שלי", AppointmentCancel},
		{"pricing beats booking", "how much to book a session?", Pricing},
		{"pricing", "what's the cost?", Pricing},
		{"booking", "I'd like to book an appointment", AppointmentBooking},
		{"booking hebrew", "רוצה לקבוע תור", AppointmentBooking},
		{"business hours", "what are your hours?", BusinessHours},
		{"are you open", "are you open today", BusinessHours},
		{"general fallback", "tell me about your products", General},
		{"empty string", "", General},
		{"whitespace only", "   ", General},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.text))
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// Cancel must win over plain booking when both vocabularies appear.
	assert.Equal(t, AppointmentCancel, Classify("cancel my booking"))
}
