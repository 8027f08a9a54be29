package llmpipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadlanit/concierge/internal/store"
)

func strp(s string) *string { return &s }

func TestExtractFollowUps(t *testing.T) {
	t.Run("no follow-up block leaves text untouched", func(t *testing.T) {
		followUps, stripped := extractFollowUps("We're open 9-6. (Source: hours — weekly)")
		assert.Nil(t, followUps)
		assert.Equal(t, "We're open 9-6. (Source: hours — weekly)", stripped)
	})

	t.Run("extracts up to three questions and strips the block", func(t *testing.T) {
		text := "We're open 9-6. (Source: hours — weekly)\n[follow_up: What's the address? | Do you take walk-ins? | How much is a haircut?]"
		followUps, stripped := extractFollowUps(text)
		require.Len(t, followUps, 3)
		assert.Equal(t, "What's the address?", followUps[0])
		assert.Equal(t, "Do you take walk-ins?", followUps[1])
		assert.Equal(t, "How much is a haircut?", followUps[2])
		assert.NotContains(t, stripped, "follow_up")
	})

	t.Run("caps at three even when the model lists more", func(t *testing.T) {
		text := "answer [follow_up: a | b | c | d | e]"
		followUps, _ := extractFollowUps(text)
		assert.Len(t, followUps, 3)
	})

	t.Run("blank entries between pipes are dropped", func(t *testing.T) {
		text := "answer [follow_up: a ||  b ]"
		followUps, _ := extractFollowUps(text)
		assert.Equal(t, []string{"a", "b"}, followUps)
	})
}

func TestExtractSources(t *testing.T) {
	t.Run("single citation", func(t *testing.T) {
		sources := extractSources("Some answer. (Source: hours — weekly schedule)")
		require.Len(t, sources, 1)
		assert.Equal(t, "(Source: hours — weekly schedule)", sources[0])
	})

	t.Run("no citation", func(t *testing.T) {
		assert.Empty(t, extractSources("Some answer with no citation."))
	})

	t.Run("hebrew citation marker", func(t *testing.T) {
		sources := extractSources("תשובה. (מקור: שעות פתיחה)")
		require.Len(t, sources, 1)
	})
}

func TestPostProcess_GroundedAnswer(t *testing.T) {
	pipeline := &Pipeline{}
	reply := "We're open 9am-6pm weekdays.\n(Source: hours — weekly schedule)\n[follow_up: Are you open Saturdays? | What's the address?]"

	resp := pipeline.postProcess(reply, 2)

	assert.Equal(t, AnswerOk, resp.Kind)
	assert.False(t, resp.Fallback())
	assert.Equal(t, "We're open 9am-6pm weekdays.", resp.Answer)
	assert.Equal(t, reply, resp.RawAnswer)
	assert.Equal(t, 2, resp.ChunksUsed)
	require.Len(t, resp.Sources, 1)
	assert.Len(t, resp.FollowUpQuestions, 2)
}

func TestPostProcess_NoCitationFallsBack(t *testing.T) {
	pipeline := &Pipeline{}
	resp := pipeline.postProcess("We're open 9am-6pm weekdays.", 1)

	assert.Equal(t, AnswerFallback, resp.Kind)
	assert.True(t, resp.Fallback())
	assert.Equal(t, FallbackAnswer, resp.Answer)
	assert.Equal(t, "answer carries no source citation", resp.FallbackReason)
}

func TestPostProcess_OrganicHandoffPhraseFallsBack(t *testing.T) {
	pipeline := &Pipeline{}
	resp := pipeline.postProcess("Let me transfer you to a human agent for that.", 0)

	assert.Equal(t, AnswerFallback, resp.Kind)
	assert.Equal(t, "model requested a human handoff", resp.FallbackReason)
}

func TestFormatScheduleLine(t *testing.T) {
	t.Run("open day", func(t *testing.T) {
		line := formatScheduleLine(&store.BusinessHours{DayOfWeek: 1, OpenTime: strp("09:00"), CloseTime: strp("18:00")})
		assert.Equal(t, "Monday: 09:00 - 18:00", line)
	})

	t.Run("closed day", func(t *testing.T) {
		line := formatScheduleLine(&store.BusinessHours{DayOfWeek: 6, Closed: true})
		assert.Equal(t, "Saturday: closed", line)
	})

	t.Run("missing times treated as closed", func(t *testing.T) {
		line := formatScheduleLine(&store.BusinessHours{DayOfWeek: 0})
		assert.Equal(t, "Sunday: closed", line)
	})

	t.Run("out of range day falls back to placeholder", func(t *testing.T) {
		line := formatScheduleLine(&store.BusinessHours{DayOfWeek: 9, OpenTime: strp("09:00"), CloseTime: strp("18:00")})
		assert.Equal(t, "?: 09:00 - 18:00", line)
	})
}
