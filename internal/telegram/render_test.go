package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/psds-microservice/support-router/internal/model"
	"github.com/psds-microservice/support-router/internal/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFaqMatchesListsQuestionsOnly(t *testing.T) {
	answer := strings.Repeat("Long answer. ", 34)
	entries := make([]model.FAQEntry, 12)
	for i := range entries {
		entries[i] = model.FAQEntry{ID: uint64(i + 1), Question: "How do I reset my password?", Answer: answer}
	}
	req := Render("1", routing.ShowFaqMatches("1", entries))

	assert.NotContains(t, req.Text, "Long answer")
	assert.Equal(t, 12, strings.Count(req.Text, "How do I reset my password?"))
	assert.LessOrEqual(t, utf8.RuneCountInString(req.Text), maxMessageLen)
	kb, ok := req.ReplyMarkup.(InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 13)
	assert.Equal(t, "faq:12", kb.InlineKeyboard[11][0].CallbackData)
}

func TestRenderKeepsTextWithinLimit(t *testing.T) {
	long := strings.Repeat("я", 4090)
	ticket := &model.Ticket{ID: 42, QuestionText: long}

	for name, a := range map[string]routing.Action{
		"forward to operator": routing.ForwardToOperator("A", ticket, long),
		"forward to customer": routing.ForwardToCustomer("100", ticket, long),
		"new ticket notice":   routing.NotifyOperators(1, ticket),
		"ticket actions":      {Kind: routing.ActShowTicketActions, Ticket: ticket},
	} {
		req := Render("1", a)
		assert.LessOrEqual(t, utf8.RuneCountInString(req.Text), maxMessageLen, name)
		assert.True(t, strings.HasSuffix(req.Text, "…"), name)
	}

	short := Render("1", routing.ForwardToOperator("A", ticket, "hello"))
	assert.Equal(t, "💬 Customer #42: hello", short.Text)
}

func TestClipDoesNotSplitEntities(t *testing.T) {
	assert.Equal(t, "ab…", clip("ab&amp;cd", 5))
	assert.Equal(t, "ab&amp;c…", clip("ab&amp;cdef", 9))
	assert.Equal(t, "short", clip("short", 10))
}
