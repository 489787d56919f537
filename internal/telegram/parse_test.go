package telegram

import (
	"testing"

	"github.com/psds-microservice/support-router/internal/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(text string) *Update {
	return &Update{Message: &Message{From: &User{ID: 42}, Chat: &Chat{ID: 42, Type: "private"}, Text: text}}
}

func callback(data string) *Update {
	return &Update{CallbackQuery: &CallbackQuery{ID: "cb1", From: &User{ID: 42}, Data: data}}
}

func TestParseMessage(t *testing.T) {
	tests := []struct {
		text    string
		kind    routing.EventKind
		command routing.Command
		args    string
	}{
		{text: "My printer is broken", kind: routing.KindFreeText},
		{text: "/start", kind: routing.KindAction, command: routing.CmdStart},
		{text: "/start@support_bot", kind: routing.KindAction, command: routing.CmdStart},
		{text: LabelContactOperator, kind: routing.KindAction, command: routing.CmdContactOperator},
		{text: LabelFaq, kind: routing.KindAction, command: routing.CmdFaqList},
		{text: LabelSwitchTicket, kind: routing.KindAction, command: routing.CmdSelectPrompt},
		{text: "/add_faq How to pay? | By card", kind: routing.KindAction, command: routing.CmdAddFaq, args: "How to pay? | By card"},
		{text: "/help", kind: routing.KindAction, command: routing.CmdUnknown},
		{text: "/unknown thing", kind: routing.KindAction, command: routing.CmdUnknown},
		{text: "2/3 of the page is blank", kind: routing.KindFreeText},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			in, ok := ParseUpdate(message(tt.text))
			require.True(t, ok)
			assert.Equal(t, "42", in.Event.ActorID)
			assert.Equal(t, tt.kind, in.Event.Kind)
			assert.Equal(t, tt.command, in.Event.Command)
			assert.Equal(t, tt.args, in.Event.Args)
			if tt.kind == routing.KindFreeText {
				assert.Equal(t, tt.text, in.Event.Text)
			}
			assert.Empty(t, in.CallbackID)
		})
	}
}

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data    string
		command routing.Command
		id      uint64
		origin  routing.Origin
	}{
		{data: "faq:3", command: routing.CmdFaqSelect, id: 3},
		{data: "faq:back", command: routing.CmdFaqBack},
		{data: "open_ticket:7", command: routing.CmdViewTicket, id: 7, origin: routing.OriginOpen},
		{data: "my_ticket:7", command: routing.CmdViewTicket, id: 7, origin: routing.OriginMine},
		{data: "select:5", command: routing.CmdSelect, id: 5},
		{data: "select:back", command: routing.CmdOperatorMenu},
		{data: "ticket_action:assign:7", command: routing.CmdAssign, id: 7},
		{data: "ticket_action:assign:7:open", command: routing.CmdAssign, id: 7, origin: routing.OriginOpen},
		{data: "ticket_action:close:7:my", command: routing.CmdClose, id: 7, origin: routing.OriginMine},
		{data: "tickets:refresh", command: routing.CmdListOpen},
		{data: "tickets:back", command: routing.CmdOperatorMenu},
		{data: "back_to_open", command: routing.CmdListOpen},
		{data: "back_to_my", command: routing.CmdListMine},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			in, ok := ParseUpdate(callback(tt.data))
			require.True(t, ok)
			assert.Equal(t, "cb1", in.CallbackID)
			assert.Equal(t, routing.KindAction, in.Event.Kind)
			assert.Equal(t, tt.command, in.Event.Command)
			assert.Equal(t, tt.id, in.Event.ID)
			assert.Equal(t, tt.origin, in.Event.Origin)
		})
	}
}

func TestParseIgnoresUnusable(t *testing.T) {
	for name, u := range map[string]*Update{
		"empty":            {},
		"blank text":       message("   "),
		"bot":              {Message: &Message{From: &User{ID: 1, IsBot: true}, Text: "hi"}},
		"unknown callback": callback("weird:1"),
		"bad id":           callback("faq:abc"),
		"short action":     callback("ticket_action:assign"),
		"bad action":       callback("ticket_action:delete:7"),
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := ParseUpdate(u)
			assert.False(t, ok)
		})
	}
}
