package telegram

import (
	"strconv"
	"strings"

	"github.com/psds-microservice/support-router/internal/routing"
)

// Button labels of the reply keyboards.
const (
	LabelFaq             = "📚 FAQ"
	LabelContactOperator = "👨‍💻 Contact operator"
	LabelAbout           = "ℹ️ About us"
	LabelOpenTickets     = "📋 Open tickets"
	LabelMyTickets       = "📂 My tickets"
	LabelSwitchTicket    = "🔄 Switch ticket"
)

var labelCommands = map[string]routing.Command{
	LabelFaq:             routing.CmdFaqList,
	LabelContactOperator: routing.CmdContactOperator,
	LabelAbout:           routing.CmdAbout,
	LabelOpenTickets:     routing.CmdListOpen,
	LabelMyTickets:       routing.CmdListMine,
	LabelSwitchTicket:    routing.CmdSelectPrompt,
}

var slashCommands = map[string]routing.Command{
	"start":           routing.CmdStart,
	"faq":             routing.CmdFaqList,
	"start_operator":  routing.CmdOperatorMenu,
	"tickets":         routing.CmdListOpen,
	"my_tickets":      routing.CmdListMine,
	"add_operator":    routing.CmdAddOperator,
	"remove_operator": routing.CmdRemoveOperator,
	"add_faq":         routing.CmdAddFaq,
	"edit_faq":        routing.CmdEditFaq,
	"del_faq":         routing.CmdDelFaq,
	"list_faq":        routing.CmdListFaq,
}

// Inbound is an update reduced to what routing needs. Role and tenant are
// left empty; the caller resolves them.
type Inbound struct {
	Event routing.Event
	// CallbackID is set for button presses and must be answered.
	CallbackID string
}

// ParseUpdate maps an update to a routing event. ok is false for updates the
// bot ignores (bots, empty messages, unknown callbacks).
func ParseUpdate(u *Update) (in Inbound, ok bool) {
	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		if cq.From == nil || cq.From.IsBot {
			return in, false
		}
		in.CallbackID = cq.ID
		ev, ok := parseCallback(cq.Data)
		if !ok {
			return in, false
		}
		ev.ActorID = strconv.FormatInt(cq.From.ID, 10)
		in.Event = ev
		return in, true

	case u.Message != nil:
		m := u.Message
		if m.From == nil || m.From.IsBot {
			return in, false
		}
		text := strings.TrimSpace(m.Text)
		if text == "" {
			return in, false
		}
		ev := parseText(text)
		ev.ActorID = strconv.FormatInt(m.From.ID, 10)
		in.Event = ev
		return in, true
	}
	return in, false
}

func parseText(text string) routing.Event {
	if cmd, ok := labelCommands[text]; ok {
		return routing.Event{Kind: routing.KindAction, Command: cmd}
	}
	if strings.HasPrefix(text, "/") {
		name, args, _ := strings.Cut(text[1:], " ")
		// "/start@my_bot" in group chats
		name, _, _ = strings.Cut(name, "@")
		if cmd, ok := slashCommands[strings.ToLower(name)]; ok {
			return routing.Event{Kind: routing.KindAction, Command: cmd, Args: strings.TrimSpace(args)}
		}
		return routing.Event{Kind: routing.KindAction, Command: routing.CmdUnknown}
	}
	return routing.Event{Kind: routing.KindFreeText, Text: text}
}

func parseCallback(data string) (routing.Event, bool) {
	ev := routing.Event{Kind: routing.KindAction}
	parts := strings.Split(data, ":")
	switch parts[0] {
	case "faq":
		if len(parts) == 2 && parts[1] == "back" {
			ev.Command = routing.CmdFaqBack
			return ev, true
		}
		ev.Command = routing.CmdFaqSelect
		return withID(ev, parts, 1)
	case "open_ticket":
		ev.Command, ev.Origin = routing.CmdViewTicket, routing.OriginOpen
		return withID(ev, parts, 1)
	case "my_ticket":
		ev.Command, ev.Origin = routing.CmdViewTicket, routing.OriginMine
		return withID(ev, parts, 1)
	case "select":
		if len(parts) == 2 && parts[1] == "back" {
			ev.Command = routing.CmdOperatorMenu
			return ev, true
		}
		ev.Command = routing.CmdSelect
		return withID(ev, parts, 1)
	case "ticket_action":
		if len(parts) < 3 {
			return ev, false
		}
		switch parts[1] {
		case "assign":
			ev.Command = routing.CmdAssign
		case "close":
			ev.Command = routing.CmdClose
		default:
			return ev, false
		}
		if len(parts) > 3 {
			ev.Origin = routing.Origin(parts[3])
		}
		return withID(ev, parts, 2)
	case "tickets":
		if len(parts) != 2 {
			return ev, false
		}
		switch parts[1] {
		case "refresh":
			ev.Command = routing.CmdListOpen
		case "back":
			ev.Command = routing.CmdOperatorMenu
		default:
			return ev, false
		}
		return ev, true
	case "back_to_open":
		ev.Command = routing.CmdListOpen
		return ev, true
	case "back_to_my":
		ev.Command = routing.CmdListMine
		return ev, true
	}
	return ev, false
}

func withID(ev routing.Event, parts []string, i int) (routing.Event, bool) {
	if len(parts) <= i {
		return ev, false
	}
	id, err := strconv.ParseUint(parts[i], 10, 64)
	if err != nil {
		return ev, false
	}
	ev.ID = id
	return ev, true
}
