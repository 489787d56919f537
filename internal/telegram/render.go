package telegram

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/psds-microservice/support-router/internal/model"
	"github.com/psds-microservice/support-router/internal/routing"
)

const (
	previewLen = 30
	// maxMessageLen is the Bot API limit for sendMessage text, in characters.
	maxMessageLen = 4096
)

func mainMenuKeyboard() ReplyKeyboardMarkup {
	return ReplyKeyboardMarkup{
		Keyboard: [][]KeyboardButton{
			{{Text: LabelFaq}},
			{{Text: LabelContactOperator}},
			{{Text: LabelAbout}},
		},
		ResizeKeyboard: true,
	}
}

func operatorMenuKeyboard() ReplyKeyboardMarkup {
	return ReplyKeyboardMarkup{
		Keyboard: [][]KeyboardButton{
			{{Text: LabelOpenTickets}},
			{{Text: LabelMyTickets}},
			{{Text: LabelSwitchTicket}},
		},
		ResizeKeyboard: true,
	}
}

func faqKeyboard(entries []model.FAQEntry) InlineKeyboardMarkup {
	rows := make([][]InlineKeyboardButton, 0, len(entries)+1)
	for _, e := range entries {
		rows = append(rows, []InlineKeyboardButton{{Text: e.Question, CallbackData: "faq:" + id(e.ID)}})
	}
	rows = append(rows, []InlineKeyboardButton{{Text: "🔙 Back", CallbackData: "faq:back"}})
	return InlineKeyboardMarkup{InlineKeyboard: rows}
}

func ticketListKeyboard(kind routing.ListKind, tickets []model.Ticket) InlineKeyboardMarkup {
	rows := make([][]InlineKeyboardButton, 0, len(tickets)+1)
	for _, t := range tickets {
		switch kind {
		case routing.ListOpen:
			rows = append(rows, []InlineKeyboardButton{{Text: ticketLabel("Ticket", t), CallbackData: "open_ticket:" + id(t.ID)}})
		case routing.ListMine:
			rows = append(rows, []InlineKeyboardButton{{Text: ticketLabel("Ticket", t), CallbackData: "my_ticket:" + id(t.ID)}})
		case routing.ListSelect:
			rows = append(rows, []InlineKeyboardButton{{Text: ticketLabel("Select", t), CallbackData: "select:" + id(t.ID)}})
		}
	}
	switch kind {
	case routing.ListOpen:
		rows = append(rows, []InlineKeyboardButton{
			{Text: "🔄 Refresh", CallbackData: "tickets:refresh"},
			{Text: "🔙 Back", CallbackData: "tickets:back"},
		})
	case routing.ListSelect:
		rows = append(rows, []InlineKeyboardButton{{Text: "🔙 Back", CallbackData: "select:back"}})
	default:
		rows = append(rows, []InlineKeyboardButton{{Text: "🔙 Back", CallbackData: "tickets:back"}})
	}
	return InlineKeyboardMarkup{InlineKeyboard: rows}
}

func ticketActionsKeyboard(t *model.Ticket, origin routing.Origin) InlineKeyboardMarkup {
	if origin == "" {
		origin = routing.OriginOpen
	}
	back := "back_to_open"
	if origin == routing.OriginMine {
		back = "back_to_my"
	}
	suffix := id(t.ID) + ":" + string(origin)
	var rows [][]InlineKeyboardButton
	switch t.Status {
	case model.TicketStatusOpen:
		rows = append(rows, []InlineKeyboardButton{{Text: "✅ Take ticket", CallbackData: "ticket_action:assign:" + suffix}})
	case model.TicketStatusInProgress:
		rows = append(rows, []InlineKeyboardButton{{Text: "❌ Close ticket", CallbackData: "ticket_action:close:" + suffix}})
	}
	rows = append(rows, []InlineKeyboardButton{{Text: "🔙 Back", CallbackData: back}})
	return InlineKeyboardMarkup{InlineKeyboard: rows}
}

// Render builds the sendMessage body for one action. Customer and operator
// supplied text is HTML-escaped.
func Render(chatID string, a routing.Action) SendMessageRequest {
	req := SendMessageRequest{ChatID: chatID, ParseMode: "HTML"}
	esc := html.EscapeString
	switch a.Kind {
	case routing.ActNotifyOperators:
		req.Text = fmt.Sprintf("📥 <b>New ticket #%d</b>:\n\n%s", a.Ticket.ID, esc(a.Ticket.QuestionText))
		req.ReplyMarkup = InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: "✅ Take ticket", CallbackData: "ticket_action:assign:" + id(a.Ticket.ID) + ":" + string(routing.OriginOpen)}},
		}}
	case routing.ActReplyToCustomer, routing.ActShowMainMenu:
		req.Text = esc(a.Text)
		req.ReplyMarkup = mainMenuKeyboard()
	case routing.ActForwardToOperator:
		req.Text = fmt.Sprintf("💬 Customer #%d: %s", a.Ticket.ID, esc(a.Text))
	case routing.ActForwardToCustomer:
		req.Text = "👨‍💻 Operator: " + esc(a.Text)
	case routing.ActShowFaqMatches:
		var b strings.Builder
		b.WriteString("Here is what I found. Pick a question to see the answer:\n")
		for _, e := range a.Entries {
			b.WriteString("\n• " + esc(e.Question))
		}
		req.Text = b.String()
		req.ReplyMarkup = faqKeyboard(a.Entries)
	case routing.ActNoMatches:
		req.Text = "Nothing found. Try another keyword or pick a question from the list."
	case routing.ActShowFaqList:
		var b strings.Builder
		b.WriteString("Frequently asked questions. Pick one or type a keyword:\n")
		for _, e := range a.Entries {
			b.WriteString("\n• " + esc(e.Question))
		}
		req.Text = b.String()
		req.ReplyMarkup = faqKeyboard(a.Entries)
	case routing.ActShowFaqAnswer:
		req.Text = esc(a.Text)
		req.ReplyMarkup = mainMenuKeyboard()
	case routing.ActPromptNoCurrentTicket:
		req.Text = "You have no current ticket. Take one from the open list or switch to one of yours."
		req.ReplyMarkup = operatorMenuKeyboard()
	case routing.ActShowOperatorMenu:
		req.Text = esc(a.Text)
		req.ReplyMarkup = operatorMenuKeyboard()
	case routing.ActShowTicketList:
		req.Text = ticketListTitle(a.List, len(a.Tickets))
		req.ReplyMarkup = ticketListKeyboard(a.List, a.Tickets)
	case routing.ActShowTicketActions:
		t := a.Ticket
		req.Text = fmt.Sprintf("<b>Ticket #%d</b> (%s)\nCustomer: %s\n\n%s", t.ID, t.Status, esc(t.CustomerID), esc(t.QuestionText))
		req.ReplyMarkup = ticketActionsKeyboard(t, a.Origin)
	case routing.ActTicketAssigned:
		req.Text = fmt.Sprintf("✅ You took ticket #%d. Your messages now go to this customer.\n\nQuestion:\n%s",
			a.Ticket.ID, esc(a.Ticket.QuestionText))
	case routing.ActTicketClosed:
		req.Text = fmt.Sprintf("✅ Ticket #%d closed.", a.Ticket.ID)
		if a.Unbound {
			req.Text += " You are not bound to any ticket now."
		}
	case routing.ActNotifyCustomer:
		switch a.Notice {
		case routing.NoticeTaken:
			req.Text = fmt.Sprintf("👨‍💻 An operator has taken your request #%d. Write your messages here.", a.Ticket.ID)
		case routing.NoticeClosed:
			req.Text = fmt.Sprintf("Your request #%d has been closed. Thank you!", a.Ticket.ID)
			req.ReplyMarkup = mainMenuKeyboard()
		}
	case routing.ActActionRejected:
		req.Text = "⚠️ " + esc(a.Text)
	default:
		req.Text = esc(a.Text)
	}
	req.Text = clip(req.Text, maxMessageLen)
	return req
}

// clip cuts s to at most n runes, ending with "…". Markup tags are closed
// before user text in every template, so the cut only has to avoid splitting
// an HTML entity.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	cut := string([]rune(s)[:n-1])
	if amp := strings.LastIndexByte(cut, '&'); amp >= 0 && !strings.Contains(cut[amp:], ";") {
		cut = cut[:amp]
	}
	return cut + "…"
}

func ticketListTitle(kind routing.ListKind, n int) string {
	if n == 0 {
		switch kind {
		case routing.ListOpen:
			return "There are no open tickets."
		default:
			return "You have no tickets in progress."
		}
	}
	switch kind {
	case routing.ListOpen:
		return "Open tickets:"
	case routing.ListSelect:
		return "Choose the ticket to reply to:"
	}
	return "Your tickets in progress:"
}

func ticketLabel(prefix string, t model.Ticket) string {
	return fmt.Sprintf("%s #%d: %s", prefix, t.ID, preview(t.QuestionText))
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLen {
		return s
	}
	return string([]rune(s)[:previewLen]) + "…"
}

func id(v uint64) string {
	return strconv.FormatUint(v, 10)
}
