package routing

import "github.com/psds-microservice/support-router/internal/model"

type ActionKind string

const (
	ActNotifyOperators       ActionKind = "notify_operators"
	ActReplyToCustomer       ActionKind = "reply_to_customer"
	ActForwardToOperator     ActionKind = "forward_to_operator"
	ActForwardToCustomer     ActionKind = "forward_to_customer"
	ActShowFaqMatches        ActionKind = "show_faq_matches"
	ActNoMatches             ActionKind = "no_matches"
	ActShowMainMenu          ActionKind = "show_main_menu"
	ActPromptNoCurrentTicket ActionKind = "prompt_no_current_ticket"
	ActActionRejected        ActionKind = "action_rejected"
	ActReply                 ActionKind = "reply"
	ActShowFaqList           ActionKind = "show_faq_list"
	ActShowFaqAnswer         ActionKind = "show_faq_answer"
	ActShowOperatorMenu      ActionKind = "show_operator_menu"
	ActShowTicketList        ActionKind = "show_ticket_list"
	ActShowTicketActions     ActionKind = "show_ticket_actions"
	ActTicketAssigned        ActionKind = "ticket_assigned"
	ActTicketClosed          ActionKind = "ticket_closed"
	ActNotifyCustomer        ActionKind = "notify_customer"
)

type ListKind string

const (
	ListOpen   ListKind = "open"
	ListMine   ListKind = "mine"
	ListSelect ListKind = "select"
)

type Notice string

const (
	NoticeTaken  Notice = "taken"
	NoticeClosed Notice = "closed"
)

// Action describes one effect decided for an inbound event. The router never
// performs transport I/O; a dispatcher turns actions into outbound messages.
type Action struct {
	Kind ActionKind
	// Recipient is the external id of the addressee. Empty for NotifyOperators,
	// whose recipients are resolved at dispatch time.
	Recipient string
	TenantID  int64

	Text    string
	Ticket  *model.Ticket
	Tickets []model.Ticket
	Entries []model.FAQEntry
	List    ListKind
	Notice  Notice
	Origin  Origin
	// Unbound is set on TicketClosed when the closed ticket was the operator's current one.
	Unbound bool
}

func NotifyOperators(tenantID int64, t *model.Ticket) Action {
	return Action{Kind: ActNotifyOperators, TenantID: tenantID, Ticket: t}
}

func ReplyToCustomer(customerID, text string) Action {
	return Action{Kind: ActReplyToCustomer, Recipient: customerID, Text: text}
}

func ForwardToOperator(operatorID string, t *model.Ticket, text string) Action {
	return Action{Kind: ActForwardToOperator, Recipient: operatorID, Ticket: t, Text: text}
}

func ForwardToCustomer(customerID string, t *model.Ticket, text string) Action {
	return Action{Kind: ActForwardToCustomer, Recipient: customerID, Ticket: t, Text: text}
}

func ShowFaqMatches(to string, entries []model.FAQEntry) Action {
	return Action{Kind: ActShowFaqMatches, Recipient: to, Entries: entries}
}

func NoMatches(to string) Action {
	return Action{Kind: ActNoMatches, Recipient: to}
}

func ShowMainMenu(to, text string) Action {
	return Action{Kind: ActShowMainMenu, Recipient: to, Text: text}
}

func PromptNoCurrentTicket(to string) Action {
	return Action{Kind: ActPromptNoCurrentTicket, Recipient: to}
}

func ActionRejected(to, reason string, origin Origin) Action {
	return Action{Kind: ActActionRejected, Recipient: to, Text: reason, Origin: origin}
}

func Reply(to, text string) Action {
	return Action{Kind: ActReply, Recipient: to, Text: text}
}
