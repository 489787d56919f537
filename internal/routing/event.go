package routing

import "github.com/psds-microservice/support-router/internal/service"

type EventKind string

const (
	KindFreeText EventKind = "free_text"
	KindAction   EventKind = "structured_action"
)

// Command names a structured action: a button, a callback or a slash command.
type Command string

const (
	// any role
	CmdStart Command = "start"
	// CmdUnknown is a slash command the bot does not know. It never reaches
	// ticket or session state.
	CmdUnknown Command = "unknown"

	// customer
	CmdFaqList         Command = "faq_list"
	CmdFaqSelect       Command = "faq_select"
	CmdFaqBack         Command = "faq_back"
	CmdContactOperator Command = "contact_operator"
	CmdAbout           Command = "about"

	// operator
	CmdOperatorMenu Command = "operator_menu"
	CmdListOpen     Command = "list_open"
	CmdListMine     Command = "list_mine"
	CmdViewTicket   Command = "view_ticket"
	CmdSelectPrompt Command = "select_prompt"
	CmdSelect       Command = "select"
	CmdAssign       Command = "assign"
	CmdClose        Command = "close"

	// admin
	CmdAddOperator    Command = "add_operator"
	CmdRemoveOperator Command = "remove_operator"
	CmdAddFaq         Command = "add_faq"
	CmdEditFaq        Command = "edit_faq"
	CmdDelFaq         Command = "del_faq"
	CmdListFaq        Command = "list_faq"
)

// Origin is the listing an operator acted from. It is opaque to the engine
// and only echoed back so the transport can render the right "back" button.
type Origin string

const (
	OriginOpen Origin = "open"
	OriginMine Origin = "my"
)

// Event: одно входящее событие с уже определённой ролью отправителя.
type Event struct {
	Role     service.Role
	ActorID  string
	TenantID int64
	Kind     EventKind

	// Text is the message body of a free-text event.
	Text string

	Command Command
	// ID is the ticket or FAQ entry the command refers to.
	ID     uint64
	Origin Origin
	// Args holds the unparsed arguments of admin commands.
	Args string
}

func FreeText(role service.Role, actorID string, tenantID int64, text string) Event {
	return Event{Role: role, ActorID: actorID, TenantID: tenantID, Kind: KindFreeText, Text: text}
}

func Structured(role service.Role, actorID string, tenantID int64, cmd Command) Event {
	return Event{Role: role, ActorID: actorID, TenantID: tenantID, Kind: KindAction, Command: cmd}
}
