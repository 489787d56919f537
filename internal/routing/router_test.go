package routing_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/psds-microservice/support-router/internal/binding"
	"github.com/psds-microservice/support-router/internal/database/databasetest"
	"github.com/psds-microservice/support-router/internal/model"
	"github.com/psds-microservice/support-router/internal/routing"
	"github.com/psds-microservice/support-router/internal/service"
	"github.com/psds-microservice/support-router/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tenant = int64(1)

type fixture struct {
	router   *routing.Router
	tickets  *service.TicketService
	sessions *service.SessionService
	faq      *service.FaqService
	bindings binding.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.Open(t)
	st := store.New(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		tickets:  service.NewTicketService(st, logger),
		sessions: service.NewSessionService(st),
		faq:      service.NewFaqService(st),
		bindings: binding.NewDBStore(db),
	}
	f.router = routing.NewRouter(routing.Deps{
		Tickets:     f.tickets,
		Sessions:    f.sessions,
		Faq:         f.faq,
		Operators:   service.NewOperatorService(st),
		Bindings:    f.bindings,
		CompanyInfo: "About us",
		Logger:      logger,
	})
	return f
}

func (f *fixture) route(t *testing.T, ev routing.Event) []routing.Action {
	t.Helper()
	actions, err := f.router.Route(context.Background(), ev)
	require.NoError(t, err)
	return actions
}

func customerText(id, text string) routing.Event {
	return routing.FreeText(service.RoleCustomer, id, tenant, text)
}

func operatorText(id, text string) routing.Event {
	return routing.FreeText(service.RoleOperator, id, tenant, text)
}

func operatorCmd(id string, cmd routing.Command, ticketID uint64, origin routing.Origin) routing.Event {
	ev := routing.Structured(service.RoleOperator, id, tenant, cmd)
	ev.ID = ticketID
	ev.Origin = origin
	return ev
}

func kinds(actions []routing.Action) []routing.ActionKind {
	out := make([]routing.ActionKind, len(actions))
	for i, a := range actions {
		out[i] = a.Kind
	}
	return out
}

func TestContactOperatorCreatesTicket(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	actions := f.route(t, routing.Structured(service.RoleCustomer, "100", tenant, routing.CmdContactOperator))
	assert.Equal(t, []routing.ActionKind{routing.ActReply}, kinds(actions))
	us, err := f.sessions.GetState(ctx, "100")
	require.NoError(t, err)
	require.NotNil(t, us)
	assert.Equal(t, model.SessionStateAwaitingTicketText, us.State)

	actions = f.route(t, customerText("100", "My printer is broken"))
	require.Equal(t, []routing.ActionKind{routing.ActNotifyOperators, routing.ActReplyToCustomer}, kinds(actions))
	notify := actions[0]
	assert.Equal(t, tenant, notify.TenantID)
	require.NotNil(t, notify.Ticket)
	assert.Equal(t, model.TicketStatusOpen, notify.Ticket.Status)
	assert.Equal(t, "My printer is broken", notify.Ticket.QuestionText)
	assert.Equal(t, "100", actions[1].Recipient)

	us, err = f.sessions.GetState(ctx, "100")
	require.NoError(t, err)
	assert.Nil(t, us, "session must be cleared once the ticket exists")

	open, err := f.tickets.ListOpen(ctx, tenant)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestBlankTicketTextKeepsSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.sessions.SetState(ctx, "100", tenant, model.SessionStateAwaitingTicketText, "")
	require.NoError(t, err)

	actions := f.route(t, customerText("100", "   "))
	require.Equal(t, []routing.ActionKind{routing.ActActionRejected}, kinds(actions))

	us, err := f.sessions.GetState(ctx, "100")
	require.NoError(t, err)
	require.NotNil(t, us)
	assert.Equal(t, model.SessionStateAwaitingTicketText, us.State)
}

func TestFaqSearchWhileBrowsing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	entry, err := f.faq.Create(ctx, tenant, "How to reset password?", "Use the reset link.")
	require.NoError(t, err)
	_, err = f.faq.Create(ctx, tenant, "Delivery times", "Two days.")
	require.NoError(t, err)

	actions := f.route(t, routing.Structured(service.RoleCustomer, "100", tenant, routing.CmdFaqList))
	require.Equal(t, []routing.ActionKind{routing.ActShowFaqList}, kinds(actions))
	assert.Len(t, actions[0].Entries, 2)

	actions = f.route(t, customerText("100", "PASSWORD"))
	require.Equal(t, []routing.ActionKind{routing.ActShowFaqMatches}, kinds(actions))
	require.Len(t, actions[0].Entries, 1)
	assert.Equal(t, entry.ID, actions[0].Entries[0].ID)

	actions = f.route(t, customerText("100", "xyz123"))
	assert.Equal(t, []routing.ActionKind{routing.ActNoMatches}, kinds(actions))

	us, err := f.sessions.GetState(ctx, "100")
	require.NoError(t, err)
	require.NotNil(t, us, "searching must not end the FAQ session")
	assert.Equal(t, model.SessionStateBrowsingFaq, us.State)
}

func TestFaqSelectShowsAnswer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	entry, err := f.faq.Create(ctx, tenant, "Q", "The answer")
	require.NoError(t, err)

	ev := routing.Structured(service.RoleCustomer, "100", tenant, routing.CmdFaqSelect)
	ev.ID = entry.ID
	actions := f.route(t, ev)
	require.Equal(t, []routing.ActionKind{routing.ActShowFaqAnswer}, kinds(actions))
	assert.Equal(t, "The answer", actions[0].Text)

	ev.ID = entry.ID + 100
	actions = f.route(t, ev)
	assert.Equal(t, []routing.ActionKind{routing.ActShowMainMenu}, kinds(actions))
}

func TestCustomerWithActiveTicketIsForwarded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ticket, err := f.tickets.Create(ctx, tenant, "100", "help")
	require.NoError(t, err)
	_, err = f.tickets.Assign(ctx, tenant, ticket.ID, "A")
	require.NoError(t, err)

	actions := f.route(t, customerText("100", "still broken"))
	require.Equal(t, []routing.ActionKind{routing.ActForwardToOperator}, kinds(actions))
	assert.Equal(t, "A", actions[0].Recipient)
	assert.Equal(t, "still broken", actions[0].Text)
	assert.Equal(t, ticket.ID, actions[0].Ticket.ID)
}

func TestUnknownCustomerTextShowsMenu(t *testing.T) {
	f := newFixture(t)
	actions := f.route(t, customerText("100", "hello?"))
	assert.Equal(t, []routing.ActionKind{routing.ActShowMainMenu}, kinds(actions))
}

func TestAssignBindsAndNotifiesCustomer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ticket, err := f.tickets.Create(ctx, tenant, "100", "help")
	require.NoError(t, err)
	// leftover session from before the assignment
	_, err = f.sessions.SetState(ctx, "100", tenant, model.SessionStateBrowsingFaq, "")
	require.NoError(t, err)

	actions := f.route(t, operatorCmd("A", routing.CmdAssign, ticket.ID, routing.OriginOpen))
	require.Equal(t, []routing.ActionKind{routing.ActTicketAssigned, routing.ActNotifyCustomer}, kinds(actions))
	assert.Equal(t, routing.OriginOpen, actions[0].Origin)
	assert.Equal(t, "100", actions[1].Recipient)
	assert.Equal(t, routing.NoticeTaken, actions[1].Notice)

	bound, ok, err := f.bindings.Get(ctx, tenant, "A")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ticket.ID, bound)

	actions = f.route(t, customerText("100", "still broken"))
	assert.Equal(t, []routing.ActionKind{routing.ActForwardToOperator}, kinds(actions))
}

func TestSecondAssignIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ticket, err := f.tickets.Create(ctx, tenant, "100", "help")
	require.NoError(t, err)

	f.route(t, operatorCmd("A", routing.CmdAssign, ticket.ID, routing.OriginOpen))
	actions := f.route(t, operatorCmd("B", routing.CmdAssign, ticket.ID, routing.OriginOpen))
	require.Equal(t, []routing.ActionKind{routing.ActActionRejected}, kinds(actions))
	assert.Equal(t, "B", actions[0].Recipient)
	assert.Equal(t, routing.OriginOpen, actions[0].Origin)
	assert.NotEmpty(t, actions[0].Text)

	got, err := f.tickets.Get(ctx, tenant, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.OperatorID)
}

func TestOperatorTextFollowsBinding(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	actions := f.route(t, operatorText("A", "hello"))
	assert.Equal(t, []routing.ActionKind{routing.ActPromptNoCurrentTicket}, kinds(actions))

	ticket, err := f.tickets.Create(ctx, tenant, "100", "help")
	require.NoError(t, err)
	f.route(t, operatorCmd("A", routing.CmdAssign, ticket.ID, routing.OriginOpen))

	actions = f.route(t, operatorText("A", "Try turning it off and on"))
	require.Equal(t, []routing.ActionKind{routing.ActForwardToCustomer}, kinds(actions))
	assert.Equal(t, "100", actions[0].Recipient)
	assert.Equal(t, "Try turning it off and on", actions[0].Text)
}

func TestStaleBindingIsCleared(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ticket, err := f.tickets.Create(ctx, tenant, "100", "help")
	require.NoError(t, err)
	// binding to a ticket the operator never took
	require.NoError(t, f.bindings.Set(ctx, tenant, "A", ticket.ID))

	actions := f.route(t, operatorText("A", "hello"))
	assert.Equal(t, []routing.ActionKind{routing.ActPromptNoCurrentTicket}, kinds(actions))

	_, ok, err := f.bindings.Get(ctx, tenant, "A")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCloseUnbindsAndNotifies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ticket, err := f.tickets.Create(ctx, tenant, "100", "help")
	require.NoError(t, err)
	f.route(t, operatorCmd("A", routing.CmdAssign, ticket.ID, routing.OriginOpen))

	actions := f.route(t, operatorCmd("B", routing.CmdClose, ticket.ID, routing.OriginMine))
	require.Equal(t, []routing.ActionKind{routing.ActActionRejected}, kinds(actions))
	assert.Equal(t, routing.OriginMine, actions[0].Origin)

	actions = f.route(t, operatorCmd("A", routing.CmdClose, ticket.ID, routing.OriginMine))
	require.Equal(t, []routing.ActionKind{routing.ActTicketClosed, routing.ActNotifyCustomer}, kinds(actions))
	assert.True(t, actions[0].Unbound)
	assert.Equal(t, model.TicketStatusClosed, actions[0].Ticket.Status)
	assert.Equal(t, routing.NoticeClosed, actions[1].Notice)

	_, ok, err := f.bindings.Get(ctx, tenant, "A")
	require.NoError(t, err)
	assert.False(t, ok)

	actions = f.route(t, customerText("100", "thanks"))
	assert.Equal(t, []routing.ActionKind{routing.ActShowMainMenu}, kinds(actions))
}

func TestCloseOfOtherTicketKeepsBinding(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first, err := f.tickets.Create(ctx, tenant, "100", "one")
	require.NoError(t, err)
	second, err := f.tickets.Create(ctx, tenant, "200", "two")
	require.NoError(t, err)
	f.route(t, operatorCmd("A", routing.CmdAssign, first.ID, routing.OriginOpen))
	f.route(t, operatorCmd("A", routing.CmdAssign, second.ID, routing.OriginOpen))

	actions := f.route(t, operatorCmd("A", routing.CmdClose, first.ID, routing.OriginMine))
	require.Equal(t, routing.ActTicketClosed, actions[0].Kind)
	assert.False(t, actions[0].Unbound)

	bound, ok, err := f.bindings.Get(ctx, tenant, "A")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, second.ID, bound)
}

func TestSelectSwitchesCurrentTicket(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first, err := f.tickets.Create(ctx, tenant, "100", "one")
	require.NoError(t, err)
	second, err := f.tickets.Create(ctx, tenant, "200", "two")
	require.NoError(t, err)
	f.route(t, operatorCmd("A", routing.CmdAssign, first.ID, routing.OriginOpen))
	f.route(t, operatorCmd("A", routing.CmdAssign, second.ID, routing.OriginOpen))

	actions := f.route(t, operatorCmd("A", routing.CmdSelectPrompt, 0, ""))
	require.Equal(t, []routing.ActionKind{routing.ActShowTicketList}, kinds(actions))
	assert.Equal(t, routing.ListSelect, actions[0].List)
	assert.Len(t, actions[0].Tickets, 2)

	actions = f.route(t, operatorCmd("A", routing.CmdSelect, first.ID, ""))
	require.Equal(t, []routing.ActionKind{routing.ActReply}, kinds(actions))

	actions = f.route(t, operatorText("A", "hi"))
	require.Equal(t, []routing.ActionKind{routing.ActForwardToCustomer}, kinds(actions))
	assert.Equal(t, "100", actions[0].Recipient)

	actions = f.route(t, operatorCmd("B", routing.CmdSelect, second.ID, ""))
	assert.Equal(t, []routing.ActionKind{routing.ActActionRejected}, kinds(actions))
}

func TestOperatorListings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first, err := f.tickets.Create(ctx, tenant, "100", "one")
	require.NoError(t, err)
	_, err = f.tickets.Create(ctx, tenant, "200", "two")
	require.NoError(t, err)
	f.route(t, operatorCmd("A", routing.CmdAssign, first.ID, routing.OriginOpen))

	actions := f.route(t, operatorCmd("A", routing.CmdListOpen, 0, ""))
	require.Len(t, actions, 1)
	assert.Equal(t, routing.ListOpen, actions[0].List)
	assert.Len(t, actions[0].Tickets, 1)

	actions = f.route(t, operatorCmd("A", routing.CmdListMine, 0, ""))
	require.Len(t, actions, 1)
	assert.Equal(t, routing.ListMine, actions[0].List)
	require.Len(t, actions[0].Tickets, 1)
	assert.Equal(t, first.ID, actions[0].Tickets[0].ID)

	actions = f.route(t, operatorCmd("A", routing.CmdViewTicket, first.ID, routing.OriginMine))
	require.Equal(t, []routing.ActionKind{routing.ActShowTicketActions}, kinds(actions))
	assert.Equal(t, routing.OriginMine, actions[0].Origin)

	actions = f.route(t, operatorCmd("A", routing.CmdViewTicket, 999, routing.OriginMine))
	assert.Equal(t, []routing.ActionKind{routing.ActActionRejected}, kinds(actions))
}

func TestRoleMismatchIsRejected(t *testing.T) {
	f := newFixture(t)
	ev := routing.Structured(service.RoleCustomer, "100", tenant, routing.CmdAssign)
	ev.ID = 1
	actions := f.route(t, ev)
	assert.Equal(t, []routing.ActionKind{routing.ActActionRejected}, kinds(actions))

	actions = f.route(t, routing.Structured(service.RoleOperator, "A", tenant, routing.CmdAddFaq))
	assert.Equal(t, []routing.ActionKind{routing.ActActionRejected}, kinds(actions))
}

func TestStartDependsOnRole(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []routing.ActionKind{routing.ActShowMainMenu},
		kinds(f.route(t, routing.Structured(service.RoleCustomer, "100", tenant, routing.CmdStart))))
	assert.Equal(t, []routing.ActionKind{routing.ActShowOperatorMenu},
		kinds(f.route(t, routing.Structured(service.RoleOperator, "A", tenant, routing.CmdStart))))
	assert.Equal(t, []routing.ActionKind{routing.ActReply},
		kinds(f.route(t, routing.Structured(service.RoleAdmin, "1", tenant, routing.CmdStart))))
}

func TestUnknownCommandLeavesStateAlone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.sessions.SetState(ctx, "100", tenant, model.SessionStateAwaitingTicketText, "")
	require.NoError(t, err)

	actions := f.route(t, routing.Structured(service.RoleCustomer, "100", tenant, routing.CmdUnknown))
	assert.Equal(t, []routing.ActionKind{routing.ActShowMainMenu}, kinds(actions))

	us, err := f.sessions.GetState(ctx, "100")
	require.NoError(t, err)
	require.NotNil(t, us)
	assert.Equal(t, model.SessionStateAwaitingTicketText, us.State)
	open, err := f.tickets.ListOpen(ctx, tenant)
	require.NoError(t, err)
	assert.Empty(t, open, "an unknown command must not open a ticket")

	ticket, err := f.tickets.Create(ctx, tenant, "200", "help")
	require.NoError(t, err)
	f.route(t, operatorCmd("A", routing.CmdAssign, ticket.ID, routing.OriginOpen))

	actions = f.route(t, routing.Structured(service.RoleOperator, "A", tenant, routing.CmdUnknown))
	assert.Equal(t, []routing.ActionKind{routing.ActShowOperatorMenu}, kinds(actions))
	assert.NotEqual(t, "200", actions[0].Recipient, "nothing is forwarded to the customer")

	actions = f.route(t, routing.Structured(service.RoleAdmin, "1", tenant, routing.CmdUnknown))
	assert.Equal(t, []routing.ActionKind{routing.ActReply}, kinds(actions))
}
