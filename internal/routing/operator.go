package routing

import (
	"context"
	"fmt"

	"github.com/psds-microservice/support-router/internal/errs"
	"github.com/psds-microservice/support-router/internal/model"
)

const operatorMenuText = "Operator menu:"

// operatorText relays the message to the customer of the operator's current
// ticket. A binding that points at a ticket the operator no longer works on
// is dropped.
func (r *Router) operatorText(ctx context.Context, ev Event) ([]Action, error) {
	ticketID, ok, err := r.Bindings.Get(ctx, ev.TenantID, ev.ActorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Action{PromptNoCurrentTicket(ev.ActorID)}, nil
	}
	t, err := r.Tickets.Get(ctx, ev.TenantID, ticketID)
	if err != nil && !errs.IsNotFound(err) {
		return nil, err
	}
	if t == nil || t.Status != model.TicketStatusInProgress || t.OperatorID != ev.ActorID {
		if _, err := r.Bindings.ClearIf(ctx, ev.TenantID, ev.ActorID, ticketID); err != nil {
			return nil, err
		}
		r.Logger.Info("stale operator binding cleared", "operator_id", ev.ActorID, "ticket_id", ticketID)
		return []Action{PromptNoCurrentTicket(ev.ActorID)}, nil
	}
	return []Action{ForwardToCustomer(t.CustomerID, t, ev.Text)}, nil
}

func (r *Router) operatorMenu(ev Event) []Action {
	return []Action{{Kind: ActShowOperatorMenu, Recipient: ev.ActorID, Text: operatorMenuText}}
}

func (r *Router) operatorCommand(ctx context.Context, ev Event) ([]Action, error) {
	switch ev.Command {
	case CmdOperatorMenu:
		return r.operatorMenu(ev), nil

	case CmdListOpen:
		tickets, err := r.Tickets.ListOpen(ctx, ev.TenantID)
		if err != nil {
			return nil, err
		}
		return []Action{ticketList(ev.ActorID, ListOpen, tickets)}, nil

	case CmdListMine, CmdSelectPrompt:
		tickets, err := r.Tickets.ListAssignedTo(ctx, ev.ActorID, ev.TenantID)
		if err != nil {
			return nil, err
		}
		kind := ListMine
		if ev.Command == CmdSelectPrompt {
			kind = ListSelect
		}
		return []Action{ticketList(ev.ActorID, kind, tickets)}, nil

	case CmdViewTicket:
		t, err := r.Tickets.Get(ctx, ev.TenantID, ev.ID)
		if err != nil {
			return nil, err
		}
		return []Action{{Kind: ActShowTicketActions, Recipient: ev.ActorID, Ticket: t, Origin: ev.Origin}}, nil

	case CmdSelect:
		return r.selectTicket(ctx, ev)
	case CmdAssign:
		return r.assign(ctx, ev)
	case CmdClose:
		return r.close(ctx, ev)
	}
	return nil, notAvailable()
}

func ticketList(to string, kind ListKind, tickets []model.Ticket) Action {
	return Action{Kind: ActShowTicketList, Recipient: to, List: kind, Tickets: tickets}
}

// selectTicket makes one of the operator's in-progress tickets the current one.
func (r *Router) selectTicket(ctx context.Context, ev Event) ([]Action, error) {
	t, err := r.Tickets.Get(ctx, ev.TenantID, ev.ID)
	if err != nil {
		return nil, err
	}
	if t.OperatorID != ev.ActorID {
		return nil, errs.Authorization(fmt.Sprintf("Ticket #%d is not assigned to you.", t.ID))
	}
	if t.Status != model.TicketStatusInProgress {
		return nil, errs.Conflict(fmt.Sprintf("Ticket #%d is not in progress.", t.ID))
	}
	if err := r.Bindings.Set(ctx, ev.TenantID, ev.ActorID, t.ID); err != nil {
		return nil, err
	}
	return []Action{Reply(ev.ActorID, fmt.Sprintf("Ticket #%d selected. Your messages will now go to this customer.", t.ID))}, nil
}

func (r *Router) assign(ctx context.Context, ev Event) ([]Action, error) {
	t, err := r.Tickets.Assign(ctx, ev.TenantID, ev.ID, ev.ActorID)
	if err != nil {
		return nil, err
	}
	// The assignment is committed; a lost binding only means the operator
	// has to pick the ticket explicitly before writing.
	if err := r.Bindings.Set(ctx, ev.TenantID, ev.ActorID, t.ID); err != nil {
		r.Logger.Error("failed to bind assigned ticket", "operator_id", ev.ActorID, "ticket_id", t.ID, "err", err)
	}
	// From now on the customer's text belongs to the operator, so a leftover
	// FAQ or ticket-text session must not intercept it.
	if err := r.Sessions.Clear(ctx, t.CustomerID); err != nil {
		r.Logger.Error("failed to clear customer session", "customer_id", t.CustomerID, "ticket_id", t.ID, "err", err)
	}
	return []Action{
		{Kind: ActTicketAssigned, Recipient: ev.ActorID, Ticket: t, Origin: ev.Origin},
		{Kind: ActNotifyCustomer, Recipient: t.CustomerID, Ticket: t, Notice: NoticeTaken},
	}, nil
}

func (r *Router) close(ctx context.Context, ev Event) ([]Action, error) {
	t, err := r.Tickets.Close(ctx, ev.TenantID, ev.ID, ev.ActorID)
	if err != nil {
		return nil, err
	}
	unbound, err := r.Bindings.ClearIf(ctx, ev.TenantID, ev.ActorID, t.ID)
	if err != nil {
		r.Logger.Error("failed to clear binding of closed ticket", "operator_id", ev.ActorID, "ticket_id", t.ID, "err", err)
	}
	return []Action{
		{Kind: ActTicketClosed, Recipient: ev.ActorID, Ticket: t, Origin: ev.Origin, Unbound: unbound},
		{Kind: ActNotifyCustomer, Recipient: t.CustomerID, Ticket: t, Notice: NoticeClosed},
	}, nil
}
