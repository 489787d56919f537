package routing

import (
	"context"

	"github.com/psds-microservice/support-router/internal/errs"
	"github.com/psds-microservice/support-router/internal/model"
)

const (
	greeting         = "Hello! I am the support bot. How can I help you?\n\nChoose an action below:"
	unrecognized     = "Sorry, I did not understand the request. Please choose an action from the menu."
	ticketAck        = "Your request has been registered. Operators have been notified and will contact you shortly."
	describeProblem  = "Describe your problem in one message. One of our operators will contact you shortly."
	noFaqEntries     = "Sorry, there are no FAQ entries yet."
	faqAnswerMissing = "Sorry, the answer was not found."
	backToMenu       = "Back to the main menu."
)

// customerText applies the fixed precedence: ticket text capture, FAQ keyword,
// forward to the assigned operator, main menu.
func (r *Router) customerText(ctx context.Context, ev Event) ([]Action, error) {
	us, err := r.Sessions.GetState(ctx, ev.ActorID)
	if err != nil {
		return nil, err
	}
	if us != nil {
		switch us.State {
		case model.SessionStateAwaitingTicketText:
			// Not deduplicated: every message in this state opens a ticket.
			t, err := r.Tickets.Create(ctx, us.TenantID, ev.ActorID, ev.Text)
			if err != nil {
				return nil, err
			}
			if err := r.Sessions.Clear(ctx, ev.ActorID); err != nil {
				return nil, err
			}
			return []Action{
				NotifyOperators(us.TenantID, t),
				ReplyToCustomer(ev.ActorID, ticketAck),
			}, nil
		case model.SessionStateBrowsingFaq:
			entries, err := r.Faq.Search(ctx, us.TenantID, ev.Text)
			if err != nil {
				return nil, err
			}
			if len(entries) == 0 {
				return []Action{NoMatches(ev.ActorID)}, nil
			}
			return []Action{ShowFaqMatches(ev.ActorID, entries)}, nil
		}
	}
	active, err := r.Tickets.FindActiveForCustomer(ctx, ev.ActorID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return []Action{ForwardToOperator(active.OperatorID, active, ev.Text)}, nil
	}
	return []Action{ShowMainMenu(ev.ActorID, unrecognized)}, nil
}

func (r *Router) customerCommand(ctx context.Context, ev Event) ([]Action, error) {
	switch ev.Command {
	case CmdFaqList:
		entries, err := r.Faq.List(ctx, ev.TenantID)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return []Action{Reply(ev.ActorID, noFaqEntries)}, nil
		}
		if _, err := r.Sessions.SetState(ctx, ev.ActorID, ev.TenantID, model.SessionStateBrowsingFaq, ""); err != nil {
			return nil, err
		}
		return []Action{{Kind: ActShowFaqList, Recipient: ev.ActorID, Entries: entries}}, nil

	case CmdFaqSelect:
		if err := r.Sessions.Clear(ctx, ev.ActorID); err != nil {
			return nil, err
		}
		entry, err := r.Faq.Get(ctx, ev.TenantID, ev.ID)
		if errs.IsNotFound(err) {
			return []Action{ShowMainMenu(ev.ActorID, faqAnswerMissing)}, nil
		}
		if err != nil {
			return nil, err
		}
		return []Action{{Kind: ActShowFaqAnswer, Recipient: ev.ActorID, Entries: []model.FAQEntry{*entry}, Text: entry.Answer}}, nil

	case CmdFaqBack:
		if err := r.Sessions.Clear(ctx, ev.ActorID); err != nil {
			return nil, err
		}
		return []Action{ShowMainMenu(ev.ActorID, backToMenu)}, nil

	case CmdContactOperator:
		if _, err := r.Sessions.SetState(ctx, ev.ActorID, ev.TenantID, model.SessionStateAwaitingTicketText, ""); err != nil {
			return nil, err
		}
		return []Action{Reply(ev.ActorID, describeProblem)}, nil

	case CmdAbout:
		return []Action{ShowMainMenu(ev.ActorID, r.CompanyInfo)}, nil
	}
	return nil, notAvailable()
}
