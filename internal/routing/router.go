// Package routing decides what happens with every inbound event.
//
// Route reads the current ticket, session and binding state, applies the
// mutation the event asks for (through the engines) and returns the actions
// the transport must perform. It does no transport I/O itself.
package routing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/psds-microservice/support-router/internal/binding"
	"github.com/psds-microservice/support-router/internal/errs"
	"github.com/psds-microservice/support-router/internal/model"
	"github.com/psds-microservice/support-router/internal/service"
)

type SessionEngine interface {
	SetState(ctx context.Context, customerID string, tenantID int64, state model.SessionState, payload string) (*model.UserSession, error)
	GetState(ctx context.Context, customerID string) (*model.UserSession, error)
	Clear(ctx context.Context, customerID string) error
}

type FaqEngine interface {
	Create(ctx context.Context, tenantID int64, question, answer string) (*model.FAQEntry, error)
	Update(ctx context.Context, tenantID int64, id uint64, question, answer string) error
	Delete(ctx context.Context, tenantID int64, id uint64) error
	Get(ctx context.Context, tenantID int64, id uint64) (*model.FAQEntry, error)
	List(ctx context.Context, tenantID int64) ([]model.FAQEntry, error)
	Search(ctx context.Context, tenantID int64, keyword string) ([]model.FAQEntry, error)
}

type OperatorRegistry interface {
	Register(ctx context.Context, tenantID int64, externalID, fullName string) (*model.Operator, error)
	Remove(ctx context.Context, tenantID int64, externalID string) (*model.Operator, error)
}

type Deps struct {
	Tickets   service.TicketServicer
	Sessions  SessionEngine
	Faq       FaqEngine
	Operators OperatorRegistry
	Bindings  binding.Store
	// CompanyInfo is the text shown for the "about" button.
	CompanyInfo string
	Logger      *slog.Logger
}

type Router struct {
	Deps
}

func NewRouter(deps Deps) *Router {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Router{Deps: deps}
}

// Route returns the actions for ev. Expected domain failures (validation,
// conflict, authorization, not found) become an ActionRejected action;
// only infrastructure failures are returned as errors.
func (r *Router) Route(ctx context.Context, ev Event) ([]Action, error) {
	var (
		actions []Action
		err     error
	)
	switch ev.Kind {
	case KindFreeText:
		actions, err = r.routeText(ctx, ev)
	case KindAction:
		actions, err = r.routeCommand(ctx, ev)
	default:
		return nil, fmt.Errorf("routing: unknown event kind %q", ev.Kind)
	}
	if err != nil {
		if reason, ok := errs.UserMessage(err); ok {
			r.Logger.Info("action rejected",
				"actor_id", ev.ActorID, "role", ev.Role, "command", ev.Command, "kind", errs.KindOf(err).String(), "reason", reason)
			return []Action{ActionRejected(ev.ActorID, reason, ev.Origin)}, nil
		}
		return nil, err
	}
	return actions, nil
}

func (r *Router) routeText(ctx context.Context, ev Event) ([]Action, error) {
	switch ev.Role {
	case service.RoleCustomer:
		return r.customerText(ctx, ev)
	case service.RoleOperator:
		return r.operatorText(ctx, ev)
	case service.RoleAdmin:
		return []Action{Reply(ev.ActorID, adminHelp)}, nil
	}
	return nil, fmt.Errorf("routing: unknown role %q", ev.Role)
}

func (r *Router) routeCommand(ctx context.Context, ev Event) ([]Action, error) {
	if ev.Command == CmdUnknown {
		switch ev.Role {
		case service.RoleOperator:
			return []Action{{Kind: ActShowOperatorMenu, Recipient: ev.ActorID, Text: unknownCommand}}, nil
		case service.RoleAdmin:
			return []Action{Reply(ev.ActorID, unknownCommand+"\n\n"+adminHelp)}, nil
		}
		return []Action{ShowMainMenu(ev.ActorID, unknownCommand)}, nil
	}
	if ev.Command == CmdStart {
		switch ev.Role {
		case service.RoleOperator:
			return r.operatorMenu(ev), nil
		case service.RoleAdmin:
			return []Action{Reply(ev.ActorID, adminHelp)}, nil
		}
		return []Action{ShowMainMenu(ev.ActorID, greeting)}, nil
	}
	switch ev.Role {
	case service.RoleCustomer:
		return r.customerCommand(ctx, ev)
	case service.RoleOperator:
		return r.operatorCommand(ctx, ev)
	case service.RoleAdmin:
		return r.adminCommand(ctx, ev)
	}
	return nil, fmt.Errorf("routing: unknown role %q", ev.Role)
}

const unknownCommand = "Unknown command. Please use the menu."

func notAvailable() error {
	return errs.Authorization("This action is not available to you.")
}
