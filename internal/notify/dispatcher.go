// Package notify turns routing actions into outbound deliveries.
package notify

import (
	"context"
	"log/slog"

	"github.com/psds-microservice/support-router/internal/kafka"
	"github.com/psds-microservice/support-router/internal/model"
	"github.com/psds-microservice/support-router/internal/routing"
	"golang.org/x/sync/errgroup"
)

// Sender delivers one action to one chat.
type Sender interface {
	Deliver(ctx context.Context, chatID string, a routing.Action) error
}

// OperatorLister returns the operators that receive new-ticket notifications.
type OperatorLister interface {
	ListActive(ctx context.Context, tenantID int64) ([]model.Operator, error)
}

const fanOutLimit = 8

type Dispatcher struct {
	sender    Sender
	operators OperatorLister
	events    kafka.TicketEventProducer
	logger    *slog.Logger
}

// NewDispatcher; events may be nil when ticket events are not published.
func NewDispatcher(sender Sender, operators OperatorLister, events kafka.TicketEventProducer, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{sender: sender, operators: operators, events: events, logger: logger}
}

// Dispatch delivers every action. Delivery is fire-and-forget per recipient:
// failures are logged and never returned, so a dead chat cannot undo a ticket
// that is already stored.
func (d *Dispatcher) Dispatch(ctx context.Context, actions []routing.Action) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for _, a := range actions {
		d.publish(ctx, a)
		for _, to := range d.recipients(ctx, a) {
			g.Go(func() error {
				if err := d.sender.Deliver(gctx, to, a); err != nil {
					d.logger.Warn("delivery failed", "action", a.Kind, "chat_id", to, "err", err)
				}
				return nil
			})
		}
	}
	_ = g.Wait()
}

func (d *Dispatcher) recipients(ctx context.Context, a routing.Action) []string {
	if a.Kind != routing.ActNotifyOperators {
		if a.Recipient == "" {
			d.logger.Warn("action without recipient dropped", "action", a.Kind)
			return nil
		}
		return []string{a.Recipient}
	}
	ops, err := d.operators.ListActive(ctx, a.TenantID)
	if err != nil {
		d.logger.Error("failed to list operators for notification", "tenant_id", a.TenantID, "err", err)
		return nil
	}
	if len(ops) == 0 {
		d.logger.Warn("no active operators to notify", "tenant_id", a.TenantID)
	}
	ids := make([]string, 0, len(ops))
	for _, op := range ops {
		ids = append(ids, op.ExternalID)
	}
	return ids
}

func (d *Dispatcher) publish(ctx context.Context, a routing.Action) {
	if d.events == nil || a.Ticket == nil {
		return
	}
	var event string
	switch a.Kind {
	case routing.ActNotifyOperators:
		event = kafka.EventTicketCreated
	case routing.ActTicketAssigned:
		event = kafka.EventTicketAssigned
	case routing.ActTicketClosed:
		event = kafka.EventTicketClosed
	default:
		return
	}
	d.events.ProduceTicketEvent(ctx, event, a.Ticket)
}
