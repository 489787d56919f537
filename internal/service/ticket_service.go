package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/psds-microservice/support-router/internal/errs"
	"github.com/psds-microservice/support-router/internal/model"
	"github.com/psds-microservice/support-router/internal/store"
	"gorm.io/gorm"
)

// TicketStore: операции хранилища, нужные жизненному циклу тикета.
type TicketStore interface {
	CreateTicket(ctx context.Context, t *model.Ticket) error
	GetTicket(ctx context.Context, id uint64) (*model.Ticket, error)
	ListTickets(ctx context.Context, find *store.FindTicket) ([]model.Ticket, error)
	CountTickets(ctx context.Context, find *store.FindTicket) (int64, error)
	FindActiveTicket(ctx context.Context, customerID string) (*model.Ticket, error)
	TransitionTicket(ctx context.Context, tr store.TicketTransition) (bool, error)
}

// TicketServicer: абстракция движка тикетов для маршрутизатора и HTTP-слоя.
type TicketServicer interface {
	Create(ctx context.Context, tenantID int64, customerID, text string) (*model.Ticket, error)
	Assign(ctx context.Context, tenantID int64, ticketID uint64, operatorID string) (*model.Ticket, error)
	Close(ctx context.Context, tenantID int64, ticketID uint64, operatorID string) (*model.Ticket, error)
	Get(ctx context.Context, tenantID int64, ticketID uint64) (*model.Ticket, error)
	FindActiveForCustomer(ctx context.Context, customerID string) (*model.Ticket, error)
	ListOpen(ctx context.Context, tenantID int64) ([]model.Ticket, error)
	ListAssignedTo(ctx context.Context, operatorID string, tenantID int64) ([]model.Ticket, error)
}

// TicketService enforces open -> in_progress -> closed.
// Every mutation is a conditional update; nothing is cached between calls.
type TicketService struct {
	store  TicketStore
	logger *slog.Logger
}

func NewTicketService(s TicketStore, logger *slog.Logger) *TicketService {
	return &TicketService{store: s, logger: logger}
}

func (s *TicketService) Create(ctx context.Context, tenantID int64, customerID, text string) (*model.Ticket, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.Validation("Please describe your problem: the message is empty.")
	}
	if customerID == "" {
		return nil, errs.Validation("customer id is required")
	}
	t := &model.Ticket{
		TenantID:     tenantID,
		CustomerID:   customerID,
		QuestionText: text,
		Status:       model.TicketStatusOpen,
	}
	if err := s.store.CreateTicket(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("ticket created", "ticket_id", t.ID, "tenant_id", tenantID, "customer_id", customerID)
	return t, nil
}

// Get returns the ticket if it belongs to tenantID.
func (s *TicketService) Get(ctx context.Context, tenantID int64, ticketID uint64) (*model.Ticket, error) {
	t, err := s.store.GetTicket(ctx, ticketID)
	if errors.Is(err, errs.ErrTicketNotFound) || (err == nil && t.TenantID != tenantID) {
		return nil, errs.NotFound(fmt.Sprintf("Ticket #%d not found.", ticketID), errs.ErrTicketNotFound)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TicketService) Assign(ctx context.Context, tenantID int64, ticketID uint64, operatorID string) (*model.Ticket, error) {
	if operatorID == "" {
		return nil, errs.Validation("operator id is required")
	}
	t, err := s.Get(ctx, tenantID, ticketID)
	if err != nil {
		return nil, err
	}
	if t.Status != model.TicketStatusOpen {
		return nil, alreadyTaken(ticketID)
	}
	active, err := s.store.FindActiveTicket(ctx, t.CustomerID)
	if err != nil {
		return nil, err
	}
	if active != nil && active.ID != t.ID {
		return nil, busyCustomer(ticketID, active.ID)
	}
	ok, err := s.store.TransitionTicket(ctx, store.TicketTransition{
		ID:          ticketID,
		From:        model.TicketStatusOpen,
		To:          model.TicketStatusInProgress,
		SetOperator: operatorID,
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// another ticket of the same customer was claimed concurrently
		return nil, busyCustomer(ticketID, 0)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Info("ticket assignment lost", "ticket_id", ticketID, "operator_id", operatorID)
		return nil, alreadyTaken(ticketID)
	}
	s.logger.Info("ticket assigned", "ticket_id", ticketID, "operator_id", operatorID)
	return s.Get(ctx, tenantID, ticketID)
}

func (s *TicketService) Close(ctx context.Context, tenantID int64, ticketID uint64, operatorID string) (*model.Ticket, error) {
	t, err := s.Get(ctx, tenantID, ticketID)
	if err != nil {
		return nil, err
	}
	if t.OperatorID != operatorID {
		return nil, errs.Authorization(fmt.Sprintf("You are not assigned to ticket #%d.", ticketID))
	}
	if t.Status != model.TicketStatusInProgress {
		return nil, notInProgress(ticketID)
	}
	ok, err := s.store.TransitionTicket(ctx, store.TicketTransition{
		ID:              ticketID,
		From:            model.TicketStatusInProgress,
		To:              model.TicketStatusClosed,
		RequireOperator: operatorID,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notInProgress(ticketID)
	}
	s.logger.Info("ticket closed", "ticket_id", ticketID, "operator_id", operatorID)
	return s.Get(ctx, tenantID, ticketID)
}

// FindActiveForCustomer returns the customer's in_progress ticket, or nil.
func (s *TicketService) FindActiveForCustomer(ctx context.Context, customerID string) (*model.Ticket, error) {
	return s.store.FindActiveTicket(ctx, customerID)
}

func (s *TicketService) ListOpen(ctx context.Context, tenantID int64) ([]model.Ticket, error) {
	status := model.TicketStatusOpen
	return s.store.ListTickets(ctx, &store.FindTicket{TenantID: &tenantID, Status: &status})
}

// ListAssignedTo returns the operator's tickets that are still in progress.
func (s *TicketService) ListAssignedTo(ctx context.Context, operatorID string, tenantID int64) ([]model.Ticket, error) {
	status := model.TicketStatusInProgress
	return s.store.ListTickets(ctx, &store.FindTicket{TenantID: &tenantID, OperatorID: &operatorID, Status: &status})
}

// List is an unrestricted listing used by the HTTP API. total counts every
// ticket matching find, ignoring Limit and Offset.
func (s *TicketService) List(ctx context.Context, find *store.FindTicket) (items []model.Ticket, total int64, err error) {
	total, err = s.store.CountTickets(ctx, find)
	if err != nil {
		return nil, 0, err
	}
	items, err = s.store.ListTickets(ctx, find)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func alreadyTaken(ticketID uint64) error {
	return errs.Conflict(fmt.Sprintf("Ticket #%d has already been taken or closed.", ticketID))
}

func notInProgress(ticketID uint64) error {
	return errs.Conflict(fmt.Sprintf("Ticket #%d is not in progress.", ticketID))
}

func busyCustomer(ticketID, activeID uint64) error {
	if activeID == 0 {
		return errs.Conflict(fmt.Sprintf("The customer of ticket #%d is already talking to an operator.", ticketID))
	}
	return errs.Conflict(fmt.Sprintf("The customer of ticket #%d is already talking to an operator in ticket #%d.", ticketID, activeID))
}
