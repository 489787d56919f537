package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/psds-microservice/support-router/internal/errs"
	"github.com/psds-microservice/support-router/internal/model"
	"gorm.io/gorm"
)

// FindTicket: фильтр ListTickets; nil-поля не участвуют в запросе.
type FindTicket struct {
	TenantID   *int64
	CustomerID *string
	OperatorID *string
	Status     *model.TicketStatus
	Limit      int
	Offset     int
}

// TicketTransition describes a conditional status change.
// The update applies only while the row still has status From
// and, when RequireOperator is set, operator_id = RequireOperator.
type TicketTransition struct {
	ID              uint64
	From            model.TicketStatus
	To              model.TicketStatus
	SetOperator     string
	RequireOperator string
}

func (s *Store) CreateTicket(ctx context.Context, t *model.Ticket) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return errors.Wrap(err, "failed to create ticket")
	}
	return nil
}

func (s *Store) GetTicket(ctx context.Context, id uint64) (*model.Ticket, error) {
	var t model.Ticket
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, errors.Wrapf(err, "failed to get ticket %d", id)
	}
	return &t, nil
}

func (s *Store) ticketQuery(ctx context.Context, find *FindTicket) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(&model.Ticket{})
	if v := find.TenantID; v != nil {
		tx = tx.Where("tenant_id = ?", *v)
	}
	if v := find.CustomerID; v != nil {
		tx = tx.Where("customer_id = ?", *v)
	}
	if v := find.OperatorID; v != nil {
		tx = tx.Where("operator_id = ?", *v)
	}
	if v := find.Status; v != nil {
		tx = tx.Where("status = ?", *v)
	}
	return tx
}

// CountTickets считает тикеты по фильтру без учёта Limit и Offset.
func (s *Store) CountTickets(ctx context.Context, find *FindTicket) (int64, error) {
	var total int64
	if err := s.ticketQuery(ctx, find).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count tickets")
	}
	return total, nil
}

func (s *Store) ListTickets(ctx context.Context, find *FindTicket) ([]model.Ticket, error) {
	tx := s.ticketQuery(ctx, find)
	if find.Limit > 0 {
		tx = tx.Limit(find.Limit)
	}
	if find.Offset > 0 {
		tx = tx.Offset(find.Offset)
	}
	var items []model.Ticket
	if err := tx.Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list tickets")
	}
	return items, nil
}

// FindActiveTicket возвращает тикет клиента в статусе in_progress или nil.
func (s *Store) FindActiveTicket(ctx context.Context, customerID string) (*model.Ticket, error) {
	var items []model.Ticket
	err := s.db.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, model.TicketStatusInProgress).
		Order("updated_at DESC").
		Limit(1).
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find active ticket")
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// TransitionTicket applies tr as a single UPDATE ... WHERE status = From.
// It reports whether a row was changed; false means the precondition no longer holds.
func (s *Store) TransitionTicket(ctx context.Context, tr TicketTransition) (bool, error) {
	now := s.db.NowFunc()
	updates := map[string]interface{}{
		"status":     tr.To,
		"updated_at": now,
	}
	if tr.SetOperator != "" {
		updates["operator_id"] = tr.SetOperator
	}
	if tr.To == model.TicketStatusClosed {
		updates["closed_at"] = now
	}
	tx := s.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("id = ? AND status = ?", tr.ID, tr.From)
	if tr.RequireOperator != "" {
		tx = tx.Where("operator_id = ?", tr.RequireOperator)
	}
	res := tx.Updates(updates)
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "failed to move ticket %d to %s", tr.ID, tr.To)
	}
	return res.RowsAffected == 1, nil
}
