package binding

import (
	"context"

	"github.com/pkg/errors"
	"github.com/psds-microservice/support-router/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBStore keeps bindings in the operator_bindings table.
type DBStore struct {
	db *gorm.DB
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Get(ctx context.Context, tenantID int64, operatorID string) (uint64, bool, error) {
	var list []model.OperatorBinding
	err := s.db.WithContext(ctx).
		Where("operator_id = ? AND tenant_id = ?", operatorID, tenantID).
		Limit(1).Find(&list).Error
	if err != nil {
		return 0, false, errors.Wrapf(err, "failed to get binding of %s", operatorID)
	}
	if len(list) == 0 {
		return 0, false, nil
	}
	return list[0].TicketID, true, nil
}

func (s *DBStore) Set(ctx context.Context, tenantID int64, operatorID string, ticketID uint64) error {
	b := &model.OperatorBinding{
		OperatorID: operatorID,
		TenantID:   tenantID,
		TicketID:   ticketID,
		UpdatedAt:  s.db.NowFunc(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "operator_id"}, {Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"ticket_id", "updated_at"}),
	}).Create(b).Error
	if err != nil {
		return errors.Wrapf(err, "failed to bind %s to ticket %d", operatorID, ticketID)
	}
	return nil
}

func (s *DBStore) Clear(ctx context.Context, tenantID int64, operatorID string) error {
	err := s.db.WithContext(ctx).
		Where("operator_id = ? AND tenant_id = ?", operatorID, tenantID).
		Delete(&model.OperatorBinding{}).Error
	if err != nil {
		return errors.Wrapf(err, "failed to clear binding of %s", operatorID)
	}
	return nil
}

func (s *DBStore) ClearIf(ctx context.Context, tenantID int64, operatorID string, ticketID uint64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("operator_id = ? AND tenant_id = ? AND ticket_id = ?", operatorID, tenantID, ticketID).
		Delete(&model.OperatorBinding{})
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "failed to clear binding of %s", operatorID)
	}
	return res.RowsAffected > 0, nil
}
