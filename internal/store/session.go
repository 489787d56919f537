package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/psds-microservice/support-router/internal/model"
	"gorm.io/gorm/clause"
)

// UpsertSession создаёт сессию клиента или перезаписывает её состояние на месте.
func (s *Store) UpsertSession(ctx context.Context, us *model.UserSession) error {
	us.UpdatedAt = s.db.NowFunc()
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tenant_id", "state", "payload", "updated_at"}),
	}).Create(us).Error
	if err != nil {
		return errors.Wrapf(err, "failed to upsert session %s", us.CustomerID)
	}
	return nil
}

// GetSession returns the customer's session, or nil if none exists.
func (s *Store) GetSession(ctx context.Context, customerID string) (*model.UserSession, error) {
	var list []model.UserSession
	if err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).Limit(1).Find(&list).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to get session %s", customerID)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (s *Store) DeleteSession(ctx context.Context, customerID string) error {
	if err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&model.UserSession{}).Error; err != nil {
		return errors.Wrapf(err, "failed to delete session %s", customerID)
	}
	return nil
}
