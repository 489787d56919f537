package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/psds-microservice/support-router/internal/model"
	"gorm.io/gorm"
)

type FindOperator struct {
	TenantID   *int64
	ExternalID *string
	IsActive   *bool
}

// UpsertOperator регистрирует оператора. Существующая запись с тем же external_id
// (в том числе отключённая) активируется заново, имя и тенант обновляются.
func (s *Store) UpsertOperator(ctx context.Context, tenantID int64, externalID, fullName string) (*model.Operator, error) {
	var op model.Operator
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("external_id = ?", externalID).First(&op).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			op = model.Operator{
				TenantID:   tenantID,
				ExternalID: externalID,
				FullName:   fullName,
				IsActive:   true,
			}
			return tx.Create(&op).Error
		}
		if err != nil {
			return err
		}
		op.TenantID = tenantID
		op.FullName = fullName
		op.IsActive = true
		return tx.Model(&op).Select("tenant_id", "full_name", "is_active", "updated_at").Updates(&op).Error
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to upsert operator %s", externalID)
	}
	return &op, nil
}

func (s *Store) ListOperators(ctx context.Context, find *FindOperator) ([]model.Operator, error) {
	tx := s.db.WithContext(ctx).Model(&model.Operator{})
	if v := find.TenantID; v != nil {
		tx = tx.Where("tenant_id = ?", *v)
	}
	if v := find.ExternalID; v != nil {
		tx = tx.Where("external_id = ?", *v)
	}
	if v := find.IsActive; v != nil {
		tx = tx.Where("is_active = ?", *v)
	}
	var list []model.Operator
	if err := tx.Order("id ASC").Find(&list).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list operators")
	}
	return list, nil
}

// GetOperator returns the first operator matching find, or nil.
func (s *Store) GetOperator(ctx context.Context, find *FindOperator) (*model.Operator, error) {
	list, err := s.ListOperators(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (s *Store) DeactivateOperator(ctx context.Context, id uint64) error {
	err := s.db.WithContext(ctx).Model(&model.Operator{}).
		Where("id = ?", id).
		Update("is_active", false).Error
	if err != nil {
		return errors.Wrapf(err, "failed to deactivate operator %d", id)
	}
	return nil
}
