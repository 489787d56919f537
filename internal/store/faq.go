package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/psds-microservice/support-router/internal/errs"
	"github.com/psds-microservice/support-router/internal/model"
	"gorm.io/gorm"
)

func (s *Store) CreateFaq(ctx context.Context, entry *model.FAQEntry) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return errors.Wrap(err, "failed to create faq entry")
	}
	return nil
}

func (s *Store) GetFaq(ctx context.Context, tenantID int64, id uint64) (*model.FAQEntry, error) {
	var entry model.FAQEntry
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrFaqNotFound
		}
		return nil, errors.Wrapf(err, "failed to get faq entry %d", id)
	}
	return &entry, nil
}

// UpdateFaq reports whether an entry with id existed for the tenant.
func (s *Store) UpdateFaq(ctx context.Context, tenantID int64, id uint64, question, answer string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.FAQEntry{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(map[string]interface{}{
			"question":   question,
			"answer":     answer,
			"updated_at": s.db.NowFunc(),
		})
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "failed to update faq entry %d", id)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) DeleteFaq(ctx context.Context, tenantID int64, id uint64) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&model.FAQEntry{})
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "failed to delete faq entry %d", id)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) ListFaq(ctx context.Context, tenantID int64) ([]model.FAQEntry, error) {
	var list []model.FAQEntry
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("id ASC").Find(&list).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list faq entries")
	}
	return list, nil
}
