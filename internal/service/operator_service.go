package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/psds-microservice/support-router/internal/errs"
	"github.com/psds-microservice/support-router/internal/model"
	"github.com/psds-microservice/support-router/internal/store"
)

type OperatorStore interface {
	OperatorLookup
	UpsertOperator(ctx context.Context, tenantID int64, externalID, fullName string) (*model.Operator, error)
	ListOperators(ctx context.Context, find *store.FindOperator) ([]model.Operator, error)
	DeactivateOperator(ctx context.Context, id uint64) error
}

type OperatorService struct {
	store OperatorStore
}

func NewOperatorService(s OperatorStore) *OperatorService {
	return &OperatorService{store: s}
}

func (s *OperatorService) Register(ctx context.Context, tenantID int64, externalID, fullName string) (*model.Operator, error) {
	externalID = strings.TrimSpace(externalID)
	fullName = strings.TrimSpace(fullName)
	// Telegram user id
	if _, err := strconv.ParseUint(externalID, 10, 64); err != nil {
		return nil, errs.Validation("Invalid operator id: expected a numeric Telegram id.")
	}
	if fullName == "" {
		return nil, errs.Validation("Operator name must not be empty.")
	}
	return s.store.UpsertOperator(ctx, tenantID, externalID, fullName)
}

// Remove soft-disables an active operator of the tenant.
func (s *OperatorService) Remove(ctx context.Context, tenantID int64, externalID string) (*model.Operator, error) {
	active := true
	op, err := s.store.GetOperator(ctx, &store.FindOperator{
		TenantID:   &tenantID,
		ExternalID: &externalID,
		IsActive:   &active,
	})
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, errs.NotFound(fmt.Sprintf("Operator %s not found.", externalID), errs.ErrOperatorNotFound)
	}
	if err := s.store.DeactivateOperator(ctx, op.ID); err != nil {
		return nil, err
	}
	op.IsActive = false
	return op, nil
}

func (s *OperatorService) ListActive(ctx context.Context, tenantID int64) ([]model.Operator, error) {
	active := true
	return s.store.ListOperators(ctx, &store.FindOperator{TenantID: &tenantID, IsActive: &active})
}
