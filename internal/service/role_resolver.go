package service

import (
	"context"

	"github.com/psds-microservice/support-router/internal/model"
	"github.com/psds-microservice/support-router/internal/store"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleCustomer Role = "customer"
)

type OperatorLookup interface {
	GetOperator(ctx context.Context, find *store.FindOperator) (*model.Operator, error)
}

// RoleResolver classifies an actor. Admins short-circuit; only active operators count.
type RoleResolver struct {
	admins    map[string]struct{}
	operators OperatorLookup
}

func NewRoleResolver(adminIDs []string, operators OperatorLookup) *RoleResolver {
	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &RoleResolver{admins: admins, operators: operators}
}

func (r *RoleResolver) IsAdmin(actorID string) bool {
	_, ok := r.admins[actorID]
	return ok
}

func (r *RoleResolver) Resolve(ctx context.Context, actorID string, tenantID int64) (Role, error) {
	if r.IsAdmin(actorID) {
		return RoleAdmin, nil
	}
	active := true
	op, err := r.operators.GetOperator(ctx, &store.FindOperator{
		TenantID:   &tenantID,
		ExternalID: &actorID,
		IsActive:   &active,
	})
	if err != nil {
		return "", err
	}
	if op != nil {
		return RoleOperator, nil
	}
	return RoleCustomer, nil
}
