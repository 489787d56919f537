package service

import (
	"context"
	"fmt"

	"github.com/psds-microservice/support-router/internal/errs"
	"github.com/psds-microservice/support-router/internal/model"
)

type SessionStore interface {
	UpsertSession(ctx context.Context, us *model.UserSession) error
	GetSession(ctx context.Context, customerID string) (*model.UserSession, error)
	DeleteSession(ctx context.Context, customerID string) error
}

// SessionService tracks what a customer without an active ticket is doing.
type SessionService struct {
	store SessionStore
}

func NewSessionService(s SessionStore) *SessionService {
	return &SessionService{store: s}
}

func (s *SessionService) SetState(ctx context.Context, customerID string, tenantID int64, state model.SessionState, payload string) (*model.UserSession, error) {
	switch state {
	case model.SessionStateNone, model.SessionStateBrowsingFaq, model.SessionStateAwaitingTicketText:
	default:
		return nil, errs.Validation(fmt.Sprintf("unknown session state %q", state))
	}
	us := &model.UserSession{
		CustomerID: customerID,
		TenantID:   tenantID,
		State:      state,
		Payload:    payload,
	}
	if err := s.store.UpsertSession(ctx, us); err != nil {
		return nil, err
	}
	return us, nil
}

// GetState returns nil when the customer has no session.
func (s *SessionService) GetState(ctx context.Context, customerID string) (*model.UserSession, error) {
	return s.store.GetSession(ctx, customerID)
}

func (s *SessionService) Clear(ctx context.Context, customerID string) error {
	return s.store.DeleteSession(ctx, customerID)
}
