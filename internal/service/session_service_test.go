package service_test

import (
	"context"
	"testing"

	"github.com/psds-microservice/support-router/internal/errs"
	"github.com/psds-microservice/support-router/internal/model"
	"github.com/psds-microservice/support-router/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := service.NewSessionService(newStore(t))

	_, err := svc.SetState(ctx, "100", tenant, model.SessionStateBrowsingFaq, `{"page":2}`)
	require.NoError(t, err)
	got, err := svc.GetState(ctx, "100")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.SessionStateBrowsingFaq, got.State)
	assert.Equal(t, `{"page":2}`, got.Payload)

	for i := 0; i < 2; i++ {
		_, err = svc.SetState(ctx, "100", tenant, model.SessionStateAwaitingTicketText, "")
		require.NoError(t, err)
	}
	got, err = svc.GetState(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, model.SessionStateAwaitingTicketText, got.State)
	assert.Empty(t, got.Payload)

	require.NoError(t, svc.Clear(ctx, "100"))
	got, err = svc.GetState(ctx, "100")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, svc.Clear(ctx, "100"), "clearing a missing session is a no-op")
}

func TestSessionRejectsUnknownState(t *testing.T) {
	svc := service.NewSessionService(newStore(t))
	_, err := svc.SetState(context.Background(), "100", tenant, model.SessionState("in_ticket#42"), "")
	assert.True(t, errs.IsValidation(err))
}
