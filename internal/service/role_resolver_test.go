package service_test

import (
	"context"
	"testing"

	"github.com/psds-microservice/support-router/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleResolver(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	operators := service.NewOperatorService(s)

	_, err := operators.Register(ctx, tenant, "20", "Active Op")
	require.NoError(t, err)
	_, err = operators.Register(ctx, tenant, "30", "Former Op")
	require.NoError(t, err)
	_, err = operators.Remove(ctx, tenant, "30")
	require.NoError(t, err)
	_, err = operators.Register(ctx, 2, "40", "Other Tenant Op")
	require.NoError(t, err)

	resolver := service.NewRoleResolver([]string{"10", "20"}, s)

	cases := []struct {
		actor string
		want  service.Role
	}{
		{"10", service.RoleAdmin},
		{"20", service.RoleAdmin},
		{"30", service.RoleCustomer},
		{"40", service.RoleCustomer},
		{"50", service.RoleCustomer},
	}
	for _, tc := range cases {
		got, err := resolver.Resolve(ctx, tc.actor, tenant)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "actor %s", tc.actor)
	}

	other := service.NewRoleResolver(nil, s)
	got, err := other.Resolve(ctx, "20", tenant)
	require.NoError(t, err)
	assert.Equal(t, service.RoleOperator, got)
	got, err = other.Resolve(ctx, "40", 2)
	require.NoError(t, err)
	assert.Equal(t, service.RoleOperator, got)
}
