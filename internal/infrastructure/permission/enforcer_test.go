package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"srdashboard/internal/domain/permission"
	"srdashboard/internal/domain/user"
	"srdashboard/internal/shared/logger"
)

func setupEnforcer(t *testing.T) (*Enforcer, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	e, err := NewEnforcer(db, logger.NewNopLogger())
	require.NoError(t, err)
	return e, db
}

func TestEnforcer_DefaultPolicies(t *testing.T) {
	e, _ := setupEnforcer(t)

	added, err := e.EnsurePolicies(permission.DefaultPolicies())
	require.NoError(t, err)
	assert.Equal(t, len(permission.DefaultPolicies()), added)

	added, err = e.EnsurePolicies(permission.DefaultPolicies())
	require.NoError(t, err)
	assert.Zero(t, added, "second run adds nothing")

	tests := []struct {
		role   user.Role
		action permission.Action
		want   bool
	}{
		{user.RoleAdmin, permission.ActionDelete, true},
		{user.RoleAdmin, permission.ActionExport, true},
		{user.RoleUser, permission.ActionDelete, false},
		{user.RoleUser, permission.ActionUpdate, true},
		{user.RoleUser, permission.ActionExport, true},
		{"guest", permission.ActionRead, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			allowed, err := e.Enforce(tt.role, permission.ResourceServiceRequest, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}

func TestEnforcer_PoliciesPersist(t *testing.T) {
	e, db := setupEnforcer(t)
	_, err := e.EnsurePolicies(permission.DefaultPolicies())
	require.NoError(t, err)

	require.NoError(t, e.RemovePolicy(permission.Policy{
		Role: user.RoleUser, Resource: permission.ResourceServiceRequest, Action: permission.ActionExport,
	}))

	reloaded, err := NewEnforcer(db, logger.NewNopLogger())
	require.NoError(t, err)

	allowed, err := reloaded.Enforce(user.RoleUser, permission.ResourceServiceRequest, permission.ActionExport)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = reloaded.Enforce(user.RoleUser, permission.ResourceServiceRequest, permission.ActionRead)
	require.NoError(t, err)
	assert.True(t, allowed)
}
