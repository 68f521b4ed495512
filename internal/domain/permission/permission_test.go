package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"srdashboard/internal/domain/user"
)

func TestDefaultPolicies_DeleteIsAdminOnly(t *testing.T) {
	granted := map[user.Role]map[Action]bool{}
	for _, p := range DefaultPolicies() {
		assert.Equal(t, ResourceServiceRequest, p.Resource)
		if granted[p.Role] == nil {
			granted[p.Role] = map[Action]bool{}
		}
		granted[p.Role][p.Action] = true
	}

	assert.True(t, granted[user.RoleAdmin][ActionDelete])
	assert.False(t, granted[user.RoleUser][ActionDelete])
	for _, a := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionExport} {
		assert.True(t, granted[user.RoleUser][a], a)
	}
}

