package permission

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"srdashboard/internal/domain/permission"
	"srdashboard/internal/domain/user"
	"srdashboard/internal/shared/logger"
)

// rbacModel matches a role subject against (resource, action) policies.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

var _ permission.Enforcer = (*Enforcer)(nil)

// Enforcer is a casbin enforcer whose policies live in the casbin_rule table.
type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

func NewEnforcer(db *gorm.DB, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}, nil
}

func (e *Enforcer) Enforce(role user.Role, resource permission.Resource, action permission.Action) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(role.String(), resource.String(), action.String())
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "role", role, "resource", resource, "action", action)
		return false, fmt.Errorf("permission check failed: %w", err)
	}

	return allowed, nil
}

// EnsurePolicies adds any missing policy and persists the result. Existing
// policies, including ones added by operators, are left alone.
func (e *Enforcer) EnsurePolicies(policies []permission.Policy) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for _, p := range policies {
		ok, err := e.enforcer.AddPolicy(p.Role.String(), p.Resource.String(), p.Action.String())
		if err != nil {
			e.logger.Errorw("failed to add policy",
				"error", err,
				"role", p.Role,
				"resource", p.Resource,
				"action", p.Action)
			return added, fmt.Errorf("failed to add policy [%s, %s, %s]: %w", p.Role, p.Resource, p.Action, err)
		}
		if ok {
			added++
		}
	}

	if added > 0 {
		e.logger.Infow("permission policies initialized", "added", added)
	}
	return added, nil
}

func (e *Enforcer) RemovePolicy(p permission.Policy) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.RemovePolicy(p.Role.String(), p.Resource.String(), p.Action.String()); err != nil {
		e.logger.Errorw("failed to remove policy", "error", err)
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	return nil
}

func (e *Enforcer) LoadPolicy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to reload policy: %w", err)
	}

	e.logger.Info("policy reloaded successfully")
	return nil
}
