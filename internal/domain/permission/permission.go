// Package permission describes who may do what to which resource.
package permission

import "srdashboard/internal/domain/user"

type Resource string

const ResourceServiceRequest Resource = "service_request"

func (r Resource) String() string {
	return string(r)
}

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
)

func (a Action) String() string {
	return string(a)
}

// Policy grants one action on one resource to a role.
type Policy struct {
	Role     user.Role
	Resource Resource
	Action   Action
}

// DefaultPolicies lets every authenticated user work on service requests and
// reserves deletion for admins.
func DefaultPolicies() []Policy {
	policies := make([]Policy, 0, 9)
	for _, a := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionExport} {
		policies = append(policies, Policy{Role: user.RoleAdmin, Resource: ResourceServiceRequest, Action: a})
	}
	for _, a := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionExport} {
		policies = append(policies, Policy{Role: user.RoleUser, Resource: ResourceServiceRequest, Action: a})
	}
	return policies
}

// Enforcer decides whether a role may perform an action.
type Enforcer interface {
	Enforce(role user.Role, resource Resource, action Action) (bool, error)
}
