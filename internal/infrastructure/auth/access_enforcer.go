package auth

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// rbacModel is the request/policy model for view access: role, view path,
// method, with keyMatch2 path patterns.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// NewAccessEnforcer builds the in-memory Casbin enforcer for view access.
// Policies are seeded in code; there is no policy storage to load from.
func NewAccessEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// SeedDefaultPolicies installs the role/view policy set when none exists.
func SeedDefaultPolicies(e *casbin.Enforcer) error {
	policies, err := e.GetPolicy()
	if err != nil {
		return err
	}
	if len(policies) > 0 {
		return nil
	}

	defaults := [][]string{
		{"role_admin", "/admin/*", "GET"},
		{"role_admin", "/admin", "GET"},
		{"role_admin", "/members", "GET"},
		{"role_admin", "/attendance/*", "GET"},
		{"role_admin", "/broadcasts", "POST"},
		{"role_trainer", "/trainer", "GET"},
		{"role_trainer", "/trainer/*", "GET"},
		{"role_trainer", "/attendance/*", "GET"},
		{"role_receptionist", "/reception", "GET"},
		{"role_receptionist", "/reception/*", "GET"},
		{"role_receptionist", "/members", "GET"},
		{"role_member", "/member", "GET"},
		{"role_member", "/member/*", "GET"},
		{"role_admin", "/auth/profile", "PATCH"},
		{"role_trainer", "/auth/profile", "PATCH"},
		{"role_receptionist", "/auth/profile", "PATCH"},
		{"role_member", "/auth/profile", "PATCH"},
	}
	for _, p := range defaults {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}
	return nil
}
