package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Static role policy. The role hierarchy is USER < MANAGER < ADMIN and
// only the elevated roles may decide leave requests.
var policies = [][]string{
	{"USER", "leave", "read"},
	{"USER", "leave", "create"},
	{"USER", "balance", "read"},
	{"USER", "leave_type", "read"},
	{"USER", "accrual", "read"},
	{"MANAGER", "leave", "approve"},
	{"MANAGER", "leave", "reject"},
}

var groupings = [][]string{
	{"MANAGER", "USER"},
	{"ADMIN", "MANAGER"},
}

func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range groupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return e, nil
}
