package domain

// Role is the caller's role, threaded explicitly through the pipeline.
type Role string

const (
	RoleCallerUser     Role = "user"
	RoleCallerOperator Role = "operator"
	RoleCallerAdmin    Role = "admin"
)

var roleLevels = map[Role]int{
	RoleCallerUser:     1,
	RoleCallerOperator: 2,
	RoleCallerAdmin:    3,
}

// Satisfies reports whether the role meets the given minimum role.
func (r Role) Satisfies(min Role) bool {
	return roleLevels[r] >= roleLevels[min]
}

// ParseRole maps a raw string to a known role, defaulting to user.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleCallerOperator:
		return RoleCallerOperator
	case RoleCallerAdmin:
		return RoleCallerAdmin
	default:
		return RoleCallerUser
	}
}
