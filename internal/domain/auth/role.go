package auth

import "errors"

var ErrInvalidRole = errors.New("invalid role")

// Role gates the admin surface. Regular claimants are members.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleAdmin:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

var roleLevel = map[Role]int{
	RoleMember: 1,
	RoleAdmin:  2,
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	have, ok := roleLevel[r]
	want, ok2 := roleLevel[min]
	return ok && ok2 && have >= want
}
