package authorization

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleOperator UserRole = "operator"
	RoleUser     UserRole = "user"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// IsOperator reports whether the role belongs to the operator pool.
// Admins take tickets too.
func (r UserRole) IsOperator() bool {
	return r == RoleOperator || r == RoleAdmin
}

func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleOperator || r == RoleUser
}

func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleUser
}

// OperatorPoolRoles lists the roles whose holders receive unassigned work.
func OperatorPoolRoles() []UserRole {
	return []UserRole{RoleOperator, RoleAdmin}
}
