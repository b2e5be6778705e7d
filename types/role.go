package types

// Role is the closed set of authorization levels a user can hold.
// Routes declare the exact roles they accept; there is no hierarchy
// between roles.
type Role string

const (
	// RoleAdmin may create, update, and delete todos.
	RoleAdmin Role = "admin"

	// RoleViewer may read todos but not mutate them.
	RoleViewer Role = "viewer"

	// RoleUser is the default role assigned at signup. It grants no
	// todo access until an operator promotes the account.
	RoleUser Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleViewer, RoleUser:
		return true
	}
	return false
}
