package domain

// Permission names used by the gate.
const (
	PermissionWrite  = "write"
	PermissionDelete = "delete"
)

// User represents an account loaded from the user store. Records are
// immutable for the lifetime of the process.
type User struct {
	Username    string   `json:"-"`
	Password    string   `json:"password"`
	Permissions []string `json:"permissions"`
}

// HasPermission reports whether the user's permission set contains perm.
func (u User) HasPermission(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
