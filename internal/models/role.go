package models

// Role is the closed set of roles a user can hold. Anything outside this set
// is denied by the authorization engine.
type Role string

const (
	RoleUser      Role = "user"
	RoleManager   Role = "manager"
	RoleDeveloper Role = "developer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleDeveloper:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
