package entity

// Role is the authorization role carried by a user and by every session token.
type Role string

const (
	RoleRegular  Role = "regular"
	RoleBusiness Role = "business"
)

func (r Role) Valid() bool {
	return r == RoleRegular || r == RoleBusiness
}
