package entity

// Identity is the verified "who is acting" for a request. It is built only
// from a token that passed verification and tenant cross-check.
type Identity struct {
	UserID   string
	TenantID string
	Role     Role
}
