// Package policy centralizes capability checks so that handlers never
// compare role strings inline. An Actor is built once per request from the
// session claims and asked whether it may act on a resource.
package policy

// Roles carried in the session token's role claim.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Actor is the authenticated caller.
type Actor struct {
	ID   uint64
	Role string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanModify reports whether the actor may edit or soft-delete a resource
// owned by ownerID: owners and admins may, everyone else may not.
func (a Actor) CanModify(ownerID uint64) bool {
	return a.ID == ownerID || a.IsAdmin()
}
