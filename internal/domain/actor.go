package domain

import "github.com/google/uuid"

// Actor is the authenticated user behind a request.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage reports whether the actor may modify a resource owned by ownerID.
func (a Actor) CanManage(ownerID uuid.UUID) bool {
	return a.ID == ownerID || a.IsAdmin()
}
