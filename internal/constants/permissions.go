package constants

import "auraestate-backend/internal/domain"

const (
	CreateProperty = "create_property"
)

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]domain.Role{
	CreateProperty: {domain.RoleLandlord, domain.RoleSeller, domain.RoleAgent, domain.RoleAdmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission string, role domain.Role) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
