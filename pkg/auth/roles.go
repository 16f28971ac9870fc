package auth

import (
	"github.com/example/byteristo/pkg/models"
)

// RoleInfo describes a role for the /api/auth/roles listing.
type RoleInfo struct {
	Permissions []string `json:"permissions"`
	Description string   `json:"description"`
}

// Roles is the static role/permission table, built once at startup and
// never mutated. The manager wildcard is resolved in HasPermission.
var Roles = map[string]RoleInfo{
	models.RoleManager: {
		Permissions: []string{"*"},
		Description: "Full access to all operations",
	},
	models.RoleChef: {
		Permissions: []string{"menu.read", "menu.create", "menu.update", "order.read", "order.update_status"},
		Description: "Manage menu and order preparation",
	},
	models.RoleWaiter: {
		Permissions: []string{"menu.read", "order.read", "order.create", "order.update"},
		Description: "Take orders and serve customers",
	},
	models.RoleCashier: {
		Permissions: []string{"menu.read", "order.read", "order.update_payment"},
		Description: "Handle payments",
	},
}

func ValidRole(role string) bool {
	_, ok := Roles[role]
	return ok
}

// HasPermission reports whether the role owns the named permission.
// Manager owns every permission.
func HasPermission(role, permission string) bool {
	if role == models.RoleManager {
		return true
	}
	info, ok := Roles[role]
	if !ok {
		return false
	}
	for _, p := range info.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
