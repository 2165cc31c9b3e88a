package roles

import "time"

// Role represents a named role with its access level already resolved by
// name; the authorization layer never invents new ones.
type Role struct {
	ID          int64     `json:"id"`
	Nom         string    `json:"nom"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RolePermission is one module/action grant attached to a role.
type RolePermission struct {
	Module  string `json:"module"`
	Action  string `json:"action"`
	Accorde bool   `json:"accorde"`
}
