package actors

import "time"

// Actor represents a platform user account for management screens.
type Actor struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Nom          string    `json:"nom"`
	RoleName     string    `json:"role"`
	EntrepriseID int64     `json:"entreprise_id,omitempty"`
	Active       bool      `json:"actif"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
