package entreprises

import "time"

// Entreprise is a tenant owning evaluations, forms and accounts.
type Entreprise struct {
	ID        int64     `json:"id"`
	Nom       string    `json:"nom"`
	Siret     string    `json:"siret,omitempty"`
	Secteur   string    `json:"secteur,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
