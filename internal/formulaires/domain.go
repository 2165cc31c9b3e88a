package formulaires

import "time"

// Formulaire is a form instance filled by an intervenant during an
// evaluation.
type Formulaire struct {
	ID            int64      `json:"id"`
	EntrepriseID  int64      `json:"entreprise_id"`
	IntervenantID int64      `json:"intervenant_id"`
	EvaluationID  int64      `json:"evaluation_id"`
	Titre         string     `json:"titre"`
	Statut        string     `json:"statut"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
