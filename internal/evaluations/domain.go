package evaluations

import "time"

// Statuts of an evaluation lifecycle.
const (
	StatutBrouillon = "brouillon"
	StatutEnCours   = "en_cours"
	StatutTerminee  = "terminee"
)

// Evaluation is one maturity-assessment run inside an enterprise.
type Evaluation struct {
	ID              int64     `json:"id"`
	EntrepriseID    int64     `json:"entreprise_id"`
	IntervenantID   int64     `json:"intervenant_id"`
	QuestionnaireID int64     `json:"questionnaire_id"`
	Statut          string    `json:"statut"`
	Score           float64   `json:"score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
