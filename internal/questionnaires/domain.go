package questionnaires

import "time"

// Questionnaire is a reusable assessment template. Templates are reference
// data shared by every tenant; row scoping does not apply.
type Questionnaire struct {
	ID        int64     `json:"id"`
	Titre     string    `json:"titre"`
	Version   int       `json:"version"`
	Actif     bool      `json:"actif"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
