package analyses

import "time"

// AxisScore is the computed score of one maturity axis.
type AxisScore struct {
	Axe   string  `json:"axe"`
	Score float64 `json:"score"`
}

// Analyse is a scored analysis computed over a finished evaluation.
// Personal-scope actors never see these.
type Analyse struct {
	ID           int64       `json:"id"`
	EntrepriseID int64       `json:"entreprise_id"`
	EvaluationID int64       `json:"evaluation_id"`
	ScoreGlobal  float64     `json:"score_global"`
	Axes         []AxisScore `json:"axes"`
	CreatedAt    time.Time   `json:"created_at"`
}
