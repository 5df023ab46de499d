package models

// LearnedModel holds the regression coefficients applied to the current
// week's features. It is always concrete: either fitted from historical
// folds or the documented fallback. Scoped to a single prediction call.
type LearnedModel struct {
	HomeField    float64 `json:"b_hfa"`   // points for home-field advantage
	Efficiency   float64 `json:"b_epa"`   // weight on K_pair * net EPA
	DriveQuality float64 `json:"b_eckel"` // weight on drives_pg * net Eckel
	Sigma        float64 `json:"sigma"`   // residual spread in points

	// Fitted is false when the fallback coefficients are in use.
	Fitted       bool `json:"fitted"`
	TrainingRows int  `json:"training_rows"`
}

// FallbackModel returns the fixed coefficients used when training data is
// insufficient or the training pipeline fails.
func FallbackModel(trainingRows int) LearnedModel {
	return LearnedModel{
		HomeField:    1.3,
		Efficiency:   1.0,
		DriveQuality: 0.0,
		Sigma:        13.5,
		Fitted:       false,
		TrainingRows: trainingRows,
	}
}
