package models

// Prediction targets accepted by the prediction service.
const (
	TargetActivity = "activity"
	TargetMembers  = "members"
	TargetTopics   = "topics"
)

// Horizon bounds for prediction requests, in days.
const (
	MinHorizonDays = 1
	MaxHorizonDays = 30
)

// PredictionRequest describes one prediction call. It is constructed
// once per call and never modified.
type PredictionRequest struct {
	GroupID     string `json:"group_id"`
	Target      string `json:"target"`
	HorizonDays int    `json:"horizon_days"`
}

// ValidTarget reports whether target names a supported prediction target.
func ValidTarget(target string) bool {
	switch target {
	case TargetActivity, TargetMembers, TargetTopics:
		return true
	}
	return false
}

// ValidHorizon reports whether the horizon is within [1, 30] days.
func ValidHorizon(days int) bool {
	return days >= MinHorizonDays && days <= MaxHorizonDays
}
