package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// PredictionResult is the outcome of one prediction call. It is built
// once by the prediction service and never mutated afterwards.
type PredictionResult struct {
	GroupID        string    `json:"group_id"`
	Target         string    `json:"target"`
	HorizonDays    int       `json:"horizon_days"`
	Predictions    []float64 `json:"predictions"`
	Confidence     float64   `json:"confidence"`
	TrendDirection string    `json:"trend_direction"`
	ChangePercent  float64   `json:"change_percent"`
	Description    string    `json:"description"`
}

// AnomalyPoint is a single flagged day in an anomaly report.
type AnomalyPoint struct {
	Date      string  `json:"date"`
	Value     float64 `json:"value"`
	Deviation float64 `json:"deviation"`
	Kind      string  `json:"kind"`
}

// AnomalyReport is the boundary view of one detection pass.
type AnomalyReport struct {
	GroupID        string         `json:"group_id"`
	LookbackDays   int            `json:"lookback_days"`
	Mean           float64        `json:"mean"`
	StdDev         float64        `json:"std_dev"`
	Threshold      float64        `json:"threshold"`
	TotalAnomalies int            `json:"total_anomalies"`
	Anomalies      []AnomalyPoint `json:"anomalies"`
}

// GroupStatsResponse represents aggregate group statistics
type GroupStatsResponse struct {
	GroupID       string `json:"group_id"`
	TotalMessages int64  `json:"total_messages"`
	TotalMembers  int64  `json:"total_members"`
	PeakHour      int    `json:"peak_hour"`
	MostActiveDay string `json:"most_active_day,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
