package models

import "time"

// Reading is a single scored sensor sample as stored by the backend.
// Rows are created by the backend on every /predict call; this service
// only displays them and never writes them back.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	HRV       float64   `json:"hrv"`
	SpO2      float64   `json:"spo2"`
	Index     int       `json:"index"`
}

// Sample is a synthetic sensor reading before it has been scored.
type Sample struct {
	HRV  float64 `json:"HRV"`
	SpO2 float64 `json:"SpO2"`
}

// Prediction is the backend's answer to a scored sample.
type Prediction struct {
	StressScore float64 `json:"stress_score"`
	NewIndex    int     `json:"new_index"`
}

// ScoredReading is the sample the dashboard currently shows, together
// with its score and the backend row index feedback will target.
type ScoredReading struct {
	Sample      Sample    `json:"sample"`
	StressScore float64   `json:"stress_score"`
	Index       int       `json:"index"`
	At          time.Time `json:"at"`
}

// FeedbackResult is the backend's confirmation of a feedback submission.
type FeedbackResult struct {
	Index    int     `json:"index"`
	NewScore float64 `json:"new_score"`
}
