package model

import "time"

const (
	OutcomeOK             = "ok"
	OutcomeUnsatisfiable  = "unsatisfiable"
	OutcomeInvalidRequest = "invalid"
	OutcomeError          = "error"
)

// GenerationEvent records that a password was requested. It never holds the
// password itself.
type GenerationEvent struct {
	ID          string
	Preset      string
	Length      int
	CharsetSize int
	Attempts    int
	Outcome     string
	ClientHash  string
	CreatedAt   time.Time
}

// PresetStats aggregates generation events for one preset.
type PresetStats struct {
	Preset       string  `json:"preset"`
	Total        int64   `json:"total"`
	Failed       int64   `json:"failed"`
	MeanAttempts float64 `json:"mean_attempts"`
}

// StatsResponse is the body of the stats endpoint.
type StatsResponse struct {
	Since   time.Time     `json:"since"`
	Presets []PresetStats `json:"presets"`
}
