package domain

import "time"

// ProbeResult is the outcome of one connectivity probe against the API.
type ProbeResult struct {
	ID           string    `json:"id"`
	Target       string    `json:"target"`
	OK           bool      `json:"ok"`
	ErrorCode    int       `json:"error_code,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	LatencyMs    int64     `json:"latency_ms"`
	CheckedAt    time.Time `json:"checked_at"`
}
