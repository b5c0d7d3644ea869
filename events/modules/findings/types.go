// Package findings defines types for Kafka event processing of scanner
// finding batches.
package findings

import (
	"time"

	"github.com/ortelius/rpi-backend/model"
)

// FindingsBatchEvent represents a batch of raw scanner findings published to
// Kafka by an upstream scanner integration.
type FindingsBatchEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	// Source identifies the scanner or pipeline that produced the batch.
	Source string `json:"source"`

	Findings []model.RawFinding `json:"findings"`
}

// RunCompletedEvent is published after a prioritization run finishes so
// downstream consumers can react to fresh rankings.
type RunCompletedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	Run model.RunSummary `json:"run"`
}
