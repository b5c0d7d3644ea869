// Package findings handles Kafka event processing for scanner finding
// batches.
package findings

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ortelius/rpi-backend/model"
)

// ScanService defines the interface for running a prioritization scan.
type ScanService interface {
	RunScan(ctx context.Context, raw []model.RawFinding) (*model.RunSummary, error)
}

// HandleFindingsBatch processes one findings batch event from Kafka. The
// batch runs through the same scan pipeline as the REST endpoint.
func HandleFindingsBatch(ctx context.Context, msg []byte, service ScanService) error {
	var event FindingsBatchEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal FindingsBatchEvent: %w", err)
	}

	if len(event.Findings) == 0 {
		return fmt.Errorf("invalid event %s: empty findings batch", event.EventID)
	}

	log.Printf("Processing findings batch from %s (%d findings)", event.Source, len(event.Findings))

	summary, err := service.RunScan(ctx, event.Findings)
	if err != nil {
		return fmt.Errorf("failed to run scan for batch %s: %w", event.EventID, err)
	}

	log.Printf("Run %s complete: %d ranked, %d skipped", summary.RunID, summary.Total, summary.Skipped)
	return nil
}
