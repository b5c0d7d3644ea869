// Package database - persistence for prioritization runs and their scored
// findings.
package database

import (
	"context"
	"fmt"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/ortelius/rpi-backend/model"
)

// SaveRun stores the summary document of a completed prioritization run.
func SaveRun(ctx context.Context, db DBConnection, run *model.RunSummary) error {
	run.ObjType = "RunSummary"
	if _, err := db.Collections[CollectionRuns].CreateDocument(ctx, run); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.RunID, err)
	}
	return nil
}

// SaveFindings stores the scored findings of a run in batches.
func SaveFindings(ctx context.Context, db DBConnection, findings []model.ScoredFinding) error {
	const batchSize = 500

	for start := 0; start < len(findings); start += batchSize {
		end := start + batchSize
		if end > len(findings) {
			end = len(findings)
		}
		batch := findings[start:end]
		for i := range batch {
			batch[i].ObjType = "ScoredFinding"
		}
		if _, err := db.Collections[CollectionFindings].CreateDocuments(ctx, batch); err != nil {
			return fmt.Errorf("failed to save findings batch at %d: %w", start, err)
		}
	}
	return nil
}

// LatestRunID returns the run_id of the most recent run, or empty when no
// run has been stored yet.
func LatestRunID(ctx context.Context, db DBConnection) (string, error) {
	query := `
		FOR r IN runs
			SORT r.started_at DESC
			LIMIT 1
			RETURN r.run_id
	`
	cursor, err := db.Database.Query(ctx, query, nil)
	if err != nil {
		return "", fmt.Errorf("failed to query latest run: %w", err)
	}
	defer cursor.Close()

	var runID string
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &runID); err != nil {
			return "", fmt.Errorf("failed to read latest run: %w", err)
		}
	}
	return runID, nil
}

// RunFindings loads the ranked findings of one run, rank ascending.
func RunFindings(ctx context.Context, db DBConnection, runID string) ([]model.ScoredFinding, error) {
	query := `
		FOR f IN findings
			FILTER f.run_id == @run_id
			SORT f.rank ASC
			RETURN f
	`
	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"run_id": runID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query run findings: %w", err)
	}
	defer cursor.Close()

	var out []model.ScoredFinding
	for cursor.HasMore() {
		var f model.ScoredFinding
		if _, err := cursor.ReadDocument(ctx, &f); err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}
