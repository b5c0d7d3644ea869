// Package dashboard implements the resolvers for dashboard metrics.
package dashboard

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/ortelius/rpi-backend/database"
	"github.com/ortelius/rpi-backend/internal/engine"
	"github.com/ortelius/rpi-backend/model"
)

func latestSummary(ctx context.Context, db database.DBConnection) (*model.RunSummary, error) {
	query := `
		FOR r IN runs
			SORT r.started_at DESC
			LIMIT 1
			RETURN r`
	cursor, err := db.Database.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return nil, nil
	}
	var summary model.RunSummary
	if _, err := cursor.ReadDocument(ctx, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ResolveRiskOverview fetches the headline metrics of the latest run
func ResolveRiskOverview(db database.DBConnection) (interface{}, error) {
	ctx := context.Background()

	summary, err := latestSummary(ctx, db)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return map[string]interface{}{"total": 0}, nil
	}

	query := `
		LET docs = (FOR doc IN findings FILTER doc.run_id == @run_id RETURN doc)
		RETURN {
			kev_count: LENGTH(docs[* FILTER CURRENT.in_kev]),
			sla_violated: LENGTH(docs[* FILTER CURRENT.sla_violated])
		}`
	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"run_id": summary.RunID},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var counts struct {
		KEVCount    int `json:"kev_count"`
		SLAViolated int `json:"sla_violated"`
	}
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &counts); err != nil {
			return nil, err
		}
	}

	return map[string]interface{}{
		"run_id":       summary.RunID,
		"total":        summary.Total,
		"skipped":      summary.Skipped,
		"mean_rpi":     summary.MeanRPI,
		"max_rpi":      summary.MaxRPI,
		"gini":         summary.Gini,
		"kev_count":    counts.KEVCount,
		"sla_violated": counts.SLAViolated,
	}, nil
}

// ResolveBucketDistribution fetches the bucket breakdown of the latest run
func ResolveBucketDistribution(db database.DBConnection) (interface{}, error) {
	ctx := context.Background()

	summary, err := latestSummary(ctx, db)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{"critical": 0, "high": 0, "medium": 0, "low": 0}
	if summary == nil {
		return out, nil
	}
	out["critical"] = summary.Buckets[model.BucketCritical]
	out["high"] = summary.Buckets[model.BucketHigh]
	out["medium"] = summary.Buckets[model.BucketMedium]
	out["low"] = summary.Buckets[model.BucketLow]
	return out, nil
}

// ResolveTopRisks fetches the highest-ranked findings of the latest run
func ResolveTopRisks(db database.DBConnection, limit int) (interface{}, error) {
	ctx := context.Background()

	summary, err := latestSummary(ctx, db)
	if err != nil {
		return nil, err
	}
	risks := []map[string]interface{}{}
	if summary == nil {
		return risks, nil
	}
	if limit < 1 {
		limit = 10
	}

	query := `
		FOR doc IN findings
			FILTER doc.run_id == @run_id
			SORT doc.rank ASC
			LIMIT @limit
			RETURN doc`
	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"run_id": summary.RunID, "limit": limit},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	for cursor.HasMore() {
		var doc model.ScoredFinding
		if _, err := cursor.ReadDocument(ctx, &doc); err != nil {
			continue
		}
		risks = append(risks, map[string]interface{}{
			"rank":        doc.Rank,
			"rpi":         doc.RPI,
			"bucket":      doc.Bucket,
			"advisory_id": doc.AdvisoryID,
			"package":     doc.Package,
			"domain":      doc.Domain,
			"severity":    doc.Severity,
			"epss":        doc.EPSS,
			"in_kev":      doc.InKEV,
			"reasons":     doc.Reasons,
		})
	}
	return risks, nil
}

// ResolveCoverageCurve recomputes the work-coverage curve over the latest run
func ResolveCoverageCurve(db database.DBConnection) (interface{}, error) {
	records, err := latestRecords(db)
	if err != nil {
		return nil, err
	}
	return engine.CoveragePoints(records), nil
}

// ResolveDecileTable recomputes the RPI mass distribution over the latest run
func ResolveDecileTable(db database.DBConnection) (interface{}, error) {
	records, err := latestRecords(db)
	if err != nil {
		return nil, err
	}
	return engine.DecileTable(records), nil
}

func latestRecords(db database.DBConnection) ([]model.ScoredFinding, error) {
	ctx := context.Background()

	summary, err := latestSummary(ctx, db)
	if err != nil || summary == nil {
		return nil, err
	}
	return database.RunFindings(ctx, db, summary.RunID)
}
