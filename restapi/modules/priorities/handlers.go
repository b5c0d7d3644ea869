// Package priorities implements the REST handlers for the ranked findings
// view, the dashboard counters and the engine config.
package priorities

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/rpi-backend/database"
	"github.com/ortelius/rpi-backend/internal/engine"
	"github.com/ortelius/rpi-backend/internal/services"
	"github.com/ortelius/rpi-backend/model"
)

const defaultPageLimit = 25
const maxPageLimit = 200

// PostScan handles POST requests that submit a batch of raw findings for
// prioritization.
func PostScan(svc *services.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.ScanRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(model.ScanResponse{
				Success: false,
				Message: "Invalid request body: " + err.Error(),
			})
		}

		summary, err := svc.RunScan(c.Context(), req.Findings)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(model.ScanResponse{
				Success: false,
				Message: "Scan failed: " + err.Error(),
			})
		}

		return c.JSON(model.ScanResponse{
			Success:  true,
			Message:  fmt.Sprintf("Ranked %d findings", summary.Total),
			RunID:    summary.RunID,
			Total:    summary.Total,
			Skipped:  summary.Skipped,
			Buckets:  summary.Buckets,
			Coverage: summary.Coverage,
		})
	}
}

// priorityFilters collects the query parameters of the ranked view.
type priorityFilters struct {
	Search   string
	Domain   string
	Severity string
	Status   string
	HasKEV   *bool
	HasPoc   *bool
	RPIMin   *float64
	RPIMax   *float64
	EPSSMin  *float64
}

func parseFilters(c *fiber.Ctx) priorityFilters {
	f := priorityFilters{
		Search:   c.Query("search"),
		Domain:   c.Query("domain"),
		Severity: c.Query("severity"),
		Status:   c.Query("status"),
	}
	if v := c.Query("has_kev"); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			f.HasKEV = &b
		}
	}
	if v := c.Query("has_poc"); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			f.HasPoc = &b
		}
	}
	if v := c.Query("rpi_min"); v != "" {
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			f.RPIMin = &x
		}
	}
	if v := c.Query("rpi_max"); v != "" {
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			f.RPIMax = &x
		}
	}
	if v := c.Query("epss_min"); v != "" {
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			f.EPSSMin = &x
		}
	}
	return f
}

// filterClauses translates the parsed filters into AQL FILTER lines plus
// bind variables. The caller owns @run_id.
func filterClauses(f priorityFilters) (string, map[string]interface{}) {
	clauses := ""
	binds := map[string]interface{}{}

	if f.Search != "" {
		clauses += `
			FILTER CONTAINS(LOWER(doc.advisory_id), LOWER(@search))
				OR CONTAINS(LOWER(doc.package), LOWER(@search))
				OR CONTAINS(LOWER(doc.summary), LOWER(@search))`
		binds["search"] = f.Search
	}
	if f.Domain != "" {
		clauses += `
			FILTER doc.domain == @domain`
		binds["domain"] = f.Domain
	}
	if f.Severity != "" {
		clauses += `
			FILTER doc.severity == UPPER(@severity)`
		binds["severity"] = f.Severity
	}
	if f.Status != "" {
		clauses += `
			FILTER doc.status == @status`
		binds["status"] = f.Status
	}
	if f.HasKEV != nil {
		clauses += `
			FILTER doc.in_kev == @has_kev`
		binds["has_kev"] = *f.HasKEV
	}
	if f.HasPoc != nil {
		clauses += `
			FILTER doc.has_poc == @has_poc`
		binds["has_poc"] = *f.HasPoc
	}
	if f.RPIMin != nil {
		clauses += `
			FILTER doc.rpi >= @rpi_min`
		binds["rpi_min"] = *f.RPIMin
	}
	if f.RPIMax != nil {
		clauses += `
			FILTER doc.rpi <= @rpi_max`
		binds["rpi_max"] = *f.RPIMax
	}
	if f.EPSSMin != nil {
		clauses += `
			FILTER doc.epss >= @epss_min`
		binds["epss_min"] = *f.EPSSMin
	}
	return clauses, binds
}

// GetPriorities returns the ranked view of the latest run, filtered and
// paginated.
func GetPriorities(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()

		runID, err := database.LatestRunID(ctx, db)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if runID == "" {
			return c.JSON(model.PriorityPage{Items: []model.ScoredFinding{}, Page: 1, Limit: defaultPageLimit})
		}

		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", defaultPageLimit)
		if limit < 1 {
			limit = defaultPageLimit
		}
		if limit > maxPageLimit {
			limit = maxPageLimit
		}

		clauses, binds := filterClauses(parseFilters(c))
		binds["run_id"] = runID
		binds["offset"] = (page - 1) * limit
		binds["limit"] = limit

		countQuery := `
			RETURN LENGTH(
				FOR doc IN findings
					FILTER doc.run_id == @run_id` + clauses + `
					RETURN 1
			)`
		countBinds := map[string]interface{}{}
		for k, v := range binds {
			if k != "offset" && k != "limit" {
				countBinds[k] = v
			}
		}

		total := 0
		cursor, err := db.Database.Query(ctx, countQuery, &arangodb.QueryOptions{BindVars: countBinds})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if cursor.HasMore() {
			_, _ = cursor.ReadDocument(ctx, &total)
		}
		cursor.Close()

		pageQuery := `
			FOR doc IN findings
				FILTER doc.run_id == @run_id` + clauses + `
				SORT doc.rank ASC
				LIMIT @offset, @limit
				RETURN doc`
		cursor, err = db.Database.Query(ctx, pageQuery, &arangodb.QueryOptions{BindVars: binds})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		defer cursor.Close()

		items := []model.ScoredFinding{}
		for cursor.HasMore() {
			var doc model.ScoredFinding
			if _, err := cursor.ReadDocument(ctx, &doc); err == nil {
				items = append(items, doc)
			}
		}

		totalPages := (total + limit - 1) / limit
		return c.JSON(model.PriorityPage{
			Items:      items,
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		})
	}
}

// GetHeroCounters returns the headline counters for the latest run.
func GetHeroCounters(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()

		runID, err := database.LatestRunID(ctx, db)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if runID == "" {
			return c.JSON(model.HeroCounters{})
		}

		warningCutoff := time.Now().Add(7 * 24 * time.Hour).Format(time.RFC3339)
		query := `
			LET docs = (FOR doc IN findings FILTER doc.run_id == @run_id RETURN doc)
			RETURN {
				sla_violated: LENGTH(docs[* FILTER CURRENT.sla_violated]),
				sla_warning: LENGTH(docs[* FILTER !CURRENT.sla_violated
					AND CURRENT.sla_due_date != null
					AND CURRENT.sla_due_date <= @warning_cutoff]),
				kev_count: LENGTH(docs[* FILTER CURRENT.in_kev]),
				poc_count: LENGTH(docs[* FILTER CURRENT.has_poc]),
				epss_high: LENGTH(docs[* FILTER CURRENT.epss >= 0.9]),
				total_count: LENGTH(docs)
			}`
		cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
			BindVars: map[string]interface{}{
				"run_id":         runID,
				"warning_cutoff": warningCutoff,
			},
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		defer cursor.Close()

		var counters model.HeroCounters
		if cursor.HasMore() {
			if _, err := cursor.ReadDocument(ctx, &counters); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
		}
		return c.JSON(counters)
	}
}

// GetStats returns per-domain and per-severity breakdowns of the latest run.
func GetStats(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()

		summary, records, err := latestRun(ctx, db)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if summary == nil {
			return c.JSON(model.StatsSummary{Buckets: map[string]int{}, Domains: map[string]int{}, Severities: map[string]int{}})
		}

		stats := model.StatsSummary{
			Total:      summary.Total,
			MeanRPI:    summary.MeanRPI,
			MaxRPI:     summary.MaxRPI,
			Buckets:    summary.Buckets,
			Domains:    map[string]int{},
			Severities: map[string]int{},
		}
		for i := range records {
			if records[i].Domain != "" {
				stats.Domains[records[i].Domain]++
			}
			if records[i].Severity != "" {
				stats.Severities[records[i].Severity]++
			}
		}
		return c.JSON(stats)
	}
}

// ExportCSV streams the latest ranking as a CSV attachment.
func ExportCSV(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()

		summary, records, err := latestRun(ctx, db)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if summary == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no runs stored yet"})
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		_ = w.Write([]string{
			"rank", "rpi", "bucket", "advisory_id", "package", "installed_version",
			"fixed_version", "severity", "cvss", "epss", "kev", "poc", "domain",
			"environment", "occurrences", "status", "sla_violated", "reasons",
		})
		for i := range records {
			r := &records[i]
			_ = w.Write([]string{
				strconv.Itoa(r.Rank),
				strconv.FormatFloat(r.RPI, 'f', 1, 64),
				r.Bucket,
				r.AdvisoryID,
				r.Package,
				r.InstalledVersion,
				r.FixedVersion,
				r.Severity,
				strconv.FormatFloat(r.CVSSScore, 'f', 1, 64),
				strconv.FormatFloat(r.EPSS, 'f', 3, 64),
				strconv.FormatBool(r.InKEV),
				strconv.FormatBool(r.HasPoc),
				r.Domain,
				r.Environment,
				strconv.Itoa(r.Occurrences),
				r.Status,
				strconv.FormatBool(r.SLAViolated),
				joinReasons(r.Reasons),
			})
		}
		w.Flush()

		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="priorities-`+summary.RunID+`.csv"`)
		return c.Send(buf.Bytes())
	}
}

// GetConfig returns the live engine config.
func GetConfig(svc *services.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Config())
	}
}

// PutConfig validates and replaces the live engine config.
func PutConfig(svc *services.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg := engine.DefaultConfig()
		if err := c.BodyParser(cfg); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid config body: " + err.Error(),
			})
		}
		if err := svc.ReplaceConfig(cfg); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"success": true, "message": "Config replaced"})
	}
}

func latestRun(ctx context.Context, db database.DBConnection) (*model.RunSummary, []model.ScoredFinding, error) {
	query := `
		FOR r IN runs
			SORT r.started_at DESC
			LIMIT 1
			RETURN r`
	cursor, err := db.Database.Query(ctx, query, nil)
	if err != nil {
		return nil, nil, err
	}
	var summary model.RunSummary
	found := false
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &summary); err == nil {
			found = true
		}
	}
	cursor.Close()
	if !found {
		return nil, nil, nil
	}

	records, err := database.RunFindings(ctx, db, summary.RunID)
	if err != nil {
		return nil, nil, err
	}
	return &summary, records, nil
}

func joinReasons(reasons []string) string {
	out := ""
	for i, r := range reasons {
		if i > 0 {
			out += "; "
		}
		out += r
	}
	return out
}
