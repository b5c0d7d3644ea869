// Package dashboard defines the GraphQL types for the risk dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
)

// RiskOverviewType represents the high-level metrics for the top cards
var RiskOverviewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "RiskOverview",
	Fields: graphql.Fields{
		"run_id":       &graphql.Field{Type: graphql.String},
		"total":        &graphql.Field{Type: graphql.Int},
		"skipped":      &graphql.Field{Type: graphql.Int},
		"mean_rpi":     &graphql.Field{Type: graphql.Float},
		"max_rpi":      &graphql.Field{Type: graphql.Float},
		"gini":         &graphql.Field{Type: graphql.Float},
		"kev_count":    &graphql.Field{Type: graphql.Int},
		"sla_violated": &graphql.Field{Type: graphql.Int},
	},
})

// BucketDistributionType represents the data for the pie/bar charts
var BucketDistributionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "BucketDistribution",
	Fields: graphql.Fields{
		"critical": &graphql.Field{Type: graphql.Int},
		"high":     &graphql.Field{Type: graphql.Int},
		"medium":   &graphql.Field{Type: graphql.Int},
		"low":      &graphql.Field{Type: graphql.Int},
	},
})

// TopRiskType represents rows for the "Top Risks" table
var TopRiskType = graphql.NewObject(graphql.ObjectConfig{
	Name: "TopRisk",
	Fields: graphql.Fields{
		"rank":        &graphql.Field{Type: graphql.Int},
		"rpi":         &graphql.Field{Type: graphql.Float},
		"bucket":      &graphql.Field{Type: graphql.String},
		"advisory_id": &graphql.Field{Type: graphql.String},
		"package":     &graphql.Field{Type: graphql.String},
		"domain":      &graphql.Field{Type: graphql.String},
		"severity":    &graphql.Field{Type: graphql.String},
		"epss":        &graphql.Field{Type: graphql.Float},
		"in_kev":      &graphql.Field{Type: graphql.Boolean},
		"reasons":     &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

// CoveragePointType is one point of the work-coverage curve
var CoveragePointType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CoveragePoint",
	Fields: graphql.Fields{
		"target":   &graphql.Field{Type: graphql.Float},
		"k":        &graphql.Field{Type: graphql.Int},
		"fraction": &graphql.Field{Type: graphql.Float},
	},
})

// DecileRowType is one row of the RPI mass distribution table
var DecileRowType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DecileRow",
	Fields: graphql.Fields{
		"decile":           &graphql.Field{Type: graphql.Int},
		"records":          &graphql.Field{Type: graphql.Int},
		"rpi_sum":          &graphql.Field{Type: graphql.Float},
		"share":            &graphql.Field{Type: graphql.Float},
		"cumulative_share": &graphql.Field{Type: graphql.Float},
	},
})
