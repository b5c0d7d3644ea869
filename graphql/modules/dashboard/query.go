// Package dashboard defines the GraphQL queries for the risk dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
	"github.com/ortelius/rpi-backend/database"
)

// GetQueryFields returns the dashboard queries to be mounted in the root schema
func GetQueryFields(db database.DBConnection) graphql.Fields {
	return graphql.Fields{
		// Section 1: Top Cards (Overview)
		"riskOverview": &graphql.Field{
			Type: RiskOverviewType,
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return ResolveRiskOverview(db)
			},
		},
		// Section 2: Charts (Buckets)
		"bucketDistribution": &graphql.Field{
			Type: BucketDistributionType,
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return ResolveBucketDistribution(db)
			},
		},
		// Section 3: Tables (Top Risks)
		"topRisks": &graphql.Field{
			Type: graphql.NewList(TopRiskType),
			Args: graphql.FieldConfigArgument{
				"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				limit := p.Args["limit"].(int)
				return ResolveTopRisks(db, limit)
			},
		},
		// Section 4: Work-coverage curve (how far down the list to go)
		"coverageCurve": &graphql.Field{
			Type: graphql.NewList(CoveragePointType),
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return ResolveCoverageCurve(db)
			},
		},
		// Section 5: RPI mass by decile
		"decileTable": &graphql.Field{
			Type: graphql.NewList(DecileRowType),
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return ResolveDecileTable(db)
			},
		},
	}
}
