// Package graphql assembles the root query schema from the feature modules.
package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/ortelius/rpi-backend/database"
	"github.com/ortelius/rpi-backend/graphql/modules/dashboard"
)

var dbConn database.DBConnection

// InitDB stores the database connection used by the resolvers
func InitDB(db database.DBConnection) {
	dbConn = db
}

// CreateSchema merges the module query fields into the root schema
func CreateSchema() (graphql.Schema, error) {
	fields := graphql.Fields{}
	for name, field := range dashboard.GetQueryFields(dbConn) {
		fields[name] = field
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
}
