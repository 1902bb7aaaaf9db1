// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeAdvocateProfile     QueryType = "advocate_profile"
	QueryTypeAdvocatePool        QueryType = "advocate_pool"
	QueryTypeAdvocateEngagements QueryType = "advocate_engagements"
	QueryTypeOpportunityDetails  QueryType = "opportunity_details"
	QueryTypeProgramDetails      QueryType = "program_details"
)
