// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "advocacy-workers/internal/models"

type Input struct {
	QueryType     string                 `json:"queryType"`
	AdvocateID    string                 `json:"advocateId,omitempty"`
	OpportunityID string                 `json:"opportunityId,omitempty"`
	ProgramID     string                 `json:"programId,omitempty"`
	Limit         int                    `json:"limit,omitempty"`
	Filters       map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

// Export constants for external use
var (
	QueryTypeAdvocateProfile     = models.QueryTypeAdvocateProfile
	QueryTypeAdvocatePool        = models.QueryTypeAdvocatePool
	QueryTypeAdvocateEngagements = models.QueryTypeAdvocateEngagements
	QueryTypeOpportunityDetails  = models.QueryTypeOpportunityDetails
	QueryTypeProgramDetails      = models.QueryTypeProgramDetails
)
