// internal/workers/data-access/query-postgresql/queries/registry.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"advocacy-workers/internal/models"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

// QueryFunc returns: data, rowCount, executionTime (ms), error
type QueryFunc func(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error)

var Registry = map[models.QueryType]QueryFunc{
	models.QueryTypeAdvocateProfile:     AdvocateProfile,
	models.QueryTypeAdvocatePool:        AdvocatePool,
	models.QueryTypeAdvocateEngagements: AdvocateEngagements,
	models.QueryTypeOpportunityDetails:  OpportunityDetails,
	models.QueryTypeProgramDetails:      ProgramDetails,
}

func Execute(ctx context.Context, db *sql.DB, queryType models.QueryType, params map[string]interface{}) (interface{}, int, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	return fn(ctx, db, params)
}

func nullable(v sql.NullString) interface{} {
	if v.Valid {
		return v.String
	}
	return nil
}

// decodeStringList reads a JSON array column. NULL or malformed content
// decodes to an empty list.
func decodeStringList(raw []byte) []string {
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return []string{}
	}
	return out
}
