// internal/workers/data-access/query-postgresql/queries/opportunity.go
package queries

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// OpportunityDetails returns a single opportunity row.
// Required params: opportunityId
func OpportunityDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	opportunityID, ok := params["opportunityId"].(string)
	if !ok || opportunityID == "" {
		return nil, 0, 0, fmt.Errorf("%w: opportunityId", ErrMissingParam)
	}

	start := time.Now()

	query := `
		SELECT id, prospect_industry, prospect_size, geographic_region, use_case,
		       stage, program_id, created_at
		FROM opportunities
		WHERE id = $1
	`

	var (
		id, stage            string
		prospectIndustry     sql.NullString
		prospectSize, region sql.NullString
		useCase, programID   sql.NullString
		createdAt            time.Time
	)

	err := db.QueryRowContext(ctx, query, opportunityID).Scan(
		&id, &prospectIndustry, &prospectSize, &region, &useCase,
		&stage, &programID, &createdAt,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":               id,
		"prospectIndustry": nullable(prospectIndustry),
		"prospectSize":     nullable(prospectSize),
		"geographicRegion": nullable(region),
		"useCase":          nullable(useCase),
		"stage":            stage,
		"programId":        nullable(programID),
		"createdAt":        createdAt.Format(time.RFC3339),
	}

	return result, 1, time.Since(start).Milliseconds(), nil
}
