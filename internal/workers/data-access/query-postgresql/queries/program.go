// internal/workers/data-access/query-postgresql/queries/program.go
package queries

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ProgramDetails returns a single advocacy program row.
// Required params: programId
func ProgramDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	programID, ok := params["programId"].(string)
	if !ok || programID == "" {
		return nil, 0, 0, fmt.Errorf("%w: programId", ErrMissingParam)
	}

	start := time.Now()

	query := `
		SELECT id, name, tier, monthly_match_limit, owner_email, active
		FROM programs
		WHERE id = $1
	`

	var (
		id, name, tier    string
		monthlyMatchLimit int
		ownerEmail        sql.NullString
		active            bool
	)

	err := db.QueryRowContext(ctx, query, programID).Scan(
		&id, &name, &tier, &monthlyMatchLimit, &ownerEmail, &active,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":                id,
		"name":              name,
		"tier":              tier,
		"monthlyMatchLimit": monthlyMatchLimit,
		"ownerEmail":        nullable(ownerEmail),
		"active":            active,
	}

	return result, 1, time.Since(start).Milliseconds(), nil
}
