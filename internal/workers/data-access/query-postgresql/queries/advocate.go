// internal/workers/data-access/query-postgresql/queries/advocate.go
package queries

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AdvocateProfile returns a single advocate row with contact details.
// Required params: advocateId
func AdvocateProfile(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	advocateID, ok := params["advocateId"].(string)
	if !ok || advocateID == "" {
		return nil, 0, 0, fmt.Errorf("%w: advocateId", ErrMissingParam)
	}

	start := time.Now()

	query := `
		SELECT id, name, industry, company_size, geographic_region,
		       use_cases, expertise_areas, availability_score, status,
		       contact_email, contact_phone
		FROM advocates
		WHERE id = $1
	`

	var (
		id, name, status           string
		industry, companySize      sql.NullString
		region                     sql.NullString
		useCasesRaw, expertiseRaw  []byte
		availabilityScore          int
		contactEmail, contactPhone sql.NullString
	)

	err := db.QueryRowContext(ctx, query, advocateID).Scan(
		&id, &name, &industry, &companySize, &region,
		&useCasesRaw, &expertiseRaw, &availabilityScore, &status,
		&contactEmail, &contactPhone,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":                id,
		"name":              name,
		"industry":          nullable(industry),
		"companySize":       nullable(companySize),
		"geographicRegion":  nullable(region),
		"useCases":          decodeStringList(useCasesRaw),
		"expertiseAreas":    decodeStringList(expertiseRaw),
		"availabilityScore": availabilityScore,
		"status":            status,
		"contactEmail":      nullable(contactEmail),
		"contactPhone":      nullable(contactPhone),
	}

	return result, 1, time.Since(start).Milliseconds(), nil
}

// AdvocatePool returns the advocates eligible for matching. With a
// programId param the pool is restricted to that program's roster,
// otherwise every advocate is returned. An optional filters.status
// entry narrows the result after the scan.
func AdvocatePool(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	var (
		rows *sql.Rows
		err  error
	)

	programID, _ := params["programId"].(string)
	if programID != "" {
		query := `
			SELECT a.id, a.name, a.industry, a.company_size, a.geographic_region,
			       a.use_cases, a.expertise_areas, a.availability_score, a.status
			FROM advocates a
			JOIN program_advocates pa ON pa.advocate_id = a.id
			WHERE pa.program_id = $1
		`
		rows, err = db.QueryContext(ctx, query, programID)
	} else {
		query := `
			SELECT id, name, industry, company_size, geographic_region,
			       use_cases, expertise_areas, availability_score, status
			FROM advocates
		`
		rows, err = db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	results := []map[string]interface{}{}
	for rows.Next() {
		var (
			id, name, status          string
			industry, companySize     sql.NullString
			region                    sql.NullString
			useCasesRaw, expertiseRaw []byte
			availabilityScore         int
		)
		err := rows.Scan(
			&id, &name, &industry, &companySize, &region,
			&useCasesRaw, &expertiseRaw, &availabilityScore, &status,
		)
		if err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":                id,
			"name":              name,
			"industry":          nullable(industry),
			"companySize":       nullable(companySize),
			"geographicRegion":  nullable(region),
			"useCases":          decodeStringList(useCasesRaw),
			"expertiseAreas":    decodeStringList(expertiseRaw),
			"availabilityScore": availabilityScore,
			"status":            status,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	if filters, ok := params["filters"].(map[string]interface{}); ok {
		if status, ok := filters["status"].(string); ok && status != "" {
			kept := make([]map[string]interface{}, 0, len(results))
			for _, row := range results {
				if row["status"] == status {
					kept = append(kept, row)
				}
			}
			results = kept
		}
	}

	return results, len(results), time.Since(start).Milliseconds(), nil
}

// AdvocateEngagements returns an advocate's recent engagement history,
// newest first. Required params: advocateId. Optional: limit (default
// 25, capped at 100).
func AdvocateEngagements(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	advocateID, ok := params["advocateId"].(string)
	if !ok || advocateID == "" {
		return nil, 0, 0, fmt.Errorf("%w: advocateId", ErrMissingParam)
	}

	limit := 25
	if l, ok := params["limit"].(int); ok && l > 0 {
		limit = l
	}
	if limit > 100 {
		limit = 100
	}

	start := time.Now()

	query := `
		SELECT id, advocate_id, opportunity_id, engagement_type, status, occurred_at
		FROM advocate_engagements
		WHERE advocate_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`

	rows, err := db.QueryContext(ctx, query, advocateID, limit)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	results := []map[string]interface{}{}
	for rows.Next() {
		var (
			id, rowAdvocateID      string
			opportunityID          sql.NullString
			engagementType, status string
			occurredAt             time.Time
		)
		err := rows.Scan(&id, &rowAdvocateID, &opportunityID, &engagementType, &status, &occurredAt)
		if err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":             id,
			"advocateId":     rowAdvocateID,
			"opportunityId":  nullable(opportunityID),
			"engagementType": engagementType,
			"status":         status,
			"occurredAt":     occurredAt.Format(time.RFC3339),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return results, len(results), time.Since(start).Milliseconds(), nil
}
