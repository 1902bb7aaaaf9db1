// internal/workers/data-access/query-postgresql/config.go
package querypostgresql

import "time"

// Config bounds read-side PostgreSQL queries.
type Config struct {
	// Timeout caps a single query execution.
	Timeout time.Duration
	// SlowQueryThreshold marks queries worth a warning in the logs.
	// Zero disables the check.
	SlowQueryThreshold time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:            30 * time.Second,
		SlowQueryThreshold: 2 * time.Second,
	}
}
