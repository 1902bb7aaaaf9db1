// internal/workers/data-access/query-elasticsearch/config.go
package queryelasticsearch

import "time"

// Config bounds Elasticsearch search execution.
type Config struct {
	// Timeout caps a single search round trip.
	Timeout time.Duration
	// SlowQueryThreshold marks searches worth a warning in the logs,
	// measured against the search round trip. Zero disables the check.
	SlowQueryThreshold time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:            30 * time.Second,
		SlowQueryThreshold: 2 * time.Second,
	}
}
