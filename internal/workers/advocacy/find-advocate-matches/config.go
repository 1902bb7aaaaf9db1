// internal/workers/advocacy/find-advocate-matches/config.go
package findadvocatematches

import "time"

type Config struct {
	PoolCacheTTL     time.Duration
	SlowRunThreshold time.Duration
	Timeout          time.Duration
}

func LoadConfig() *Config {
	return &Config{
		PoolCacheTTL:     5 * time.Minute,
		SlowRunThreshold: 2 * time.Second,
		Timeout:          30 * time.Second,
	}
}
