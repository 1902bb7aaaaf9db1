// internal/workers/advocacy/batch-advocate-matches/config.go
package batchadvocatematches

import "time"

type Config struct {
	PoolCacheTTL     time.Duration
	SlowRunThreshold time.Duration
	Timeout          time.Duration
}

func LoadConfig() *Config {
	return &Config{
		PoolCacheTTL:     5 * time.Minute,
		SlowRunThreshold: 5 * time.Second,
		Timeout:          60 * time.Second,
	}
}
