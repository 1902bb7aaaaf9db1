// internal/workers/infrastructure/validate-match-quota/config.go
package validatematchquota

import "time"

type Config struct {
	Timeout             time.Duration
	CacheTTL            time.Duration
	CounterTTL          time.Duration
	DefaultMonthlyLimit int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:             30 * time.Second,
		CacheTTL:            5 * time.Minute,
		CounterTTL:          35 * 24 * time.Hour,
		DefaultMonthlyLimit: 50,
	}
}
