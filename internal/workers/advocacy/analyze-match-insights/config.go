// internal/workers/advocacy/analyze-match-insights/config.go
package analyzematchinsights

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
