// internal/workers/advocacy/parse-match-criteria/config.go
package parsematchcriteria

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
