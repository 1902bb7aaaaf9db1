// internal/workers/advocacy/record-match-run/config.go
package recordmatchrun

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
