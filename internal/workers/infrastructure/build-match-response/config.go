// internal/workers/infrastructure/build-match-response/config.go
package buildmatchresponse

import "time"

type Config struct {
	TemplateRegistry string
	CacheTTL         time.Duration
	AppVersion       string
	Timeout          time.Duration
}

func LoadConfig() *Config {
	return &Config{
		TemplateRegistry: "configs/response_templates.json",
		CacheTTL:         5 * time.Minute,
		AppVersion:       "1.0.0",
		Timeout:          30 * time.Second,
	}
}
