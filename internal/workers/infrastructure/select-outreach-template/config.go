// internal/workers/infrastructure/select-outreach-template/config.go
package selectoutreachtemplate

import "time"

type Config struct {
	TemplateRules map[string]map[string]string `mapstructure:"template_rules"`
	Timeout       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		TemplateRules: map[string]map[string]string{
			"decision": {
				"auto_outreach:standard": "top_match_standard",
				"auto_outreach:premium":  "top_match_premium",
				"auto_outreach:fallback": "top_match_standard",
				"manual_review:fallback": "match_review_standard",
			},
		},
		Timeout: 30 * time.Second,
	}
}
