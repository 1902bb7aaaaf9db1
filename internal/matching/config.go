// internal/matching/config.go
package matching

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Weights are the per-dimension contributions to the composite score. They
// must sum to 100 so composite scores stay on the 0-100 scale.
type Weights struct {
	Industry     int `json:"industry"`
	CompanySize  int `json:"companySize"`
	UseCases     int `json:"useCases"`
	Expertise    int `json:"expertise"`
	Region       int `json:"region"`
	Availability int `json:"availability"`
}

func DefaultWeights() Weights {
	return Weights{
		Industry:     25,
		CompanySize:  15,
		UseCases:     20,
		Expertise:    20,
		Region:       10,
		Availability: 10,
	}
}

// Config is the immutable scoring configuration an Engine is built from.
// SizeBuckets is the company-size hierarchy ordered smallest first; the
// synonym tables group terms that score as related industries or regions.
type Config struct {
	Weights          Weights    `json:"weights"`
	SizeBuckets      []string   `json:"sizeBuckets"`
	IndustrySynonyms [][]string `json:"industrySynonyms"`
	RegionSynonyms   [][]string `json:"regionSynonyms"`
}

func DefaultConfig() Config {
	return Config{
		Weights: DefaultWeights(),
		SizeBuckets: []string{
			"1-10", "11-50", "51-200", "201-500", "501-1000", "1000+",
		},
		IndustrySynonyms: [][]string{
			{"technology", "software", "saas"},
			{"manufacturing", "industrial"},
			{"healthcare", "medical"},
			{"finance", "fintech"},
			{"retail", "ecommerce"},
			{"education", "edtech"},
		},
		RegionSynonyms: [][]string{
			{"north america", "usa", "united states", "us", "canada"},
			{"europe", "eu", "uk", "united kingdom", "emea"},
			{"asia-pacific", "apac", "asia", "australia"},
			{"latin america", "latam", "south america"},
		},
	}
}

// LoadConfigFile reads a scoring configuration from a JSON file. Fields
// absent from the file keep their defaults, so deployments can override just
// the weights or just a synonym table.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read matching config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse matching config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	sum := 0
	for name, w := range map[string]int{
		"industry":     c.Weights.Industry,
		"companySize":  c.Weights.CompanySize,
		"useCases":     c.Weights.UseCases,
		"expertise":    c.Weights.Expertise,
		"region":       c.Weights.Region,
		"availability": c.Weights.Availability,
	} {
		if w < 0 {
			return fmt.Errorf("%w: weight %s is negative (%d)", ErrInvalidConfig, name, w)
		}
		sum += w
	}
	if sum != 100 {
		return fmt.Errorf("%w: weights must sum to 100, got %d", ErrInvalidConfig, sum)
	}

	if len(c.SizeBuckets) < 2 {
		return fmt.Errorf("%w: size hierarchy needs at least 2 buckets, got %d", ErrInvalidConfig, len(c.SizeBuckets))
	}
	seen := make(map[string]struct{}, len(c.SizeBuckets))
	for _, b := range c.SizeBuckets {
		key := strings.ToLower(strings.TrimSpace(b))
		if key == "" {
			return fmt.Errorf("%w: size hierarchy contains an empty bucket", ErrInvalidConfig)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate size bucket %q", ErrInvalidConfig, b)
		}
		seen[key] = struct{}{}
	}

	for _, table := range []struct {
		name     string
		clusters [][]string
	}{
		{"industrySynonyms", c.IndustrySynonyms},
		{"regionSynonyms", c.RegionSynonyms},
	} {
		for i, cluster := range table.clusters {
			if len(cluster) < 2 {
				return fmt.Errorf("%w: %s cluster %d needs at least 2 terms", ErrInvalidConfig, table.name, i)
			}
			for _, term := range cluster {
				if strings.TrimSpace(term) == "" {
					return fmt.Errorf("%w: %s cluster %d contains an empty term", ErrInvalidConfig, table.name, i)
				}
			}
		}
	}
	return nil
}
