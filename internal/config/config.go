package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shanickcuello/linkedin-people-scrapper/internal/models"
)

// Search is one configured people search.
type Search struct {
	JobTitle string `yaml:"job_title"`
	Location string `yaml:"location"`
}

// Config is the run configuration. It is loaded once, validated once and
// passed by value; nothing mutates it after ValidateAndNormalize.
type Config struct {
	Searches        []Search `yaml:"searches"`
	MaxPages        int      `yaml:"max_pages"`
	Headless        bool     `yaml:"headless"`
	DelayMin        float64  `yaml:"delay_min"`
	DelayMax        float64  `yaml:"delay_max"`
	MaxRetries      int      `yaml:"max_retries"`
	DebugMode       bool     `yaml:"debug_mode"`
	RelevanceFilter bool     `yaml:"relevance_filter"`
	OutputDir       string   `yaml:"output_dir"`
	DBPath          string   `yaml:"db_path"`

	// Username is the keychain/env account name. A password placed here is
	// honored as a last resort; the keychain is the recommended home for it.
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Default returns the configuration used when the file leaves a knob unset.
func Default() Config {
	return Config{
		MaxPages:   5,
		Headless:   false,
		DelayMin:   2,
		DelayMax:   5,
		MaxRetries: 3,
		OutputDir:  "data",
		DBPath:     "scraper.db",
	}
}

// Load reads the YAML config at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Queries converts the configured searches into the run's query sequence,
// preserving configured order.
func (c Config) Queries() []models.SearchQuery {
	qs := make([]models.SearchQuery, 0, len(c.Searches))
	for _, s := range c.Searches {
		qs = append(qs, models.SearchQuery{JobTitle: s.JobTitle, Location: s.Location})
	}
	return qs
}
