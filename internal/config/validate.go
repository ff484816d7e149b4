package config

import (
	"fmt"
	"strings"
)

// ConfigError reports a malformed or inconsistent run configuration. It is
// detected before any browser session opens and is never retried.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// ValidateAndNormalize trims the searches, applies floor values and checks
// every invariant the run depends on. A non-nil error is always *ConfigError.
func ValidateAndNormalize(cfg Config) (Config, error) {
	out := cfg
	var problems []string

	var searches []Search
	for i, s := range out.Searches {
		s.JobTitle = strings.TrimSpace(s.JobTitle)
		s.Location = strings.TrimSpace(s.Location)
		if s.JobTitle == "" {
			problems = append(problems, fmt.Sprintf("searches[%d]: job_title is required", i))
			continue
		}
		searches = append(searches, s)
	}
	out.Searches = searches

	if len(cfg.Searches) == 0 {
		problems = append(problems, "searches: at least one search is required")
	}
	if out.MaxPages < 0 {
		problems = append(problems, fmt.Sprintf("max_pages: must be >= 0, got %d", out.MaxPages))
	}
	if out.DelayMin < 0 {
		problems = append(problems, fmt.Sprintf("delay_min: must be >= 0, got %g", out.DelayMin))
	}
	if out.DelayMax < out.DelayMin {
		problems = append(problems, fmt.Sprintf("delay_max (%g) must be >= delay_min (%g)", out.DelayMax, out.DelayMin))
	}
	if out.MaxRetries < 1 {
		problems = append(problems, fmt.Sprintf("max_retries: must be >= 1, got %d", out.MaxRetries))
	}
	if strings.TrimSpace(out.OutputDir) == "" {
		out.OutputDir = Default().OutputDir
	}
	if strings.TrimSpace(out.DBPath) == "" {
		out.DBPath = Default().DBPath
	}

	if len(problems) > 0 {
		return out, &ConfigError{Problems: problems}
	}
	return out, nil
}
