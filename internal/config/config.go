// Package config defines service configuration structures and loading hooks.
//
// Keys are flat (log_level, dataset_path, ...) so the same names work in the YAML
// file and as PROSPECT_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DatasetPath points at the player dataset (CSV or SQLite).
	DatasetPath string `koanf:"dataset_path"`
	// DatasetFormat forces csv or sqlite; empty means detect from the extension.
	DatasetFormat string `koanf:"dataset_format"`
	// DatasetTable names the SQLite table holding player rows.
	DatasetTable string `koanf:"dataset_table"`

	// ModelsPath points at the cluster model bundle (JSON or YAML).
	ModelsPath string `koanf:"models_path"`

	// Cohort window in 2-digit draft years.
	CohortYearMin int `koanf:"cohort_year_min"`
	CohortYearMax int `koanf:"cohort_year_max"`

	// Display window in 2-digit draft years; listings and year lookups stay inside it.
	DisplayYearMin int `koanf:"display_year_min"`
	DisplayYearMax int `koanf:"display_year_max"`

	MaxRankingsLimit int     `koanf:"max_rankings_limit"`
	StealsLimit      int     `koanf:"steals_limit"`
	StealMinRating   float64 `koanf:"steal_min_rating"`
	LotteryMaxPick   int     `koanf:"lottery_max_pick"`

	SuggestMinChars int `koanf:"suggest_min_chars"`
	SuggestLimit    int `koanf:"suggest_limit"`

	// CORSOrigins lists allowed origins for the dashboard; "*" allows all.
	CORSOrigins []string `koanf:"cors_origins"`

	// Class-year adjustment for the forwards cluster.
	AdjustmentCluster float64            `koanf:"adjustment_cluster"`
	AdjustmentFeature string             `koanf:"adjustment_feature"`
	AdjustmentCeiling float64            `koanf:"adjustment_ceiling"`
	AdjustmentDeltas  map[string]float64 `koanf:"adjustment_deltas"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		DatasetPath:       "data/players.csv",
		DatasetTable:      "players",
		ModelsPath:        "data/models.yaml",
		CohortYearMin:     10,
		CohortYearMax:     25,
		DisplayYearMin:    19,
		DisplayYearMax:    25,
		MaxRankingsLimit:  100,
		StealsLimit:       25,
		StealMinRating:    0.3,
		LotteryMaxPick:    14,
		SuggestMinChars:   2,
		SuggestLimit:      10,
		CORSOrigins:       []string{"*"},
		AdjustmentCluster: 1.0,
		AdjustmentFeature: "Player_Encoded",
		AdjustmentCeiling: 0.9,
		AdjustmentDeltas: map[string]float64{
			"1": 0.07,
			"2": -0.04,
			"3": -0.09,
			"4": -0.13,
		},
	}
}

// Validate checks paths and ranges.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DatasetPath == "":
		return fmt.Errorf("%w: dataset_path must not be empty", ErrInvalidConfig)
	case c.ModelsPath == "":
		return fmt.Errorf("%w: models_path must not be empty", ErrInvalidConfig)
	case c.CohortYearMin > c.CohortYearMax:
		return fmt.Errorf("%w: cohort years %d..%d inverted", ErrInvalidConfig, c.CohortYearMin, c.CohortYearMax)
	case c.DisplayYearMin > c.DisplayYearMax:
		return fmt.Errorf("%w: display years %d..%d inverted", ErrInvalidConfig, c.DisplayYearMin, c.DisplayYearMax)
	case c.MaxRankingsLimit < 1:
		return fmt.Errorf("%w: max_rankings_limit must be positive", ErrInvalidConfig)
	case c.StealsLimit < 1:
		return fmt.Errorf("%w: steals_limit must be positive", ErrInvalidConfig)
	case c.SuggestLimit < 1:
		return fmt.Errorf("%w: suggest_limit must be positive", ErrInvalidConfig)
	case c.AdjustmentCeiling < 0 || c.AdjustmentCeiling > 1:
		return fmt.Errorf("%w: adjustment_ceiling %v outside [0,1]", ErrInvalidConfig, c.AdjustmentCeiling)
	}
	switch strings.ToLower(c.DatasetFormat) {
	case "", "csv", "sqlite":
	default:
		return fmt.Errorf("%w: unknown dataset_format %q", ErrInvalidConfig, c.DatasetFormat)
	}
	return nil
}
