package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical QC defaults file.
// This is the single source of truth for default threshold values.
const DefaultConfigPath = "config/qc.defaults.json"

// QCConfig represents the root configuration for the sand QC thresholds
// and dashboard defaults. Fields are pointers so a partial JSON file only
// overrides what it names; the Get* methods supply defaults for the rest.
type QCConfig struct {
	// Safe gate: all three must hold for the premium classification.
	SafeMaxMBV      *float64 `json:"safe_max_mbv,omitempty"`
	SafeMinSE       *int     `json:"safe_min_se,omitempty"`
	SafeMaxFinesPct *float64 `json:"safe_max_fines_pct,omitempty"`

	// Unsuitable gate: any one triggers the hard fail.
	UnsuitableMinMBV      *float64 `json:"unsuitable_min_mbv,omitempty"`
	UnsuitableMaxSE       *int     `json:"unsuitable_max_se,omitempty"`
	UnsuitableMinFinesPct *float64 `json:"unsuitable_min_fines_pct,omitempty"`

	// Dashboard defaults
	DefaultCutoffMM            *float64 `json:"default_cutoff_mm,omitempty"`
	DefaultRejectRatePct       *float64 `json:"default_reject_rate_pct,omitempty"`
	DefaultRejectFinesGradePct *float64 `json:"default_reject_fines_grade_pct,omitempty"`
}

// EmptyQCConfig returns a QCConfig with all fields set to nil.
// Use LoadQCConfig to load actual values from a defaults file.
func EmptyQCConfig() *QCConfig {
	return &QCConfig{}
}

// LoadQCConfig loads a QCConfig from a JSON file. The file must have a
// .json extension and stay under the max file size. Fields omitted from
// the JSON retain their default values, so partial configs are safe.
func LoadQCConfig(path string) (*QCConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyQCConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are coherent. The two
// gates must not cross: a sample cannot be simultaneously below the Safe
// ceiling and above the Unsuitable floor for the same parameter.
func (c *QCConfig) Validate() error {
	if c.SafeMaxMBV != nil && *c.SafeMaxMBV < 0 {
		return fmt.Errorf("safe_max_mbv must be non-negative, got %f", *c.SafeMaxMBV)
	}
	if c.UnsuitableMinMBV != nil && *c.UnsuitableMinMBV < 0 {
		return fmt.Errorf("unsuitable_min_mbv must be non-negative, got %f", *c.UnsuitableMinMBV)
	}
	for _, se := range []*int{c.SafeMinSE, c.UnsuitableMaxSE} {
		if se != nil && (*se < 0 || *se > 100) {
			return fmt.Errorf("SE thresholds must be between 0 and 100, got %d", *se)
		}
	}
	if c.GetSafeMaxMBV() > c.GetUnsuitableMinMBV() {
		return fmt.Errorf("safe_max_mbv (%f) must not exceed unsuitable_min_mbv (%f)",
			c.GetSafeMaxMBV(), c.GetUnsuitableMinMBV())
	}
	if c.GetSafeMinSE() < c.GetUnsuitableMaxSE() {
		return fmt.Errorf("safe_min_se (%d) must not be below unsuitable_max_se (%d)",
			c.GetSafeMinSE(), c.GetUnsuitableMaxSE())
	}
	if c.GetSafeMaxFinesPct() > c.GetUnsuitableMinFinesPct() {
		return fmt.Errorf("safe_max_fines_pct (%f) must not exceed unsuitable_min_fines_pct (%f)",
			c.GetSafeMaxFinesPct(), c.GetUnsuitableMinFinesPct())
	}
	return nil
}

// GetSafeMaxMBV returns the safe_max_mbv value or the default.
func (c *QCConfig) GetSafeMaxMBV() float64 {
	if c.SafeMaxMBV == nil {
		return 2.5 // mg/g
	}
	return *c.SafeMaxMBV
}

// GetSafeMinSE returns the safe_min_se value or the default.
func (c *QCConfig) GetSafeMinSE() int {
	if c.SafeMinSE == nil {
		return 75
	}
	return *c.SafeMinSE
}

// GetSafeMaxFinesPct returns the safe_max_fines_pct value or the default.
func (c *QCConfig) GetSafeMaxFinesPct() float64 {
	if c.SafeMaxFinesPct == nil {
		return 10
	}
	return *c.SafeMaxFinesPct
}

// GetUnsuitableMinMBV returns the unsuitable_min_mbv value or the default.
func (c *QCConfig) GetUnsuitableMinMBV() float64 {
	if c.UnsuitableMinMBV == nil {
		return 4.0 // mg/g
	}
	return *c.UnsuitableMinMBV
}

// GetUnsuitableMaxSE returns the unsuitable_max_se value or the default.
func (c *QCConfig) GetUnsuitableMaxSE() int {
	if c.UnsuitableMaxSE == nil {
		return 70
	}
	return *c.UnsuitableMaxSE
}

// GetUnsuitableMinFinesPct returns the unsuitable_min_fines_pct value or the default.
func (c *QCConfig) GetUnsuitableMinFinesPct() float64 {
	if c.UnsuitableMinFinesPct == nil {
		return 15
	}
	return *c.UnsuitableMinFinesPct
}

// GetDefaultCutoffMM returns the default_cutoff_mm value or the default.
func (c *QCConfig) GetDefaultCutoffMM() float64 {
	if c.DefaultCutoffMM == nil {
		return 0.063
	}
	return *c.DefaultCutoffMM
}

// GetDefaultRejectRatePct returns the default_reject_rate_pct value or the default.
func (c *QCConfig) GetDefaultRejectRatePct() float64 {
	if c.DefaultRejectRatePct == nil {
		return 15.0
	}
	return *c.DefaultRejectRatePct
}

// GetDefaultRejectFinesGradePct returns the default_reject_fines_grade_pct value or the default.
func (c *QCConfig) GetDefaultRejectFinesGradePct() float64 {
	if c.DefaultRejectFinesGradePct == nil {
		return 85.0
	}
	return *c.DefaultRejectFinesGradePct
}
