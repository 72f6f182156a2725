package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// scanConfig holds the tunable knobs of the scan commands.
type scanConfig struct {
	TopClasses  int    // classes shown in histogram summaries
	WindowCount int    // windows generated by the schedule command
	BaseTime    uint32 // schedule base time
	TargetClass int    // CSR target class; -1 means the dominant class
	CSRCols     uint32 // virtual row width for CSR builds
}

// defaultConfig returns the baseline configuration the file overlays.
func defaultConfig() scanConfig {
	return scanConfig{
		TopClasses:  8,
		WindowCount: 16,
		BaseTime:    0,
		TargetClass: -1,
		CSRCols:     256,
	}
}

// resoscan config.toml key mapping.
type fileConfig struct {
	TopClasses  int    `toml:"top_classes"`
	WindowCount int    `toml:"window_count"`
	BaseTime    uint32 `toml:"base_time"`
	TargetClass int    `toml:"target_class"`
	CSRCols     uint32 `toml:"csr_cols"`
}

// loadConfig overlays a TOML file onto the defaults. Only keys present in
// the file override.
func loadConfig(path string) (scanConfig, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return scanConfig{}, fmt.Errorf("load scan config: %w", err)
	}

	if meta.IsDefined("top_classes") {
		cfg.TopClasses = raw.TopClasses
	}
	if meta.IsDefined("window_count") {
		cfg.WindowCount = raw.WindowCount
	}
	if meta.IsDefined("base_time") {
		cfg.BaseTime = raw.BaseTime
	}
	if meta.IsDefined("target_class") {
		cfg.TargetClass = raw.TargetClass
	}
	if meta.IsDefined("csr_cols") {
		cfg.CSRCols = raw.CSRCols
	}

	if err := cfg.validate(); err != nil {
		return scanConfig{}, err
	}
	return cfg, nil
}

func (c scanConfig) validate() error {
	var problems []string
	if c.TopClasses < 1 || c.TopClasses > 96 {
		problems = append(problems, "top_classes must be in [1,96]")
	}
	if c.WindowCount < 1 {
		problems = append(problems, "window_count must be positive")
	}
	if c.TargetClass < -1 || c.TargetClass > 95 {
		problems = append(problems, "target_class must be -1 or in [0,95]")
	}
	if c.CSRCols == 0 {
		problems = append(problems, "csr_cols must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid scan config: %s", strings.Join(problems, "; "))
	}
	return nil
}
