// config.go — project configuration (boba.yaml).
//
// A project may carry a boba.yaml next to its sources to pin driver policy:
//
//	entry: main.bb
//	gate_on_type_errors: false
//
// Unknown keys are rejected so a typo never silently falls back to a
// default. A missing file is not an error; callers get the defaults.
package boba

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectConfigName is the file name looked up next to a program's sources.
const ProjectConfigName = "boba.yaml"

// ProjectConfig is the decoded boba.yaml.
type ProjectConfig struct {
	// Entry is the source file run when the CLI is given a directory.
	Entry string `yaml:"entry"`

	// GateOnTypeErrors controls whether a non-empty diagnostic list stops
	// the run before evaluation.
	GateOnTypeErrors bool `yaml:"gate_on_type_errors"`
}

// DefaultProjectConfig matches the behavior of a project with no boba.yaml.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Entry:            "main.bb",
		GateOnTypeErrors: true,
	}
}

// LoadProjectConfig reads and validates the boba.yaml at path.
func LoadProjectConfig(path string) (ProjectConfig, error) {
	cfg := DefaultProjectConfig()
	file, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer file.Close()

	// Decode over the defaults so omitted keys keep their default value.
	raw := struct {
		Entry            *string `yaml:"entry"`
		GateOnTypeErrors *bool   `yaml:"gate_on_type_errors"`
	}{}
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if raw.Entry != nil {
		cfg.Entry = strings.TrimSpace(*raw.Entry)
		if cfg.Entry == "" {
			return cfg, fmt.Errorf("config: %s: entry must not be empty", path)
		}
	}
	if raw.GateOnTypeErrors != nil {
		cfg.GateOnTypeErrors = *raw.GateOnTypeErrors
	}
	return cfg, nil
}

// FindProjectConfig walks from dir upward looking for boba.yaml and loads
// the nearest one. Defaults come back when no config exists anywhere up the
// tree.
func FindProjectConfig(dir string) (ProjectConfig, string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return DefaultProjectConfig(), "", err
	}
	for {
		candidate := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := LoadProjectConfig(candidate)
			return cfg, candidate, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return DefaultProjectConfig(), "", nil
		}
		dir = parent
	}
}
