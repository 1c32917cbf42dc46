// Package config builds the process-wide configuration once at startup.
// Values come from an annotated JSON file in the data directory, with
// environment variables taking precedence. Components receive the Config
// by value and never read the environment themselves.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config is the root configuration, stored in <data dir>/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// RootDir is the data directory holding the event tree. Not part of
	// the file; it decides where the file lives.
	RootDir string `json:"-"`
	// MinDurationSeconds is the threshold below which a just-stopped
	// event is discarded as noise.
	MinDurationSeconds int `json:"min_duration_seconds"`
	// ResumeWindowSeconds is how long after stopping an event the same
	// project reopens it instead of starting fresh. 0 disables resuming.
	ResumeWindowSeconds int `json:"resume_window_seconds"`
	// DefaultProject is used when start is called without --project.
	DefaultProject string `json:"default_project"`
	// User is written into saved records as informational metadata.
	User string `json:"-"`
}

const (
	DefaultMinDurationSeconds  = 300
	DefaultResumeWindowSeconds = 300
	DefaultProject             = "default"

	dataDirName = ".TimeTracker"
)

// MinDuration returns the discard threshold as a duration.
func (c Config) MinDuration() time.Duration {
	return time.Duration(c.MinDurationSeconds) * time.Second
}

// ResumeWindow returns the resume window as a duration.
func (c Config) ResumeWindow() time.Duration {
	return time.Duration(c.ResumeWindowSeconds) * time.Second
}

// configTemplate is the annotated config written on first run. Lines
// whose trimmed content starts with // are stripped before JSON parsing.
const configTemplate = `// tick configuration
//
// All settings are optional; the built-in defaults shown below work out
// of the box. Environment variables TT_MIN_DURATION and TT_RESUME_WINDOW
// override the file.
{
  // Events stopped before this many seconds are discarded as noise.
  "min_duration_seconds": 300,

  // Starting the same project within this many seconds of stopping it
  // reopens the stopped event instead of creating a new one. 0 disables.
  "resume_window_seconds": 300,

  // Project used when "tick start" is called without --project.
  "default_project": "default"
}
`

func defaultConfig(root string) Config {
	return Config{
		RootDir:             root,
		MinDurationSeconds:  DefaultMinDurationSeconds,
		ResumeWindowSeconds: DefaultResumeWindowSeconds,
		DefaultProject:      DefaultProject,
		User:                os.Getenv("USER"),
	}
}

// rootDir returns the data directory: $TT_HOME if set, ~/.TimeTracker
// otherwise.
func rootDir() (string, error) {
	if dir := os.Getenv("TT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, dataDirName), nil
}

// stripLineComments removes lines whose leading non-whitespace content
// starts with //. Only full-line comments are handled.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config file, creating it with annotated defaults on
// first run, then applies environment overrides.
func Load() (Config, error) {
	root, err := rootDir()
	if err != nil {
		return Config{}, err
	}

	cfg := defaultConfig(root)
	path := filepath.Join(root, "config.json")

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: write the annotated template so users can discover
		// the options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
		// Fill zero-value fields so callers always get a usable Config
		// even if the user only partially fills in the file.
		if cfg.MinDurationSeconds == 0 {
			cfg.MinDurationSeconds = DefaultMinDurationSeconds
		}
		if cfg.DefaultProject == "" {
			cfg.DefaultProject = DefaultProject
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides file values from the environment.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("TT_MIN_DURATION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TT_MIN_DURATION %q: %w", v, err)
		}
		cfg.MinDurationSeconds = n
	}
	if v := os.Getenv("TT_RESUME_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TT_RESUME_WINDOW %q: %w", v, err)
		}
		cfg.ResumeWindowSeconds = n
	}
	return nil
}

// writeDefault creates the data directory and writes the annotated
// default config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
