package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultLogPath is the journal file, relative to the working directory.
const DefaultLogPath = "backup.log"

type Config struct {
	LogPath      string       `yaml:"log_path"`
	EngineConfig EngineConfig `yaml:"engine"`
}

type EngineConfig struct {
	// BusyTimeout is how long SQLite waits on a locked database before
	// reporting SQLITE_BUSY.
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// StepPages is the number of pages per backup step; -1 copies everything
	// in one step. StepDelay is the pause between steps and only applies
	// when paging.
	StepPages int           `yaml:"step_pages"`
	StepDelay time.Duration `yaml:"step_delay"`

	// Verify runs PRAGMA quick_check on the destination after the copy.
	Verify bool `yaml:"verify"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		LogPath: DefaultLogPath,
		EngineConfig: EngineConfig{
			BusyTimeout: 5 * time.Second,
			StepPages:   -1,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	var errs []error
	if c.LogPath == "" {
		errs = append(errs, errors.New("log_path must not be empty"))
	}
	if c.EngineConfig.StepPages == 0 {
		errs = append(errs, errors.New("engine.step_pages must be positive or -1"))
	}
	if c.EngineConfig.StepDelay < 0 {
		errs = append(errs, errors.New("engine.step_delay must not be negative"))
	}
	if c.EngineConfig.BusyTimeout < 0 {
		errs = append(errs, errors.New("engine.busy_timeout must not be negative"))
	}
	return errors.Join(errs...)
}
