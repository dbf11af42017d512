package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/garnizeh/sqlite3backup/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error for empty path: %v", err)
	}

	if cfg.LogPath != "backup.log" {
		t.Fatalf("unexpected LogPath: got %q want %q", cfg.LogPath, "backup.log")
	}
	if cfg.EngineConfig.StepPages != -1 {
		t.Fatalf("unexpected StepPages: got %d want -1", cfg.EngineConfig.StepPages)
	}
	if cfg.EngineConfig.BusyTimeout != 5*time.Second {
		t.Fatalf("unexpected BusyTimeout: got %v want %v", cfg.EngineConfig.BusyTimeout, 5*time.Second)
	}
	if cfg.EngineConfig.StepDelay != 0 {
		t.Fatalf("unexpected StepDelay: got %v want 0", cfg.EngineConfig.StepDelay)
	}
	if cfg.EngineConfig.Verify {
		t.Fatalf("expected Verify to default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate, got: %v", err)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("log_path: \"/var/log/sqlite3backup.log\"\nengine:\n  busy_timeout: \"30s\"\n  step_pages: 100\n  step_delay: \"10ms\"\n  verify: true\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error for file: %v", err)
	}

	if cfg.LogPath != "/var/log/sqlite3backup.log" {
		t.Fatalf("unexpected LogPath: got %q", cfg.LogPath)
	}
	if cfg.EngineConfig.BusyTimeout != 30*time.Second {
		t.Fatalf("unexpected BusyTimeout: got %v want %v", cfg.EngineConfig.BusyTimeout, 30*time.Second)
	}
	if cfg.EngineConfig.StepPages != 100 {
		t.Fatalf("unexpected StepPages: got %d want 100", cfg.EngineConfig.StepPages)
	}
	if cfg.EngineConfig.StepDelay != 10*time.Millisecond {
		t.Fatalf("unexpected StepDelay: got %v want %v", cfg.EngineConfig.StepDelay, 10*time.Millisecond)
	}
	if !cfg.EngineConfig.Verify {
		t.Fatalf("expected Verify true")
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  verify: true\n"), 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogPath != config.DefaultLogPath {
		t.Fatalf("expected default LogPath, got %q", cfg.LogPath)
	}
	if cfg.EngineConfig.StepPages != -1 {
		t.Fatalf("expected default StepPages, got %d", cfg.EngineConfig.StepPages)
	}
}

func TestLoadConfig_BadPath(t *testing.T) {
	if _, err := config.LoadConfig("/path/that/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent path, got nil")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("log_path: [unclosed\n"), 0o600); err != nil {
		t.Fatalf("failed to write bad yaml: %v", err)
	}

	if _, err := config.LoadConfig(path); err == nil {
		t.Fatalf("expected YAML decode error, got nil")
	}
}

func TestLoadConfig_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	if err := os.WriteFile(path, []byte("log_pth: \"x.log\"\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := config.LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown field, got nil")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	for name, content := range map[string]string{
		"zero step pages":       "engine:\n  step_pages: 0\n",
		"negative busy timeout": "engine:\n  busy_timeout: \"-1s\"\n",
		"empty log path":        "log_path: \"\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			if _, err := config.LoadConfig(path); err == nil {
				t.Fatalf("expected validation error for %q, got nil", content)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
		ok   bool
	}{
		{"valid", config.Config{LogPath: "backup.log", EngineConfig: config.EngineConfig{StepPages: -1}}, true},
		{"paged", config.Config{LogPath: "backup.log", EngineConfig: config.EngineConfig{StepPages: 5, StepDelay: time.Second}}, true},
		{"empty log path", config.Config{EngineConfig: config.EngineConfig{StepPages: -1}}, false},
		{"zero step pages", config.Config{LogPath: "backup.log"}, false},
		{"negative delay", config.Config{LogPath: "backup.log", EngineConfig: config.EngineConfig{StepPages: -1, StepDelay: -time.Second}}, false},
		{"negative busy timeout", config.Config{LogPath: "backup.log", EngineConfig: config.EngineConfig{StepPages: -1, BusyTimeout: -time.Second}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid config, got: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected validation error, got nil")
			}
		})
	}
}
