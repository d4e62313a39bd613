package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "saturn.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Routing.TokenThreshold != DefaultTokenThreshold {
		t.Errorf("token threshold = %d, want %d", cfg.Routing.TokenThreshold, DefaultTokenThreshold)
	}
	if !cfg.Routing.DegradedPermitsCloud {
		t.Error("degraded network permits cloud by default")
	}
	if !cfg.Logging.RedactContent {
		t.Error("content redaction is on by default")
	}
	if cfg.Audit.PruneSchedule != DefaultAuditSchedule {
		t.Errorf("prune schedule = %q", cfg.Audit.PruneSchedule)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
rules:
  source: file
  path: ./team-rules.yaml
  watch: true
  debounce_interval: 250ms
routing:
  token_threshold: 2048
  cloud_model: claude-sonnet
local_model:
  name: llama-tiny
  max_tokens: 8192
  supported_intents: [summarize, rewrite]
logging:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Rules.Path != "./team-rules.yaml" || !cfg.Rules.Watch {
		t.Errorf("rules = %+v", cfg.Rules)
	}
	if cfg.Rules.DebounceInterval != 250*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Rules.DebounceInterval)
	}
	if cfg.Routing.TokenThreshold != 2048 || cfg.Routing.CloudModel != "claude-sonnet" {
		t.Errorf("routing = %+v", cfg.Routing)
	}
	if len(cfg.LocalModel.SupportedIntents) != 2 {
		t.Errorf("supported intents = %v", cfg.LocalModel.SupportedIntents)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("logging = %+v", cfg.Logging)
	}

	// Unset sections keep defaults.
	if cfg.Audit.DBPath != DefaultAuditDBPath {
		t.Errorf("audit db path = %q, want default", cfg.Audit.DBPath)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "rules: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules.Source = "ldap"
	cfg.Routing.TokenThreshold = -1
	cfg.Logging.Level = "loud"
	cfg.Audit.PruneSchedule = "whenever"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T", err)
	}
	if len(verr.Errors) != 4 {
		t.Errorf("collected %d errors, want 4: %v", len(verr.Errors), verr)
	}

	msg := err.Error()
	for _, field := range []string{"rules.source", "routing.token_threshold", "logging.level", "audit.prune_schedule"} {
		if !strings.Contains(msg, field) {
			t.Errorf("error message missing field %q", field)
		}
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
routing:
  token_threshold: 2048
`)

	t.Setenv("SATURN_ROUTING_TOKEN_THRESHOLD", "512")
	t.Setenv("SATURN_ROUTING_DEGRADED_PERMITS_CLOUD", "false")
	t.Setenv("SATURN_LOCAL_MODEL_SUPPORTED_INTENTS", "summarize, code ,")
	t.Setenv("SATURN_LOGGING_LEVEL", "warn")

	cfg, err := LoadWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadWithEnvOverrides: %v", err)
	}

	if cfg.Routing.TokenThreshold != 512 {
		t.Errorf("token threshold = %d, env must win over file", cfg.Routing.TokenThreshold)
	}
	if cfg.Routing.DegradedPermitsCloud {
		t.Error("degraded_permits_cloud override was ignored")
	}
	if len(cfg.LocalModel.SupportedIntents) != 2 || cfg.LocalModel.SupportedIntents[1] != "code" {
		t.Errorf("supported intents = %v", cfg.LocalModel.SupportedIntents)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging level = %q", cfg.Logging.Level)
	}
}

func TestLoadWithEnvOverrides_InvalidOverride(t *testing.T) {
	path := writeConfig(t, "")

	t.Setenv("SATURN_LOGGING_LEVEL", "loud")

	if _, err := LoadWithEnvOverrides(path); err == nil {
		t.Fatal("expected validation failure after bad override")
	}
}
