package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, applies defaults, and
// validates the result. Environment variables are not consulted; use
// LoadWithEnvOverrides for that.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads configuration and applies SATURN_*
// environment overrides, which always win over the file. The result is
// re-validated after overrides.
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies SATURN_SECTION_FIELD environment variables.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("SATURN_RULES_SOURCE"); val != "" {
		cfg.Rules.Source = RuleSource(val)
	}
	if val := os.Getenv("SATURN_RULES_PATH"); val != "" {
		cfg.Rules.Path = val
	}
	if val := os.Getenv("SATURN_RULES_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Rules.Watch = b
		}
	}
	if val := os.Getenv("SATURN_RULES_DEBOUNCE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Rules.DebounceInterval = d
		}
	}

	if val := os.Getenv("SATURN_ROUTING_TOKEN_THRESHOLD"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Routing.TokenThreshold = n
		}
	}
	if val := os.Getenv("SATURN_ROUTING_CLOUD_MODEL"); val != "" {
		cfg.Routing.CloudModel = val
	}
	if val := os.Getenv("SATURN_ROUTING_DEGRADED_PERMITS_CLOUD"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Routing.DegradedPermitsCloud = b
		}
	}

	if val := os.Getenv("SATURN_LOCAL_MODEL_NAME"); val != "" {
		cfg.LocalModel.Name = val
	}
	if val := os.Getenv("SATURN_LOCAL_MODEL_MAX_TOKENS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.LocalModel.MaxTokens = n
		}
	}
	if val := os.Getenv("SATURN_LOCAL_MODEL_SUPPORTED_INTENTS"); val != "" {
		cfg.LocalModel.SupportedIntents = splitAndTrim(val)
	}

	if val := os.Getenv("SATURN_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("SATURN_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv("SATURN_LOGGING_REDACT_CONTENT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Logging.RedactContent = b
		}
	}

	if val := os.Getenv("SATURN_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = b
		}
	}
	if val := os.Getenv("SATURN_AUDIT_DB_PATH"); val != "" {
		cfg.Audit.DBPath = val
	}
	if val := os.Getenv("SATURN_AUDIT_RETENTION_DAYS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Audit.RetentionDays = n
		}
	}

	if val := os.Getenv("SATURN_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("SATURN_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Metrics.ListenAddress = val
	}
}

func splitAndTrim(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
