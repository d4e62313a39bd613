package config

import "time"

// Default values for configuration fields.
const (
	// Rules defaults
	DefaultRuleSource       = RuleSourceFile
	DefaultRulePath         = "./rules.yaml"
	DefaultRuleWatch        = false
	DefaultDebounceInterval = 100 * time.Millisecond

	// Routing defaults
	DefaultTokenThreshold       = 4096
	DefaultCloudModel           = "gpt-4o"
	DefaultDegradedPermitsCloud = true

	// Local model defaults
	DefaultLocalModelName      = "phi-3-mini"
	DefaultLocalModelMaxTokens = 4096

	// Logging defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	DefaultRedactContent = true

	// Audit defaults
	DefaultAuditEnabled       = true
	DefaultAuditDBPath        = "data/audit.db"
	DefaultAuditQueueSize     = 1000
	DefaultAuditRetentionDays = 90
	DefaultAuditMaxRecords    = int64(0)
	DefaultAuditSchedule      = "0 3 * * *"

	// Metrics defaults
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "saturn"
)

// ApplyDefaults fills zero-valued fields with defaults. Explicit
// values, including explicit false booleans where the default is also
// false, survive unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg.Rules.Source == "" {
		cfg.Rules.Source = DefaultRuleSource
	}
	if cfg.Rules.Path == "" {
		cfg.Rules.Path = DefaultRulePath
	}
	if cfg.Rules.DebounceInterval <= 0 {
		cfg.Rules.DebounceInterval = DefaultDebounceInterval
	}

	if cfg.Routing.TokenThreshold <= 0 {
		cfg.Routing.TokenThreshold = DefaultTokenThreshold
	}
	if cfg.Routing.CloudModel == "" {
		cfg.Routing.CloudModel = DefaultCloudModel
	}

	if cfg.LocalModel.Name == "" {
		cfg.LocalModel.Name = DefaultLocalModelName
	}
	if cfg.LocalModel.MaxTokens <= 0 {
		cfg.LocalModel.MaxTokens = DefaultLocalModelMaxTokens
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}

	if cfg.Audit.DBPath == "" {
		cfg.Audit.DBPath = DefaultAuditDBPath
	}
	if cfg.Audit.QueueSize <= 0 {
		cfg.Audit.QueueSize = DefaultAuditQueueSize
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// DefaultConfig returns a fully defaulted configuration.
func DefaultConfig() *Config {
	cfg := &Config{
		Routing: RoutingConfig{
			DegradedPermitsCloud: DefaultDegradedPermitsCloud,
		},
		Logging: LoggingConfig{
			RedactContent: DefaultRedactContent,
		},
		Audit: AuditConfig{
			Enabled:       DefaultAuditEnabled,
			RetentionDays: DefaultAuditRetentionDays,
			MaxRecords:    DefaultAuditMaxRecords,
			PruneSchedule: DefaultAuditSchedule,
		},
		Metrics: MetricsConfig{
			Enabled: DefaultMetricsEnabled,
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
