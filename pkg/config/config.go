package config

import "time"

// Config is the root saturn configuration.
type Config struct {
	// Rules configures where policy rules come from.
	Rules RulesConfig `yaml:"rules"`

	// Routing configures routing defaults.
	Routing RoutingConfig `yaml:"routing"`

	// LocalModel describes the on-device model.
	LocalModel LocalModelConfig `yaml:"local_model"`

	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Audit configures the decision audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`
}

// RuleSource selects a rule provider backend.
type RuleSource string

const (
	// RuleSourceFile loads rules from a YAML file.
	RuleSourceFile RuleSource = "file"
	// RuleSourceSQLite loads rules from the editable SQLite store.
	RuleSourceSQLite RuleSource = "sqlite"
)

// RulesConfig configures the rule provider.
type RulesConfig struct {
	// Source is "file" or "sqlite".
	Source RuleSource `yaml:"source"`

	// Path is the rule file path (file source) or database path
	// (sqlite source).
	Path string `yaml:"path"`

	// Watch reloads the rule file on change. Only meaningful for the
	// file source.
	Watch bool `yaml:"watch"`

	// DebounceInterval is the reload debounce for the watcher.
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// RoutingConfig configures routing defaults.
type RoutingConfig struct {
	// TokenThreshold is the largest estimated token count still
	// eligible for local execution in auto mode.
	TokenThreshold int `yaml:"token_threshold"`

	// CloudModel is the model used for cloud execution.
	CloudModel string `yaml:"cloud_model"`

	// DegradedPermitsCloud allows cloud routing on a degraded network.
	DegradedPermitsCloud bool `yaml:"degraded_permits_cloud"`
}

// LocalModelConfig describes the on-device model.
type LocalModelConfig struct {
	// Name is the local model identifier.
	Name string `yaml:"name"`

	// MaxTokens is the local model's context limit.
	MaxTokens int `yaml:"max_tokens"`

	// SupportedIntents lists intents the local model handles. A tagged
	// question whose intent is not listed routes to cloud in auto mode;
	// unclassified questions are always eligible for local.
	SupportedIntents []string `yaml:"supported_intents"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `yaml:"level"`

	// Format is "json", "text", or "console".
	Format string `yaml:"format"`

	// AddSource includes file:line in log output.
	AddSource bool `yaml:"add_source"`

	// RedactContent redacts sensitive values in log attributes.
	RedactContent bool `yaml:"redact_content"`
}

// AuditConfig configures the audit trail.
type AuditConfig struct {
	// Enabled turns audit recording on.
	Enabled bool `yaml:"enabled"`

	// DBPath is the audit database file.
	DBPath string `yaml:"db_path"`

	// QueueSize is the async write queue size.
	QueueSize int `yaml:"queue_size"`

	// RetentionDays is how long to keep records. 0 keeps forever.
	RetentionDays int `yaml:"retention_days"`

	// MaxRecords caps the stored record count. 0 means unlimited.
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for scheduled pruning.
	PruneSchedule string `yaml:"prune_schedule"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns metric collection on.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	Namespace string `yaml:"namespace"`

	// ListenAddress serves /metrics when non-empty.
	ListenAddress string `yaml:"listen_address"`
}
