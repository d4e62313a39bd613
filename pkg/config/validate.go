package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for one configuration field.
type FieldError struct {
	// Field is the dotted path to the field (e.g. "routing.token_threshold").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects all validation errors in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate checks the whole configuration and returns a
// ValidationError listing every problem, or nil when valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateRules(&cfg.Rules)...)
	errs = append(errs, validateRouting(&cfg.Routing)...)
	errs = append(errs, validateLocalModel(&cfg.LocalModel)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateAudit(&cfg.Audit)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateRules(cfg *RulesConfig) []FieldError {
	var errs []FieldError

	switch cfg.Source {
	case RuleSourceFile, RuleSourceSQLite:
	default:
		errs = append(errs, FieldError{
			Field:   "rules.source",
			Message: fmt.Sprintf("must be %q or %q, got %q", RuleSourceFile, RuleSourceSQLite, cfg.Source),
		})
	}
	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "rules.path",
			Message: "cannot be empty",
		})
	}
	if cfg.Watch && cfg.Source != RuleSourceFile {
		errs = append(errs, FieldError{
			Field:   "rules.watch",
			Message: "watching is only supported for the file source",
		})
	}
	if cfg.DebounceInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "rules.debounce_interval",
			Message: "cannot be negative",
		})
	}
	return errs
}

func validateRouting(cfg *RoutingConfig) []FieldError {
	var errs []FieldError

	if cfg.TokenThreshold <= 0 {
		errs = append(errs, FieldError{
			Field:   "routing.token_threshold",
			Message: "must be positive",
		})
	}
	if cfg.CloudModel == "" {
		errs = append(errs, FieldError{
			Field:   "routing.cloud_model",
			Message: "cannot be empty",
		})
	}
	return errs
}

func validateLocalModel(cfg *LocalModelConfig) []FieldError {
	var errs []FieldError

	if cfg.Name == "" {
		errs = append(errs, FieldError{
			Field:   "local_model.name",
			Message: "cannot be empty",
		})
	}
	if cfg.MaxTokens <= 0 {
		errs = append(errs, FieldError{
			Field:   "local_model.max_tokens",
			Message: "must be positive",
		})
	}
	return errs
}

func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: fmt.Sprintf("must be debug, info, warn, or error, got %q", cfg.Level),
		})
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: fmt.Sprintf("must be json, text, or console, got %q", cfg.Format),
		})
	}
	return errs
}

func validateAudit(cfg *AuditConfig) []FieldError {
	var errs []FieldError

	if cfg.Enabled && cfg.DBPath == "" {
		errs = append(errs, FieldError{
			Field:   "audit.db_path",
			Message: "cannot be empty when audit is enabled",
		})
	}
	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.retention_days",
			Message: "cannot be negative",
		})
	}
	if cfg.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.max_records",
			Message: "cannot be negative",
		})
	}
	if cfg.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "audit.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}
	return errs
}
