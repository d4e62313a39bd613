package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config contains configuration for the metrics collector.
type Config struct {
	// Enabled enables metric collection.
	Enabled bool

	// Namespace is the metric name prefix. Default: "saturn".
	Namespace string

	// DecisionDurationBuckets are histogram buckets for decision
	// latency in seconds. Decisions are in-process and fast.
	DecisionDurationBuckets []float64

	// TokenEstimateBuckets are histogram buckets for question token
	// estimates.
	TokenEstimateBuckets []float64
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		Namespace: "saturn",
	}
}

// Collector registers and records all pipeline metrics.
type Collector struct {
	config   *Config
	registry *prometheus.Registry

	decisionsTotal     *prometheus.CounterVec
	decisionErrors     *prometheus.CounterVec
	decisionDuration   prometheus.Histogram
	policyMatchesTotal *prometheus.CounterVec
	policyBlocksTotal  prometheus.Counter
	fallbacksTotal     *prometheus.CounterVec
	tokenEstimate      prometheus.Histogram
}

// NewCollector creates a collector registered on the given registry.
// A nil registry gets a fresh one.
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "saturn"
	}
	if len(cfg.DecisionDurationBuckets) == 0 {
		// In-process evaluation, microseconds to low milliseconds.
		cfg.DecisionDurationBuckets = prometheus.ExponentialBuckets(0.000001, 2, 15)
	}
	if len(cfg.TokenEstimateBuckets) == 0 {
		cfg.TokenEstimateBuckets = []float64{16, 64, 256, 1024, 4096, 16384, 65536}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "decisions_total",
				Help:      "Total routing decisions by route and rule",
			},
			[]string{"route", "rule_id"},
		),

		decisionErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "decision_errors_total",
				Help:      "Total failed decisions by error code",
			},
			[]string{"error_code"},
		),

		decisionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "decision_duration_seconds",
				Help:      "End-to-end decision latency in seconds",
				Buckets:   cfg.DecisionDurationBuckets,
			},
		),

		policyMatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "policy_matches_total",
				Help:      "Total policy rule matches by rule and action",
			},
			[]string{"rule_id", "action"},
		),

		policyBlocksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "policy_blocks_total",
				Help:      "Total questions blocked by policy",
			},
		),

		fallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "fallbacks_total",
				Help:      "Total local-failure fallbacks by outcome",
			},
			[]string{"outcome"},
		),

		tokenEstimate: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "question_token_estimate",
				Help:      "Estimated token counts of incoming questions",
				Buckets:   cfg.TokenEstimateBuckets,
			},
		),
	}

	registry.MustRegister(
		c.decisionsTotal,
		c.decisionErrors,
		c.decisionDuration,
		c.policyMatchesTotal,
		c.policyBlocksTotal,
		c.fallbacksTotal,
		c.tokenEstimate,
	)

	return c
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordDecision records a completed decision.
func (c *Collector) RecordDecision(route, ruleID string, duration time.Duration, tokens int) {
	if !c.config.Enabled {
		return
	}
	c.decisionsTotal.WithLabelValues(route, ruleID).Inc()
	c.decisionDuration.Observe(duration.Seconds())
	c.tokenEstimate.Observe(float64(tokens))
}

// RecordError records a failed decision by error code.
func (c *Collector) RecordError(errorCode string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.decisionErrors.WithLabelValues(errorCode).Inc()
	c.decisionDuration.Observe(duration.Seconds())
}

// RecordPolicyMatch records one matched policy rule.
func (c *Collector) RecordPolicyMatch(ruleID, action string) {
	if !c.config.Enabled {
		return
	}
	c.policyMatchesTotal.WithLabelValues(ruleID, action).Inc()
}

// RecordBlock records a policy block.
func (c *Collector) RecordBlock() {
	if !c.config.Enabled {
		return
	}
	c.policyBlocksTotal.Inc()
}

// RecordFallback records a fallback attempt outcome
// ("confirmed", "cancelled", "failed").
func (c *Collector) RecordFallback(outcome string) {
	if !c.config.Enabled {
		return
	}
	c.fallbacksTotal.WithLabelValues(outcome).Inc()
}
