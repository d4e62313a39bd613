package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/audit/recorder"
	"mercator-hq/saturn/pkg/audit/storage"
	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/decision"
	"mercator-hq/saturn/pkg/pipeline"
	"mercator-hq/saturn/pkg/policy/engine"
	"mercator-hq/saturn/pkg/routing"
)

var (
	decidePrivacy        string
	decideIntent         string
	decideSession        string
	decideNetwork        string
	decideLocalOffline   bool
	decideTokenThreshold int
)

// decideResult is the command output shape.
type decideResult struct {
	QuestionID         string   `json:"question_id"`
	Route              string   `json:"route"`
	Model              string   `json:"model"`
	RuleID             string   `json:"rule_id"`
	Reason             string   `json:"reason"`
	FallbackAllowed    bool     `json:"fallback_allowed"`
	Confidence         float64  `json:"confidence"`
	TokenEstimate      int      `json:"token_estimate"`
	Warnings           []string `json:"warnings,omitempty"`
	ConfirmationPrompt string   `json:"confirmation_prompt,omitempty"`
	AppliedRuleIDs     []string `json:"applied_rule_ids,omitempty"`
}

func (r decideResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "route: %s (%s)\n", r.Route, r.Model)
	fmt.Fprintf(&sb, "rule: %s\n", r.RuleID)
	fmt.Fprintf(&sb, "reason: %s\n", r.Reason)
	fmt.Fprintf(&sb, "tokens: ~%d, fallback allowed: %t", r.TokenEstimate, r.FallbackAllowed)
	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "\nwarning: %s", w)
	}
	if r.ConfirmationPrompt != "" {
		fmt.Fprintf(&sb, "\nconfirm: %s", r.ConfirmationPrompt)
	}
	return sb.String()
}

var decideCmd = &cobra.Command{
	Use:   "decide [question]",
	Short: "Decide where a question should run",
	Long: `Evaluate policy rules and decide whether a question runs on the local
model or in the cloud.

The runtime snapshot is assembled from the configuration file, with
flags overriding network state and local model availability for
what-if checks.`,
	Example: `  saturn decide "summarize my meeting notes"
  saturn decide "draft an email" --privacy local
  saturn decide "plan a trip" --network offline
  saturn decide "review this contract" --privacy cloud -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider, cleanup, err := newProvider(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		var opts []pipeline.Option
		if cfg.Audit.Enabled {
			auditStore, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{Path: cfg.Audit.DBPath})
			if err != nil {
				return fmt.Errorf("opening audit storage: %w", err)
			}
			defer auditStore.Close()

			rec := recorder.NewRecorder(auditStore, &recorder.Config{
				Enabled:   true,
				QueueSize: cfg.Audit.QueueSize,
			})
			defer rec.Close()
			opts = append(opts, pipeline.WithRecorder(rec))
		}

		service := pipeline.New(provider, opts...)

		q := decision.NewQuestion(args[0], decision.PrivacyLevel(decidePrivacy), decideIntent, decideSession)
		rt, err := runtimeSnapshot(cfg)
		if err != nil {
			return err
		}

		out, err := service.Decide(cmd.Context(), q, rt)
		if err != nil {
			return describeDecisionError(err)
		}

		result := decideResult{
			QuestionID:         q.ID,
			Route:              string(out.Decision.Route),
			Model:              out.Decision.Model,
			RuleID:             string(out.Decision.RuleID),
			Reason:             out.Decision.Reason,
			FallbackAllowed:    out.Decision.FallbackAllowed,
			Confidence:         out.Decision.Confidence,
			TokenEstimate:      out.TokenEstimate,
			Warnings:           out.Warnings,
			ConfirmationPrompt: out.ConfirmationPrompt,
			AppliedRuleIDs:     out.AppliedRuleIDs,
		}
		return formatter().FormatTo(cmd.OutOrStdout(), result)
	},
}

// runtimeSnapshot builds the runtime view from config and flags.
func runtimeSnapshot(cfg *config.Config) (decision.RuntimeSnapshot, error) {
	network := decision.NetworkState(decideNetwork)
	switch network {
	case decision.NetworkOnline, decision.NetworkDegraded, decision.NetworkOffline:
	default:
		return decision.RuntimeSnapshot{}, fmt.Errorf("invalid network state %q", decideNetwork)
	}

	threshold := cfg.Routing.TokenThreshold
	if decideTokenThreshold > 0 {
		threshold = decideTokenThreshold
	}

	return decision.RuntimeSnapshot{
		LocalModel: decision.LocalModel{
			Name:             cfg.LocalModel.Name,
			MaxTokens:        cfg.LocalModel.MaxTokens,
			SupportedIntents: cfg.LocalModel.SupportedIntents,
			Available:        !decideLocalOffline,
		},
		NetworkState:         network,
		TokenThreshold:       threshold,
		CloudModel:           cfg.Routing.CloudModel,
		DegradedPermitsCloud: cfg.Routing.DegradedPermitsCloud,
	}, nil
}

// describeDecisionError turns decision errors into user-facing ones.
func describeDecisionError(err error) error {
	var blocked *engine.BlockedError
	if errors.As(err, &blocked) {
		return fmt.Errorf("blocked by rule %q: %s", blocked.RuleID, blocked.Reason)
	}
	var netErr *routing.NetworkUnavailableError
	if errors.As(err, &netErr) {
		return fmt.Errorf("cloud required (%s) but network is %s", netErr.RuleID, netErr.NetworkState)
	}
	return err
}

func init() {
	decideCmd.Flags().StringVar(&decidePrivacy, "privacy", "auto", "privacy level (local, cloud, auto)")
	decideCmd.Flags().StringVar(&decideIntent, "intent", "", "question intent hint")
	decideCmd.Flags().StringVar(&decideSession, "session", "", "session identifier")
	decideCmd.Flags().StringVar(&decideNetwork, "network", "online", "network state (online, degraded, offline)")
	decideCmd.Flags().BoolVar(&decideLocalOffline, "local-unavailable", false, "treat the local model as unavailable")
	decideCmd.Flags().IntVar(&decideTokenThreshold, "token-threshold", 0, "override the local token threshold")

	rootCmd.AddCommand(decideCmd)
}
