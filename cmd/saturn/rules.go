package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/policy/rule"
	"mercator-hq/saturn/pkg/policy/store"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and manage policy rules",
}

// ruleSummary is the list output shape for one rule.
type ruleSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Enabled  bool   `json:"enabled"`
	Priority int    `json:"priority"`
	Action   string `json:"action"`
}

type ruleList []ruleSummary

func (l ruleList) String() string {
	if len(l) == 0 {
		return "no rules"
	}
	var sb strings.Builder
	for i, r := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		state := "enabled"
		if !r.Enabled {
			state = "disabled"
		}
		fmt.Fprintf(&sb, "%3d  %-24s %-12s %-20s %s", r.Priority, r.ID, r.Type, r.Action, state)
	}
	return sb.String()
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active policy rules in evaluation order",
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

		snap := provider.Snapshot()
		list := make(ruleList, 0, len(snap.Rules))
		for _, r := range snap.Rules {
			list = append(list, ruleSummary{
				ID:       r.ID,
				Name:     r.Name,
				Type:     string(r.Type),
				Enabled:  r.Enabled,
				Priority: r.Priority,
				Action:   string(r.Action.Kind()),
			})
		}
		return formatter().FormatTo(cmd.OutOrStdout(), list)
	},
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a YAML rule file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", args[0], err)
		}
		rules, err := rule.ParseRules(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rules, all valid\n", args[0], len(rules))
		return nil
	},
}

var rulesImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a YAML rule file into the rule database",
	Long: `Import validated rules from a YAML file into the SQLite rule store.
Requires rules.source to be "sqlite". Existing rules with the same id
are updated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Rules.Source != config.RuleSourceSQLite {
			return fmt.Errorf("rules.source is %q, import requires %q", cfg.Rules.Source, config.RuleSourceSQLite)
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", args[0], err)
		}
		rules, err := rule.ParseRules(data)
		if err != nil {
			return err
		}

		s, err := store.OpenSQLiteStore(cfg.Rules.Path)
		if err != nil {
			return err
		}
		defer s.Close()

		var created, updated int
		for _, r := range rules {
			if _, err := s.Get(cmd.Context(), r.ID); err == nil {
				if err := s.Update(cmd.Context(), r); err != nil {
					return err
				}
				updated++
				continue
			}
			if err := s.Create(cmd.Context(), r); err != nil {
				return err
			}
			created++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d rules (%d created, %d updated)\n",
			len(rules), created, updated)
		return nil
	},
}

var rulesDeleteCmd = &cobra.Command{
	Use:   "delete [rule-id]",
	Short: "Delete a rule from the rule database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Rules.Source != config.RuleSourceSQLite {
			return fmt.Errorf("rules.source is %q, delete requires %q", cfg.Rules.Source, config.RuleSourceSQLite)
		}

		s, err := store.OpenSQLiteStore(cfg.Rules.Path)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted rule %q\n", args[0])
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesImportCmd)
	rulesCmd.AddCommand(rulesDeleteCmd)
	rootCmd.AddCommand(rulesCmd)
}
