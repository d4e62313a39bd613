package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/audit"
	"mercator-hq/saturn/pkg/audit/retention"
	"mercator-hq/saturn/pkg/audit/storage"
)

var (
	auditSession   string
	auditTrace     string
	auditErrorCode string
	auditLimit     int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and maintain the decision audit trail",
}

type auditList []*audit.Record

func (l auditList) String() string {
	if len(l) == 0 {
		return "no audit records"
	}
	var sb strings.Builder
	for i, r := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		outcome := r.Route
		if r.ErrorCode != "" {
			outcome = "error:" + r.ErrorCode
		}
		fmt.Fprintf(&sb, "%s  %-20s %-24s ~%d tokens  %dms",
			r.CreatedAt.Format("2006-01-02 15:04:05"), outcome, r.RuleID, r.TokenEstimate, r.LatencyMs)
		if r.FallbackUsed {
			sb.WriteString("  (fallback)")
		}
	}
	return sb.String()
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent audit records",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		s, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{Path: cfg.Audit.DBPath})
		if err != nil {
			return err
		}
		defer s.Close()

		records, err := s.List(cmd.Context(), audit.Query{
			SessionID: auditSession,
			TraceID:   auditTrace,
			ErrorCode: auditErrorCode,
			Limit:     auditLimit,
		})
		if err != nil {
			return err
		}
		return formatter().FormatTo(cmd.OutOrStdout(), auditList(records))
	},
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply the retention policy to the audit trail now",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		s, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{Path: cfg.Audit.DBPath})
		if err != nil {
			return err
		}
		defer s.Close()

		pruner := retention.NewPruner(s, &retention.Config{
			RetentionDays: cfg.Audit.RetentionDays,
			MaxRecords:    cfg.Audit.MaxRecords,
		})
		deleted, err := pruner.Prune(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pruned %d audit records\n", deleted)
		return nil
	},
}

func init() {
	auditListCmd.Flags().StringVar(&auditSession, "session", "", "filter by session id")
	auditListCmd.Flags().StringVar(&auditTrace, "trace", "", "filter by trace id")
	auditListCmd.Flags().StringVar(&auditErrorCode, "error-code", "", "filter by error code")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 50, "maximum records to return")

	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditPruneCmd)
	rootCmd.AddCommand(auditCmd)
}
