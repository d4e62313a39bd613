//go:build integration

package test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/saturn/pkg/audit"
	"mercator-hq/saturn/pkg/audit/recorder"
	"mercator-hq/saturn/pkg/audit/storage"
	"mercator-hq/saturn/pkg/decision"
	"mercator-hq/saturn/pkg/pipeline"
	"mercator-hq/saturn/pkg/policy/engine"
	"mercator-hq/saturn/pkg/policy/store"
	"mercator-hq/saturn/pkg/routing"
)

const integrationRules = `
rules:
  - id: block-credentials
    name: Block credentials
    type: privacy
    enabled: true
    priority: 1
    conditions:
      - field: content
        operator: contains
        value: password
    action:
      type: block
      reason: credentials never leave the device
  - id: confirm-large-cloud
    name: Confirm large cloud sends
    type: cost
    enabled: true
    priority: 20
    conditions:
      - field: token_count
        operator: exceeds
        value: "1000"
      - field: privacy_level
        operator: equals
        value: cloud
    action:
      type: require_confirmation
      prompt: This is a large question. Send to the cloud?
`

func runtimeOnline() decision.RuntimeSnapshot {
	return decision.RuntimeSnapshot{
		LocalModel: decision.LocalModel{
			Name:      "phi-3-mini",
			MaxTokens: 4096,
			Available: true,
		},
		NetworkState:         decision.NetworkOnline,
		TokenThreshold:       4096,
		CloudModel:           "gpt-4o",
		DegradedPermitsCloud: true,
	}
}

// TestFileRulesToSQLiteAudit runs the whole path: rules loaded from a
// YAML file, decisions made, audit written through SQLite, and read
// back.
func TestFileRulesToSQLiteAudit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	rulePath := filepath.Join(tmpDir, "rules.yaml")
	if err := os.WriteFile(rulePath, []byte(integrationRules), 0o644); err != nil {
		t.Fatalf("writing rules: %v", err)
	}

	provider, err := store.NewFileProvider(store.FileProviderConfig{Path: rulePath})
	if err != nil {
		t.Fatalf("NewFileProvider: %v", err)
	}

	auditStore, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
		Path: filepath.Join(tmpDir, "audit.db"),
	})
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	defer auditStore.Close()

	rec := recorder.NewRecorder(auditStore, nil)
	service := pipeline.New(provider, pipeline.WithRecorder(rec))

	// 1. A plain auto question routes local.
	q1 := decision.NewQuestion("what is on my calendar", decision.PrivacyAuto, "", "s1")
	out, err := service.Decide(context.Background(), q1, runtimeOnline())
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if out.Decision.RuleID != routing.RuleAutoLocal {
		t.Errorf("rule = %s, want AUTO_LOCAL", out.Decision.RuleID)
	}

	// 2. A credentialed question is blocked.
	q2 := decision.NewQuestion("what is my password again", decision.PrivacyAuto, "", "s1")
	if _, err := service.Decide(context.Background(), q2, runtimeOnline()); !errors.Is(err, engine.ErrPolicyBlocked) {
		t.Fatalf("expected policy block, got %v", err)
	}

	// 3. Fallback after a simulated local failure.
	fb, err := service.RequestFallback(q1, out.Decision)
	if err != nil {
		t.Fatalf("RequestFallback: %v", err)
	}
	if _, err := fb.Confirm(runtimeOnline()); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if err := rec.Close(); err != nil {
		t.Fatalf("closing recorder: %v", err)
	}

	records, err := auditStore.List(context.Background(), audit.Query{SessionID: "s1"})
	if err != nil {
		t.Fatalf("listing audit: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("audit records = %d, want 3", len(records))
	}

	var blocked, fallback int
	for _, r := range records {
		if r.ErrorCode == pipeline.ErrorCodePolicyBlocked {
			blocked++
		}
		if r.FallbackUsed && r.FallbackConfirmed {
			fallback++
		}
	}
	if blocked != 1 || fallback != 1 {
		t.Errorf("blocked=%d fallback=%d, want 1 and 1", blocked, fallback)
	}
}

// TestRuleFileReloadAffectsDecisions edits the rule file under a
// running watcher and verifies decisions pick up the new rules.
func TestRuleFileReloadAffectsDecisions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	rulePath := filepath.Join(tmpDir, "rules.yaml")
	if err := os.WriteFile(rulePath, []byte("rules: []\n"), 0o644); err != nil {
		t.Fatalf("writing rules: %v", err)
	}

	provider, err := store.NewFileProvider(store.FileProviderConfig{
		Path:             rulePath,
		DebounceInterval: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewFileProvider: %v", err)
	}
	before := provider.Snapshot()

	go provider.Watch(context.Background())
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(rulePath, []byte(integrationRules), 0o644); err != nil {
		t.Fatalf("rewriting rules: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && provider.Snapshot().Version == before.Version {
		time.Sleep(20 * time.Millisecond)
	}

	service := pipeline.New(provider)
	q := decision.NewQuestion("what is my password", decision.PrivacyAuto, "", "")
	if _, err := service.Decide(context.Background(), q, runtimeOnline()); !errors.Is(err, engine.ErrPolicyBlocked) {
		t.Fatalf("expected block after reload, got %v", err)
	}
}
