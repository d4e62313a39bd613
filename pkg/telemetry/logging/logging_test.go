package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"json debug", Config{Level: "debug", Format: "json"}, false},
		{"text warn", Config{Level: "warn", Format: "text"}, false},
		{"console", Config{Format: "console"}, false},
		{"bad level", Config{Level: "loud"}, true},
		{"bad format", Config{Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("should be filtered")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("info line leaked past warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn line missing")
	}
}

func TestNew_RedactsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: "json", RedactContent: true, Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("decision made",
		slog.String("detail", "user key sk-abc123secret was seen"),
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	detail, _ := entry["detail"].(string)
	if strings.Contains(detail, "sk-abc123secret") {
		t.Errorf("api key leaked into log: %q", detail)
	}
	if !strings.Contains(detail, "sk-***") {
		t.Errorf("expected redaction marker, got %q", detail)
	}
}

func TestRedactor(t *testing.T) {
	r := NewRedactor(nil)

	tests := []struct {
		name  string
		input string
		leak  string
	}{
		{"api key", "my key is sk-proj4ever123", "sk-proj4ever123"},
		{"bearer token", "Authorization: Bearer abc.def.ghi", "abc.def.ghi"},
		{"email", "reach me at jo@example.com today", "jo@example.com"},
		{"ssn", "ssn 123-45-6789 on file", "123-45-6789"},
		{"phone", "call 555-867-5309 now", "555-867-5309"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.Redact(tt.input)
			if strings.Contains(out, tt.leak) {
				t.Errorf("Redact(%q) = %q, still contains %q", tt.input, out, tt.leak)
			}
		})
	}
}

func TestRedactor_CustomPattern(t *testing.T) {
	r := NewRedactor([]Pattern{
		{Name: "ticket", Regex: `TICKET-\d+`, Replacement: "TICKET-***"},
		{Name: "broken", Regex: `([`, Replacement: "x"},
	})

	out := r.Redact("see TICKET-4821 for details")
	if out != "see TICKET-*** for details" {
		t.Errorf("Redact() = %q", out)
	}
}

func TestRedactor_PlainTextUntouched(t *testing.T) {
	r := NewRedactor(nil)
	in := "route decision local via AUTO_LOCAL"
	if out := r.Redact(in); out != in {
		t.Errorf("Redact(%q) = %q, want unchanged", in, out)
	}
}
