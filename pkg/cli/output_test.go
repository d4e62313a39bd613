package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatText)

	if err := f.FormatTo(&buf, "route: local"); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}
	if buf.String() != "route: local\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatJSON)

	data := map[string]any{"route": "local", "rule_id": "AUTO_LOCAL"}
	if err := f.FormatTo(&buf, data); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["route"] != "local" {
		t.Errorf("decoded = %v", decoded)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("JSON output should be indented")
	}
}

func TestNewFormatter_UnknownFallsBackToText(t *testing.T) {
	if _, ok := NewFormatter("yaml").(*TextFormatter); !ok {
		t.Error("unknown format must fall back to text")
	}
}
