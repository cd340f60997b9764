package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteOutputJSON(t *testing.T) {
	result := &RunResult{
		Success:          true,
		TotalScraped:     12,
		TotalUpserted:    12,
		TotalDeactivated: 3,
		Errors:           []string{},
		Duration:         "1m2s",
	}

	var buf bytes.Buffer
	if err := WriteOutput(&buf, result, FormatJSON); err != nil {
		t.Fatalf("WriteOutput failed: %v", err)
	}

	var decoded RunResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !decoded.Success || decoded.TotalScraped != 12 || decoded.TotalDeactivated != 3 {
		t.Errorf("round-tripped result mismatch: %+v", decoded)
	}
}

func TestWriteOutputText(t *testing.T) {
	result := &RunResult{
		Success:      false,
		TotalScraped: 5,
		Errors:       []string{"database unreachable"},
		Duration:     "3s",
	}

	var buf bytes.Buffer
	if err := WriteOutput(&buf, result, FormatText); err != nil {
		t.Fatalf("WriteOutput failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "FAILED") {
		t.Errorf("expected FAILED marker, got: %s", out)
	}
	if !strings.Contains(out, "database unreachable") {
		t.Errorf("expected the error listed, got: %s", out)
	}
}

func TestWriteOutputUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, &RunResult{}, OutputFormat("yaml")); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}
