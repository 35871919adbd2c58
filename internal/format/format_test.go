package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"taskdesk/internal/models"
)

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	payload := map[string]string{"key": "value"}
	if err := (JSONFormatter{}).Write(&buf, payload); err != nil {
		t.Fatalf("write: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["key"] != "value" {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestTaskTableFormatter(t *testing.T) {
	tasks := []models.Task{
		{TaskID: "t-1", Title: "First thing", Status: "pending", CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{TaskID: "t-2", Title: "Second thing", Status: "done", CreatedAt: time.Date(2025, 3, 2, 11, 30, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	if err := (TaskTableFormatter{}).Write(&buf, tasks); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ID", "STATUS", "t-1", "First thing", "done", "2025-03-02 11:30"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestTaskTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := (TaskTableFormatter{}).Write(&buf, map[string]int{"count": 3}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), `"count":3`) {
		t.Fatalf("expected JSON fallback, got %q", buf.String())
	}
}
