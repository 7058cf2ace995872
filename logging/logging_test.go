package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)
	logger.SetLevel(LevelInfo)

	// Debug should be filtered
	logger.Debug("debug message")
	if buf.Len() > 0 {
		t.Error("debug message should be filtered at INFO level")
	}

	// Info should pass
	logger.Info("info message")
	if buf.Len() == 0 {
		t.Error("info message should be logged")
	}

	output := buf.String()
	if !strings.Contains(output, "INFO") {
		t.Error("log should contain INFO level")
	}
	if !strings.Contains(output, "info message") {
		t.Error("log should contain the message")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"WARN", LevelWarn},
		{"Error", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New().WithComponent("reconcile")
	logger.SetOutput(&buf)

	logger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, "[reconcile]") {
		t.Errorf("expected component 'reconcile' in log, got: %s", output)
	}
}

func TestLogger_WithSessionID(t *testing.T) {
	var buf bytes.Buffer
	logger := New().WithSessionID("sess-42")
	logger.SetOutput(&buf)

	logger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, "session=sess-42") {
		t.Errorf("expected session field in log, got: %s", output)
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)

	logger.Info("variant change", map[string]interface{}{
		"key": "purseColor",
	})

	output := buf.String()
	if !strings.Contains(output, "key=purseColor") {
		t.Errorf("expected field 'key=purseColor' in log, got: %s", output)
	}
}

func TestLogger_SyncSent(t *testing.T) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)
	logger.SetLevel(LevelDebug) // SyncSent logs at Debug level

	logger.SyncSent("viewingMode", "setVariantSelection")

	output := buf.String()
	if !strings.Contains(output, "key=viewingMode") {
		t.Errorf("sync log should include key, got: %s", output)
	}
	if !strings.Contains(output, "command=setVariantSelection") {
		t.Errorf("sync log should include command type, got: %s", output)
	}
}

func TestLogger_WriteRejected(t *testing.T) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)

	logger.WriteRejected("viewingMode", "awaiting completion")

	output := buf.String()
	if !strings.Contains(output, "WARN") {
		t.Error("rejected write should be WARN level")
	}
	if !strings.Contains(output, "write_rejected") {
		t.Error("expected write_rejected message")
	}
}

func TestLogger_TimeoutEscalated(t *testing.T) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)

	logger.TimeoutEscalated("viewingMode", 9)

	output := buf.String()
	if !strings.Contains(output, "ERROR") {
		t.Error("timeout escalation should be ERROR level")
	}
	if !strings.Contains(output, "resync_count=9") {
		t.Errorf("expected resync_count field, got: %s", output)
	}
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := New().WithComponent("test")
	logger.SetOutput(&buf)

	logger.Info("hello world", map[string]interface{}{"key": "value"})

	output := buf.String()
	// Format: LEVEL TIMESTAMP [component] message key=value
	if !strings.HasPrefix(output, "INFO ") {
		t.Errorf("expected line to start with 'INFO ', got: %s", output)
	}
	if !strings.Contains(output, "[test]") {
		t.Errorf("expected component [test], got: %s", output)
	}
	if !strings.Contains(output, "hello world") {
		t.Errorf("expected message, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("expected key=value, got: %s", output)
	}
}
