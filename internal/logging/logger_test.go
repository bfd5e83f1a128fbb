package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{name: "nil config uses defaults", config: nil},
		{name: "explicit debug level", config: &Config{Level: LevelDebug, Output: &bytes.Buffer{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.config)
			if logger == nil {
				t.Fatal("NewLogger() returned nil")
			}
		})
	}
}

func TestLevelGating(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelWarn, Output: &buf})

	logger.Debug("should not appear")
	logger.Info("should not appear either")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below configured level, got %q", buf.String())
	}

	logger.Warn("warning message")
	if !strings.Contains(buf.String(), "warning message") {
		t.Errorf("expected warning message in output, got %q", buf.String())
	}

	buf.Reset()
	logger.Error("error message")
	if !strings.Contains(buf.String(), "[ERROR]") {
		t.Errorf("expected [ERROR] prefix in output, got %q", buf.String())
	}
}

func TestFormatArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	logger.Info("transaction started", "id", 7, "handler", "unit-test")
	output := buf.String()
	if !strings.Contains(output, "id=7") {
		t.Errorf("expected id=7 in output, got %q", output)
	}
	if !strings.Contains(output, "handler=unit-test") {
		t.Errorf("expected handler=unit-test in output, got %q", output)
	}
}

func TestPrintfStyle(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	logger.Debugf("chunk %x released", 0xA)
	if !strings.Contains(buf.String(), "chunk a released") {
		t.Errorf("expected formatted message, got %q", buf.String())
	}

	buf.Reset()
	logger.Printf("fallback printf %d", 1)
	if !strings.Contains(buf.String(), "[INFO] fallback printf 1") {
		t.Errorf("expected Printf to log at info level, got %q", buf.String())
	}
}

func TestGlobalLoggerFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(NewLogger(&Config{Level: LevelDebug, Output: &buf}))
	t.Cleanup(func() { SetDefault(NewLogger(nil)) })

	Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Errorf("expected debug message, got %q", buf.String())
	}

	buf.Reset()
	Info("info message")
	if !strings.Contains(buf.String(), "info message") {
		t.Errorf("expected info message, got %q", buf.String())
	}

	buf.Reset()
	Warn("warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Errorf("expected warn message, got %q", buf.String())
	}

	buf.Reset()
	Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Errorf("expected error message, got %q", buf.String())
	}
}
