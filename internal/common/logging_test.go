package common

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestNewLoggerFromConfig_FluentAPI(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{Level: "error", Outputs: []string{"console"}})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
	logger.Info().Str("tool", "list-mail-messages").Msg("registered")
	logger.Warn().Int("count", 3).Msg("suppressed")
	logger.Error().Err(nil).Msg("error message")
	logger.Debug().Bool("read_only", true).Msg("policy")
}

func TestNewLoggerFromConfig_EmptyConfigDefaults(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{})
	if logger == nil {
		t.Fatal("expected logger for empty config")
	}
	logger.Info().Msg("defaults")
}

func TestNewLoggerWithOutput_WritesToProvidedWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)
	logger.WithCorrelationId("req-1").Info().Str("tool", "get-me").Int("status", 200).Msg("tool call")

	line := buf.String()
	for _, want := range []string{"tool call", "status=200 tool=get-me", "correlation_id=req-1"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}
}

func TestNewLoggerWithOutput_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("warn", &buf)
	logger.Debug().Msg("hidden debug")
	logger.Info().Msg("hidden info")
	logger.Warn().Msg("shown warn")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected lines below warn to be dropped, got %q", out)
	}
	if !strings.Contains(out, "shown warn") {
		t.Errorf("expected warn line, got %q", out)
	}
}

func TestNewLoggerWithOutput_LoggersAreIndependent(t *testing.T) {
	var first, second bytes.Buffer
	a := NewLoggerWithOutput("info", &first)
	b := NewLoggerWithOutput("info", &second)

	a.Info().Msg("from a")
	b.Info().Msg("from b")

	if strings.Contains(first.String(), "from b") || strings.Contains(second.String(), "from a") {
		t.Errorf("loggers share output: first=%q second=%q", first.String(), second.String())
	}
	if !strings.Contains(first.String(), "from a") || !strings.Contains(second.String(), "from b") {
		t.Errorf("expected each logger to keep its own output: first=%q second=%q", first.String(), second.String())
	}
}

func TestNewSilentLogger_DiscardsOutput(t *testing.T) {
	logger := NewSilentLogger()
	if logger == nil {
		t.Fatal("NewSilentLogger returned nil")
	}
	logger.Info().Str("key", "value").Msg("should be discarded")
	logger.Error().Err(nil).Msg("should be discarded")
}

func TestWithCorrelationId_ReturnsNewLogger(t *testing.T) {
	base := NewSilentLogger()
	scoped := base.WithCorrelationId("abc-123")
	if scoped == nil {
		t.Fatal("WithCorrelationId returned nil")
	}
	if scoped == base {
		t.Error("expected a distinct logger")
	}
	scoped.Info().Msg("scoped")
}

func TestNewLoggerFromConfig_DoesNotWriteToStdout(t *testing.T) {
	// stdout carries the stdio JSON-RPC stream.
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	logger := NewLoggerFromConfig(LoggingConfig{Level: "info", Outputs: []string{"console"}})
	logger.Info().Str("tool", "send-mail").Msg("must not reach stdout")

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	r.Close()

	if buf.Len() > 0 {
		t.Errorf("logger wrote %d bytes to stdout: %s", buf.Len(), buf.String())
	}
}
