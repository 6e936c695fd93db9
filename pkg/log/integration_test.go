package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/YuminosukeSato/svdfit/pkg/errors"
)

// TestLoggerInterface tests the TestLogger implementation of Logger
func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationFit)
	testLogger.Warn("warning message", "warning_code", "TEST_WARNING")
	testLogger.Error("error message", fmt.Errorf("test error"), ErrorCodeKey, ErrorRankDeficient)

	if buffer.String() == "" {
		t.Fatal("Expected log output, got empty string")
	}

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}

	if !testLogger.ContainsField("key1", "value1") {
		t.Error("Expected field key1=value1 not found")
	}
	if !testLogger.ContainsField("number", 42.0) { // JSON numbers decode as float64
		t.Error("Expected field number=42 not found")
	}
	if !testLogger.ContainsField(ErrAttrKey, "test error") {
		t.Error("Expected leading error to be logged under the error key")
	}
	if !testLogger.ContainsField(ErrorCodeKey, ErrorRankDeficient) {
		t.Error("Expected error code after the leading error")
	}
}

// TestLoggerWith tests the With method for context-aware logging
func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ModelNameKey, "LeastSquares",
		BasisKey, "parabola",
	)
	contextLogger.Info("fit completed", ObservationsKey, 3, ParametersKey, 2)

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}

	expected := map[string]interface{}{
		ModelNameKey:    "LeastSquares",
		BasisKey:        "parabola",
		ObservationsKey: 3.0,
		ParametersKey:   2.0,
	}
	for key, want := range expected {
		if got, ok := entries[0][key]; !ok || got != want {
			t.Errorf("Field %s: expected %v, got %v", key, want, got)
		}
	}
}

// TestLoggerEnabled tests level filtering
func TestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	if !testLogger.Enabled(ctx, LevelInfo) {
		t.Error("Logger should be enabled for Info level")
	}
	if testLogger.Enabled(ctx, LevelDebug) {
		t.Error("Logger should not be enabled for Debug level")
	}

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")

	if testLogger.ContainsMessage("this should not appear") {
		t.Error("Debug message should not appear when level is Info")
	}
	if !testLogger.ContainsMessage("this should appear") {
		t.Error("Info message should appear when level is Info")
	}
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ToLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestSetupLoggerStacktrace checks the CloudLogging key renames and that
// cockroachdb stack traces are attached to error records.
func TestSetupLoggerStacktrace(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	if err := SetupLogger("info", &buf); err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}

	GetLogger().Error("fit failed", errors.NewInsufficientDOFError(2, 2), OperationKey, OperationEvaluate)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON output %q: %v", buf.String(), err)
	}
	if entry["severity"] != "ERROR" {
		t.Errorf("severity = %v, want ERROR", entry["severity"])
	}
	if entry["message"] != "fit failed" {
		t.Errorf("message = %v, want %q", entry["message"], "fit failed")
	}
	if entry[OperationKey] != OperationEvaluate {
		t.Errorf("%s = %v, want %q", OperationKey, entry[OperationKey], OperationEvaluate)
	}
	if st, _ := entry[StacktraceAttrKey].(string); st == "" {
		t.Error("expected stacktrace attribute for cockroachdb error")
	}
}

func TestRouteWarningsToZerolog(t *testing.T) {
	var buf bytes.Buffer
	RouteWarningsToZerolog(&buf)
	defer ResetWarningRoute()

	errors.Warn(errors.NewRankDeficiencyWarning("SolveVec", 1, 2, 1e-15))

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"type":"RankDeficiencyWarning"`, `"rank":1`, `"component":"svdfit"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in zerolog output: %s", want, out)
		}
	}
}

func BenchmarkLoggingWithContext(b *testing.B) {
	testLogger, _ := NewTestLogger(LevelInfo)
	contextLogger := testLogger.With(ModelNameKey, "LeastSquares", BasisKey, "parabola")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		contextLogger.Info("fit completed", ObservationsKey, 3, ChiSquaredKey, 1.88)
	}
}
