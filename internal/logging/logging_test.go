package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "secando.log")
	logger, err := New(Options{Level: "info", File: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("plan generated")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "plan generated") {
		t.Errorf("log missing info entry:\n%s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry logged at info level:\n%s", out)
	}
	if !strings.Contains(out, `"logger":"secando"`) {
		t.Errorf("log missing logger name:\n%s", out)
	}
}

func TestVerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	logger, err := New(Options{Level: "warn", Verbose: true, File: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("verbose logger should enable debug")
	}
}

func TestBadLevel(t *testing.T) {
	if _, err := New(Options{Level: "chatty"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
