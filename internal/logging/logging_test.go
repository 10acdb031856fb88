package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"":      zapcore.InfoLevel,
		"bogus": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFileLoggerWrites(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewFileLogger(dir, "debug")
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	logger.Info("burn started")
	if err := logger.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "coreburn.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "burn started") {
		t.Errorf("log file missing entry, got: %s", data)
	}
}

func TestNewFileLoggerRespectsLevel(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewFileLogger(dir, "error")
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	logger.Info("too quiet for error level")
	_ = logger.Sync()

	data, _ := os.ReadFile(filepath.Join(dir, "coreburn.log"))
	if strings.Contains(string(data), "too quiet") {
		t.Error("info entry written despite error level")
	}
}
