package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// inTempDir runs the test from a scratch directory and restores the standard logger afterwards
func inTempDir(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	out, flags := log.Writer(), log.Flags()
	t.Cleanup(func() {
		log.SetOutput(out)
		log.SetFlags(flags)
	})
}

// TestSetupLoggingStderr verifies the server keeps logging to stderr without -debug
func TestSetupLoggingStderr(t *testing.T) {
	inTempDir(t)
	log.SetOutput(io.Discard)

	if f := setupLogging(false); f != nil {
		f.Close()
		t.Error("Expected nil log file when debug=false")
	}
	if log.Writer() != os.Stderr {
		t.Errorf("Expected log output to be os.Stderr, got %v", log.Writer())
	}
	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Error("Expected no logs directory when debug=false")
	}
}

// TestSetupLoggingWritesFile verifies -debug sends log lines to logs/holodisc.log and not to the terminal
func TestSetupLoggingWritesFile(t *testing.T) {
	inTempDir(t)

	f := setupLogging(true)
	if f == nil {
		t.Fatal("Expected log file when debug=true")
	}
	defer f.Close()

	if w := log.Writer(); w == os.Stdout || w == os.Stderr {
		t.Error("Expected log output away from stdout/stderr")
	}

	log.Printf("Started video at %s", "world(0, 64, 0)")

	data, err := os.ReadFile(filepath.Join(logDir, logFileName))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "Started video at world(0, 64, 0)") {
		t.Errorf("Expected log line in file, got %q", data)
	}
}

// TestSetupLoggingRotates verifies an oversized log is moved aside before a fresh one starts
func TestSetupLoggingRotates(t *testing.T) {
	inTempDir(t)

	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(logDir, logFileName)
	if err := os.WriteFile(logPath, make([]byte, maxLogSize+1), 0644); err != nil {
		t.Fatal(err)
	}

	f := setupLogging(true)
	if f == nil {
		t.Fatal("Expected log file")
	}
	defer f.Close()

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatal(err)
	}
	rotated := 0
	for _, e := range entries {
		if e.Name() != logFileName && strings.HasPrefix(e.Name(), "holodisc-") {
			rotated++
		}
	}
	if rotated != 1 {
		t.Errorf("Expected 1 rotated file, got %d", rotated)
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("Expected fresh log under %d bytes, got %d", maxLogSize, info.Size())
	}
}
