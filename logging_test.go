package main

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	prevDebug := debugEnabled.Load()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
		debugEnabled.Store(prevDebug)
	})
	return &buf
}

func TestDebugLog(t *testing.T) {
	buf := captureLog(t)

	debugEnabled.Store(false)
	debugLog("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("debugLog wrote %q while disabled", buf.String())
	}

	debugEnabled.Store(true)
	debugLog("shown %d", 2)
	if got := buf.String(); got != "Debug: shown 2\n" {
		t.Errorf("debugLog wrote %q", got)
	}
}

func TestSetupLoggingWritesFile(t *testing.T) {
	captureLog(t)
	logFile := filepath.Join(t.TempDir(), "nimv.log")

	closer := setupLogging(logFile, true)
	log.Printf("Warning: something odd")
	debugLog("details")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	for _, want := range []string{"Warning: something odd", "Debug: details"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log file missing %q:\n%s", want, data)
		}
	}
}

func TestSetupLoggingWithoutFile(t *testing.T) {
	captureLog(t)
	closer := setupLogging("", false)
	if err := closer.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if debugEnabled.Load() {
		t.Error("debug left enabled")
	}
}
