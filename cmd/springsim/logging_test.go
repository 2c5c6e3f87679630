package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupLoggingDebug(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	closeLog, err := setupLogging(true, dir)
	if err != nil {
		t.Fatal(err)
	}
	log.Printf("capacity reached")
	closeLog()

	data, err := os.ReadFile(filepath.Join(dir, logFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "capacity reached") {
		t.Errorf("log file missing message: %q", data)
	}
}

func TestSetupLoggingDiscard(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	closeLog, err := setupLogging(false, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer closeLog()
	log.Printf("dropped")

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("expected no log dir without debug, stat err = %v", err)
	}
}
