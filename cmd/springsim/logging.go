package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

const logFile = "springsim.log"

// setupLogging sends the standard logger to dir/springsim.log when debug is
// set and discards it otherwise. The renderers own the terminal, so nothing
// is ever logged to stderr.
func setupLogging(debug bool, dir string) (func(), error) {
	if !debug {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	log.Printf("springsim started (pid %d)", os.Getpid())

	return func() {
		log.SetOutput(io.Discard)
		f.Close()
	}, nil
}
