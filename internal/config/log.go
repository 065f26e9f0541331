package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// SetupLogging configures the standard logger with the application prefix and
// tees its output to logs/agent.log and stderr. The previous session's log is
// truncated. The returned file must be closed by the caller on exit.
func SetupLogging(prefix string) (*os.File, error) {
	log.SetPrefix("[" + prefix + "] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := EnsureLogsDir(); err != nil {
		return nil, fmt.Errorf("failed to ensure logs dir: %w", err)
	}
	dir, err := LogsDir()
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log.SetOutput(io.MultiWriter(f, os.Stderr))
	return f, nil
}
