// Package logging holds the process-wide debug logger.
//
// git-prompt runs on every shell redraw, so logs never go to the
// terminal. With debug off everything is discarded; with debug on each
// run appends JSON records to its own file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
)

// MaxLogFiles is how many per-run log files are kept in the state directory.
const MaxLogFiles = 50

// Logger is shared by every package. It discards output until Initialize
// enables debugging.
var Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// Initialize configures Logger. When debugFile is set, records are
// appended to it; otherwise a uuid-named file is created in the state
// directory. It returns the log file path, or "" when logging is off.
func Initialize(debug bool, debugFile string) (string, error) {
	if !debug && debugFile == "" {
		Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		return "", nil
	}

	path := debugFile
	if path == "" {
		dir, err := logDir()
		if err != nil {
			return "", fmt.Errorf("failed to get log directory: %w", err)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create log directory: %w", err)
		}
		if err := rotate(dir, MaxLogFiles); err != nil {
			return "", err
		}
		path = filepath.Join(dir, uuid.New().String()+".log")
	} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open log file: %w", err)
	}

	Logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	Logger.Debug("debug logging initialized", "log_file", path, "pid", os.Getpid())
	return path, nil
}

// rotate deletes the oldest .log files in dir so that one more file
// fits under limit.
func rotate(dir string, limit int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	type logFile struct {
		path    string
		modTime time.Time
	}
	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{path: filepath.Join(dir, entry.Name()), modTime: info.ModTime()})
	}

	if limit <= 0 || len(files) < limit {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	// Removal failures are ignored; a stale log is harmless.
	for _, f := range files[:len(files)-limit+1] {
		_ = os.Remove(f.path)
	}
	return nil
}

// logDir returns the per-OS state directory for log files.
func logDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Logs", "git-prompt"), nil
	case "windows":
		local := os.Getenv("LOCALAPPDATA")
		if local == "" {
			local = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(local, "git-prompt", "logs"), nil
	default:
		state := os.Getenv("XDG_STATE_HOME")
		if state == "" {
			state = filepath.Join(home, ".local", "state")
		}
		return filepath.Join(state, "git-prompt"), nil
	}
}
