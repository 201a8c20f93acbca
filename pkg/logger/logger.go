package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

var log *zap.Logger

// SetLogger replaces the package-level logger instance.
func SetLogger(l *zap.Logger) {
	log = l
}

// L returns the package-level logger, which may be nil before initialization.
func L() *zap.Logger {
	return log
}

// GetLogger returns the global logger instance, initializing a console
// fallback if nothing has been set up yet.
func GetLogger() *zap.Logger {
	if log == nil {
		InitFallback()
	}
	return log
}

// EnsureLogPermissions ensures the correct permissions for the log directory and file.
func EnsureLogPermissions(logFilePath string) error {
	dir := filepath.Dir(logFilePath)

	// Ensure the directory exists
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	} else {
		if err := os.Chmod(dir, 0700); err != nil {
			return err
		}
	}

	// Ensure the log file exists
	if _, err := os.Stat(logFilePath); os.IsNotExist(err) {
		file, err := os.Create(logFilePath)
		if err != nil {
			return err
		}
		file.Close()
	}

	// Read/write for owner only
	return os.Chmod(logFilePath, 0600)
}

// Sync flushes any buffered log entries. Should be called before the application exits.
func Sync() error {
	if log != nil {
		return log.Sync()
	}
	return nil
}
