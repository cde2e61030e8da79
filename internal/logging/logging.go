package logging

import (
	"io"
	"log/slog"
	"os"
)

// DualLogger writes to both stdout and an optional log file.
type DualLogger struct {
	Logger *slog.Logger
	file   *os.File
}

// New creates a slog logger for stdout, additionally appending to the
// file named by EXPODHT_LOGFILE when set.
func New() (*DualLogger, error) {
	writers := []io.Writer{os.Stdout}

	var file *os.File
	if path := os.Getenv("EXPODHT_LOGFILE"); path != "" {
		var err error
		file, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		writers = append(writers, file)
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: slog.LevelInfo})

	return &DualLogger{Logger: slog.New(handler), file: file}, nil
}

// Close releases the log file, if one was opened.
func (l *DualLogger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
