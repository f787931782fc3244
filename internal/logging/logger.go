package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// ParseLevel maps a config string to a LogLevel, defaulting to WARN
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "error":
		return ERROR
	default:
		return WARN
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case INFO:
		return slog.LevelInfo
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

const (
	defaultMaxSize    = 10 * 1024 * 1024
	defaultMaxBackups = 3
)

// Config holds logger configuration
type Config struct {
	Level      LogLevel
	Output     io.Writer // Console destination (default: stderr, stdout carries reports)
	OutputFile string    // Also append to this file when set
	MaxSize    int64     // Rotate the file at startup once it reaches this size (default: 10MB)
	MaxBackups int       // Rotated files kept as .1 .. .N (default: 3)
	JSONFormat bool
	AddSource  bool
}

// Logger is a slog.Logger that owns its optional log file
type Logger struct {
	*slog.Logger

	path string
	file *os.File
	mu   sync.Mutex
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Initialize creates the process logger and installs it as the slog default.
// Packages log through slog.Default().With("component", ...), so they pick it up
// without importing this package. Only the first call has an effect.
func Initialize(config Config) error {
	var initErr error
	once.Do(func() {
		logger, err := NewLogger(config)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize logger: %w", err)
			return
		}
		globalLogger = logger
		slog.SetDefault(logger.Logger)
	})
	return initErr
}

// NewLogger builds a text or JSON slog logger writing to config.Output and,
// when configured, a size-rotated log file.
func NewLogger(config Config) (*Logger, error) {
	if config.MaxSize == 0 {
		config.MaxSize = defaultMaxSize
	}
	if config.MaxBackups == 0 {
		config.MaxBackups = defaultMaxBackups
	}
	if config.Output == nil {
		config.Output = os.Stderr
	}

	l := &Logger{path: config.OutputFile}
	out := config.Output

	if config.OutputFile != "" {
		file, err := openLogFile(config.OutputFile, config.MaxSize, config.MaxBackups)
		if err != nil {
			return nil, err
		}
		l.file = file
		out = io.MultiWriter(config.Output, file)
	}

	opts := &slog.HandlerOptions{
		Level:     config.Level.slogLevel(),
		AddSource: config.AddSource,
	}
	if config.JSONFormat {
		l.Logger = slog.New(slog.NewJSONHandler(out, opts))
	} else {
		l.Logger = slog.New(slog.NewTextHandler(out, opts))
	}
	return l, nil
}

// openLogFile rotates path when it has grown past maxSize, then opens it for append
func openLogFile(path string, maxSize int64, maxBackups int) (*os.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	if err := rotate(path, maxSize, maxBackups); err != nil {
		return nil, fmt.Errorf("failed to rotate logs: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file, nil
}

// rotate shifts path to path.1, path.1 to path.2 and so on. The oldest backup is overwritten.
func rotate(path string, maxSize int64, maxBackups int) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	if info.Size() < maxSize {
		return nil
	}

	for i := maxBackups - 1; i >= 1; i-- {
		from := fmt.Sprintf("%s.%d", path, i)
		if _, err := os.Stat(from); err == nil {
			_ = os.Rename(from, fmt.Sprintf("%s.%d", path, i+1))
		}
	}

	if err := os.Rename(path, path+".1"); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}
	return nil
}

// Path returns the log file path, or "" when logging to the console only
func (l *Logger) Path() string {
	return l.path
}

// Close closes the log file if one is open
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Close closes the process logger's file
func Close() error {
	if globalLogger == nil {
		return nil
	}
	return globalLogger.Close()
}
