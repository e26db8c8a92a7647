// Package logger wraps logrus with context-aware structured logging.
// All log calls take a context so the request trace ID is attached to
// every entry.
package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/learnhub/learnhub/ctxutil"
)

// Config holds logger configuration.
type Config struct {
	Level      int    // logrus level, 0 panic .. 6 trace
	Format     string // "json" or "text"
	Output     string // "stdout", "stderr" or "file"
	OutputFile string // log file path when Output is "file"
}

// Logger is a logrus-backed structured logger.
type Logger struct {
	*logrus.Logger
	logFile *os.File
	logPath string
	mu      sync.Mutex
}

var (
	standardLogger *Logger
	once           sync.Once
)

// StdLogger returns the singleton logger instance.
func StdLogger() *Logger {
	once.Do(func() {
		standardLogger = &Logger{Logger: logrus.New()}
		standardLogger.SetFormatter(&logrus.JSONFormatter{})
	})
	return standardLogger
}

// New initializes the standard logger from configuration and returns a
// cleanup function that closes the log file, if any.
func New(c *Config) (func(), error) {
	l := StdLogger()
	if c == nil {
		return func() {}, nil
	}

	if c.Level > 0 {
		l.SetLevel(logrus.Level(c.Level))
	}

	switch c.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{})
	}

	switch c.Output {
	case "stderr":
		l.SetOutput(os.Stderr)
	case "file":
		l.logPath = c.OutputFile
		if l.logPath != "" {
			if err := l.setupLogFile(); err != nil {
				return nil, err
			}
			go l.periodicLogRotation()
		}
	default:
		l.SetOutput(os.Stdout)
	}

	return func() {
		if l.logFile != nil {
			_ = l.logFile.Close()
		}
	}, nil
}

func (l *Logger) setupLogFile() error {
	if err := os.MkdirAll(filepath.Dir(l.logPath), 0o755); err != nil {
		return err
	}
	return l.rotateLog()
}

func (l *Logger) rotateLog() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		if err := l.logFile.Close(); err != nil {
			return err
		}
	}

	logFilePath := fmt.Sprintf("%s.%s.log", strings.TrimSuffix(l.logPath, ".log"), time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}

	l.logFile = f
	l.SetOutput(l.logFile)
	return nil
}

func (l *Logger) periodicLogRotation() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := l.rotateLog(); err != nil {
			l.Logger.Errorf("error rotating log: %v", err)
		}
	}
}

// entryFromContext creates a log entry carrying context fields.
func (l *Logger) entryFromContext(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}
	if traceID := ctxutil.GetTraceID(ctx); traceID != "" {
		fields["trace_id"] = traceID
	}
	if userID := ctxutil.GetUserID(ctx); userID != "" {
		fields["user_id"] = userID
	}
	return l.Logger.WithFields(fields)
}

// kvFields converts alternating key/value pairs into logrus fields.
// A trailing key without a value is recorded under "extra".
func kvFields(kv []any) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields[key] = kv[i+1]
	}
	if len(kv)%2 != 0 {
		fields["extra"] = kv[len(kv)-1]
	}
	return fields
}

// Debug logs a debug message with key/value pairs.
func (l *Logger) Debug(ctx context.Context, msg string, kv ...any) {
	l.entryFromContext(ctx).WithFields(kvFields(kv)).Debug(msg)
}

// Info logs an info message with key/value pairs.
func (l *Logger) Info(ctx context.Context, msg string, kv ...any) {
	l.entryFromContext(ctx).WithFields(kvFields(kv)).Info(msg)
}

// Warn logs a warning message with key/value pairs.
func (l *Logger) Warn(ctx context.Context, msg string, kv ...any) {
	l.entryFromContext(ctx).WithFields(kvFields(kv)).Warn(msg)
}

// Error logs an error message with key/value pairs.
func (l *Logger) Error(ctx context.Context, msg string, kv ...any) {
	l.entryFromContext(ctx).WithFields(kvFields(kv)).Error(msg)
}
