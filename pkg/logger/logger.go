package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"contract-analyzer/internal/domain"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// AppLogger implements the domain.Logger interface
type AppLogger struct {
	level  LogLevel
	json   bool
	logger *log.Logger
	// base fields prepended to every entry
	fields []interface{}
}

// NewLogger creates a new logger instance writing text lines to stdout
func NewLogger(levelStr string) domain.Logger {
	return NewLoggerWithWriter(levelStr, "text", os.Stdout)
}

// NewLoggerWithWriter creates a logger with an explicit output format ("text" or "json").
func NewLoggerWithWriter(levelStr, format string, w io.Writer) *AppLogger {
	return &AppLogger{
		level:  parseLogLevel(levelStr),
		json:   strings.EqualFold(format, "json"),
		logger: log.New(w, "", 0),
	}
}

// With returns a logger that adds the given key/value pairs to every entry.
func (l *AppLogger) With(fields ...interface{}) domain.Logger {
	merged := make([]interface{}, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &AppLogger{level: l.level, json: l.json, logger: l.logger, fields: merged}
}

// Info logs an info message
func (l *AppLogger) Info(msg string, fields ...interface{}) {
	if l.level <= INFO {
		l.log("INFO", msg, fields...)
	}
}

// Error logs an error message
func (l *AppLogger) Error(msg string, err error, fields ...interface{}) {
	if l.level <= ERROR {
		allFields := append([]interface{}{"error", err}, fields...)
		l.log("ERROR", msg, allFields...)
	}
}

// Debug logs a debug message
func (l *AppLogger) Debug(msg string, fields ...interface{}) {
	if l.level <= DEBUG {
		l.log("DEBUG", msg, fields...)
	}
}

// Warn logs a warning message
func (l *AppLogger) Warn(msg string, fields ...interface{}) {
	if l.level <= WARN {
		l.log("WARN", msg, fields...)
	}
}

func (l *AppLogger) log(level, msg string, fields ...interface{}) {
	all := fields
	if len(l.fields) > 0 {
		all = append(append([]interface{}{}, l.fields...), fields...)
	}

	if l.json {
		l.logJSON(level, msg, all)
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logMsg := fmt.Sprintf("[%s] %s: %s", timestamp, level, msg)

	if len(all) > 0 {
		fieldStrs := make([]string, 0, len(all)/2)
		for i := 0; i+1 < len(all); i += 2 {
			fieldStrs = append(fieldStrs, fmt.Sprintf("%v=%v", all[i], all[i+1]))
		}
		if len(fieldStrs) > 0 {
			logMsg += " " + strings.Join(fieldStrs, " ")
		}
	}

	l.logger.Println(logMsg)
}

func (l *AppLogger) logJSON(level, msg string, fields []interface{}) {
	entry := map[string]interface{}{
		"time":  time.Now().UTC().Format(time.RFC3339),
		"level": strings.ToLower(level),
		"msg":   msg,
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		switch v := fields[i+1].(type) {
		case error:
			entry[key] = v.Error()
		case nil:
			entry[key] = nil
		default:
			entry[key] = v
		}
	}
	b, err := json.Marshal(entry)
	if err != nil {
		l.logger.Printf(`{"level":"error","msg":"log marshal failed","error":%q}`, err.Error())
		return
	}
	l.logger.Println(string(b))
}

// parseLogLevel converts string log level to LogLevel enum
func parseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}
