// Package logger provides structured logging for the engine with scene-scoped support.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Logger is the abstracted logging interface used across the engine.
// No engine component may let an error escape to the frame loop; components
// report through this interface and continue.
type Logger interface {
	Debug(message string, fields ...Field)
	Info(message string, fields ...Field)
	Warn(message string, fields ...Field)
	Error(message string, fields ...Field)

	// WithScene returns a sub-logger that tags every entry with the scene id.
	//
	// Parameters:
	//   - sceneID: the scene identifier to tag entries with
	//
	// Returns:
	//   - Logger: the scoped sub-logger
	WithScene(sceneID string) Logger
}

// Field is a structured logging key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// WithField creates a new structured field.
//
// Parameters:
//   - key: the field key
//   - value: the field value
//
// Returns:
//   - Field: the constructed field
func WithField(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// engineLogger implements Logger on top of logrus.
type engineLogger struct {
	logger  *logrus.Logger
	sceneID string
}

var _ Logger = &engineLogger{}

// Formatter renders entries as "[time] LEVEL [scene] message {fields}" with
// colored levels via fatih/color.
type Formatter struct {
	TimestampFormat string
	DisableColors   bool
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	tsFormat := f.TimestampFormat
	if tsFormat == "" {
		tsFormat = time.TimeOnly
	}
	timestamp := entry.Time.Format(tsFormat)

	var levelColor *color.Color
	var levelText string
	switch entry.Level {
	case logrus.ErrorLevel:
		levelColor = color.New(color.FgRed, color.Bold)
		levelText = "ERROR"
	case logrus.WarnLevel:
		levelColor = color.New(color.FgYellow, color.Bold)
		levelText = "WARN"
	case logrus.DebugLevel:
		levelColor = color.New(color.FgWhite, color.Faint)
		levelText = "DEBUG"
	default:
		levelColor = color.New(color.FgCyan)
		levelText = "INFO"
	}

	scenePrefix := ""
	if scene, ok := entry.Data["scene"]; ok {
		scenePrefix = fmt.Sprintf("[%s] ", color.New(color.FgBlue).Sprint(scene))
		delete(entry.Data, "scene") // avoid duplication in the field dump
	}

	var output string
	if f.DisableColors {
		output = fmt.Sprintf("[%s] %s: %s%s", timestamp, levelText, scenePrefix, entry.Message)
	} else {
		output = fmt.Sprintf("[%s] %s: %s%s", timestamp, levelColor.Sprint(levelText), scenePrefix, entry.Message)
	}

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, entry.Data[k]))
		}
		output += " {" + strings.Join(parts, ", ") + "}"
	}

	return []byte(output + "\n"), nil
}

// New creates a Logger writing to stderr at the given level.
// Unknown level strings default to info.
//
// Parameters:
//   - level: one of "debug", "info", "warn", "error"
//
// Returns:
//   - Logger: the newly created logger
func New(level string) Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&Formatter{TimestampFormat: time.TimeOnly})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	return &engineLogger{logger: l}
}

// NewNop creates a Logger that discards all output. Intended for tests.
//
// Returns:
//   - Logger: the no-op logger
func NewNop() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &engineLogger{logger: l}
}

func (e *engineLogger) log(level logrus.Level, message string, fields []Field) {
	entry := logrus.NewEntry(e.logger)
	if e.sceneID != "" {
		entry = entry.WithField("scene", e.sceneID)
	}
	for _, f := range fields {
		entry = entry.WithField(f.Key, f.Value)
	}
	entry.Log(level, message)
}

func (e *engineLogger) Debug(message string, fields ...Field) {
	e.log(logrus.DebugLevel, message, fields)
}

func (e *engineLogger) Info(message string, fields ...Field) {
	e.log(logrus.InfoLevel, message, fields)
}

func (e *engineLogger) Warn(message string, fields ...Field) {
	e.log(logrus.WarnLevel, message, fields)
}

func (e *engineLogger) Error(message string, fields ...Field) {
	e.log(logrus.ErrorLevel, message, fields)
}

func (e *engineLogger) WithScene(sceneID string) Logger {
	return &engineLogger{logger: e.logger, sceneID: sceneID}
}
