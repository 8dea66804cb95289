// Package logging provides the run logger used across orchestra commands.
//
// The logger is an explicitly constructed value passed through the
// pipeline rather than ambient global state, so components stay testable
// in isolation. Console output honors a level threshold; when a log file
// is configured every entry is mirrored there as JSON, and the final
// compilation report is appended to the same file as one structured block.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls logger construction.
type Config struct {
	// Level is one of silent, error, warn, info, debug. Unknown values
	// fall back to info. Silent still reports errors on stderr.
	Level string

	// LogFile, when non-empty, receives a JSON mirror of every entry plus
	// the end-of-run report block.
	LogFile string
}

// Logger wraps a zap sugared logger with a per-run file sink.
type Logger struct {
	*zap.SugaredLogger
	file *os.File
}

// New builds a Logger from cfg. The caller owns the result and must call
// Close exactly once.
func New(cfg Config) (*Logger, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	consoleSink := zapcore.Lock(os.Stdout)
	if cfg.Level == "silent" {
		consoleSink = zapcore.Lock(os.Stderr)
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), consoleSink, threshold(cfg.Level)),
	}

	var file *os.File
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		jsonCfg := zap.NewProductionEncoderConfig()
		jsonCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), zapcore.AddSync(f), zapcore.DebugLevel))
	}

	core := zapcore.NewTee(cores...)
	return &Logger{SugaredLogger: zap.New(core).Sugar(), file: file}, nil
}

// AppendReport writes one indented JSON report block to the log file. A
// logger without a file sink silently drops the report; callers that need
// the report elsewhere already hold it as a value.
func (l *Logger) AppendReport(report interface{}) error {
	if l.file == nil {
		return nil
	}
	data, err := json.MarshalIndent(map[string]interface{}{"report": report}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append report: %w", err)
	}
	return nil
}

// Close flushes buffered entries and releases the file sink.
func (l *Logger) Close() error {
	_ = l.SugaredLogger.Sync()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// RunFile creates dir if needed and returns a timestamped log file path
// for one run, e.g. logs/compile-20240101T120000Z.log.
func RunFile(dir, prefix string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	stamp := time.Now().UTC().Format("20060102T150405Z")
	return filepath.Join(dir, fmt.Sprintf("%s-%s.log", prefix, stamp)), nil
}

func threshold(level string) zapcore.LevelEnabler {
	switch level {
	case "silent", "error":
		return zapcore.ErrorLevel
	case "warn":
		return zapcore.WarnLevel
	case "debug":
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
