// Copyright 2023 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger provides the structured, leveled logging used across
// objectfs: one line per call, in text or JSON, with a severity below
// the stdlib's INFO ("TRACE") so FUSE handler tracing doesn't pollute
// ordinary operational logs.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Severity names accepted in config and CLI flags.
const (
	TRACE   = "TRACE"
	DEBUG   = "DEBUG"
	INFO    = "INFO"
	WARNING = "WARNING"
	ERROR   = "ERROR"
	OFF     = "OFF"
)

// Custom levels, spaced below/above the slog defaults so TRACE sorts
// under DEBUG and OFF sorts above everything else.
const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelOff   = slog.Level(12)
)

// LogRotateConfig mirrors the fixed rotation knobs lumberjack exposes.
type LogRotateConfig struct {
	MaxFileSizeMB   int
	BackupFileCount int
	Compress        bool
}

// DefaultLogRotateConfig matches the teacher's historical defaults.
func DefaultLogRotateConfig() LogRotateConfig {
	return LogRotateConfig{
		MaxFileSizeMB:   512,
		BackupFileCount: 10,
		Compress:        true,
	}
}

// LoggingConfig is the subset of cfg.Config this package consumes.
type LoggingConfig struct {
	FilePath string
	Format   string // "text" or "json"; empty defaults to "json"
	Severity string
	LogRotateConfig
}

type loggerFactory struct {
	file            *os.File
	sysWriter       io.Writer
	format          string
	level           string
	logRotateConfig LogRotateConfig
}

var defaultLoggerFactory = &loggerFactory{
	level:           INFO,
	format:          "json",
	logRotateConfig: DefaultLogRotateConfig(),
}

var defaultLogger = slog.New(
	defaultLoggerFactory.createJsonOrTextHandler(os.Stderr, newProgramLevel(INFO), ""),
)

func newProgramLevel(level string) *slog.LevelVar {
	v := new(slog.LevelVar)
	setLoggingLevel(level, v)
	return v
}

// jsonTimestamp reproduces the teacher's {"seconds":N,"nanos":N}
// encoding rather than slog's default RFC3339 time string.
type jsonTimestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int   `json:"nanos"`
}

func replaceAttr(prefix string) func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		switch a.Key {
		case slog.TimeKey:
			t := a.Value.Time()
			return slog.Attr{
				Key:   "timestamp",
				Value: slog.AnyValue(jsonTimestamp{Seconds: t.Unix(), Nanos: t.Nanosecond()}),
			}
		case slog.LevelKey:
			name := a.Value.String()
			switch level, _ := a.Value.Any().(slog.Level); level {
			case LevelTrace:
				name = TRACE
			case LevelWarn:
				name = WARNING
			}
			return slog.Attr{Key: "severity", Value: slog.StringValue(name)}
		case slog.MessageKey:
			if prefix != "" {
				return slog.Attr{Key: a.Key, Value: slog.StringValue(prefix + a.Value.String())}
			}
			return a
		}
		return a
	}
}

func (f *loggerFactory) createJsonOrTextHandler(w io.Writer, programLevel *slog.LevelVar, prefix string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       programLevel,
		ReplaceAttr: replaceAttr(prefix),
	}
	if f.format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func setLoggingLevel(level string, programLevel *slog.LevelVar) {
	switch level {
	case TRACE:
		programLevel.Set(LevelTrace)
	case DEBUG:
		programLevel.Set(LevelDebug)
	case INFO:
		programLevel.Set(LevelInfo)
	case WARNING:
		programLevel.Set(LevelWarn)
	case ERROR:
		programLevel.Set(LevelError)
	case OFF:
		programLevel.Set(LevelOff)
	default:
		programLevel.Set(LevelInfo)
	}
}

// SetLogFormat switches the default logger between "text" and "json".
// An empty format is treated as "json".
func SetLogFormat(format string) {
	defaultLoggerFactory.format = format
	w := defaultWriter()
	defaultLogger = slog.New(defaultLoggerFactory.createJsonOrTextHandler(w, newProgramLevel(defaultLoggerFactory.level), ""))
}

func defaultWriter() io.Writer {
	if defaultLoggerFactory.sysWriter != nil {
		return defaultLoggerFactory.sysWriter
	}
	if defaultLoggerFactory.file != nil {
		return defaultLoggerFactory.file
	}
	return os.Stderr
}

// InitLogFile points the default logger at cfg.FilePath (rotated via
// lumberjack) and applies format/severity. An empty FilePath keeps the
// logger on stderr, with the given format and severity applied.
func InitLogFile(cfg LoggingConfig) error {
	defaultLoggerFactory.format = cfg.Format
	defaultLoggerFactory.level = cfg.Severity
	defaultLoggerFactory.logRotateConfig = cfg.LogRotateConfig

	if cfg.FilePath == "" {
		defaultLogger = slog.New(defaultLoggerFactory.createJsonOrTextHandler(os.Stderr, newProgramLevel(cfg.Severity), ""))
		return nil
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defaultLoggerFactory.file = f
	defaultLoggerFactory.sysWriter = &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxFileSizeMB,
		MaxBackups: cfg.BackupFileCount,
		Compress:   cfg.Compress,
	}

	defaultLogger = slog.New(defaultLoggerFactory.createJsonOrTextHandler(defaultLoggerFactory.sysWriter, newProgramLevel(cfg.Severity), ""))
	return nil
}

func Tracef(format string, v ...interface{}) {
	defaultLogger.Log(context.Background(), LevelTrace, fmt.Sprintf(format, v...))
}

func Debugf(format string, v ...interface{}) {
	defaultLogger.Debug(fmt.Sprintf(format, v...))
}

func Infof(format string, v ...interface{}) {
	defaultLogger.Info(fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...interface{}) {
	defaultLogger.Warn(fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...interface{}) {
	defaultLogger.Error(fmt.Sprintf(format, v...))
}
