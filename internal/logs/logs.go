// Copyright 2026 The Sensorbridge Agent Authors
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

// Package logs provides the structured logger used across the agent.
package logs

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// StructuredLogger is the logging surface every component depends on.
// Components take this interface, never *zap.Logger directly, so tests can
// swap in DiscardLogger without touching call sites.
type StructuredLogger interface {
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
	Debugf(format string, v ...any)
}

type ZapStructuredLogger struct {
	logger *zap.SugaredLogger
}

// New builds a logger that writes JSON lines to file, rotating it with
// lumberjack once it grows past 50MB. Pass an empty path for stderr-only.
func New(file string, component string) *ZapStructuredLogger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	encoder := zapcore.NewJSONEncoder(cfg)

	var writer zapcore.WriteSyncer
	if file == "" {
		writer = zapcore.AddSync(os.Stderr)
	} else {
		writer = zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})
	}

	core := zapcore.NewCore(encoder, writer, zap.InfoLevel)
	logger := zap.New(core, zap.AddCaller())
	sugar := logger.Sugar().With(zap.String("component", component))
	return &ZapStructuredLogger{logger: sugar}
}

// DiscardLogger returns a logger backed by an in-memory observer, for tests
// that want to assert on emitted log lines without touching the filesystem.
func DiscardLogger() (*ZapStructuredLogger, *observer.ObservedLogs) {
	observedCore, observedLogs := observer.New(zap.DebugLevel)
	observedLogger := zap.New(observedCore)
	return &ZapStructuredLogger{logger: observedLogger.Sugar()}, observedLogs
}

func Default() *ZapStructuredLogger {
	return New("", "agent")
}

func (f *ZapStructuredLogger) Infof(format string, v ...any) {
	f.logger.Infof(format, v...)
}

func (f *ZapStructuredLogger) Warnf(format string, v ...any) {
	f.logger.Warnf(format, v...)
}

func (f *ZapStructuredLogger) Errorf(format string, v ...any) {
	f.logger.Errorf(format, v...)
}

func (f *ZapStructuredLogger) Debugf(format string, v ...any) {
	f.logger.Debugf(format, v...)
}
