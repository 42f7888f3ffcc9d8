// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logutil

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggers struct {
	cfg *LogConfig
	// logger is handed to callers, skipLogger backs the package helpers.
	logger     *zap.Logger
	skipLogger *zap.Logger
}

var global atomic.Pointer[loggers]

func init() {
	SetupMOLogger(&LogConfig{
		Level:  zapcore.InfoLevel.String(),
		Format: "console",
	})
}

// SetupMOLogger replaces the global logger with one built from conf.
func SetupMOLogger(conf *LogConfig) {
	logger := newZapLogger(conf)
	global.Store(&loggers{
		cfg:        conf,
		logger:     logger,
		skipLogger: logger.WithOptions(zap.AddCallerSkip(1)),
	})
}

func newZapLogger(conf *LogConfig) *zap.Logger {
	sinks := conf.getSinks()
	cores := make([]zapcore.Core, 0, len(sinks))
	level := conf.getLevel()
	for _, sink := range sinks {
		cores = append(cores, zapcore.NewCore(sink.enc, sink.out, level))
	}
	return zap.New(zapcore.NewTee(cores...), conf.getOptions()...)
}

func getGlobalLogConfig() *LogConfig {
	return global.Load().cfg
}

// GetGlobalLogger returns the current process logger.
func GetGlobalLogger() *zap.Logger {
	return global.Load().logger
}

func GetSkip1Logger() *zap.Logger {
	return global.Load().skipLogger
}

func Debug(msg string, fields ...zap.Field) {
	GetSkip1Logger().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	GetSkip1Logger().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	GetSkip1Logger().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	GetSkip1Logger().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	GetSkip1Logger().Fatal(msg, fields...)
}
