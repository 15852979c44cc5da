package logger

import (
	"go.uber.org/zap"
)

// New создаёт логгер сервера: development-режим при debug, иначе production (JSON).
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewCLI создаёт логгер для командной строки: без debug пишутся только предупреждения и ошибки,
// чтобы служебные сообщения не смешивались с выводом команд.
func NewCLI(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	return cfg.Build()
}
