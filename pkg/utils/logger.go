package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger.go - настройка структурированного логирования
//
// Назначение:
// Единая точка инициализации zap-логгера для всего приложения.
// Формат и уровень приходят из конфигурации:
//   - format: "json" для production, "console" для разработки
//   - level: debug, info, warn, error

// ParseLevel переводит строковый уровень в zapcore.Level.
// Неизвестный уровень трактуется как info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info", "":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// InitLogger создает и настраивает logger
//
// format: "json" или "console" (все прочее считается console)
// level: debug/info/warn/error
func InitLogger(level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.ToLower(strings.TrimSpace(format)) == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
