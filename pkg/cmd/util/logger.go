// Package util holds pieces shared by the command implementations.
package util

import (
	"os"

	"github.com/pitwall/pitwall/log"
	"github.com/pitwall/pitwall/pkg/config"
)

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger builds the process logger from the global config values
// and installs it as the package default.
func SetupLogger() *log.Logger {
	opts := []log.Option{
		log.WithCaller(true),
		log.AddCallerSkip(1),
	}
	if config.LogFilter != "" {
		opts = append(opts, log.WithFilterRules(config.LogFilter))
	}

	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			opts...)
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			opts...)
	}
	log.ResetDefault(logger)
	return logger
}
