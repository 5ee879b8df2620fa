package app

import "strings"

import "github.com/charlesng35/expkit/pkg/logger"

// ConfigureLogging initialises the global logger from the log settings, defaulting to
// info level and json output.
func ConfigureLogging(cfg LogConfig) error {
	level := strings.TrimSpace(cfg.Level)
	if level == "" {
		level = "info"
	}
	format := strings.TrimSpace(cfg.Format)
	if format == "" {
		format = logger.FormatJSON
	}
	return logger.Init(level, format)
}
