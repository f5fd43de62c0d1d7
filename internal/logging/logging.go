package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs a JSON slog handler on stdout as the default logger.
// LOG_LEVEL selects debug, info, warn or error; anything else means info.
func Setup() {
	level := slog.LevelInfo
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if err := level.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			level = slog.LevelInfo
		}
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
