package logger

import (
	"log/slog"
	"os"
)

// InitLogger installs the process-wide JSON logger. Level is overridable
// through LOG_LEVEL so noisy ledger debugging can be switched on per
// deployment.
func InitLogger() {
	level := slog.LevelInfo
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(raw)); err == nil {
			level = parsed
		}
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(&RequestIDHandler{Handler: handler}))
}
