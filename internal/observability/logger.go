package observability

import (
	"log/slog"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/hazard-verify-service/internal/config"
)

// NewLogger returns the process logger configured from LOG_LEVEL and
// LOG_FORMAT, tagged with the service name. It also becomes the slog default.
func NewLogger(cfg *config.Config) *slog.Logger {
	return sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", "hazard-verify")
}
