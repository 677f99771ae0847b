package instrument

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/vbind/pkg/reactive"
)

// Logging returns hooks that log each completed Set and refresh at level.
// Failures are logged at warn.
func Logging(logger *slog.Logger, level slog.Level) reactive.Hooks {
	if logger == nil {
		logger = slog.Default()
	}
	return reactive.Hooks{
		OnSet: func(key string) func(int, error) {
			start := time.Now()
			return func(refreshed int, err error) {
				attrs := []any{
					"key", key,
					"observers", refreshed,
					"duration", time.Since(start),
				}
				if err != nil {
					logger.Warn("set failed", append(attrs, "error", err)...)
					return
				}
				logger.Log(context.Background(), level, "set", attrs...)
			}
		},
		OnRefresh: func(o *reactive.Observer, err error) {
			if err != nil {
				logger.Warn("refresh failed", "key", o.Key(), "observer", o.ID(), "attr", o.Attr(), "error", err)
				return
			}
			logger.Log(context.Background(), level, "refresh", "key", o.Key(), "observer", o.ID(), "attr", o.Attr())
		},
	}
}
