package handlers

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog"
)

// RequestLogger logs every request with its status and duration.
func RequestLogger(log zerolog.Logger) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		start := time.Now()
		err := e.Next()

		event := log.Debug()
		if err != nil {
			event = log.Warn().Err(err)
		}
		event.
			Str("method", e.Request.Method).
			Str("path", e.Request.URL.Path).
			Int("status", e.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
		return err
	}
}
