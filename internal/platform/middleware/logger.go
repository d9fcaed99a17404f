package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Logger emits one structured line per request. The patient and visit
// session path parameters are attached when present so chart activity
// can be traced per record.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			evt = evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP())
			if pid := c.Param("id"); pid != "" {
				evt = evt.Str("patient_id", pid)
			}
			if sid := c.Param("sessionId"); sid != "" {
				evt = evt.Str("session_id", sid)
			}
			evt.Msg("request")

			return err
		}
	}
}
