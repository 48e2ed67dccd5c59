// Package logging configures zerolog for the server and its gin engine.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the root logger. development switches to the human readable
// console writer; anything else writes JSON lines. An unknown level falls
// back to info.
func New(level string, development bool) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, development)
}

func NewWithWriter(w io.Writer, level string, development bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if development {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// SetGlobal makes l the logger behind the zerolog/log package.
func SetGlobal(l zerolog.Logger) {
	log.Logger = l
}

// Middleware logs one line per request.
func Middleware(l zerolog.Logger) gin.HandlerFunc {
	l = l.With().Str("component", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		evt := l.Info()
		switch {
		case status >= 500:
			evt = l.Error()
		case status >= 400:
			evt = l.Warn()
		}
		if len(c.Errors) > 0 {
			evt = evt.Str("errors", c.Errors.String())
		}
		evt.Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
