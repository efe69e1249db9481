package utils

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var Log zerolog.Logger

func init() {
	InitLogger()
}

// InitLogger configures the process logger. LOG_LEVEL follows zerolog level
// names; LOG_PRETTY=true switches to the console writer for local runs.
func InitLogger() {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var w = zerolog.New(os.Stdout)
	if os.Getenv("LOG_PRETTY") == "true" {
		w = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
	Log = w.Level(level).With().Timestamp().Logger()
}

// RequestLogger logs one line per handled request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := Log.Info()
		if c.Writer.Status() >= 500 {
			ev = Log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
