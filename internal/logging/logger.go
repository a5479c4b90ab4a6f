package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the process logger. Development gets a human readable console
// writer at debug level, everything else JSON at info level.
func New(w io.Writer, production bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if production {
		return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}

	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(console).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// Setup installs logger as the global zerolog logger and as the fallback for
// zerolog.Ctx on contexts that carry no logger.
func Setup(logger zerolog.Logger) {
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger
}
