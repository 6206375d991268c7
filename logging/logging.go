package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"urlfeatures/config"
)

// New returns a logger writing to out. Text format is meant for humans, json
// for log shippers.
func New(conf config.LoggingConfig, out io.Writer) zerolog.Logger {
	if conf.Format == config.LogJSONFormat {
		return zerolog.New(out).Level(conf.Level).With().Timestamp().Logger()
	}

	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = out
		w.TimeFormat = time.RFC3339
	})).Level(conf.Level).With().Timestamp().Logger()
}
