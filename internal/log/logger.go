package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Service names tag every line so api, worker and shopctl output can be told
// apart once aggregated.
const (
	ServiceAPI    = "shopfront-api"
	ServiceWorker = "shopfront-worker"
)

// New builds the API logger. Production output is uncoloured and starts at
// info.
func New(service, environment string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		NoColor:    environment == "production",
	}

	logger := zerolog.New(output).With().
		Timestamp().
		Str("service", service).
		Str("env", environment).
		Logger()

	if environment == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return logger
}
