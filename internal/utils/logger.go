package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger routes zerolog to stderr. Logging stays off unless debug is
// set; user-facing messages go through the output package instead.
func InitLogger(debug bool) {
	GlobalDebugFlag = debug
	zerolog.SetGlobalLevel(zerolog.Disabled)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	SetLogOutput(os.Stderr)
}

func SetLogOutput(w io.Writer) {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.DateTime,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}
