// pkg/logger/logger.go
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	set(consoleWriter(), zerolog.InfoLevel)
}

// Configure rebuilds the global logger for the given server mode. Debug mode
// keeps the colorized console writer; any other mode emits plain JSON so log
// collectors can parse it.
func Configure(mode, levelStr string) {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || level == zerolog.NoLevel {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if mode == "debug" {
		out = consoleWriter()
	}
	zerolog.SetGlobalLevel(level)
	set(out, level)
}

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// set updates both Log and the zerolog package-level logger, so code using
// either sees the same output and level.
func set(out io.Writer, level zerolog.Level) {
	Log = zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
	log.Logger = Log
}
