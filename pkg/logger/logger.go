// Package logx configures the process-global zerolog logger.
package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug  bool `split_words:"true" default:"false"`
	Pretty bool `split_words:"true" default:"false"`
}

// Init replaces the global logger. Without arguments it emits JSON to
// stdout at info level; Pretty switches to the console writer and Debug
// lowers the level.
func Init(opts ...Config) {
	var conf Config
	if len(opts) > 0 {
		conf = opts[0]
	}

	var out io.Writer = os.Stdout
	if conf.Pretty {
		out = zerolog.NewConsoleWriter()
	}

	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Caller().
		Stack().
		Logger()
}
