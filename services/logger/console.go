package logsvc

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ccschool/schooladmin/core"
)

// ConsoleLogger writes structured logs with zerolog: human friendly in DEBUG, JSON otherwise.
type ConsoleLogger struct {
	log  zerolog.Logger
	exit func(int) // mockable
}

var _ core.Logger = (*ConsoleLogger)(nil)

func NewConsoleLogger(w io.Writer, component string, conf *core.Config) *ConsoleLogger {
	if conf.Debug {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	level, err := zerolog.ParseLevel(conf.LogLevel)
	if err != nil || conf.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return &ConsoleLogger{
		log: zerolog.New(w).Level(level).With().
			Timestamp().
			Str("component", component).
			Str("env", conf.Env).
			Logger(),
		exit: os.Exit,
	}
}

// NewNopLogger discards everything; used by tests.
func NewNopLogger() *ConsoleLogger {
	return &ConsoleLogger{log: zerolog.Nop(), exit: func(int) {}}
}

// expected args: error, map[string]interface{}; anything else is logged as argN
func (l ConsoleLogger) write(ev *zerolog.Event, msg string, args []interface{}) {
	for i, arg := range args {
		switch a := arg.(type) {
		case error:
			ev = ev.Err(a)
		case map[string]interface{}:
			ev = ev.Fields(a)
		default:
			ev = ev.Str(fmt.Sprintf("arg%d", i), fmt.Sprintf("%+v", a))
		}
	}
	ev.Msg(msg)
}

func (l ConsoleLogger) Debug(msg string, args ...interface{}) { l.write(l.log.Debug(), msg, args) }
func (l ConsoleLogger) Info(msg string, args ...interface{})  { l.write(l.log.Info(), msg, args) }
func (l ConsoleLogger) Warn(msg string, args ...interface{})  { l.write(l.log.Warn(), msg, args) }
func (l ConsoleLogger) Error(msg string, args ...interface{}) { l.write(l.log.Error(), msg, args) }

func (l ConsoleLogger) Fatal(msg string, args ...interface{}) {
	l.write(l.log.WithLevel(zerolog.FatalLevel), msg, args)
	l.exit(1)
}
