package log

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

// Writes go through a diode so a stalled terminal never blocks the
// relay. Overflow drops messages and reports the count.
const (
	diodeSize = 1000
	diodePoll = 5 * time.Millisecond
)

var consoleParts = []string{
	zerolog.LevelFieldName,
	zerolog.TimestampFieldName,
	zerolog.CallerFieldName,
	zerolog.MessageFieldName,
}

// NewContextWithLogger builds the process logger, installs it as the
// zerolog global, and returns ctx carrying it plus a flush func for
// shutdown.
func NewContextWithLogger(ctx context.Context, debug bool) (context.Context, func()) {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string { return "" }

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	wr := diode.NewWriter(os.Stdout, diodeSize, diodePoll, func(missed int) {
		fmt.Printf("Logger Dropped %d messages\n", missed)
	})

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        wr,
		TimeFormat: time.DateTime,
		PartsOrder: consoleParts,
	}).With().Timestamp().CallerWithSkipFrameCount(2).Logger()

	log.Logger = logger

	return log.With().Logger().WithContext(ctx), func() { wr.Close() }
}

// FromCtx returns the logger bound to ctx, or the global one.
func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}
