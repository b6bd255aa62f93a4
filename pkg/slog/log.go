// Package slog is a simple leveled logger with code locations, in the style
// used across the relay: call sites get a *Log of per-level printers and a
// *Check of error check helpers.
//
//	var log, chk = slog.New(os.Stderr)
//
//	log.I.Ln("listening on", addr)
//	if chk.E(err) { return }
package slog

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gookit/color"
	"go.uber.org/atomic"
)

const (
	Off = iota
	Fatal
	Error
	Warn
	Info
	Debug
	Trace
)

type (
	// Ln prints a list of values separated by spaces.
	Ln func(a ...interface{})
	// F prints a fmt.Sprintf format surrounded by the log details.
	F func(format string, a ...interface{})
	// S prints a spew.Sdump of the given values.
	S func(a ...interface{})
	// C accepts a closure so the message computation is skipped when the
	// level is not being printed.
	C func(closure func() string)
	// Chk prints and returns true if the error is not nil.
	Chk func(e error) bool
	// Err constructs an error with fmt.Errorf, prints it, and returns it.
	Err func(format string, a ...interface{}) error

	LevelPrinter struct {
		Ln
		F
		S
		C
		Chk
		Err
	}
)

// Log is the set of level printers.
type Log struct {
	F, E, W, I, D, T LevelPrinter
}

// Check is the set of error check helpers, one per level.
type Check struct {
	F, E, W, I, D, T Chk
}

var currentLevel = atomic.NewInt32(Info)

var levelNames = []string{"   ", "FTL", "ERR", "WRN", "INF", "DBG", "TRC"}

var levelColors = []func(a ...interface{}) string{
	color.Bit24(0, 0, 0, false).Sprint,
	color.Bit24(128, 0, 0, false).Sprint,
	color.Bit24(255, 0, 0, false).Sprint,
	color.Bit24(255, 128, 0, false).Sprint,
	color.Bit24(255, 255, 0, false).Sprint,
	color.Bit24(0, 128, 255, false).Sprint,
	color.Bit24(128, 0, 255, false).Sprint,
}

func init() {
	SetLogLevelString(os.Getenv("CASTR_LOGLEVEL"))
}

// SetLogLevel sets the highest level that will be printed.
func SetLogLevel(l int) { currentLevel.Store(int32(l)) }

func GetLogLevel() int { return int(currentLevel.Load()) }

// SetLogLevelString accepts a level name, case-insensitive, which can be
// truncated down to one letter as each is distinct.
func SetLogLevelString(s string) {
	if s == "" {
		return
	}
	names := []string{"off", "fatal", "error", "warn", "info", "debug",
		"trace"}
	s = strings.ToLower(s)
	for i := range names {
		if strings.HasPrefix(names[i], s) {
			SetLogLevel(i)
			return
		}
	}
}

// New returns a full set of level printers and checkers writing to the given
// writer.
func New(w io.Writer) (l *Log, c *Check) {
	l = &Log{
		F: getPrinter(Fatal, w),
		E: getPrinter(Error, w),
		W: getPrinter(Warn, w),
		I: getPrinter(Info, w),
		D: getPrinter(Debug, w),
		T: getPrinter(Trace, w),
	}
	c = &Check{
		F: l.F.Chk,
		E: l.E.Chk,
		W: l.W.Chk,
		I: l.I.Chk,
		D: l.D.Chk,
		T: l.T.Chk,
	}
	return
}

func joinStrings(a ...interface{}) (s string) {
	for i := range a {
		s += fmt.Sprint(a[i])
		if i < len(a)-1 {
			s += " "
		}
	}
	return
}

func getLoc(skip int) string {
	_, file, line, _ := runtime.Caller(skip)
	return color.Bit24(0, 128, 255, false).Sprint(file, ":", line)
}

func emit(w io.Writer, level int, text string) {
	fmt.Fprintf(w, "%s %s %s %s\n",
		time.Now().Format("150405.000"),
		levelColors[level](levelNames[level]),
		text,
		getLoc(3),
	)
}

func getPrinter(level int32, w io.Writer) LevelPrinter {
	return LevelPrinter{
		Ln: func(a ...interface{}) {
			if level > currentLevel.Load() {
				return
			}
			emit(w, int(level), joinStrings(a...))
		},
		F: func(format string, a ...interface{}) {
			if level > currentLevel.Load() {
				return
			}
			emit(w, int(level), fmt.Sprintf(format, a...))
		},
		S: func(a ...interface{}) {
			if level > currentLevel.Load() {
				return
			}
			emit(w, int(level), spew.Sdump(a...))
		},
		C: func(closure func() string) {
			if level > currentLevel.Load() {
				return
			}
			emit(w, int(level), closure())
		},
		Chk: func(e error) bool {
			if e == nil {
				return false
			}
			if level <= currentLevel.Load() {
				emit(w, int(level), e.Error())
			}
			return true
		},
		Err: func(format string, a ...interface{}) error {
			if level <= currentLevel.Load() {
				emit(w, int(level), fmt.Sprintf(format, a...))
			}
			return fmt.Errorf(format, a...)
		},
	}
}
