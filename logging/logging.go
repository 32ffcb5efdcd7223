// SPDX-License-Identifier: EPL-2.0

// Package logging is the engine's leveled logger: stderr by default,
// swappable for a caller-supplied callback (grounded on
// opd-ai-toxcore's use of a shared *logrus.Logger across its transport,
// friend, and file packages).
package logging

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Level mirrors spec.md §6's four log levels, decoupled from logrus's own
// so callers of SetBackend never need to import logrus.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

var std = logrus.New()

var backendFn atomic.Pointer[func(Level, string)]

func init() {
	std.SetOutput(os.Stderr)
	std.SetLevel(logrus.DebugLevel)
	std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	std.AddHook(callbackHook{})
}

// callbackHook forwards every entry to the currently installed backend
// function, if any, independently of where std.Out is pointed.
type callbackHook struct{}

func (callbackHook) Levels() []logrus.Level { return logrus.AllLevels }

func (callbackHook) Fire(e *logrus.Entry) error {
	if fn := backendFn.Load(); fn != nil {
		(*fn)(fromLogrusLevel(e.Level), e.Message)
	}
	return nil
}

func fromLogrusLevel(l logrus.Level) Level {
	switch l {
	case logrus.DebugLevel, logrus.TraceLevel:
		return LevelDebug
	case logrus.InfoLevel:
		return LevelInfo
	case logrus.WarnLevel:
		return LevelWarning
	default:
		return LevelError
	}
}

// SetBackend redirects log output to fn instead of stderr. Passing nil
// restores the stderr default (spec.md §6).
func SetBackend(fn func(Level, string)) {
	if fn == nil {
		backendFn.Store(nil)
		std.SetOutput(os.Stderr)
		return
	}
	backendFn.Store(&fn)
	std.SetOutput(io.Discard)
}

func Debug(format string, args ...any)   { std.Debug(fmt.Sprintf(format, args...)) }
func Info(format string, args ...any)    { std.Info(fmt.Sprintf(format, args...)) }
func Warning(format string, args ...any) { std.Warn(fmt.Sprintf(format, args...)) }
func Error(format string, args ...any)   { std.Error(fmt.Sprintf(format, args...)) }
