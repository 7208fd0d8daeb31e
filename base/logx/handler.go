// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// defaultLevel is the level of the logger set by [SetDefaultLogger],
// kept in sync with [UserLevel] by [SetUserLevel].
var defaultLevel slog.LevelVar

// SetDefaultLogger sets the default logger to a text handler
// on standard error that shows messages at or above [UserLevel],
// with the level names colored when the terminal supports it.
func SetDefaultLogger() {
	defaultLevel.Set(UserLevel)
	slog.SetDefault(slog.New(NewHandler(os.Stderr, &defaultLevel)))
}

// SetUserLevel sets [UserLevel], which also applies to the
// logger set by [SetDefaultLogger] from now on.
func SetUserLevel(lv slog.Level) {
	UserLevel = lv
	defaultLevel.Set(lv)
}

// NewHandler returns a new text [slog.Handler] writing to w at the
// given minimum level. Level names are colored according to the
// color profile detected for w, which is plain text when w is not
// a terminal.
func NewHandler(w io.Writer, level slog.Leveler) slog.Handler {
	out := termenv.NewOutput(w)
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey || len(groups) > 0 {
				return a
			}
			lv, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			a.Value = slog.StringValue(LevelString(out, lv))
			return a
		},
	})
}

// LevelString returns the name of the given level, styled for the
// given termenv output.
func LevelString(out *termenv.Output, lv slog.Level) string {
	st := out.String(lv.String())
	switch {
	case lv >= slog.LevelError:
		st = st.Foreground(termenv.ANSIRed).Bold()
	case lv >= slog.LevelWarn:
		st = st.Foreground(termenv.ANSIYellow)
	case lv >= slog.LevelInfo:
		st = st.Foreground(termenv.ANSICyan)
	default:
		st = st.Foreground(termenv.ANSIBrightBlack)
	}
	return st.String()
}
