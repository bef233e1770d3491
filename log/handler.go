// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"time"

	"github.com/holiman/uint256"
)

type discardHandler struct{}

// DiscardHandler returns a no-op handler
func DiscardHandler() slog.Handler {
	return discardHandler{}
}

func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }

type leveler struct{ minLevel *slog.LevelVar }

func (l *leveler) Level() slog.Level {
	return l.minLevel.Level()
}

func maxVerbosity() *slog.LevelVar {
	var level slog.LevelVar
	level.Set(levelMaxVerbosity)
	return &level
}

func options(level *slog.LevelVar, logfmt bool) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: &leveler{level},
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			return replaceAttr(attr, logfmt)
		},
	}
}

// JSONHandler returns a handler which prints every record in JSON format.
func JSONHandler(wr io.Writer) slog.Handler {
	return JSONHandlerWithLevel(wr, maxVerbosity())
}

// JSONHandlerWithLevel returns a JSON handler dropping records below level.
func JSONHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(wr, options(level, false))
}

// LogfmtHandler returns a handler which prints every record as logfmt
// key/value pairs.
func LogfmtHandler(wr io.Writer) slog.Handler {
	return LogfmtHandlerWithLevel(wr, maxVerbosity())
}

// LogfmtHandlerWithLevel returns a logfmt handler dropping records below level.
func LogfmtHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewTextHandler(wr, options(level, true))
}

// replaceAttr shortens the builtin keys and renders amounts in decimal.
func replaceAttr(attr slog.Attr, logfmt bool) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() != slog.KindTime {
			return attr
		}
		if logfmt {
			return slog.String("t", attr.Value.Time().Format(timeFormat))
		}
		return slog.Attr{Key: "t", Value: attr.Value}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String("lvl", LevelString(l))
		}
		return attr
	}

	switch v := attr.Value.Any().(type) {
	case time.Time:
		if logfmt {
			attr.Value = slog.StringValue(v.Format(timeFormat))
		}
	case *uint256.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.Dec())
		}
	case error:
		attr.Value = slog.StringValue(v.Error())
	case fmt.Stringer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	}
	return attr
}
