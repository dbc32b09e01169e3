package main

import (
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger returns a structured slog.Logger with the given level. With
// console set, the JSON stream is rendered for a human by zerolog's console writer.
func NewLogger(level slog.Leveler, console bool) *slog.Logger {
	var w io.Writer = os.Stdout
	if console {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05.000"}
	}
	return newLogger(w, level, console)
}

func newLogger(w io.Writer, level slog.Leveler, console bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceAttr(console)}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// replaceAttr keeps non-finite floats encodable and, for the console writer,
// renames the built-in keys to the ones zerolog expects.
func replaceAttr(console bool) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if a.Value.Kind() == slog.KindFloat64 {
			if f := a.Value.Float64(); math.IsNaN(f) || math.IsInf(f, 0) {
				return slog.String(a.Key, strconv.FormatFloat(f, 'g', -1, 64))
			}
		}
		if !console || len(groups) > 0 {
			return a
		}
		switch a.Key {
		case slog.MessageKey:
			a.Key = zerolog.MessageFieldName
		case slog.LevelKey:
			a.Key = zerolog.LevelFieldName
			a.Value = slog.StringValue(strings.ToLower(a.Value.String()))
		}
		return a
	}
}
