// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/muesli/termenv"
)

// Handler is a [slog.Handler] that writes one line per record,
// with the level label colored according to the color profile
// of the output terminal. Records below [UserLevel] are dropped.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	out    *termenv.Output
	attrs  []slog.Attr
	prefix string
}

// NewHandler returns a new [Handler] writing to the given writer.
// Colors are only used if the writer is a terminal that supports them.
func NewHandler(w io.Writer) *Handler {
	return &Handler{mu: &sync.Mutex{}, w: w, out: termenv.NewOutput(w)}
}

// SetDefaultLogger sets the default [slog] logger to a [Handler]
// writing to [os.Stderr].
func SetDefaultLogger() {
	slog.SetDefault(slog.New(NewHandler(os.Stderr)))
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= UserLevel
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	buf := &bytes.Buffer{}
	buf.WriteString(h.levelLabel(r.Level))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(buf, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(buf, h.prefix, a)
		return true
	})
	buf.WriteByte('\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	nh.attrs = append(nh.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		nh.attrs = append(nh.attrs, a)
	}
	return &nh
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.prefix = h.prefix + name + "."
	return &nh
}

// levelLabel returns the colored label for the given level.
func (h *Handler) levelLabel(level slog.Level) string {
	label := level.String()
	var color string
	switch {
	case level >= slog.LevelError:
		color = "#ff5555"
	case level >= slog.LevelWarn:
		color = "#f1c40f"
	case level >= slog.LevelInfo:
		color = "#5dade2"
	default:
		color = "#95a5a6"
	}
	return h.out.String(label).Foreground(h.out.Color(color)).Bold().String()
}

func writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(buf, prefix+a.Key+".", ga)
		}
		return
	}
	fmt.Fprintf(buf, " %s%s=%v", prefix, a.Key, a.Value.Any())
}
