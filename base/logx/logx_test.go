// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromFlags(t *testing.T) {
	l := LevelFromFlags(true, false, false)
	if l != slog.LevelDebug {
		t.Errorf("expected LevelFromFlags(true, false, false) = %v, but got %v", slog.LevelDebug, l)
	}
	l = LevelFromFlags(false, true, true)
	if l != slog.LevelInfo {
		t.Errorf("expected LevelFromFlags(false, true, true) = %v, but got %v", slog.LevelInfo, l)
	}
	l = LevelFromFlags(false, false, true)
	if l != slog.LevelError {
		t.Errorf("expected LevelFromFlags(false, false, true) = %v, but got %v", slog.LevelError, l)
	}
	l = LevelFromFlags(false, false, false)
	if l != slog.LevelInfo {
		t.Errorf("expected LevelFromFlags(false, false, false) = %v, but got %v", slog.LevelInfo, l)
	}
}

func TestDefaultFlagsShowInfo(t *testing.T) {
	prev := UserLevel
	defer func() { UserLevel = prev }()
	UserLevel = LevelFromFlags(false, false, false)

	buf := &bytes.Buffer{}
	lg := slog.New(NewHandler(buf))
	lg.Info("open.gl tutorial begin", "stage", "triangle")
	lg.Debug("tutorial", "fps", 60)
	assert.Contains(t, buf.String(), "INFO open.gl tutorial begin stage=triangle\n")
	assert.NotContains(t, buf.String(), "fps")
}

func TestHandler(t *testing.T) {
	prev := UserLevel
	defer func() { UserLevel = prev }()
	UserLevel = slog.LevelInfo

	buf := &bytes.Buffer{}
	lg := slog.New(NewHandler(buf))
	lg.Debug("hidden")
	lg.Info("compiled", "shader", "triangle.vert")
	lg.WithGroup("gpu").Warn("driver", "code", 1282)
	lg.With("stage", "cube").Error("failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO compiled shader=triangle.vert\n")
	assert.Contains(t, out, "WARN driver gpu.code=1282\n")
	assert.Contains(t, out, "ERROR failed stage=cube\n")
}
