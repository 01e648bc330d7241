// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fsx

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	p, err := ExpandPath("")
	assert.NoError(t, err)
	assert.Equal(t, "", p)

	p, err = ExpandPath("data/./sample.png")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join("data", "sample.png"), p)

	home, err := homedir.Dir()
	require.NoError(t, err)
	p, err = ExpandPath("~/gltut")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "gltut"), p)
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, DirExists(dir))
	fn := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(fn, []byte("x"), 0o644))
	assert.False(t, DirExists(fn))
	assert.False(t, DirExists(filepath.Join(dir, "missing")))
}

func TestFileExistsFS(t *testing.T) {
	fsys := fstest.MapFS{
		"shaders/a.vert": &fstest.MapFile{Data: []byte("void main(){}")},
	}
	ok, err := FileExistsFS(fsys, "shaders/a.vert")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = FileExistsFS(fsys, "shaders")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = FileExistsFS(fsys, "shaders/b.frag")
	assert.NoError(t, err)
	assert.False(t, ok)
}
