// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stages

import (
	"log/slog"
	"path/filepath"
	"sync"

	"cogentcore.org/gltut/base/errors"
	"cogentcore.org/gltut/events"
	"github.com/fsnotify/fsnotify"
)

// Watcher sends an [events.Shader] event to a queue whenever a
// shader file in a directory is written, created or renamed.
type Watcher struct {
	watcher *fsnotify.Watcher
	queue   *events.Queue
	done    chan struct{}
	wg      sync.WaitGroup
}

// IsShaderFile reports whether the file name has a shader extension.
func IsShaderFile(name string) bool {
	switch filepath.Ext(name) {
	case ".vert", ".frag":
		return true
	}
	return false
}

// Watch starts watching the given directory, sending events to q.
func Watch(dir string, q *events.Queue) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{watcher: fw, queue: q, done: make(chan struct{})}
	w.wg.Add(1)
	go w.watch()
	slog.Info("stages watching shaders", "dir", dir)
	return w, nil
}

func (w *Watcher) watch() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !IsShaderFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.queue.Send(&events.Shader{Name: filepath.Base(event.Name)})
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			errors.Log(err)
		}
	}
}

// Close stops watching and waits for the watch goroutine to finish.
// It is safe to call more than once.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
