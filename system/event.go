// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package system

import (
	"cogentcore.org/gltut/events"
	"cogentcore.org/gltut/events/key"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// GlfwMods returns the modifiers for the given glfw modifier keys.
func GlfwMods(mod glfw.ModifierKey) key.Modifiers {
	var m key.Modifiers
	if mod&glfw.ModShift != 0 {
		m |= key.Shift
	}
	if mod&glfw.ModControl != 0 {
		m |= key.Control
	}
	if mod&glfw.ModAlt != 0 {
		m |= key.Alt
	}
	if mod&glfw.ModSuper != 0 {
		m |= key.Meta
	}
	return m
}

var glfwCodes = map[glfw.Key]key.Codes{
	glfw.KeyEscape: key.CodeEscape,
	glfw.KeyEnter:  key.CodeReturnEnter,
	glfw.KeySpace:  key.CodeSpacebar,
	glfw.KeyR:      key.CodeR,
	glfw.KeyQ:      key.CodeQ,
}

// GlfwKeyCode returns the key code of a glfw key, which is
// [key.CodeUnknown] for keys that have no named code.
func GlfwKeyCode(kcode glfw.Key) key.Codes {
	return glfwCodes[kcode]
}

// KeyEvent is the glfw key callback, sending physical key events
// to the window event queue.
func (w *Window) KeyEvent(gw *glfw.Window, ky glfw.Key, scancode int, action glfw.Action, mod glfw.ModifierKey) {
	typ := events.KeyDown
	if action == glfw.Release {
		typ = events.KeyUp
	}
	ev := events.NewKey(typ, GlfwKeyCode(ky), GlfwMods(mod))
	ev.Repeat = action == glfw.Repeat
	w.queue.Send(ev)
}
