// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events defines the events delivered to the render loop
// and the queue that carries them.
package events

import (
	"fmt"

	"cogentcore.org/gltut/events/key"
)

// Types determines the type of an event.
type Types int32

const (
	// zero value is an unknown type
	UnknownType Types = iota

	// KeyDown is sent when a key is pressed, and repeatedly
	// while it is held (see [Key.Repeat]).
	KeyDown

	// KeyUp is sent when a key is released.
	KeyUp

	// ShaderChange is sent when a shader source file on disk
	// has been written, created or renamed.
	ShaderChange
)

var typeNames = [...]string{"UnknownType", "KeyDown", "KeyUp", "ShaderChange"}

func (tp Types) String() string {
	if tp < 0 || int(tp) >= len(typeNames) {
		return fmt.Sprintf("Types(%d)", int32(tp))
	}
	return typeNames[tp]
}

// Event is the interface for all events in the [Queue].
type Event interface {
	fmt.Stringer

	// Type returns the type of the event.
	Type() Types
}

// Key is a keyboard event.
type Key struct {
	// Typ is KeyDown or KeyUp.
	Typ Types

	// Code is the physical key.
	Code key.Codes

	// Mods are the modifier keys held during the event.
	Mods key.Modifiers

	// Repeat is true for auto-repeat KeyDown events.
	Repeat bool
}

// NewKey returns a new [Key] event.
func NewKey(typ Types, code key.Codes, mods key.Modifiers) *Key {
	return &Key{Typ: typ, Code: code, Mods: mods}
}

func (ev *Key) Type() Types { return ev.Typ }

func (ev *Key) String() string {
	return fmt.Sprintf("%v{Code: %v, Mods: %v, Repeat: %v}", ev.Typ, ev.Code, ev.Mods, ev.Repeat)
}

// Pressed reports whether this is an initial (non-repeat)
// KeyDown of the given code.
func (ev *Key) Pressed(code key.Codes) bool {
	return ev.Typ == KeyDown && !ev.Repeat && ev.Code == code
}

// Shader is a [ShaderChange] event for the named shader file.
type Shader struct {
	// Name is the base name of the changed file, e.g. "triangle.vert".
	Name string
}

func (ev *Shader) Type() Types { return ShaderChange }

func (ev *Shader) String() string {
	return fmt.Sprintf("ShaderChange{%s}", ev.Name)
}
