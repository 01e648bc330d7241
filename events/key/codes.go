// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package key defines the keyboard codes and modifiers used
// in key events.
package key

import (
	"fmt"
	"strings"
)

// Codes are the physical key codes the render loop cares about.
// Keys without a named code are reported as [CodeUnknown].
type Codes int32

const (
	CodeUnknown Codes = iota
	CodeEscape
	CodeReturnEnter
	CodeSpacebar
	CodeR
	CodeQ
)

var codeNames = [...]string{"Unknown", "Escape", "ReturnEnter", "Spacebar", "R", "Q"}

func (c Codes) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return fmt.Sprintf("Codes(%d)", int32(c))
	}
	return codeNames[c]
}

// Modifiers is a bitflag set of modifier keys.
type Modifiers int32

const (
	Shift Modifiers = 1 << iota
	Control
	Alt
	Meta
)

// Has reports whether all of the given modifiers are set.
func (m Modifiers) Has(mod Modifiers) bool {
	return m&mod == mod
}

func (m Modifiers) String() string {
	if m == 0 {
		return "None"
	}
	var parts []string
	for i, nm := range []string{"Shift", "Control", "Alt", "Meta"} {
		if m&(1<<i) != 0 {
			parts = append(parts, nm)
		}
	}
	return strings.Join(parts, "|")
}
