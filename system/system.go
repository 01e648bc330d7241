// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package system provides the glfw window and OpenGL context that
// the tutorial stages render into.
//
// All functions and methods must be called on the main OS thread,
// which the main package locks in its init function.
package system

import (
	"cogentcore.org/gltut/base/errors"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Init initializes glfw. It must be called before creating a window.
// IMPORTANT: must be called on the main initial thread!
func Init() error {
	if err := glfw.Init(); err != nil {
		return errors.Log(err)
	}
	return nil
}

// Terminate shuts down glfw, destroying any remaining windows.
// Call as the last thing before quitting.
// IMPORTANT: must be called on the main initial thread!
func Terminate() {
	glfw.Terminate()
}
