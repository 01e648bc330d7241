// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu manages shaders, programs, uniforms and the other
// graphics resources of a tutorial stage. All calls go through an
// explicit [Context] that wraps a [Driver], instead of relying on
// implicit global binding state.
package gpu

import (
	"fmt"
	"log/slog"
	"regexp"

	"cogentcore.org/gltut/base/errors"
	"github.com/Masterminds/semver/v3"
)

// Context is the explicit graphics context that all resources are
// created from. It tracks the active [Program] so that uniform
// uploads and draw calls can be checked against it.
// A Context must only be used on the thread that owns the driver.
type Context struct {
	drv    Driver
	active *Program
}

// NewContext initializes the given driver and returns a new [Context]
// for it. The driver's graphics context must be current.
func NewContext(drv Driver) (*Context, error) {
	if err := drv.Init(); err != nil {
		return nil, fmt.Errorf("gpu: initializing driver: %w", err)
	}
	ctx := &Context{drv: drv}
	slog.Info("gpu context", "version", drv.Version())
	return ctx, nil
}

// Driver returns the underlying driver.
func (c *Context) Driver() Driver {
	return c.drv
}

// Version returns the driver version string.
func (c *Context) Version() string {
	return c.drv.Version()
}

// Active returns the currently active program, or nil.
func (c *Context) Active() *Program {
	return c.active
}

var versionPrefix = regexp.MustCompile(`^\s*(\d+)\.(\d+)(?:\.(\d+))?`)

// ParseVersion extracts the leading major.minor[.patch] number from a
// driver version string such as "4.6.0 NVIDIA 535.54" or
// "3.3 (Core Profile) Mesa 23.2.1".
func ParseVersion(s string) (*semver.Version, error) {
	m := versionPrefix.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("gpu: no version number in %q", s)
	}
	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	return semver.NewVersion(m[1] + "." + m[2] + "." + patch)
}

// RequireVersion returns an error if the driver version is lower
// than the given minimum, e.g. "3.3". An empty minimum always passes.
func (c *Context) RequireVersion(min string) error {
	if min == "" {
		return nil
	}
	want, err := semver.NewVersion(min)
	if err != nil {
		return fmt.Errorf("gpu: invalid minimum version %q: %w", min, err)
	}
	have, err := ParseVersion(c.drv.Version())
	if err != nil {
		return err
	}
	if have.LessThan(want) {
		return fmt.Errorf("gpu: driver version %s is older than the required %s", have, want)
	}
	return nil
}

// CheckError drains all pending driver error flags. Each one is
// logged, and they are returned together as a [DriverError]; nil
// means no errors were pending. The op names what was being done.
func (c *Context) CheckError(op string) error {
	var codes []ErrorCodes
	for {
		ec := c.drv.GetError()
		if ec == NoError {
			break
		}
		slog.Warn("gpu driver error", "op", op, "code", ec)
		codes = append(codes, ec)
		if len(codes) >= maxErrorPoll {
			break
		}
	}
	if len(codes) == 0 {
		return nil
	}
	return &DriverError{Op: op, Codes: codes}
}

// maxErrorPoll bounds CheckError for drivers that keep reporting
// the same flag, as some do after a lost context.
const maxErrorPoll = 32

// ClearColor sets the color used by [Context.Clear].
func (c *Context) ClearColor(r, g, b, a float32) {
	c.drv.ClearColor(r, g, b, a)
}

// Clear clears the given buffers.
func (c *Context) Clear(mask ClearBits) {
	c.drv.Clear(mask)
}

// Viewport sets the viewport rectangle.
func (c *Context) Viewport(x, y, width, height int) {
	c.drv.Viewport(int32(x), int32(y), int32(width), int32(height))
}

// Enable enables the given capability.
func (c *Context) Enable(capability Capabilities) {
	c.drv.Enable(capability)
}

// DrawArrays draws count vertices starting at first with the
// active program and the bound vertex array.
func (c *Context) DrawArrays(mode DrawModes, first, count int) error {
	if c.active == nil {
		return ErrProgramNotActive
	}
	c.drv.DrawArrays(mode, int32(first), int32(count))
	return nil
}

// DrawElements draws count indices starting at index first, from
// the element buffer bound to the current vertex array.
func (c *Context) DrawElements(mode DrawModes, first, count int) error {
	if c.active == nil {
		return ErrProgramNotActive
	}
	c.drv.DrawElements(mode, int32(count), first*4)
	return nil
}

// use makes the given program active; nil deactivates.
func (c *Context) use(pr *Program) {
	if pr == nil {
		c.drv.UseProgram(0)
		c.active = nil
		return
	}
	c.drv.UseProgram(pr.handle)
	c.active = pr
}

// Release deactivates any active program. Resources must be deleted
// by their owners before the driver context is destroyed.
func (c *Context) Release() {
	if c.active != nil {
		c.use(nil)
	}
}

// mustNotZero logs and returns an error if the driver returned
// a zero handle for a newly created object.
func mustNotZero(kind string, handle uint32) error {
	if handle != 0 {
		return nil
	}
	return errors.Log(fmt.Errorf("gpu: driver returned no %s object", kind))
}
