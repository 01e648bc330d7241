// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"strings"

	"cogentcore.org/gltut/base/errors"
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

var (
	// ErrNotFound is matched by every [NotFoundError].
	ErrNotFound = errors.New("gpu: name not found in program")

	// ErrNotLinked is returned for lookups and use of a program
	// that has not been successfully linked.
	ErrNotLinked = errors.New("gpu: program is not linked")

	// ErrProgramNotActive is returned when uploading a uniform or
	// drawing without the required program being active.
	ErrProgramNotActive = errors.New("gpu: program is not the active program")

	// ErrReleased is returned when using an object after Delete.
	ErrReleased = errors.New("gpu: object has been deleted")
)

// CompileError is returned when a shader fails to compile.
type CompileError struct {
	// Name is the shader name.
	Name string

	// Type is the shader stage.
	Type ShaderTypes

	// Log is the driver info log, which is never empty.
	Log string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("gpu: %v %q failed to compile:\n%s", e.Type, e.Name, e.Log)
}

// LinkError is returned when a program fails to link.
type LinkError struct {
	// Program is the program name.
	Program string

	// Log is the driver info log, which is never empty.
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("gpu: program %q failed to link:\n%s", e.Program, e.Log)
}

// NotFoundError is returned when an attribute or uniform name is
// not active in a linked program. It matches [ErrNotFound].
type NotFoundError struct {
	// Kind is "attribute" or "uniform".
	Kind string

	// Name is the name that was looked up.
	Name string

	// Program is the program name.
	Program string

	// Suggestion is the most similar active name, if any.
	Suggestion string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("gpu: %s %q not found in program %q", e.Kind, e.Name, e.Program)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TypeError is returned when a uniform upload does not match the
// declared type of the uniform.
type TypeError struct {
	Uniform  string
	Declared Types
	Upload   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("gpu: cannot upload %s to uniform %q declared as %v", e.Upload, e.Uniform, e.Declared)
}

// DriverError collects the error flags drained by [Context.CheckError].
type DriverError struct {
	// Op describes what was being done when the errors were polled.
	Op string

	// Codes are the error flags in the order they were reported.
	Codes []ErrorCodes
}

func (e *DriverError) Error() string {
	codes := make([]string, len(e.Codes))
	for i, c := range e.Codes {
		codes[i] = c.String()
	}
	return fmt.Sprintf("gpu: driver error during %s: %s", e.Op, strings.Join(codes, ", "))
}

// minSimilarity is the lowest similarity for a name to be suggested.
const minSimilarity = 0.5

// suggest returns the candidate most similar to name, or "" if none
// is similar enough.
func suggest(name string, candidates []string) string {
	best := ""
	bestSim := minSimilarity
	metric := metrics.NewLevenshtein()
	for _, c := range candidates {
		sim := strutil.Similarity(name, c, metric)
		if sim >= bestSim {
			best, bestSim = c, sim
		}
	}
	return best
}
