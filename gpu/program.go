// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Program manages a set of shaders linked into one executable
// pipeline, along with its active attributes and uniforms.
// Shaders are added in order with [Program.AddShader] and
// [Program.Link] links them and frees the shader objects.
type Program struct {
	ctx         *Context
	handle      uint32
	name        string
	linked      bool
	shaders     []*Shader
	fragDataVar string
	attribs     map[string]Attrib
	uniInfo     map[string]VarInfo
	unis        map[string]*Uniform
}

// Attrib is a resolved vertex attribute of a linked [Program].
type Attrib struct {
	Name     string
	Location uint32
	Type     Types
}

// NewProgram returns a new empty, unlinked program of the given name.
func (c *Context) NewProgram(name string) *Program {
	return &Program{ctx: c, name: name}
}

// BuildProgram compiles the given vertex and fragment sources and
// links them into a new program, binding fragData (if non-empty)
// as the output variable of color attachment 0.
func (c *Context) BuildProgram(name, vertSrc, fragSrc, fragData string) (*Program, error) {
	vs, err := c.NewShader(VertexShader, name+".vert", vertSrc)
	if err != nil {
		return nil, err
	}
	fs, err := c.NewShader(FragmentShader, name+".frag", fragSrc)
	if err != nil {
		vs.Delete()
		return nil, err
	}
	return c.LinkProgram(name, fragData, vs, fs)
}

// LinkProgram links the given compiled shaders into a new program,
// binding fragData (if non-empty) as the output variable of color
// attachment 0. The shaders are deleted in all cases.
func (c *Context) LinkProgram(name, fragData string, shaders ...*Shader) (*Program, error) {
	pr := c.NewProgram(name)
	for _, sh := range shaders {
		if err := pr.AddShader(sh); err != nil {
			for _, sh := range shaders {
				sh.Delete()
			}
			return nil, err
		}
	}
	pr.SetFragDataVar(fragData)
	if err := pr.Link(); err != nil {
		pr.Delete()
		return nil, err
	}
	return pr, nil
}

// Name returns name of program
func (pr *Program) Name() string {
	return pr.name
}

// Handle returns the handle for the program, only valid after Link.
func (pr *Program) Handle() uint32 {
	return pr.handle
}

// Linked reports whether the program has been linked successfully
// and not deleted.
func (pr *Program) Linked() bool {
	return pr.linked
}

// Shaders returns the shaders of this program in the order they
// were added. After linking their handles are 0.
func (pr *Program) Shaders() []*Shader {
	return pr.shaders
}

// AddShader adds a compiled shader to the program. Only one shader
// of each type can be added, and not after linking.
func (pr *Program) AddShader(sh *Shader) error {
	if pr.linked {
		return fmt.Errorf("gpu.Program.AddShader: program %q is already linked", pr.name)
	}
	for _, ex := range pr.shaders {
		if ex.typ == sh.typ {
			return fmt.Errorf("gpu.Program.AddShader: program %q already has a %v", pr.name, sh.typ)
		}
	}
	pr.shaders = append(pr.shaders, sh)
	return nil
}

// SetFragDataVar sets the variable name to use for the fragment shader's output
func (pr *Program) SetFragDataVar(name string) {
	pr.fragDataVar = name
}

// Link attaches the shaders in order, links the program, then detaches
// and deletes the shaders, and finally resolves the active attribute
// and uniform tables. On failure it returns a [*LinkError] and the
// program stays unlinked.
func (pr *Program) Link() error {
	if pr.linked {
		return nil
	}
	if len(pr.shaders) == 0 {
		return fmt.Errorf("gpu.Program.Link: program %q has no shaders", pr.name)
	}
	drv := pr.ctx.drv
	handle := drv.CreateProgram()
	if err := mustNotZero("program", handle); err != nil {
		return err
	}
	for _, sh := range pr.shaders {
		if sh.handle == 0 {
			drv.DeleteProgram(handle)
			return fmt.Errorf("gpu.Program.Link: shader %q of program %q: %w", sh.name, pr.name, ErrReleased)
		}
		drv.AttachShader(handle, sh.handle)
	}
	if pr.fragDataVar != "" {
		drv.BindFragDataLocation(handle, 0, pr.fragDataVar)
	}
	drv.LinkProgram(handle)

	for _, sh := range pr.shaders {
		drv.DetachShader(handle, sh.handle)
		sh.Delete()
	}

	if !drv.ProgramLinked(handle) {
		msg := strings.TrimRight(drv.ProgramInfoLog(handle), "\x00\n ")
		if msg == "" {
			msg = "unknown link error (empty info log)"
		}
		drv.DeleteProgram(handle)
		err := &LinkError{Program: pr.name, Log: msg}
		slog.Error("gpu program link", "program", pr.name, "log", msg)
		return err
	}

	pr.attribs = make(map[string]Attrib)
	for _, vi := range drv.ActiveAttribs(handle) {
		loc := drv.AttribLocation(handle, vi.Name)
		if loc < 0 {
			continue
		}
		pr.attribs[vi.Name] = Attrib{Name: vi.Name, Location: uint32(loc), Type: vi.Type}
	}
	pr.uniInfo = make(map[string]VarInfo)
	for _, vi := range drv.ActiveUniforms(handle) {
		pr.uniInfo[vi.Name] = vi
	}
	pr.unis = make(map[string]*Uniform)
	pr.handle = handle
	pr.linked = true
	slog.Debug("gpu program linked", "program", pr.name, "attribs", pr.AttribNames(), "uniforms", pr.UniformNames())
	return nil
}

// AttribNames returns the sorted names of the active attributes.
func (pr *Program) AttribNames() []string {
	names := make([]string, 0, len(pr.attribs))
	for nm := range pr.attribs {
		names = append(names, nm)
	}
	sort.Strings(names)
	return names
}

// UniformNames returns the sorted names of the active uniforms.
func (pr *Program) UniformNames() []string {
	names := make([]string, 0, len(pr.uniInfo))
	for nm := range pr.uniInfo {
		names = append(names, nm)
	}
	sort.Strings(names)
	return names
}

// Attrib returns the active attribute of the given name, or a
// [*NotFoundError] if it is not an active attribute of the program.
// Note that drivers drop inputs that the shader never reads.
func (pr *Program) Attrib(name string) (Attrib, error) {
	if !pr.linked {
		return Attrib{}, ErrNotLinked
	}
	a, ok := pr.attribs[name]
	if !ok {
		return Attrib{}, &NotFoundError{Kind: "attribute", Name: name, Program: pr.name, Suggestion: suggest(name, pr.AttribNames())}
	}
	return a, nil
}

// Uniform returns the active uniform of the given name, or a
// [*NotFoundError] if it is not an active uniform of the program.
// Uniforms are cached, so repeated lookups return the same object.
func (pr *Program) Uniform(name string) (*Uniform, error) {
	if !pr.linked {
		return nil, ErrNotLinked
	}
	if u, ok := pr.unis[name]; ok {
		return u, nil
	}
	vi, ok := pr.uniInfo[name]
	if !ok {
		return nil, &NotFoundError{Kind: "uniform", Name: name, Program: pr.name, Suggestion: suggest(name, pr.UniformNames())}
	}
	loc := pr.ctx.drv.UniformLocation(pr.handle, name)
	if loc < 0 {
		return nil, &NotFoundError{Kind: "uniform", Name: name, Program: pr.name}
	}
	u := &Uniform{prog: pr, name: name, loc: loc, typ: vi.Type, size: vi.Size}
	pr.unis[name] = u
	return u, nil
}

// Use makes this the active program of its context.
func (pr *Program) Use() error {
	if !pr.linked {
		return ErrNotLinked
	}
	pr.ctx.use(pr)
	return nil
}

// Active reports whether this is the active program of its context.
func (pr *Program) Active() bool {
	return pr.linked && pr.ctx.active == pr
}

// Delete deletes the GPU resources associated with this program.
// Uniforms obtained from it become invalid.
// It is safe to call more than once.
func (pr *Program) Delete() {
	for _, sh := range pr.shaders {
		sh.Delete()
	}
	if !pr.linked {
		return
	}
	if pr.ctx.active == pr {
		pr.ctx.use(nil)
	}
	pr.ctx.drv.DeleteProgram(pr.handle)
	pr.handle = 0
	pr.linked = false
	pr.unis = nil
}
