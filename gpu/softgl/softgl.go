// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package softgl provides an in-memory [gpu.Driver] that tracks
// objects, bindings and uniform values without a GPU. Shader sources
// are checked for lexical and declaration errors, and linking matches
// stage interfaces, so compile and link failures are reported the
// way a real driver reports them. Draw calls are recorded instead of
// rasterized.
//
// It is used by tests and by the check mode of the gltut command.
package softgl

import (
	"fmt"

	"cogentcore.org/gltut/gpu"
)

// DefaultVersion is the version string reported by a new [Driver].
const DefaultVersion = "3.3.0 softgl"

// Value is a stored uniform value.
type Value struct {
	Type   gpu.Types
	Ints   []int32
	Floats []float32
}

// Draw is one recorded draw call.
type Draw struct {
	Mode        gpu.DrawModes
	First       int32
	Count       int32
	Indexed     bool
	Program     uint32
	VertexArray uint32
	Textures    map[uint32]uint32
}

// Counts are numbers of live objects of each kind.
type Counts struct {
	Shaders, Programs, Buffers, VertexArrays, Textures int
}

type shader struct {
	typ      gpu.ShaderTypes
	src      string
	compiled bool
	log      string
	unit     *glslUnit
}

type program struct {
	attached []uint32
	fragData map[string]uint32
	linked   bool
	log      string
	attribs  []gpu.VarInfo
	uniforms []gpu.VarInfo
	values   map[int32]Value
}

type buffer struct {
	data []byte
}

type attribPointer struct {
	enabled bool
	buffer  uint32
	size    int32
	stride  int32
	offset  int
}

type vertexArray struct {
	element uint32
	attribs map[uint32]*attribPointer
}

type texture struct {
	width, height int32
	params        map[gpu.TextureParams]gpu.TextureValues
	mipmaps       bool
}

// Driver is an in-memory [gpu.Driver]. It is not safe for
// concurrent use, as a real graphics context is not.
type Driver struct {
	// VersionString is reported by Version.
	VersionString string

	// InitError, if set, is returned by Init.
	InitError error

	// Clears counts Clear calls.
	Clears int

	// Draws records every successful draw call.
	Draws []Draw

	ids      map[string]uint32
	shaders  map[uint32]*shader
	programs map[uint32]*program
	buffers  map[uint32]*buffer
	vaos     map[uint32]*vertexArray
	textures map[uint32]*texture
	errs     []gpu.ErrorCodes

	current     uint32
	arrayBuffer uint32
	vao         uint32
	activeUnit  uint32
	units       map[uint32]uint32
	enabled     map[gpu.Capabilities]bool
	viewport    [4]int32
	clearColor  [4]float32
}

// New returns a new [Driver] reporting [DefaultVersion].
func New() *Driver {
	return &Driver{
		VersionString: DefaultVersion,
		ids:           map[string]uint32{},
		shaders:       map[uint32]*shader{},
		programs:      map[uint32]*program{},
		buffers:       map[uint32]*buffer{},
		vaos:          map[uint32]*vertexArray{},
		textures:      map[uint32]*texture{},
		units:         map[uint32]uint32{},
		enabled:       map[gpu.Capabilities]bool{},
	}
}

// nextID returns the next id for the given kind of object.
// Ids start at 1 per kind, as in OpenGL.
func (d *Driver) nextID(kind string) uint32 {
	d.ids[kind]++
	return d.ids[kind]
}

func (d *Driver) fail(ec gpu.ErrorCodes) {
	d.errs = append(d.errs, ec)
}

func (d *Driver) Init() error { return d.InitError }
func (d *Driver) Version() string { return d.VersionString }

func (d *Driver) GetError() gpu.ErrorCodes {
	if len(d.errs) == 0 {
		return gpu.NoError
	}
	ec := d.errs[0]
	d.errs = d.errs[1:]
	return ec
}

// Live returns the number of live objects of each kind.
func (d *Driver) Live() Counts {
	return Counts{
		Shaders:      len(d.shaders),
		Programs:     len(d.programs),
		Buffers:      len(d.buffers),
		VertexArrays: len(d.vaos),
		Textures:     len(d.textures),
	}
}

// CurrentProgram returns the program set with UseProgram.
func (d *Driver) CurrentProgram() uint32 { return d.current }

// IsEnabled reports whether the capability is enabled.
func (d *Driver) IsEnabled(capability gpu.Capabilities) bool { return d.enabled[capability] }

// ViewportRect returns the x, y, width, height of the viewport.
func (d *Driver) ViewportRect() [4]int32 { return d.viewport }

// ClearColorValue returns the clear color.
func (d *Driver) ClearColorValue() [4]float32 { return d.clearColor }

// UniformValue returns the value stored for the named uniform of
// the given program, and false if none has been uploaded.
func (d *Driver) UniformValue(prog uint32, name string) (Value, bool) {
	p := d.programs[prog]
	if p == nil || !p.linked {
		return Value{}, false
	}
	for i, u := range p.uniforms {
		if u.Name == name {
			v, ok := p.values[int32(i)]
			return v, ok
		}
	}
	return Value{}, false
}

// BufferContents returns a copy of the data of the given buffer.
func (d *Driver) BufferContents(buf uint32) []byte {
	b := d.buffers[buf]
	if b == nil {
		return nil
	}
	return append([]byte(nil), b.data...)
}

// TextureSize returns the size of the given texture image.
func (d *Driver) TextureSize(tex uint32) (width, height int32) {
	t := d.textures[tex]
	if t == nil {
		return 0, 0
	}
	return t.width, t.height
}

////////////////////////////////////////////////////////
//  Shaders

func (d *Driver) CreateShader(typ gpu.ShaderTypes) uint32 {
	if typ != gpu.VertexShader && typ != gpu.FragmentShader {
		d.fail(gpu.InvalidEnum)
		return 0
	}
	id := d.nextID("shader")
	d.shaders[id] = &shader{typ: typ}
	return id
}

func (d *Driver) ShaderSource(sh uint32, src string) {
	s := d.shaders[sh]
	if s == nil {
		d.fail(gpu.InvalidValue)
		return
	}
	s.src = src
}

func (d *Driver) CompileShader(sh uint32) {
	s := d.shaders[sh]
	if s == nil {
		d.fail(gpu.InvalidValue)
		return
	}
	unit, errs := checkGLSL(s.typ, s.src)
	if len(errs) > 0 {
		s.compiled = false
		s.unit = nil
		s.log = formatErrors(errs)
		return
	}
	s.compiled = true
	s.unit = unit
	s.log = ""
}

func (d *Driver) ShaderCompiled(sh uint32) bool {
	s := d.shaders[sh]
	return s != nil && s.compiled
}

func (d *Driver) ShaderInfoLog(sh uint32) string {
	s := d.shaders[sh]
	if s == nil {
		d.fail(gpu.InvalidValue)
		return ""
	}
	return s.log
}

func (d *Driver) DeleteShader(sh uint32) {
	if sh == 0 {
		return
	}
	if _, ok := d.shaders[sh]; !ok {
		d.fail(gpu.InvalidValue)
		return
	}
	delete(d.shaders, sh)
}

////////////////////////////////////////////////////////
//  Programs

func (d *Driver) CreateProgram() uint32 {
	id := d.nextID("program")
	d.programs[id] = &program{fragData: map[string]uint32{}}
	return id
}

func (d *Driver) AttachShader(prog, sh uint32) {
	p := d.programs[prog]
	if p == nil || d.shaders[sh] == nil {
		d.fail(gpu.InvalidValue)
		return
	}
	for _, a := range p.attached {
		if a == sh {
			d.fail(gpu.InvalidOperation)
			return
		}
	}
	p.attached = append(p.attached, sh)
}

func (d *Driver) DetachShader(prog, sh uint32) {
	p := d.programs[prog]
	if p == nil {
		d.fail(gpu.InvalidValue)
		return
	}
	for i, a := range p.attached {
		if a == sh {
			p.attached = append(p.attached[:i], p.attached[i+1:]...)
			return
		}
	}
	d.fail(gpu.InvalidOperation)
}

func (d *Driver) BindFragDataLocation(prog uint32, color uint32, name string) {
	p := d.programs[prog]
	if p == nil {
		d.fail(gpu.InvalidValue)
		return
	}
	p.fragData[name] = color
}

func (d *Driver) LinkProgram(prog uint32) {
	p := d.programs[prog]
	if p == nil {
		d.fail(gpu.InvalidValue)
		return
	}
	p.linked = false
	p.attribs = nil
	p.uniforms = nil
	p.values = map[int32]Value{}

	var vert, frag *glslUnit
	for _, a := range p.attached {
		s := d.shaders[a]
		if !s.compiled {
			p.log = fmt.Sprintf("error: shader %d is not compiled\n", a)
			return
		}
		switch s.typ {
		case gpu.VertexShader:
			vert = s.unit
		case gpu.FragmentShader:
			frag = s.unit
		}
	}
	if vert == nil {
		p.log = "error: no vertex shader attached\n"
		return
	}
	if frag != nil {
		for _, in := range frag.decls {
			if in.qual != "in" {
				continue
			}
			out := findDecl(vert, "out", in.name)
			if out == nil {
				p.log = fmt.Sprintf("error: fragment shader input '%s' is not written by the vertex shader\n", in.name)
				return
			}
			if out.typ != in.typ {
				p.log = fmt.Sprintf("error: type mismatch for '%s' between vertex and fragment shaders\n", in.name)
				return
			}
		}
		for _, fu := range frag.decls {
			if fu.qual != "uniform" {
				continue
			}
			if vu := findDecl(vert, "uniform", fu.name); vu != nil && vu.typ != fu.typ {
				p.log = fmt.Sprintf("error: uniform '%s' declared with different types\n", fu.name)
				return
			}
		}
	}

	for _, dc := range vert.decls {
		if dc.qual == "in" && vert.uses(dc.name) {
			p.attribs = append(p.attribs, gpu.VarInfo{Name: dc.name, Type: dc.typ, Size: dc.size})
		}
	}
	seen := map[string]bool{}
	for _, u := range []*glslUnit{vert, frag} {
		if u == nil {
			continue
		}
		for _, dc := range u.decls {
			if dc.qual == "uniform" && !seen[dc.name] && u.uses(dc.name) {
				seen[dc.name] = true
				p.uniforms = append(p.uniforms, gpu.VarInfo{Name: dc.name, Type: dc.typ, Size: dc.size})
			}
		}
	}
	p.log = ""
	p.linked = true
}

func findDecl(u *glslUnit, qual, name string) *glslDecl {
	for i := range u.decls {
		if u.decls[i].qual == qual && u.decls[i].name == name {
			return &u.decls[i]
		}
	}
	return nil
}

func (d *Driver) ProgramLinked(prog uint32) bool {
	p := d.programs[prog]
	return p != nil && p.linked
}

func (d *Driver) ProgramInfoLog(prog uint32) string {
	p := d.programs[prog]
	if p == nil {
		d.fail(gpu.InvalidValue)
		return ""
	}
	return p.log
}

func (d *Driver) ActiveAttribs(prog uint32) []gpu.VarInfo {
	p := d.programs[prog]
	if p == nil {
		return nil
	}
	return append([]gpu.VarInfo(nil), p.attribs...)
}

func (d *Driver) ActiveUniforms(prog uint32) []gpu.VarInfo {
	p := d.programs[prog]
	if p == nil {
		return nil
	}
	return append([]gpu.VarInfo(nil), p.uniforms...)
}

func (d *Driver) AttribLocation(prog uint32, name string) int32 {
	p := d.programs[prog]
	if p == nil || !p.linked {
		d.fail(gpu.InvalidOperation)
		return -1
	}
	for i, a := range p.attribs {
		if a.Name == name {
			return int32(i)
		}
	}
	return -1
}

func (d *Driver) UniformLocation(prog uint32, name string) int32 {
	p := d.programs[prog]
	if p == nil || !p.linked {
		d.fail(gpu.InvalidOperation)
		return -1
	}
	for i, u := range p.uniforms {
		if u.Name == name {
			return int32(i)
		}
	}
	return -1
}

func (d *Driver) UseProgram(prog uint32) {
	if prog == 0 {
		d.current = 0
		return
	}
	p := d.programs[prog]
	if p == nil || !p.linked {
		d.fail(gpu.InvalidOperation)
		return
	}
	d.current = prog
}

func (d *Driver) DeleteProgram(prog uint32) {
	if prog == 0 {
		return
	}
	if _, ok := d.programs[prog]; !ok {
		d.fail(gpu.InvalidValue)
		return
	}
	delete(d.programs, prog)
	if d.current == prog {
		d.current = 0
	}
}

// setUniform stores a value at the given location of the current
// program, applying the OpenGL error rules.
func (d *Driver) setUniform(loc int32, v Value, ok func(gpu.Types) bool) {
	if loc == -1 {
		return
	}
	p := d.programs[d.current]
	if p == nil {
		d.fail(gpu.InvalidOperation)
		return
	}
	if loc < 0 || int(loc) >= len(p.uniforms) {
		d.fail(gpu.InvalidOperation)
		return
	}
	decl := p.uniforms[loc].Type
	if !ok(decl) {
		d.fail(gpu.InvalidOperation)
		return
	}
	v.Type = decl
	p.values[loc] = v
}

func (d *Driver) Uniform1i(loc int32, v int32) {
	d.setUniform(loc, Value{Ints: []int32{v}}, gpu.Types.IsIntegral)
}

func (d *Driver) Uniform1f(loc int32, v float32) {
	d.setUniform(loc, Value{Floats: []float32{v}}, func(t gpu.Types) bool { return t == gpu.Float32 })
}

func (d *Driver) Uniform3f(loc int32, v0, v1, v2 float32) {
	d.setUniform(loc, Value{Floats: []float32{v0, v1, v2}}, func(t gpu.Types) bool { return t == gpu.Float32Vector3 })
}

func (d *Driver) UniformMatrix4fv(loc int32, m *[16]float32) {
	d.setUniform(loc, Value{Floats: append([]float32(nil), m[:]...)}, func(t gpu.Types) bool { return t == gpu.Float32Matrix4 })
}

////////////////////////////////////////////////////////
//  Buffers and vertex arrays

func (d *Driver) GenBuffer() uint32 {
	id := d.nextID("buffer")
	d.buffers[id] = &buffer{}
	return id
}

func (d *Driver) BindBuffer(target gpu.BufferTargets, buf uint32) {
	if buf != 0 && d.buffers[buf] == nil {
		d.fail(gpu.InvalidValue)
		return
	}
	switch target {
	case gpu.ArrayBuffer:
		d.arrayBuffer = buf
	case gpu.ElementArrayBuffer:
		va := d.vaos[d.vao]
		if va == nil {
			d.fail(gpu.InvalidOperation)
			return
		}
		va.element = buf
	default:
		d.fail(gpu.InvalidEnum)
	}
}

// boundBuffer returns the buffer bound to the given target.
func (d *Driver) boundBuffer(target gpu.BufferTargets) *buffer {
	switch target {
	case gpu.ArrayBuffer:
		return d.buffers[d.arrayBuffer]
	case gpu.ElementArrayBuffer:
		if va := d.vaos[d.vao]; va != nil {
			return d.buffers[va.element]
		}
	}
	return nil
}

func (d *Driver) BufferData(target gpu.BufferTargets, data []byte, usage gpu.BufferUsages) {
	b := d.boundBuffer(target)
	if b == nil {
		d.fail(gpu.InvalidOperation)
		return
	}
	b.data = append([]byte(nil), data...)
}

func (d *Driver) DeleteBuffer(buf uint32) {
	if buf == 0 {
		return
	}
	if _, ok := d.buffers[buf]; !ok {
		d.fail(gpu.InvalidValue)
		return
	}
	delete(d.buffers, buf)
	if d.arrayBuffer == buf {
		d.arrayBuffer = 0
	}
	for _, va := range d.vaos {
		if va.element == buf {
			va.element = 0
		}
	}
}

func (d *Driver) GenVertexArray() uint32 {
	id := d.nextID("vao")
	d.vaos[id] = &vertexArray{attribs: map[uint32]*attribPointer{}}
	return id
}

func (d *Driver) BindVertexArray(vao uint32) {
	if vao != 0 && d.vaos[vao] == nil {
		d.fail(gpu.InvalidOperation)
		return
	}
	d.vao = vao
}

func (d *Driver) attrib(index uint32) *attribPointer {
	va := d.vaos[d.vao]
	if va == nil {
		d.fail(gpu.InvalidOperation)
		return nil
	}
	ap := va.attribs[index]
	if ap == nil {
		ap = &attribPointer{}
		va.attribs[index] = ap
	}
	return ap
}

func (d *Driver) EnableVertexAttribArray(index uint32) {
	if ap := d.attrib(index); ap != nil {
		ap.enabled = true
	}
}

func (d *Driver) VertexAttribPointer(index uint32, size int32, normalized bool, stride int32, offset int) {
	if size < 1 || size > 4 || stride < 0 || offset < 0 {
		d.fail(gpu.InvalidValue)
		return
	}
	if d.arrayBuffer == 0 {
		d.fail(gpu.InvalidOperation)
		return
	}
	if ap := d.attrib(index); ap != nil {
		ap.buffer = d.arrayBuffer
		ap.size = size
		ap.stride = stride
		ap.offset = offset
	}
}

func (d *Driver) DeleteVertexArray(vao uint32) {
	if vao == 0 {
		return
	}
	if _, ok := d.vaos[vao]; !ok {
		d.fail(gpu.InvalidValue)
		return
	}
	delete(d.vaos, vao)
	if d.vao == vao {
		d.vao = 0
	}
}

////////////////////////////////////////////////////////
//  Textures

func (d *Driver) GenTexture() uint32 {
	id := d.nextID("texture")
	d.textures[id] = &texture{params: map[gpu.TextureParams]gpu.TextureValues{}}
	return id
}

func (d *Driver) ActiveTexture(unit uint32) {
	if unit >= 32 {
		d.fail(gpu.InvalidEnum)
		return
	}
	d.activeUnit = unit
}

func (d *Driver) BindTexture(tex uint32) {
	if tex != 0 && d.textures[tex] == nil {
		d.fail(gpu.InvalidValue)
		return
	}
	d.units[d.activeUnit] = tex
}

func (d *Driver) boundTexture() *texture {
	t := d.textures[d.units[d.activeUnit]]
	if t == nil {
		d.fail(gpu.InvalidOperation)
	}
	return t
}

func (d *Driver) TexImage2D(width, height int32, rgba []byte) {
	t := d.boundTexture()
	if t == nil {
		return
	}
	if width <= 0 || height <= 0 || len(rgba) != int(width*height*4) {
		d.fail(gpu.InvalidValue)
		return
	}
	t.width, t.height = width, height
	t.mipmaps = false
}

func (d *Driver) TexParameter(param gpu.TextureParams, value gpu.TextureValues) {
	if t := d.boundTexture(); t != nil {
		t.params[param] = value
	}
}

func (d *Driver) GenerateMipmap() {
	t := d.boundTexture()
	if t == nil {
		return
	}
	if t.width == 0 {
		d.fail(gpu.InvalidOperation)
		return
	}
	t.mipmaps = true
}

func (d *Driver) DeleteTexture(tex uint32) {
	if tex == 0 {
		return
	}
	if _, ok := d.textures[tex]; !ok {
		d.fail(gpu.InvalidValue)
		return
	}
	delete(d.textures, tex)
	for u, t := range d.units {
		if t == tex {
			d.units[u] = 0
		}
	}
}

////////////////////////////////////////////////////////
//  State and drawing

func (d *Driver) Enable(capability gpu.Capabilities) {
	d.enabled[capability] = true
}

func (d *Driver) Viewport(x, y, width, height int32) {
	if width < 0 || height < 0 {
		d.fail(gpu.InvalidValue)
		return
	}
	d.viewport = [4]int32{x, y, width, height}
}

func (d *Driver) ClearColor(r, g, b, a float32) {
	d.clearColor = [4]float32{r, g, b, a}
}

func (d *Driver) Clear(mask gpu.ClearBits) {
	d.Clears++
}

// drawable checks the state required by a draw call.
func (d *Driver) drawable() *vertexArray {
	if d.programs[d.current] == nil {
		d.fail(gpu.InvalidOperation)
		return nil
	}
	va := d.vaos[d.vao]
	if va == nil {
		d.fail(gpu.InvalidOperation)
		return nil
	}
	for _, ap := range va.attribs {
		if ap.enabled && d.buffers[ap.buffer] == nil {
			d.fail(gpu.InvalidOperation)
			return nil
		}
	}
	return va
}

func (d *Driver) record(mode gpu.DrawModes, first, count int32, indexed bool) {
	tex := map[uint32]uint32{}
	for u, t := range d.units {
		if t != 0 {
			tex[u] = t
		}
	}
	d.Draws = append(d.Draws, Draw{Mode: mode, First: first, Count: count, Indexed: indexed, Program: d.current, VertexArray: d.vao, Textures: tex})
}

func (d *Driver) DrawArrays(mode gpu.DrawModes, first, count int32) {
	if first < 0 || count < 0 {
		d.fail(gpu.InvalidValue)
		return
	}
	if d.drawable() == nil {
		return
	}
	d.record(mode, first, count, false)
}

func (d *Driver) DrawElements(mode gpu.DrawModes, count int32, offset int) {
	if count < 0 || offset < 0 {
		d.fail(gpu.InvalidValue)
		return
	}
	va := d.drawable()
	if va == nil {
		return
	}
	eb := d.buffers[va.element]
	if eb == nil || offset+int(count)*4 > len(eb.data) {
		d.fail(gpu.InvalidOperation)
		return
	}
	d.record(mode, int32(offset/4), count, true)
}

var _ gpu.Driver = (*Driver)(nil)
