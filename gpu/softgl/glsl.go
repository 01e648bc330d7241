// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package softgl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"cogentcore.org/gltut/gpu"
)

// glslDecl is one global in / out / uniform declaration.
type glslDecl struct {
	qual string
	typ  gpu.Types
	name string
	size int32
	line int
}

type glslFunc struct {
	ret    string
	name   string
	params map[string]string
	line   int
	proto  bool
}

// glslUnit is the result of checking one shader source.
type glslUnit struct {
	version int
	decls   []glslDecl
	funcs   []glslFunc
	structs map[string]bool
	body    string

	// vars are the types of the global variables and interface block
	// members, with "" for arrays.
	vars map[string]string

	// readonly are the qualifiers of globals that cannot be assigned.
	readonly map[string]string
}

type glslError struct {
	line int
	msg  string
}

func (e glslError) String() string {
	return fmt.Sprintf("0:%d: error: %s", e.line, e.msg)
}

var glslVersions = map[int]bool{
	110: true, 120: true, 130: true, 140: true, 150: true,
	300: true, 310: true, 320: true, 330: true,
	400: true, 410: true, 420: true, 430: true, 440: true, 450: true, 460: true,
}

// extraTypes are valid GLSL types that cannot be attributes or
// uniforms of the tutorial programs.
var extraTypes = []string{
	"ivec2", "ivec3", "ivec4", "uvec2", "uvec3", "uvec4",
	"bvec2", "bvec3", "bvec4", "mat2x3", "mat2x4", "mat3x2",
	"mat3x4", "mat4x2", "mat4x3", "sampler1D", "sampler3D", "samplerCube",
}

var keywords = map[string]bool{
	"return": true, "const": true, "in": true, "out": true, "inout": true,
	"highp": true, "mediump": true, "lowp": true, "if": true, "else": true,
	"while": true, "for": true, "do": true, "discard": true, "break": true,
	"continue": true, "precision": true, "flat": true, "smooth": true,
	"uniform": true, "struct": true, "switch": true, "case": true, "default": true,
}

var (
	layoutRe   = regexp.MustCompile(`layout\s*\([^)]*\)`)
	funcRe     = regexp.MustCompile(`^(\w+)\s+(\w+)\s*\(([^)]*)\)$`)
	structRe   = regexp.MustCompile(`^struct\s+(\w+)$`)
	blockRe    = regexp.MustCompile(`^(uniform|in|out)\s+\w+$`)
	precRe     = regexp.MustCompile(`^precision\s+(lowp|mediump|highp)\s+\w+$`)
	declRe     = regexp.MustCompile(`^((?:(?:in|out|uniform|attribute|varying|const|flat|smooth|noperspective|centroid|lowp|mediump|highp)\s+)*)(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?(?:\s*=\s*(.+))?$`)
	tokenRe    = regexp.MustCompile(`[A-Za-z_]\w*|0[xX][0-9a-fA-F]+[uU]?|\d+\.?\d*(?:[eE][+-]?\d+)?[fFuU]?|\.\d+(?:[eE][+-]?\d+)?[fF]?|<<=|>>=|\+\+|--|&&|\|\||\^\^|<<|>>|[-+*/%<>=!&|^]=|\S`)
	identRe    = regexp.MustCompile(`^[A-Za-z_]\w*$`)
	numberRe   = regexp.MustCompile(`^(?:\d|\.\d)`)
	allowPunct = "+-*/%=<>!&|^~?:;,.(){}[]"
)

// isType reports whether name is a GLSL type known to this unit.
func (u *glslUnit) isType(name string) bool {
	if _, ok := gpu.GLSLTypes[name]; ok {
		return true
	}
	for _, t := range extraTypes {
		if t == name {
			return true
		}
	}
	return u.structs[name]
}

// hasFunc reports whether the unit declares a function of that name.
func (u *glslUnit) hasFunc(name string) bool {
	for _, f := range u.funcs {
		if f.name == name {
			return true
		}
	}
	return false
}

// uses reports whether the given name is referenced in a function body.
func (u *glslUnit) uses(name string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	return re.MatchString(u.body)
}

// stripComments replaces comments with whitespace, keeping newlines.
func stripComments(src string) (string, *glslError) {
	var sb strings.Builder
	line := 1
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == '/' && i+1 < len(src) && src[i+1] == '/' {
			for i < len(src) && src[i] != '\n' {
				i++
			}
			if i < len(src) {
				sb.WriteByte('\n')
				line++
			}
			continue
		}
		if c == '/' && i+1 < len(src) && src[i+1] == '*' {
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return sb.String(), &glslError{line, "unterminated comment"}
			}
			nl := strings.Count(src[i:i+2+end+2], "\n")
			sb.WriteByte(' ')
			sb.WriteString(strings.Repeat("\n", nl))
			line += nl
			i += 2 + end + 1
			continue
		}
		if c == '\n' {
			line++
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}

type globalStmt struct {
	text  string
	line  int
	block bool

	// fn is the index in glslUnit.funcs of the function whose body
	// this is, or -1.
	fn int

	// members is set for struct and interface blocks, and vars for
	// interface blocks whose members are globals.
	members, vars bool
}

// bodyStmt is a statement inside the block of a global.
type bodyStmt struct {
	text   string
	line   int
	owner  int
	header bool
}

// checkGLSL checks the given source for a shader of the given type.
// It is not a compiler: it checks the lexical structure, bracket
// nesting, statement termination and global declarations. Function
// bodies are checked statement by statement for expression syntax,
// undeclared names and the types of simple assignments. That is
// enough to reject malformed sources and to know the declared
// interface of well-formed ones.
func checkGLSL(typ gpu.ShaderTypes, src string) (*glslUnit, []glslError) {
	u := &glslUnit{structs: map[string]bool{}, vars: map[string]string{}, readonly: map[string]string{}}
	src = strings.TrimRight(src, "\x00")
	text, cerr := stripComments(src)
	if cerr != nil {
		return u, []glslError{*cerr}
	}

	var errs []glslError
	lines := strings.Split(text, "\n")
	seenCode := false
	for i, ln := range lines {
		n := i + 1
		tl := strings.TrimSpace(ln)
		if strings.HasPrefix(tl, "#") {
			fields := strings.Fields(tl[1:])
			if len(fields) > 0 && fields[0] == "version" {
				switch {
				case seenCode || u.version != 0:
					errs = append(errs, glslError{n, "#version must occur before anything else"})
				case len(fields) < 2:
					errs = append(errs, glslError{n, "#version without a number"})
				default:
					v, err := strconv.Atoi(fields[1])
					if err != nil || !glslVersions[v] {
						errs = append(errs, glslError{n, fmt.Sprintf("version '%s' is not supported", fields[1])})
					} else {
						u.version = v
					}
				}
			}
			lines[i] = ""
			continue
		}
		if tl != "" {
			seenCode = true
		}
		for _, r := range ln {
			if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) || strings.ContainsRune(allowPunct, r)) {
				errs = append(errs, glslError{n, fmt.Sprintf("unexpected character %q", r)})
				break
			}
		}
	}
	if len(errs) > 0 {
		return u, errs
	}
	text = strings.Join(lines, "\n")

	type opener struct {
		c    byte
		line int
	}
	var (
		stack   []opener
		globals []globalStmt
		stmts   []bodyStmt
		owner   = -1
		gseg    strings.Builder
		gline   int
		bseg    strings.Builder
		bline   int
		body    strings.Builder
	)
	closers := map[byte]byte{')': '(', ']': '[', '}': '{'}
	line := 1
	finishGlobal := func(block bool) {
		globals = append(globals, globalStmt{text: strings.TrimSpace(gseg.String()), line: gline, block: block, fn: -1})
		gseg.Reset()
		gline = 0
	}
	finishBody := func(header bool) {
		if t := strings.TrimSpace(bseg.String()); t != "" {
			stmts = append(stmts, bodyStmt{text: t, line: bline, owner: owner, header: header})
		}
		bseg.Reset()
		bline = 0
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		depth := 0
		for _, o := range stack {
			if o.c == '{' {
				depth++
			}
		}
		switch {
		case c == '(' || c == '[' || c == '{':
			if c == '{' {
				if depth == 0 {
					finishGlobal(true)
					owner = len(globals) - 1
				} else {
					finishBody(true)
				}
			} else if depth == 0 {
				gseg.WriteByte(c)
			} else {
				bseg.WriteByte(c)
			}
			stack = append(stack, opener{c, line})
		case c == ')' || c == ']' || c == '}':
			if len(stack) == 0 || stack[len(stack)-1].c != closers[c] {
				errs = append(errs, glslError{line, fmt.Sprintf("syntax error, unmatched '%c'", c)})
				return u, errs
			}
			stack = stack[:len(stack)-1]
			if c == '}' {
				if strings.TrimSpace(bseg.String()) != "" {
					errs = append(errs, glslError{line, "syntax error, expected ';' before '}'"})
				}
				bseg.Reset()
			} else if depth == 0 {
				gseg.WriteByte(c)
			} else {
				bseg.WriteByte(c)
			}
		case c == ';' && depth == 0 && (len(stack) == 0 || stack[len(stack)-1].c == '{'):
			finishGlobal(false)
		case c == ';' && depth > 0 && stack[len(stack)-1].c == '{':
			finishBody(false)
		default:
			if depth == 0 {
				if gline == 0 && !unicode.IsSpace(rune(c)) {
					gline = line
				}
				gseg.WriteByte(c)
			} else {
				if bline == 0 && !unicode.IsSpace(rune(c)) {
					bline = line
				}
				bseg.WriteByte(c)
			}
		}
		if depth > 0 || c == '}' {
			body.WriteByte(c)
		}
		if c == '\n' {
			line++
		}
	}
	if len(stack) > 0 {
		o := stack[len(stack)-1]
		errs = append(errs, glslError{line, fmt.Sprintf("syntax error, unexpected end of file, unclosed '%c' from line %d", o.c, o.line)})
		return u, errs
	}
	if rest := strings.TrimSpace(gseg.String()); rest != "" {
		errs = append(errs, glslError{gline, fmt.Sprintf("syntax error, unexpected end of file after '%s'", rest)})
	}
	u.body = body.String()

	for i := range globals {
		if err := checkGlobal(u, typ, &globals[i]); err != nil {
			errs = append(errs, *err)
		}
	}
	for _, bs := range stmts {
		if g := globals[bs.owner]; g.vars && !bs.header {
			if m := declRe.FindStringSubmatch(bs.text); m != nil && m[4] == "" {
				u.vars[m[3]] = m[2]
			}
		}
	}
	scopes := map[int]*scope{}
	for _, bs := range stmts {
		g := globals[bs.owner]
		var err *glslError
		switch {
		case g.fn >= 0:
			sc := scopes[g.fn]
			if sc == nil {
				sc = newScope(u, &u.funcs[g.fn])
				scopes[g.fn] = sc
			}
			err = checkStatement(sc, bs.text, bs.line, bs.header)
		case g.members:
			err = checkMember(u, bs)
		}
		if err != nil {
			errs = append(errs, *err)
		}
	}
	hasMain := false
	for _, f := range u.funcs {
		if f.name == "main" && !f.proto {
			hasMain = true
			if f.ret != "void" {
				errs = append(errs, glslError{f.line, "main must return void"})
			}
		}
	}
	if !hasMain {
		errs = append(errs, glslError{line, "no function with name 'main'"})
	}
	return u, errs
}

// checkGlobal checks one global statement and records what it declares.
func checkGlobal(u *glslUnit, typ gpu.ShaderTypes, st *globalStmt) *glslError {
	s := strings.TrimSpace(layoutRe.ReplaceAllString(st.text, ""))
	if s == "" {
		return nil
	}
	if m := funcRe.FindStringSubmatch(s); m != nil {
		if m[1] != "void" && !u.isType(m[1]) {
			return &glslError{st.line, fmt.Sprintf("unknown return type '%s'", m[1])}
		}
		params, err := funcParams(u, m[3], st.line)
		if err != nil {
			return err
		}
		u.funcs = append(u.funcs, glslFunc{ret: m[1], name: m[2], params: params, line: st.line, proto: !st.block})
		if st.block {
			st.fn = len(u.funcs) - 1
		}
		return nil
	}
	if st.block {
		if m := structRe.FindStringSubmatch(s); m != nil {
			u.structs[m[1]] = true
			st.members = true
			return nil
		}
		if blockRe.MatchString(s) {
			st.members, st.vars = true, true
			return nil
		}
		return &glslError{st.line, fmt.Sprintf("syntax error before '{' in '%s'", s)}
	}
	if precRe.MatchString(s) {
		return nil
	}
	if identRe.MatchString(s) {
		u.vars[s] = ""
		return nil
	}
	m := declRe.FindStringSubmatch(s)
	if m == nil {
		return &glslError{st.line, fmt.Sprintf("syntax error in '%s'", s)}
	}
	tname, name := m[2], m[3]
	if !u.isType(tname) {
		return &glslError{st.line, fmt.Sprintf("unknown type '%s'", tname)}
	}
	if m[4] != "" {
		u.vars[name] = ""
	} else {
		u.vars[name] = tname
	}
	qual := ""
	for _, q := range strings.Fields(m[1]) {
		if q == "const" {
			u.readonly[name] = q
		}
		if (q == "attribute" || q == "varying") && u.version >= 140 {
			return &glslError{st.line, fmt.Sprintf("'%s' is not supported in GLSL %d", q, u.version)}
		}
		switch q {
		case "in", "out", "uniform":
			qual = q
		case "attribute":
			if typ != gpu.VertexShader {
				return &glslError{st.line, "'attribute' is only valid in a vertex shader"}
			}
			qual = "in"
		case "varying":
			qual = "out"
			if typ == gpu.FragmentShader {
				qual = "in"
			}
		}
	}
	if qual == "" {
		return nil
	}
	if qual == "uniform" || qual == "in" {
		u.readonly[name] = qual
	}
	size := int32(1)
	if m[4] != "" {
		n, err := strconv.Atoi(m[4])
		if err != nil || n <= 0 {
			return &glslError{st.line, fmt.Sprintf("invalid array size for '%s'", name)}
		}
		size = int32(n)
	}
	for _, d := range u.decls {
		if d.name == name {
			return &glslError{st.line, fmt.Sprintf("redeclaration of '%s'", name)}
		}
	}
	u.decls = append(u.decls, glslDecl{qual: qual, typ: gpu.GLSLTypes[tname], name: name, size: size, line: st.line})
	return nil
}

// funcParams returns the parameter types of a function by name.
func funcParams(u *glslUnit, list string, line int) (map[string]string, *glslError) {
	params := map[string]string{}
	list = strings.TrimSpace(list)
	if list == "" || list == "void" {
		return params, nil
	}
	for _, p := range strings.Split(list, ",") {
		f := strings.Fields(strings.NewReplacer("[", " [", "]", "] ").Replace(p))
		for len(f) > 0 && strings.HasPrefix(f[len(f)-1], "[") {
			f = f[:len(f)-1]
		}
		if len(f) < 2 || !identRe.MatchString(f[len(f)-1]) || !u.isType(f[len(f)-2]) {
			return nil, &glslError{line, fmt.Sprintf("syntax error in parameter '%s'", strings.TrimSpace(p))}
		}
		params[f[len(f)-1]] = f[len(f)-2]
	}
	return params, nil
}

// checkMember checks one member declaration of a struct or block.
func checkMember(u *glslUnit, bs bodyStmt) *glslError {
	m := declRe.FindStringSubmatch(bs.text)
	if bs.header || m == nil || m[5] != "" {
		return &glslError{bs.line, fmt.Sprintf("syntax error in member declaration '%s'", bs.text)}
	}
	if !u.isType(m[2]) {
		return &glslError{bs.line, fmt.Sprintf("unknown type '%s'", m[2])}
	}
	return nil
}

// formatErrors joins errors into an info log.
func formatErrors(errs []glslError) string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n") + "\n"
}
