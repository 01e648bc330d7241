// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package softgl

import (
	"fmt"
	"strings"
)

// builtinFuncs are the GLSL built-in functions that can be called
// from the tutorial shaders.
var builtinFuncs = map[string]bool{
	"radians": true, "degrees": true, "sin": true, "cos": true, "tan": true,
	"asin": true, "acos": true, "atan": true, "sinh": true, "cosh": true, "tanh": true,
	"pow": true, "exp": true, "log": true, "exp2": true, "log2": true,
	"sqrt": true, "inversesqrt": true, "abs": true, "sign": true, "floor": true,
	"trunc": true, "round": true, "roundEven": true, "ceil": true, "fract": true,
	"mod": true, "modf": true, "min": true, "max": true, "clamp": true, "mix": true,
	"step": true, "smoothstep": true, "isnan": true, "isinf": true,
	"length": true, "distance": true, "dot": true, "cross": true, "normalize": true,
	"faceforward": true, "reflect": true, "refract": true, "matrixCompMult": true,
	"outerProduct": true, "transpose": true, "determinant": true, "inverse": true,
	"lessThan": true, "lessThanEqual": true, "greaterThan": true, "greaterThanEqual": true,
	"equal": true, "notEqual": true, "any": true, "all": true, "not": true,
	"texture": true, "textureSize": true, "textureLod": true, "textureProj": true,
	"textureOffset": true, "texelFetch": true, "texture2D": true,
	"dFdx": true, "dFdy": true, "fwidth": true,
	"floatBitsToInt": true, "intBitsToFloat": true,
}

// builtinVars are the types of the gl_ variables. Other gl_ names
// are accepted with an unknown type.
var builtinVars = map[string]string{
	"gl_Position":    "vec4",
	"gl_PointSize":   "float",
	"gl_VertexID":    "int",
	"gl_InstanceID":  "int",
	"gl_FragCoord":   "vec4",
	"gl_FragColor":   "vec4",
	"gl_FragDepth":   "float",
	"gl_FrontFacing": "bool",
}

var unaryOps = map[string]bool{"+": true, "-": true, "!": true, "~": true}

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"<": true, ">": true, "<=": true, ">=": true, "==": true, "!=": true,
	"&&": true, "||": true, "^^": true, "&": true, "|": true, "^": true,
	"<<": true, ">>": true, "?": true, ":": true,
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"<<=": true, ">>=": true, "&=": true, "|=": true, "^=": true,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"<<=": true, ">>=": true, "&=": true, "|=": true, "^=": true,
}

// scope holds the names visible in the body of one function.
// Block scopes are not tracked: a local is visible after its
// declaration until the end of the function.
type scope struct {
	u      *glslUnit
	locals map[string]string
}

func newScope(u *glslUnit, fn *glslFunc) *scope {
	sc := &scope{u: u, locals: map[string]string{}}
	for name, typ := range fn.params {
		sc.locals[name] = typ
	}
	return sc
}

// lookup returns the type of a variable, which is empty if unknown.
func (sc *scope) lookup(name string) (string, bool) {
	if t, ok := sc.locals[name]; ok {
		return t, true
	}
	if t, ok := sc.u.vars[name]; ok {
		return t, true
	}
	if t, ok := builtinVars[name]; ok {
		return t, true
	}
	return "", strings.HasPrefix(name, "gl_")
}

// checkStatement checks one statement of a function body. A header
// is the text before a nested '{', such as an if or for clause.
func checkStatement(sc *scope, stmt string, line int, header bool) *glslError {
	toks := tokenRe.FindAllString(stmt, -1)
	for len(toks) > 0 {
		switch toks[0] {
		case "else", "do":
			toks = toks[1:]
			continue
		case "default":
			if len(toks) < 2 || toks[1] != ":" {
				return &glslError{line, "syntax error, expected ':' after 'default'"}
			}
			toks = toks[2:]
			continue
		case "case":
			end := indexTop(toks, ":")
			if end < 0 {
				return &glslError{line, "syntax error, expected ':' after 'case'"}
			}
			if err := sc.expr(toks[1:end], line); err != nil {
				return err
			}
			toks = toks[end+1:]
			continue
		case "if", "while", "for", "switch":
			kw := toks[0]
			if len(toks) < 2 || toks[1] != "(" {
				return &glslError{line, fmt.Sprintf("syntax error, expected '(' after '%s'", kw)}
			}
			end := matchParen(toks, 1)
			if end < 0 {
				return &glslError{line, fmt.Sprintf("syntax error, unclosed '(' after '%s'", kw)}
			}
			if err := sc.clause(kw, toks[2:end], line); err != nil {
				return err
			}
			toks = toks[end+1:]
			continue
		}
		break
	}
	if len(toks) == 0 {
		return nil
	}
	if header {
		return &glslError{line, fmt.Sprintf("syntax error, unexpected '%s' before '{'", strings.Join(toks, " "))}
	}
	return sc.simple(toks, line)
}

// clause checks the parenthesized part of a control statement.
func (sc *scope) clause(kw string, toks []string, line int) *glslError {
	if kw != "for" {
		if len(toks) == 0 {
			return &glslError{line, fmt.Sprintf("syntax error, empty condition in '%s'", kw)}
		}
		return sc.expr(toks, line)
	}
	parts := splitTop(toks, ";")
	if len(parts) != 3 {
		return &glslError{line, "syntax error, expected two ';' in 'for'"}
	}
	if len(parts[0]) > 0 {
		if err := sc.simple(parts[0], line); err != nil {
			return err
		}
	}
	for _, p := range parts[1:] {
		if len(p) > 0 {
			if err := sc.expr(p, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// simple checks a statement without a control keyword: a jump,
// a local declaration, or an expression.
func (sc *scope) simple(toks []string, line int) *glslError {
	switch toks[0] {
	case "return":
		if len(toks) == 1 {
			return nil
		}
		return sc.expr(toks[1:], line)
	case "discard", "break", "continue":
		if len(toks) > 1 {
			return &glslError{line, fmt.Sprintf("syntax error, unexpected '%s' after '%s'", toks[1], toks[0])}
		}
		return nil
	}
	i := 0
	for i < len(toks) && (toks[i] == "const" || toks[i] == "highp" || toks[i] == "mediump" || toks[i] == "lowp") {
		i++
	}
	if i < len(toks) && sc.u.isType(toks[i]) && i+1 < len(toks) && identRe.MatchString(toks[i+1]) {
		return sc.declare(toks[i], toks[i+1:], line)
	}
	if i > 0 {
		return &glslError{line, fmt.Sprintf("syntax error, expected a type after '%s'", toks[i-1])}
	}
	if err := sc.expr(toks, line); err != nil {
		return err
	}
	if len(toks) > 2 && identRe.MatchString(toks[0]) && assignOps[toks[1]] {
		name := toks[0]
		if _, local := sc.locals[name]; !local {
			if q := sc.u.readonly[name]; q != "" {
				return &glslError{line, fmt.Sprintf("assignment to read-only variable '%s' (%s)", name, q)}
			}
		}
		if toks[1] == "=" {
			dst, _ := sc.lookup(name)
			if src := sc.exprType(toks[2:]); !convertible(dst, src) {
				return &glslError{line, fmt.Sprintf("value of type %s cannot be assigned to variable '%s' of type %s", src, name, dst)}
			}
		}
	}
	return nil
}

// declare checks a local declaration of the given type and adds the
// declared names to the scope.
func (sc *scope) declare(typ string, toks []string, line int) *glslError {
	for _, d := range splitTop(toks, ",") {
		if len(d) == 0 || !identRe.MatchString(d[0]) {
			return &glslError{line, fmt.Sprintf("syntax error, expected a name in declaration of type '%s'", typ)}
		}
		name := d[0]
		if sc.u.isType(name) || keywords[name] {
			return &glslError{line, fmt.Sprintf("syntax error, '%s' cannot be a variable name", name)}
		}
		rest := d[1:]
		vtyp := typ
		if len(rest) > 0 && rest[0] == "[" {
			end := matchBracket(rest, 0)
			if end < 0 {
				return &glslError{line, fmt.Sprintf("syntax error, unclosed '[' in declaration of '%s'", name)}
			}
			if end > 1 {
				if err := sc.expr(rest[1:end], line); err != nil {
					return err
				}
			}
			vtyp = ""
			rest = rest[end+1:]
		}
		if len(rest) > 0 {
			if rest[0] != "=" {
				return &glslError{line, fmt.Sprintf("syntax error, unexpected '%s' after '%s'", rest[0], name)}
			}
			init := rest[1:]
			if len(init) == 0 {
				return &glslError{line, fmt.Sprintf("syntax error, missing initializer for '%s'", name)}
			}
			if err := sc.expr(init, line); err != nil {
				return err
			}
			if src := sc.exprType(init); !convertible(vtyp, src) {
				return &glslError{line, fmt.Sprintf("initializer of type %s cannot be assigned to variable '%s' of type %s", src, name, vtyp)}
			}
		}
		sc.locals[name] = vtyp
	}
	return nil
}

// expr checks that the tokens form one expression: operands and
// binary operators alternate, brackets enclose operands, and every
// name is declared.
func (sc *scope) expr(toks []string, line int) *glslError {
	if len(toks) == 0 {
		return &glslError{line, "syntax error, missing expression"}
	}
	var stack []string
	operand := true
	after := func(i int) string {
		if i == 0 {
			return ""
		}
		return " after '" + toks[i-1] + "'"
	}
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case identRe.MatchString(t):
			if !operand {
				return &glslError{line, fmt.Sprintf("syntax error, unexpected IDENTIFIER '%s'%s", t, after(i))}
			}
			call := i+1 < len(toks) && toks[i+1] == "("
			if err := sc.resolve(t, call, line); err != nil {
				return err
			}
			operand = false
		case numberRe.MatchString(t):
			if !operand {
				return &glslError{line, fmt.Sprintf("syntax error, unexpected number '%s'%s", t, after(i))}
			}
			operand = false
		case t == "(":
			if !operand && !identRe.MatchString(toks[i-1]) {
				return &glslError{line, fmt.Sprintf("syntax error, unexpected '('%s", after(i))}
			}
			call := !operand
			stack = append(stack, "(")
			operand = true
			if call && i+1 < len(toks) && toks[i+1] == ")" {
				i++
				stack = stack[:len(stack)-1]
				operand = false
			}
		case t == "[":
			if operand {
				return &glslError{line, fmt.Sprintf("syntax error, unexpected '['%s", after(i))}
			}
			stack = append(stack, "[")
			operand = true
		case t == ")" || t == "]":
			open := "("
			if t == "]" {
				open = "["
			}
			if len(stack) == 0 || stack[len(stack)-1] != open {
				return &glslError{line, fmt.Sprintf("syntax error, unmatched '%s'", t)}
			}
			if operand {
				return &glslError{line, fmt.Sprintf("syntax error, missing operand before '%s'", t)}
			}
			stack = stack[:len(stack)-1]
		case t == ",":
			if operand {
				return &glslError{line, "syntax error, missing operand before ','"}
			}
			operand = true
		case t == ".":
			if operand || i+1 >= len(toks) || !identRe.MatchString(toks[i+1]) {
				return &glslError{line, fmt.Sprintf("syntax error, unexpected '.'%s", after(i))}
			}
			if err := sc.field(toks, i, line); err != nil {
				return err
			}
			i++
		case t == "++" || t == "--":
		case operand && unaryOps[t]:
		case binaryOps[t]:
			if operand {
				return &glslError{line, fmt.Sprintf("syntax error, unexpected '%s'%s", t, after(i))}
			}
			operand = true
		default:
			return &glslError{line, fmt.Sprintf("syntax error, unexpected '%s'%s", t, after(i))}
		}
	}
	if len(stack) > 0 {
		return &glslError{line, fmt.Sprintf("syntax error, unclosed '%s'", stack[len(stack)-1])}
	}
	if operand {
		return &glslError{line, fmt.Sprintf("syntax error, missing operand after '%s'", toks[len(toks)-1])}
	}
	return nil
}

// resolve checks that a name used in an expression is declared.
func (sc *scope) resolve(name string, call bool, line int) *glslError {
	if keywords[name] {
		return &glslError{line, fmt.Sprintf("syntax error, unexpected '%s'", name)}
	}
	if call {
		if sc.u.isType(name) || builtinFuncs[name] || sc.u.hasFunc(name) {
			return nil
		}
		return &glslError{line, fmt.Sprintf("no function with name '%s'", name)}
	}
	if name == "true" || name == "false" {
		return nil
	}
	if _, ok := sc.lookup(name); ok {
		return nil
	}
	if sc.u.isType(name) {
		return &glslError{line, fmt.Sprintf("syntax error, unexpected type '%s'", name)}
	}
	return &glslError{line, fmt.Sprintf("'%s': undeclared identifier", name)}
}

// field checks the name after the '.' at toks[i] when the value
// before it is a variable of a vector type.
func (sc *scope) field(toks []string, i int, line int) *glslError {
	if i == 0 || !identRe.MatchString(toks[i-1]) || (i > 1 && toks[i-2] == ".") {
		return nil
	}
	base, _ := sc.lookup(toks[i-1])
	if _, n := vectorKind(base); n > 0 && swizzleType(base, toks[i+1]) == "" {
		return &glslError{line, fmt.Sprintf("invalid swizzle '%s' of %s '%s'", toks[i+1], base, toks[i-1])}
	}
	return nil
}

// exprType returns the type of simple expressions: literals,
// variables, swizzles of variables, and constructor or texture calls.
// It returns "" when the type is not known.
func (sc *scope) exprType(toks []string) string {
	switch {
	case len(toks) == 0:
		return ""
	case len(toks) == 1:
		t := toks[0]
		if numberRe.MatchString(t) {
			return literalType(t)
		}
		if t == "true" || t == "false" {
			return "bool"
		}
		typ, _ := sc.lookup(t)
		return typ
	case len(toks) == 3 && toks[1] == "." && identRe.MatchString(toks[0]):
		base, _ := sc.lookup(toks[0])
		return swizzleType(base, toks[2])
	case toks[1] == "(" && matchParen(toks, 1) == len(toks)-1:
		if sc.u.isType(toks[0]) {
			return toks[0]
		}
		if toks[0] == "texture" || toks[0] == "texture2D" {
			return "vec4"
		}
	}
	return ""
}

// convertible reports whether a value of type src can be assigned
// to a variable of type dst, with the implicit int to float
// conversions. Unknown types are always convertible.
func convertible(dst, src string) bool {
	if dst == "" || src == "" || dst == src {
		return true
	}
	if dst == "float" {
		return src == "int" || src == "uint"
	}
	dk, dn := vectorKind(dst)
	sk, sn := vectorKind(src)
	return dn > 0 && dn == sn && dk == "" && (sk == "i" || sk == "u")
}

func literalType(t string) string {
	switch {
	case strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X"):
		if strings.HasSuffix(t, "u") || strings.HasSuffix(t, "U") {
			return "uint"
		}
		return "int"
	case strings.HasSuffix(t, "u") || strings.HasSuffix(t, "U"):
		return "uint"
	case strings.ContainsAny(t, ".eEfF"):
		return "float"
	}
	return "int"
}

// vectorKind returns the component prefix ("", "i", "u", "b") and
// size of a vector type, or a zero size if typ is not a vector.
func vectorKind(typ string) (string, int) {
	if len(typ) < 4 {
		return "", 0
	}
	n := int(typ[len(typ)-1] - '0')
	if n < 2 || n > 4 {
		return "", 0
	}
	switch typ[:len(typ)-1] {
	case "vec":
		return "", n
	case "ivec", "uvec", "bvec":
		return typ[:1], n
	}
	return "", 0
}

var scalarTypes = map[string]string{"": "float", "i": "int", "u": "uint", "b": "bool"}

// swizzleType returns the type of the given swizzle of a vector
// type, or "" if base is not a vector or the swizzle is invalid.
func swizzleType(base, sw string) string {
	kind, n := vectorKind(base)
	if n == 0 || len(sw) > 4 {
		return ""
	}
	for _, set := range []string{"xyzw", "rgba", "stpq"} {
		ok := true
		for _, c := range sw {
			idx := strings.IndexRune(set, c)
			if idx < 0 || idx >= n {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if len(sw) == 1 {
			return scalarTypes[kind]
		}
		return fmt.Sprintf("%svec%d", kind, len(sw))
	}
	return ""
}

// matchParen returns the index of the ')' matching the '(' at toks[i].
func matchParen(toks []string, i int) int {
	return matchClose(toks, i, "(", ")")
}

// matchBracket returns the index of the ']' matching the '[' at toks[i].
func matchBracket(toks []string, i int) int {
	return matchClose(toks, i, "[", "]")
}

func matchClose(toks []string, i int, open, close string) int {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch toks[j] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// splitTop splits toks at each sep that is not inside brackets.
func splitTop(toks []string, sep string) [][]string {
	var parts [][]string
	depth, start := 0, 0
	for j, t := range toks {
		switch t {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, toks[start:j])
				start = j + 1
			}
		}
	}
	return append(parts, toks[start:])
}

// indexTop returns the index of the first sep not inside brackets.
func indexTop(toks []string, sep string) int {
	depth := 0
	for j, t := range toks {
		switch t {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
		case sep:
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}
