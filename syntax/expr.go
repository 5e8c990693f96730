package syntax

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/thushalya/asyncapi-tools-1/internal/naming"
)

// Expr is a host expression. The set of implementations is closed.
type Expr interface {
	// String renders the expression as host source text.
	String() string
	expr()
}

// Ident is a variable or parameter reference.
type Ident struct {
	Name string
}

// Var returns an identifier expression, escaping keywords.
func Var(name string) Ident {
	return Ident{Name: naming.Escape(name)}
}

// Self is the receiver of a class method.
var Self = Ident{Name: "self"}

func (i Ident) String() string { return i.Name }
func (Ident) expr()            {}

// StringLit is a double-quoted string literal.
type StringLit struct {
	Value string
}

// Str returns a string literal expression.
func Str(v string) StringLit { return StringLit{Value: v} }

func (s StringLit) String() string { return quote(s.Value) }
func (StringLit) expr()            {}

// NumberLit is a numeric literal kept in its source form.
type NumberLit struct {
	Text string
}

var numberPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?$`)

// Num returns a numeric literal. It panics if text is not a number, since
// numeric literals are only ever built from constants or already validated
// document values.
func Num(text string) NumberLit {
	if !numberPattern.MatchString(text) {
		panic(fmt.Sprintf("syntax: invalid numeric literal %q", text))
	}
	return NumberLit{Text: text}
}

func (n NumberLit) String() string { return n.Text }
func (NumberLit) expr()            {}

// BoolLit is true or false.
type BoolLit struct {
	Value bool
}

func (b BoolLit) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (BoolLit) expr() {}

// Literal expressions with no payload.
var (
	True      = BoolLit{Value: true}
	False     = BoolLit{Value: false}
	NilLit    = Raw{Text: "()"}
	EmptyList = Raw{Text: "[]"}
	EmptyMap  = Raw{Text: "{}"}
)

// Raw is a fixed token sequence with no inner structure, used for the
// literal forms above.
type Raw struct {
	Text string
}

func (r Raw) String() string { return r.Text }
func (Raw) expr()            {}

// FieldAccess is target.field.
type FieldAccess struct {
	Target Expr
	Field  string
}

// Field returns target.name with name escaped.
func Field(target Expr, name string) FieldAccess {
	return FieldAccess{Target: target, Field: naming.Escape(name)}
}

func (f FieldAccess) String() string { return f.Target.String() + "." + f.Field }
func (FieldAccess) expr()            {}

// Index is a member access by key, target[key].
type Index struct {
	Target Expr
	Key    Expr
}

func (x Index) String() string { return x.Target.String() + "[" + x.Key.String() + "]" }
func (Index) expr()            {}

// MethodCall is target.method(args...).
type MethodCall struct {
	Target Expr
	Method string
	Args   []Expr
}

func (m MethodCall) String() string {
	return m.Target.String() + "." + m.Method + "(" + joinExprs(m.Args) + ")"
}
func (MethodCall) expr() {}

// Call is a function call.
type Call struct {
	Func string
	Args []Expr
}

func (c Call) String() string { return c.Func + "(" + joinExprs(c.Args) + ")" }
func (Call) expr()            {}

// TypeCast is <Type>expr.
type TypeCast struct {
	Type TypeDesc
	Expr Expr
}

func (c TypeCast) String() string { return "<" + c.Type.String() + ">" + c.Expr.String() }
func (TypeCast) expr()            {}

// Check is check expr.
type Check struct {
	Expr Expr
}

func (c Check) String() string { return "check " + c.Expr.String() }
func (Check) expr()            {}

// TypeTest is expr is Type.
type TypeTest struct {
	Expr Expr
	Type TypeDesc
}

func (t TypeTest) String() string { return t.Expr.String() + " is " + t.Type.String() }
func (TypeTest) expr()            {}

// Paren is a parenthesized expression.
type Paren struct {
	Expr Expr
}

func (p Paren) String() string { return "(" + p.Expr.String() + ")" }
func (Paren) expr()            {}

// Binary is a binary operator expression.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

func (b Binary) String() string { return b.Left.String() + " " + b.Op + " " + b.Right.String() }
func (Binary) expr()            {}

// New is an implicit-type constructor call, new (args...).
type New struct {
	Args []Expr
}

func (n New) String() string { return "new (" + joinExprs(n.Args) + ")" }
func (New) expr()            {}

// MappingField is one entry of a mapping constructor. Record fields use
// identifier keys; map entries use string keys.
type MappingField struct {
	Key       string
	StringKey bool
	Value     Expr
}

// Mapping is a mapping constructor {k: v, ...}.
type Mapping struct {
	Fields []MappingField
}

func (m Mapping) String() string {
	if len(m.Fields) == 0 {
		return "{}"
	}
	parts := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		key := naming.Escape(f.Key)
		if f.StringKey {
			key = quote(f.Key)
		}
		parts[i] = key + ": " + f.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (Mapping) expr() {}

// TemplatePart is either literal text or an interpolated expression.
type TemplatePart struct {
	Text string
	Expr Expr
}

// Template is a string template, string `...${expr}...`.
type Template struct {
	Parts []TemplatePart
}

func (t Template) String() string {
	var b strings.Builder
	b.WriteString("string `")
	for _, p := range t.Parts {
		if p.Expr != nil {
			b.WriteString("${" + p.Expr.String() + "}")
			continue
		}
		b.WriteString(strings.ReplaceAll(p.Text, "`", "${\"`\"}"))
	}
	b.WriteString("`")
	return b.String()
}
func (Template) expr() {}

// HasInterpolation reports whether any part of t is an expression.
func (t Template) HasInterpolation() bool {
	for _, p := range t.Parts {
		if p.Expr != nil {
			return true
		}
	}
	return false
}

func joinExprs(args []Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

// quote renders s as a double-quoted host string literal.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
