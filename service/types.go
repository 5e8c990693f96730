package service

import (
	"fmt"
	"strings"
)

// TypeRef is a type reference in a host declaration. The set of
// implementations is closed: Builtin, Named, Array, Optional, Union, Map
// and Stream.
type TypeRef interface {
	// String renders the reference as host source text.
	String() string
	typeRef()
}

// Builtin is a predeclared type such as string, int or error.
type Builtin struct {
	Name string
}

// Builtin types recognised by the type parser.
var (
	String  = Builtin{Name: "string"}
	Int     = Builtin{Name: "int"}
	Float   = Builtin{Name: "float"}
	Decimal = Builtin{Name: "decimal"}
	Boolean = Builtin{Name: "boolean"}
	Byte    = Builtin{Name: "byte"}
	JSON    = Builtin{Name: "json"}
	Anydata = Builtin{Name: "anydata"}
	Any     = Builtin{Name: "any"}
	Error   = Builtin{Name: "error"}
	Nil     = Builtin{Name: "()"}
)

var builtins = map[string]Builtin{
	"string": String, "int": Int, "float": Float, "decimal": Decimal,
	"boolean": Boolean, "byte": Byte, "json": JSON, "anydata": Anydata,
	"any": Any, "error": Error,
}

// Named is a reference to a type definition, optionally qualified with the
// prefix of the module that defines it ("websocket:Caller").
type Named struct {
	Module string
	Name   string
}

// Array is T[].
type Array struct {
	Elem TypeRef
}

// Optional is T?.
type Optional struct {
	Elem TypeRef
}

// Union is T1|T2|...
type Union struct {
	Members []TypeRef
}

// Map is map<T>.
type Map struct {
	Value TypeRef
}

// Stream is stream<T> or stream<T, C>, where C is the completion type.
type Stream struct {
	Elem       TypeRef
	Completion TypeRef
}

func (b Builtin) String() string  { return b.Name }
func (a Array) String() string    { return wrap(a.Elem) + "[]" }
func (o Optional) String() string { return wrap(o.Elem) + "?" }
func (m Map) String() string      { return "map<" + m.Value.String() + ">" }

func (n Named) String() string {
	if n.Module == "" {
		return n.Name
	}
	return n.Module + ":" + n.Name
}

func (u Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, "|")
}

func (s Stream) String() string {
	if s.Completion == nil {
		return "stream<" + s.Elem.String() + ">"
	}
	return "stream<" + s.Elem.String() + ", " + s.Completion.String() + ">"
}

func (Builtin) typeRef()  {}
func (Named) typeRef()    {}
func (Array) typeRef()    {}
func (Optional) typeRef() {}
func (Union) typeRef()    {}
func (Map) typeRef()      {}
func (Stream) typeRef()   {}

func wrap(t TypeRef) string {
	if _, ok := t.(Union); ok {
		return "(" + t.String() + ")"
	}
	return t.String()
}

// IsQualified reports whether n names a type from another module.
func (n Named) IsQualified() bool { return n.Module != "" }

// IsNil reports whether t is the nil type ().
func IsNil(t TypeRef) bool {
	b, ok := t.(Builtin)
	return ok && b == Nil
}

// IsError reports whether t is error or a union made only of errors.
func IsError(t TypeRef) bool {
	switch v := t.(type) {
	case Builtin:
		return v == Error
	case Optional:
		return IsError(v.Elem)
	case Union:
		for _, m := range v.Members {
			if !IsError(m) && !IsNil(m) {
				return false
			}
		}
		return true
	}
	return false
}

// StripError removes error and nil members from t. It returns nil when
// nothing remains, which is the case for handlers that return error?.
func StripError(t TypeRef) TypeRef {
	switch v := t.(type) {
	case nil:
		return nil
	case Builtin:
		if v == Error || v == Nil {
			return nil
		}
		return v
	case Optional:
		return StripError(v.Elem)
	case Union:
		var keep []TypeRef
		for _, m := range v.Members {
			if s := StripError(m); s != nil {
				keep = append(keep, s)
			}
		}
		switch len(keep) {
		case 0:
			return nil
		case 1:
			return keep[0]
		}
		return Union{Members: keep}
	}
	return t
}

// ParseTypeRef parses a type descriptor such as "Message[]", "string?",
// "Room|error", "map<string>" or "stream<Event, error?>".
func ParseTypeRef(text string) (TypeRef, error) {
	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty type descriptor")
	}
	p := &typeParser{toks: toks, text: text}
	t, err := p.union()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		return nil, fmt.Errorf("unexpected %q in type descriptor %q", p.toks[p.pos], text)
	}
	return t, nil
}

// MustParseTypeRef is like ParseTypeRef but panics on error. It is meant
// for constant type descriptors.
func MustParseTypeRef(text string) TypeRef {
	t, err := ParseTypeRef(text)
	if err != nil {
		panic(err)
	}
	return t
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '\'' || r == ':' || r == '.' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func tokenize(text string) ([]string, error) {
	var toks []string
	runes := []rune(text)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t' || r == '\n':
			i++
		case strings.ContainsRune("|?[]()<>,", r):
			toks = append(toks, string(r))
			i++
		case isIdentRune(r):
			j := i
			for j < len(runes) && isIdentRune(runes[j]) {
				j++
			}
			toks = append(toks, string(runes[i:j]))
			i = j
		default:
			return nil, fmt.Errorf("invalid character %q in type descriptor %q", r, text)
		}
	}
	return toks, nil
}

type typeParser struct {
	toks []string
	pos  int
	text string
}

func (p *typeParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *typeParser) expect(tok string) error {
	if p.peek() != tok {
		return fmt.Errorf("expected %q in type descriptor %q", tok, p.text)
	}
	p.pos++
	return nil
}

func (p *typeParser) union() (TypeRef, error) {
	first, err := p.postfix()
	if err != nil {
		return nil, err
	}
	members := []TypeRef{first}
	for p.peek() == "|" {
		p.pos++
		next, err := p.postfix()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return first, nil
	}
	return Union{Members: members}, nil
}

func (p *typeParser) postfix() (TypeRef, error) {
	t, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case "?":
			p.pos++
			t = Optional{Elem: t}
		case "[":
			p.pos++
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			t = Array{Elem: t}
		default:
			return t, nil
		}
	}
}

func (p *typeParser) primary() (TypeRef, error) {
	tok := p.peek()
	switch tok {
	case "":
		return nil, fmt.Errorf("unexpected end of type descriptor %q", p.text)
	case "(":
		p.pos++
		if p.peek() == ")" {
			p.pos++
			return Nil, nil
		}
		t, err := p.union()
		if err != nil {
			return nil, err
		}
		return t, p.expect(")")
	case "map":
		p.pos++
		if err := p.expect("<"); err != nil {
			return nil, err
		}
		v, err := p.union()
		if err != nil {
			return nil, err
		}
		return Map{Value: v}, p.expect(">")
	case "stream":
		p.pos++
		if err := p.expect("<"); err != nil {
			return nil, err
		}
		elem, err := p.union()
		if err != nil {
			return nil, err
		}
		s := Stream{Elem: elem}
		if p.peek() == "," {
			p.pos++
			if s.Completion, err = p.union(); err != nil {
				return nil, err
			}
		}
		return s, p.expect(">")
	}
	if !isIdentRune([]rune(tok)[0]) {
		return nil, fmt.Errorf("unexpected %q in type descriptor %q", tok, p.text)
	}
	p.pos++
	if b, ok := builtins[tok]; ok {
		return b, nil
	}
	if module, name, ok := strings.Cut(tok, ":"); ok {
		if module == "" || name == "" || strings.Contains(name, ":") {
			return nil, fmt.Errorf("malformed qualified name %q", tok)
		}
		return Named{Module: module, Name: name}, nil
	}
	return Named{Name: tok}, nil
}
