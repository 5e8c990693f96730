package syntax

import (
	"strings"

	"github.com/thushalya/asyncapi-tools-1/internal/naming"
)

// TypeDesc is a host type descriptor. The set of implementations is closed.
type TypeDesc interface {
	// String renders the descriptor as host source text.
	String() string
	typeDesc()
}

// Builtin is a predeclared type such as string, int or anydata.
type Builtin struct {
	Name string
}

// Builtin types used by the generators.
var (
	String     = Builtin{Name: "string"}
	Int        = Builtin{Name: "int"}
	Float      = Builtin{Name: "float"}
	Decimal    = Builtin{Name: "decimal"}
	Boolean    = Builtin{Name: "boolean"}
	Byte       = Builtin{Name: "byte"}
	Anydata    = Builtin{Name: "anydata"}
	JSON       = Builtin{Name: "json"}
	Error      = Builtin{Name: "error"}
	Readonly   = Builtin{Name: "readonly"}
	Nil        = Builtin{Name: "()"}
	OpenRecord = Builtin{Name: "record {}"}
)

func (b Builtin) String() string { return b.Name }
func (Builtin) typeDesc()        {}

// Named references a type definition, optionally qualified with a module
// prefix ("websocket:BearerTokenConfig").
type Named struct {
	Module string
	Name   string
}

// Ref returns a reference to a type defined in the current module. The name
// is escaped if it collides with a keyword.
func Ref(name string) Named {
	return Named{Name: naming.Escape(name)}
}

// QualifiedRef returns a reference to a type exported by module.
func QualifiedRef(module, name string) Named {
	return Named{Module: module, Name: name}
}

func (n Named) String() string {
	if n.Module == "" {
		return n.Name
	}
	return n.Module + ":" + n.Name
}
func (Named) typeDesc() {}

// Array is an array of Elem.
type Array struct {
	Elem TypeDesc
}

func (a Array) String() string { return wrapCompound(a.Elem) + "[]" }
func (Array) typeDesc()        {}

// Optional is Elem or nil.
type Optional struct {
	Elem TypeDesc
}

func (o Optional) String() string { return wrapCompound(o.Elem) + "?" }
func (Optional) typeDesc()        {}

// Map is a string-keyed map with values of type Value.
type Map struct {
	Value TypeDesc
}

func (m Map) String() string { return "map<" + m.Value.String() + ">" }
func (Map) typeDesc()        {}

// Stream is a stream of Elem values.
type Stream struct {
	Elem TypeDesc
}

func (s Stream) String() string { return "stream<" + s.Elem.String() + ">" }
func (Stream) typeDesc()        {}

// Union is a union of two or more distinct member types. Build it with
// NewUnion, which removes duplicates while keeping the first occurrence.
type Union struct {
	Members []TypeDesc
}

// NewUnion returns the union of members in the given order with duplicates
// removed. Nested unions are flattened. A single remaining member is returned
// as is.
func NewUnion(members ...TypeDesc) TypeDesc {
	seen := make(map[string]bool, len(members))
	var flat []TypeDesc
	var add func(TypeDesc)
	add = func(t TypeDesc) {
		if u, ok := t.(Union); ok {
			for _, m := range u.Members {
				add(m)
			}
			return
		}
		key := t.String()
		if seen[key] {
			return
		}
		seen[key] = true
		flat = append(flat, t)
	}
	for _, m := range members {
		if m != nil {
			add(m)
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Union{Members: flat}
}

func (u Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, "|")
}
func (Union) typeDesc() {}

// Intersection is the intersection of its members ("readonly & ApiKeysConfig").
type Intersection struct {
	Members []TypeDesc
}

func (x Intersection) String() string {
	parts := make([]string, len(x.Members))
	for i, m := range x.Members {
		parts[i] = wrapCompound(m)
	}
	return strings.Join(parts, " & ")
}
func (Intersection) typeDesc() {}

// wrapCompound parenthesizes unions and intersections used as an operand of
// a postfix type operator.
func wrapCompound(t TypeDesc) string {
	switch t.(type) {
	case Union, Intersection:
		return "(" + t.String() + ")"
	default:
		return t.String()
	}
}

// IsOptional reports whether t already admits nil.
func IsOptional(t TypeDesc) bool {
	switch v := t.(type) {
	case Optional:
		return true
	case Builtin:
		return v == Nil || v == Anydata || v == JSON
	case Union:
		for _, m := range v.Members {
			if IsOptional(m) {
				return true
			}
		}
	}
	return false
}
