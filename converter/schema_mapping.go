// This file maps host type references onto AsyncAPI schemas.

package converter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thushalya/asyncapi-tools-1/internal/naming"
	"github.com/thushalya/asyncapi-tools-1/parser"
	"github.com/thushalya/asyncapi-tools-1/service"
)

const nullableExtension = "x-nullable"

// schemaMapper converts type references into schemas, registering every
// module type it reaches under components.schemas.
type schemaMapper struct {
	module  *service.Module
	schemas map[string]*parser.Schema
	issues  *[]ConversionIssue
}

func newSchemaMapper(m *service.Module, issues *[]ConversionIssue) *schemaMapper {
	return &schemaMapper{module: m, schemas: make(map[string]*parser.Schema), issues: issues}
}

func (sm *schemaMapper) warn(path, msg string) {
	*sm.issues = append(*sm.issues, ConversionIssue{Path: path, Message: msg, Severity: SeverityWarning})
}

// schemaFor returns the schema of t. Module types are returned as
// component references.
func (sm *schemaMapper) schemaFor(t service.TypeRef, path string) *parser.Schema {
	switch v := t.(type) {
	case nil:
		return &parser.Schema{}
	case service.Builtin:
		return sm.builtin(v, path)
	case service.Named:
		return sm.named(v, path)
	case service.Array:
		if b, ok := v.Elem.(service.Builtin); ok && b == service.Byte {
			return &parser.Schema{Type: "string", Format: "byte"}
		}
		return &parser.Schema{Type: "array", Items: sm.schemaFor(v.Elem, path+".items")}
	case service.Optional:
		return nullable(sm.schemaFor(v.Elem, path))
	case service.Union:
		return sm.union(v, path)
	case service.Map:
		s := &parser.Schema{Type: "object"}
		if isOpen(v.Value) {
			s.AdditionalProperties = true
		} else {
			s.AdditionalProperties = sm.schemaFor(v.Value, path+".additionalProperties")
		}
		return s
	case service.Stream:
		return sm.schemaFor(v.Elem, path)
	}
	sm.warn(path, fmt.Sprintf("type %s has no schema mapping", t))
	return &parser.Schema{}
}

func (sm *schemaMapper) builtin(b service.Builtin, path string) *parser.Schema {
	switch b {
	case service.String:
		return &parser.Schema{Type: "string"}
	case service.Int:
		return &parser.Schema{Type: "integer", Format: "int64"}
	case service.Byte:
		return &parser.Schema{Type: "integer", Format: "int32"}
	case service.Float:
		return &parser.Schema{Type: "number", Format: "float"}
	case service.Decimal:
		return &parser.Schema{Type: "number", Format: "double"}
	case service.Boolean:
		return &parser.Schema{Type: "boolean"}
	case service.JSON, service.Anydata, service.Any:
		return &parser.Schema{}
	case service.Nil:
		return &parser.Schema{Type: "null"}
	}
	sm.warn(path, fmt.Sprintf("type %s cannot appear in a message schema", b))
	return &parser.Schema{}
}

func (sm *schemaMapper) union(u service.Union, path string) *parser.Schema {
	var members []*parser.Schema
	hasNil := false
	for i, m := range u.Members {
		switch {
		case service.IsNil(m):
			hasNil = true
		case service.IsError(m):
			continue
		default:
			members = append(members, sm.schemaFor(m, fmt.Sprintf("%s.oneOf[%d]", path, i)))
		}
	}
	var s *parser.Schema
	switch len(members) {
	case 0:
		s = &parser.Schema{}
	case 1:
		s = members[0]
	default:
		s = &parser.Schema{OneOf: members}
	}
	if hasNil {
		s = nullable(s)
	}
	return s
}

func (sm *schemaMapper) named(n service.Named, path string) *parser.Schema {
	if n.IsQualified() {
		sm.warn(path, fmt.Sprintf("type %s is defined outside the module; mapped to an open schema", n))
		return &parser.Schema{}
	}
	td := sm.module.Type(n.Name)
	if td == nil {
		sm.warn(path, fmt.Sprintf("type %s is not defined in the module", n.Name))
		return &parser.Schema{}
	}
	sm.register(td)
	return &parser.Schema{Ref: parser.SchemaRefPrefix + n.Name}
}

// register adds td to components.schemas. The placeholder entry stops
// recursion on self-referencing records.
func (sm *schemaMapper) register(td *service.TypeDef) {
	if _, ok := sm.schemas[td.Name]; ok {
		return
	}
	placeholder := &parser.Schema{}
	sm.schemas[td.Name] = placeholder

	path := "components.schemas." + td.Name
	var s *parser.Schema
	if td.Record != nil {
		s = sm.record(td.Record, path)
	} else {
		s = sm.schemaFor(td.Alias, path)
		if s.Ref != "" {
			s = &parser.Schema{AllOf: []*parser.Schema{s}}
		}
	}
	if td.Doc != "" {
		s.Description = strings.TrimSpace(td.Doc)
	}
	*placeholder = *s
}

func (sm *schemaMapper) record(r *service.Record, path string) *parser.Schema {
	s := &parser.Schema{Type: "object", Properties: make(map[string]*parser.Schema, len(r.Fields))}
	for _, f := range r.Fields {
		name := naming.Unescape(f.Name)
		fs := sm.schemaFor(f.Type, path+".properties."+name)
		if f.Default != "" {
			if fs.Ref != "" {
				fs = &parser.Schema{AllOf: []*parser.Schema{fs}}
			}
			fs.Default = literalValue(f.Default)
		}
		if f.Doc != "" && fs.Ref == "" {
			fs.Description = strings.TrimSpace(f.Doc)
		}
		s.Properties[name] = fs
		if !f.Optional && f.Default == "" {
			s.Required = append(s.Required, name)
		}
	}
	if r.Closed {
		s.AdditionalProperties = false
	}
	return s
}

func isOpen(t service.TypeRef) bool {
	b, ok := t.(service.Builtin)
	return ok && (b == service.JSON || b == service.Anydata || b == service.Any)
}

// nullable marks s with x-nullable, copying it first so shared component
// references are never mutated.
func nullable(s *parser.Schema) *parser.Schema {
	out := *s
	extra := make(map[string]any, len(s.Extra)+1)
	for k, v := range s.Extra {
		extra[k] = v
	}
	extra[nullableExtension] = true
	out.Extra = extra
	return &out
}

// literalValue converts a host literal expression into a document value.
// Unrecognised expressions are kept as their source text.
func literalValue(expr string) any {
	expr = strings.TrimSpace(expr)
	switch expr {
	case "true":
		return true
	case "false":
		return false
	case "()":
		return nil
	}
	if strings.HasPrefix(expr, `"`) {
		if s, err := strconv.Unquote(expr); err == nil {
			return s
		}
		return naming.StripQuotes(expr)
	}
	if i, err := strconv.ParseInt(expr, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(expr, 64); err == nil {
		return f
	}
	return expr
}
