package service

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"
)

// Module is a decoded host module: its service declarations, the classes
// the services return from their resources, and the type definitions
// the handlers reference.
type Module struct {
	Services []*Service `yaml:"services"`
	Classes  []*Class   `yaml:"classes,omitempty"`
	Types    []*TypeDef `yaml:"types,omitempty"`
	Imports  []string   `yaml:"imports,omitempty"`
}

// Service is a service declaration attached to a listener.
type Service struct {
	// BasePath is the absolute resource path of the service ("/chat")
	BasePath    string       `yaml:"basePath"`
	Annotations []Annotation `yaml:"annotations,omitempty"`
	Members     Members      `yaml:"members"`
	Doc         string       `yaml:"doc,omitempty"`
}

// Class is a class definition. The services returned by websocket upgrade
// resources are service classes holding remote functions.
type Class struct {
	Name       string   `yaml:"name"`
	Qualifiers []string `yaml:"qualifiers,omitempty"`
	Members    Members  `yaml:"members"`
	Doc        string   `yaml:"doc,omitempty"`
}

// IsService reports whether c is declared with the service qualifier.
func (c *Class) IsService() bool {
	for _, q := range c.Qualifiers {
		if q == "service" {
			return true
		}
	}
	return false
}

// RemoteFunctions returns the remote functions of c in declaration order.
func (c *Class) RemoteFunctions() []*RemoteFunction {
	var out []*RemoteFunction
	for _, m := range c.Members {
		if fn, ok := m.(*RemoteFunction); ok {
			out = append(out, fn)
		}
	}
	return out
}

// Annotation is an annotation attachment such as
// @websocket:ServiceConfig {dispatcherKey: "event"}. Field values are kept
// as source expressions.
type Annotation struct {
	Ref    string            `yaml:"ref"`
	Fields map[string]string `yaml:"fields,omitempty"`
}

// Qualified splits the annotation reference into module prefix and name.
func (a Annotation) Qualified() (module, name string) {
	if m, n, ok := strings.Cut(a.Ref, ":"); ok {
		return strings.TrimSpace(m), strings.TrimSpace(n)
	}
	return "", strings.TrimSpace(a.Ref)
}

// Is reports whether a refers to module:name.
func (a Annotation) Is(module, name string) bool {
	m, n := a.Qualified()
	return m == module && n == name
}

// Field returns the source expression of the field called name.
func (a Annotation) Field(name string) (string, bool) {
	v, ok := a.Fields[name]
	return v, ok
}

// FindAnnotation returns the first annotation in list that refers to
// module:name.
func FindAnnotation(list []Annotation, module, name string) (Annotation, bool) {
	for _, a := range list {
		if a.Is(module, name) {
			return a, true
		}
	}
	return Annotation{}, false
}

// Param is a function parameter.
type Param struct {
	Name string
	Type TypeRef
	// Default is the default value as a source expression; empty when the
	// parameter is required
	Default     string
	Annotations []Annotation
	Doc         string
}

// UnmarshalYAML decodes a parameter and parses its type descriptor.
func (p *Param) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Name        string       `yaml:"name"`
		Type        string       `yaml:"type"`
		Default     string       `yaml:"default"`
		Annotations []Annotation `yaml:"annotations"`
		Doc         string       `yaml:"doc"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Name == "" {
		return fmt.Errorf("line %d: parameter without a name", node.Line)
	}
	t, err := ParseTypeRef(raw.Type)
	if err != nil {
		return fmt.Errorf("line %d: parameter %s: %w", node.Line, raw.Name, err)
	}
	*p = Param{Name: raw.Name, Type: t, Default: raw.Default, Annotations: raw.Annotations, Doc: raw.Doc}
	return nil
}

// TypeDef is a module-level type definition. Exactly one of Record and
// Alias is set.
type TypeDef struct {
	Name   string
	Doc    string
	Record *Record
	Alias  TypeRef
}

// Record is a record type descriptor.
type Record struct {
	Closed bool
	Fields []RecordField
}

// RecordField is a field of a record type.
type RecordField struct {
	Name     string
	Type     TypeRef
	Optional bool
	Default  string
	Doc      string
}

// Field returns the field called name.
func (r *Record) Field(name string) (RecordField, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return RecordField{}, false
}

// UnmarshalYAML decodes a type definition. A definition carries either a
// record body or an alias type descriptor.
func (td *TypeDef) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Name   string `yaml:"name"`
		Doc    string `yaml:"doc"`
		Alias  string `yaml:"alias"`
		Record *struct {
			Closed bool `yaml:"closed"`
			Fields []struct {
				Name     string `yaml:"name"`
				Type     string `yaml:"type"`
				Optional bool   `yaml:"optional"`
				Default  string `yaml:"default"`
				Doc      string `yaml:"doc"`
			} `yaml:"fields"`
		} `yaml:"record"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Name == "" {
		return fmt.Errorf("line %d: type definition without a name", node.Line)
	}
	out := TypeDef{Name: raw.Name, Doc: raw.Doc}
	switch {
	case raw.Record != nil && raw.Alias != "":
		return fmt.Errorf("line %d: type %s declares both a record and an alias", node.Line, raw.Name)
	case raw.Record != nil:
		out.Record = &Record{Closed: raw.Record.Closed}
		for _, f := range raw.Record.Fields {
			t, err := ParseTypeRef(f.Type)
			if err != nil {
				return fmt.Errorf("line %d: field %s.%s: %w", node.Line, raw.Name, f.Name, err)
			}
			if f.Optional && f.Default != "" {
				return fmt.Errorf("line %d: field %s.%s cannot be both optional and defaulted", node.Line, raw.Name, f.Name)
			}
			out.Record.Fields = append(out.Record.Fields, RecordField{
				Name:     f.Name,
				Type:     t,
				Optional: f.Optional,
				Default:  f.Default,
				Doc:      f.Doc,
			})
		}
	case raw.Alias != "":
		t, err := ParseTypeRef(raw.Alias)
		if err != nil {
			return fmt.Errorf("line %d: type %s: %w", node.Line, raw.Name, err)
		}
		out.Alias = t
	default:
		return fmt.Errorf("line %d: type %s declares neither a record nor an alias", node.Line, raw.Name)
	}
	*td = out
	return nil
}

// Class returns the class called name, or nil.
func (m *Module) Class(name string) *Class {
	for _, c := range m.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Type returns the type definition called name, or nil.
func (m *Module) Type(name string) *TypeDef {
	for _, t := range m.Types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Service returns the service mounted at basePath, or nil.
func (m *Module) Service(basePath string) *Service {
	for _, s := range m.Services {
		if s.BasePath == basePath {
			return s
		}
	}
	return nil
}
