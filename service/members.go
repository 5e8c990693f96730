package service

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"
)

// Member is a member of a service or class body. The set of
// implementations is closed: ResourceFunction, RemoteFunction and
// ObjectField.
type Member interface {
	member()
}

// Members is an ordered member list. It decodes from a YAML sequence whose
// entries carry a kind of "resource", "remote" or "field".
type Members []Member

// ResourceFunction is a resource method such as
// resource function get rooms/[string id](...) returns RoomService.
type ResourceFunction struct {
	Accessor string
	Path     []PathSegment
	Params   []Param
	Returns  TypeRef
	Doc      string
}

// RemoteFunction is a remote method of a service class.
type RemoteFunction struct {
	Name    string
	Params  []Param
	Returns TypeRef
	Doc     string
}

// ObjectField is a field declared in a class body.
type ObjectField struct {
	Name  string
	Type  TypeRef
	Final bool
}

func (*ResourceFunction) member() {}
func (*RemoteFunction) member()   {}
func (*ObjectField) member()      {}

// PathSegment is one segment of a resource path. Exactly one of Literal
// and Param is set.
type PathSegment struct {
	Literal string
	Param   *PathParam
}

// PathParam is a path parameter segment written as [T name].
type PathParam struct {
	Name string
	Type TypeRef
}

// ParseResourcePath parses a resource path such as "rooms/[string id]".
// The root path is written "." or left empty and has no segments.
func ParseResourcePath(text string) ([]PathSegment, error) {
	text = strings.Trim(strings.TrimSpace(text), "/")
	if text == "" || text == "." {
		return nil, nil
	}
	var segs []PathSegment
	for _, part := range strings.Split(text, "/") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty segment in resource path %q", text)
		}
		if !strings.HasPrefix(part, "[") {
			if strings.ContainsAny(part, "[]{} ") {
				return nil, fmt.Errorf("malformed segment %q in resource path %q", part, text)
			}
			segs = append(segs, PathSegment{Literal: part})
			continue
		}
		if !strings.HasSuffix(part, "]") {
			return nil, fmt.Errorf("unterminated parameter segment %q in resource path %q", part, text)
		}
		inner := strings.TrimSpace(part[1 : len(part)-1])
		i := strings.LastIndexAny(inner, " \t")
		if i < 0 {
			return nil, fmt.Errorf("parameter segment %q needs a type and a name", part)
		}
		t, err := ParseTypeRef(inner[:i])
		if err != nil {
			return nil, err
		}
		segs = append(segs, PathSegment{Param: &PathParam{Name: strings.TrimSpace(inner[i+1:]), Type: t}})
	}
	return segs, nil
}

// Channel returns the AsyncAPI channel name for the resource path,
// joining the service base path with the resource segments and writing
// path parameters as {name}.
func (r *ResourceFunction) Channel(basePath string) string {
	var b strings.Builder
	base := strings.TrimRight(basePath, "/")
	if base != "" && !strings.HasPrefix(base, "/") {
		b.WriteByte('/')
	}
	b.WriteString(base)
	for _, s := range r.Path {
		b.WriteByte('/')
		if s.Param != nil {
			b.WriteString("{" + s.Param.Name + "}")
		} else {
			b.WriteString(s.Literal)
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// PathParams returns the path parameter segments in order.
func (r *ResourceFunction) PathParams() []PathParam {
	var out []PathParam
	for _, s := range r.Path {
		if s.Param != nil {
			out = append(out, *s.Param)
		}
	}
	return out
}

type memberNode struct {
	Kind     string  `yaml:"kind"`
	Accessor string  `yaml:"accessor"`
	Path     string  `yaml:"path"`
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Final    bool    `yaml:"final"`
	Params   []Param `yaml:"params"`
	Returns  string  `yaml:"returns"`
	Doc      string  `yaml:"doc"`
}

// UnmarshalYAML decodes a member sequence.
func (ms *Members) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: members must be a sequence", node.Line)
	}
	out := make(Members, 0, len(node.Content))
	for _, item := range node.Content {
		m, err := decodeMember(item)
		if err != nil {
			return err
		}
		out = append(out, m)
	}
	*ms = out
	return nil
}

func decodeMember(node *yaml.Node) (Member, error) {
	var raw memberNode
	if err := node.Decode(&raw); err != nil {
		return nil, err
	}
	returns, err := optionalTypeRef(raw.Returns)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", node.Line, err)
	}
	switch raw.Kind {
	case "resource":
		if raw.Accessor == "" {
			return nil, fmt.Errorf("line %d: resource function without an accessor", node.Line)
		}
		path, err := ParseResourcePath(raw.Path)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return &ResourceFunction{
			Accessor: strings.ToLower(raw.Accessor),
			Path:     path,
			Params:   raw.Params,
			Returns:  returns,
			Doc:      raw.Doc,
		}, nil
	case "remote":
		if raw.Name == "" {
			return nil, fmt.Errorf("line %d: remote function without a name", node.Line)
		}
		return &RemoteFunction{Name: raw.Name, Params: raw.Params, Returns: returns, Doc: raw.Doc}, nil
	case "field":
		t, err := ParseTypeRef(raw.Type)
		if err != nil {
			return nil, fmt.Errorf("line %d: field %s: %w", node.Line, raw.Name, err)
		}
		return &ObjectField{Name: raw.Name, Type: t, Final: raw.Final}, nil
	case "":
		return nil, fmt.Errorf("line %d: member without a kind", node.Line)
	}
	return nil, fmt.Errorf("line %d: unknown member kind %q", node.Line, raw.Kind)
}

func optionalTypeRef(text string) (TypeRef, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return ParseTypeRef(text)
}
