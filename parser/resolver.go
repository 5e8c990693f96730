package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/thushalya/asyncapi-tools-1/asyncerrors"
)

const (
	// MaxRefDepth is the maximum number of $ref hops followed for one schema.
	MaxRefDepth = 64

	// MaxCachedDocuments is the maximum number of external documents loaded
	// while resolving references.
	MaxCachedDocuments = 32
)

// refResolver follows $ref chains through component schemas and parameters.
// Local refs ("#/components/schemas/X") resolve against the parsed document;
// relative file refs ("common.yaml#/components/schemas/X") are loaded once
// from disk relative to the source document.
type refResolver struct {
	root      *Document
	baseDir   string
	documents map[string]*Document
}

func newRefResolver(pr *ParseResult) *refResolver {
	return &refResolver{
		root:      pr.Document,
		baseDir:   pr.baseDir,
		documents: make(map[string]*Document),
	}
}

// ResolveSchema follows the $ref chain starting at s and returns the target
// schema together with the name of the last component referenced (empty if s
// was not a reference). Cycles and missing targets are reported as
// *asyncerrors.ReferenceError.
func (pr *ParseResult) ResolveSchema(s *Schema) (*Schema, string, error) {
	if pr.refs == nil {
		pr.refs = newRefResolver(pr)
	}
	return pr.refs.schema(s)
}

// ResolveParameter returns the parameter p refers to, or p itself when it is
// not a reference.
func (pr *ParseResult) ResolveParameter(p *Parameter) (*Parameter, error) {
	if p == nil || p.Ref == "" {
		return p, nil
	}
	if pr.refs == nil {
		pr.refs = newRefResolver(pr)
	}
	doc, name, err := pr.refs.target(pr.Document, p.Ref, "#/components/parameters/")
	if err != nil {
		return nil, err
	}
	if doc.Components == nil || doc.Components.Parameters[name] == nil {
		return nil, &asyncerrors.ReferenceError{Ref: p.Ref, Message: "parameter not found"}
	}
	return doc.Components.Parameters[name], nil
}

// Schemas returns the component schemas of the root document.
func (pr *ParseResult) Schemas() map[string]*Schema {
	if pr.Document == nil || pr.Document.Components == nil {
		return nil
	}
	return pr.Document.Components.Schemas
}

func (r *refResolver) schema(s *Schema) (*Schema, string, error) {
	seen := make(map[string]bool)
	name := ""
	current := r.root
	for depth := 0; s != nil && s.Ref != ""; depth++ {
		if depth >= MaxRefDepth {
			return nil, "", &asyncerrors.ReferenceError{Ref: s.Ref, Message: fmt.Sprintf("exceeded maximum depth of %d", MaxRefDepth)}
		}
		if seen[s.Ref] {
			return nil, "", &asyncerrors.ReferenceError{Ref: s.Ref, IsCircular: true}
		}
		seen[s.Ref] = true

		doc, target, err := r.target(current, s.Ref, SchemaRefPrefix)
		if err != nil {
			return nil, "", err
		}
		var next *Schema
		if doc.Components != nil {
			next = doc.Components.Schemas[target]
		}
		if next == nil {
			return nil, "", &asyncerrors.ReferenceError{Ref: s.Ref, Message: "schema not found"}
		}
		name = target
		current = doc
		s = next
	}
	return s, name, nil
}

// target splits ref into the document it points into and the component name
// under prefix. Fragment-only refs stay within current.
func (r *refResolver) target(current *Document, ref, prefix string) (*Document, string, error) {
	file, fragment, _ := strings.Cut(ref, "#")
	fragment = "#" + fragment
	if !strings.HasPrefix(fragment, prefix) {
		return nil, "", &asyncerrors.ReferenceError{Ref: ref, Message: fmt.Sprintf("expected a reference under %s", prefix)}
	}
	name := strings.TrimPrefix(fragment, prefix)
	if name == "" || strings.Contains(name, "/") {
		return nil, "", &asyncerrors.ReferenceError{Ref: ref, Message: "malformed component reference"}
	}
	if file == "" {
		return current, name, nil
	}
	doc, err := r.load(file)
	if err != nil {
		return nil, "", &asyncerrors.ReferenceError{Ref: ref, Message: err.Error()}
	}
	return doc, name, nil
}

func (r *refResolver) load(file string) (*Document, error) {
	if strings.Contains(file, "://") {
		return nil, fmt.Errorf("remote references are not supported")
	}
	path := filepath.Clean(filepath.Join(r.baseDir, file))
	rel, err := filepath.Rel(r.baseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("reference escapes the document directory")
	}
	if doc, ok := r.documents[path]; ok {
		return doc, nil
	}
	if len(r.documents) >= MaxCachedDocuments {
		return nil, fmt.Errorf("too many external documents (max %d)", MaxCachedDocuments)
	}
	data, err := os.ReadFile(path) //nolint:gosec // confined to baseDir above
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	r.documents[path] = &doc
	return &doc, nil
}
