package generator

import (
	"fmt"
	"sort"

	"github.com/thushalya/asyncapi-tools-1/internal/naming"
	"github.com/thushalya/asyncapi-tools-1/parser"
	"github.com/thushalya/asyncapi-tools-1/syntax"
)

// schemaTypeGenerator converts component schemas into type definitions.
// Unmappable constructs degrade to anydata and are reported as issues.
type schemaTypeGenerator struct {
	issues []GenerateIssue
}

func (g *schemaTypeGenerator) addIssue(path, message string, sev Severity) {
	g.issues = append(g.issues, GenerateIssue{Path: path, Message: message, Severity: sev})
}

// generateSchemaTypes returns one type definition per component schema, in
// name order. Duplicate names after escaping are reported and skipped.
func (g *schemaTypeGenerator) generateSchemaTypes(schemas map[string]*parser.Schema) []*syntax.TypeDefinition {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]string, len(names))
	defs := make([]*syntax.TypeDefinition, 0, len(names))
	for _, name := range names {
		typeName := naming.ValidName(name, true)
		path := fmt.Sprintf("components.schemas.%s", name)
		if other, dup := seen[typeName]; dup {
			g.addIssue(path, fmt.Sprintf("type name %s is already used by schema %q; schema skipped", typeName, other), SeverityWarning)
			continue
		}
		seen[typeName] = name
		defs = append(defs, g.typeDefinition(typeName, schemas[name], path))
	}
	return defs
}

func (g *schemaTypeGenerator) typeDefinition(name string, s *parser.Schema, path string) *syntax.TypeDefinition {
	td := &syntax.TypeDefinition{Name: name, Public: true}
	if s == nil {
		td.Alias = syntax.Anydata
		return td
	}
	td.Doc = s.Description
	if s.Ref == "" && s.IsObject() && s.AdditionalProperties == nil {
		td.Record = g.recordType(s, path)
		return td
	}
	td.Alias = g.typeDesc(s, path)
	return td
}

func (g *schemaTypeGenerator) recordType(s *parser.Schema, path string) *syntax.RecordType {
	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}
	props := make([]string, 0, len(s.Properties))
	for p := range s.Properties {
		props = append(props, p)
	}
	sort.Strings(props)

	rec := &syntax.RecordType{}
	seen := make(map[string]bool, len(props))
	for _, p := range props {
		field := naming.ValidName(p, false)
		if seen[field] {
			g.addIssue(path+"."+p, fmt.Sprintf("field name %s clashes with another property; property skipped", field), SeverityWarning)
			continue
		}
		seen[field] = true
		prop := s.Properties[p]
		rf := syntax.RecordField{
			Name:     field,
			Type:     g.typeDesc(prop, path+"."+p),
			Optional: !required[p],
		}
		if prop != nil {
			rf.Doc = prop.Description
		}
		rec.Fields = append(rec.Fields, rf)
	}
	return rec
}

func (g *schemaTypeGenerator) typeDesc(s *parser.Schema, path string) syntax.TypeDesc {
	if s == nil {
		return syntax.Anydata
	}
	desc := g.baseTypeDesc(s, path)
	if s.Nullable() && !syntax.IsOptional(desc) {
		desc = syntax.Optional{Elem: desc}
	}
	return desc
}

func (g *schemaTypeGenerator) baseTypeDesc(s *parser.Schema, path string) syntax.TypeDesc {
	if s.Ref != "" {
		return syntax.Ref(ResolveRefName(s.Ref))
	}
	if variants := append(append([]*parser.Schema{}, s.OneOf...), s.AnyOf...); len(variants) > 0 {
		members := make([]syntax.TypeDesc, 0, len(variants))
		for i, v := range variants {
			members = append(members, g.typeDesc(v, fmt.Sprintf("%s.oneOf[%d]", path, i)))
		}
		return syntax.NewUnion(members...)
	}
	if len(s.AllOf) > 0 {
		g.addIssue(path, "allOf is not supported; type mapped to anydata", SeverityWarning)
		return syntax.Anydata
	}

	hostType, ok := ToHostType(s.Type, s.Format)
	if !ok {
		if s.Type != "" {
			g.addIssue(path, fmt.Sprintf("unsupported schema type %q; type mapped to anydata", s.Type), SeverityWarning)
		}
		return syntax.Anydata
	}
	switch hostType {
	case hostArray:
		if s.Items == nil {
			g.addIssue(path, "array schema declares no items; element type mapped to anydata", SeverityInfo)
			return syntax.Array{Elem: syntax.Anydata}
		}
		return syntax.Array{Elem: g.typeDesc(s.Items, path+".items")}
	case hostOpenRecord:
		switch ap := s.AdditionalProperties.(type) {
		case map[string]any:
			if len(ap) > 0 {
				g.addIssue(path, "inline additionalProperties schemas are mapped to map<anydata>", SeverityInfo)
			}
			return syntax.Map{Value: syntax.Anydata}
		case bool:
			if ap {
				return syntax.Map{Value: syntax.Anydata}
			}
		}
		return syntax.OpenRecord
	}
	desc, _ := scalarTypeDesc(hostType)
	return desc
}
