package generator

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/thushalya/asyncapi-tools-1/asyncerrors"
	"github.com/thushalya/asyncapi-tools-1/internal/naming"
	"github.com/thushalya/asyncapi-tools-1/parser"
	"github.com/thushalya/asyncapi-tools-1/syntax"
)

// ParameterLocation is where a channel parameter is sent.
type ParameterLocation string

const (
	// LocationPath marks a placeholder in the channel name.
	LocationPath ParameterLocation = "path"
	// LocationQuery marks a query string parameter from bindings.ws.query.
	LocationQuery ParameterLocation = "query"
	// LocationHeader marks a handshake header from bindings.ws.headers.
	LocationHeader ParameterLocation = "header"
)

// ChannelParameter is a channel parameter mapped to a constructor parameter.
type ChannelParameter struct {
	// Name is the parameter name as declared in the document
	Name string
	// Ident is the host identifier used for the constructor parameter
	Ident string
	// Location is where the value is sent
	Location ParameterLocation
	// Type is the host type of the parameter
	Type syntax.TypeDesc
	// Default is the default value; nil means the parameter is required
	Default syntax.Expr
	// Description is the documented meaning of the parameter
	Description string
}

// Required reports whether the parameter has no default.
func (p ChannelParameter) Required() bool { return p.Default == nil }

// Param returns the constructor parameter for p.
func (p ChannelParameter) Param() syntax.Param {
	return syntax.Param{Name: p.Ident, Type: p.Type, Default: p.Default, Doc: p.Description}
}

// SchemaResolver follows component references. *parser.ParseResult
// implements it.
type SchemaResolver interface {
	ResolveSchema(s *parser.Schema) (*parser.Schema, string, error)
	ResolveParameter(p *parser.Parameter) (*parser.Parameter, error)
}

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// MapChannelParameters maps the path placeholders and websocket binding
// parameters of a channel to constructor parameters.
//
// The channel must carry a ws binding. Path parameters come first in the
// order they appear in the channel name, followed by query and header
// parameters in name order. The result is stable-partitioned so that every
// required parameter precedes every defaultable one.
func MapChannelParameters(name string, ch *parser.Channel, resolver SchemaResolver) ([]ChannelParameter, error) {
	if ch == nil || ch.Bindings == nil || ch.Bindings.WS == nil {
		return nil, &asyncerrors.BindingError{Channel: name, Message: "supports only websocket protocol"}
	}

	var params []ChannelParameter
	pathParams, err := mapPathParameters(name, ch, resolver)
	if err != nil {
		return nil, err
	}
	params = append(params, pathParams...)

	for _, loc := range []ParameterLocation{LocationQuery, LocationHeader} {
		key := "query"
		if loc == LocationHeader {
			key = "headers"
		}
		raw, ok := ch.Bindings.WS[key]
		if !ok || raw == nil {
			continue
		}
		bindingParams, err := mapBindingParameters(name, loc, raw)
		if err != nil {
			return nil, err
		}
		params = append(params, bindingParams...)
	}

	seen := make(map[string]string, len(params))
	for _, p := range params {
		if other, dup := seen[p.Ident]; dup {
			return nil, &asyncerrors.ParameterError{
				Channel:   name,
				Parameter: p.Name,
				Location:  string(p.Location),
				Message:   fmt.Sprintf("Parameter name clashes with parameter %q", other),
			}
		}
		seen[p.Ident] = p.Name
	}

	sort.SliceStable(params, func(i, j int) bool {
		return params[i].Required() && !params[j].Required()
	})
	return params, nil
}

// PathPlaceholders returns the placeholder names of a channel name in order
// of appearance, without duplicates.
func PathPlaceholders(channel string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(channel, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

func mapPathParameters(channel string, ch *parser.Channel, resolver SchemaResolver) ([]ChannelParameter, error) {
	names := PathPlaceholders(channel)
	referenced := make(map[string]bool, len(names))
	for _, n := range names {
		referenced[n] = true
	}
	var extra []string
	for n := range ch.Parameters {
		if !referenced[n] {
			extra = append(extra, n)
		}
	}
	sort.Strings(extra)
	names = append(names, extra...)

	params := make([]ChannelParameter, 0, len(names))
	for _, n := range names {
		p, err := mapPathParameter(channel, n, ch.Parameters[n], resolver)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

func mapPathParameter(channel, name string, decl *parser.Parameter, resolver SchemaResolver) (ChannelParameter, error) {
	out := ChannelParameter{
		Name:     name,
		Ident:    naming.ValidName(name, false),
		Location: LocationPath,
		Type:     syntax.String,
	}
	if decl == nil {
		return out, nil
	}
	paramErr := func(msg string, cause error) error {
		return &asyncerrors.ParameterError{Channel: channel, Parameter: name, Location: string(LocationPath), Message: msg, Cause: cause}
	}

	resolved, err := resolver.ResolveParameter(decl)
	if err != nil {
		return out, paramErr("Unable to resolve the parameter", err)
	}
	out.Description = resolved.Description
	if resolved.Schema == nil {
		return out, nil
	}
	schema, _, err := resolver.ResolveSchema(resolved.Schema)
	if err != nil {
		return out, paramErr("Unable to resolve the parameter schema", err)
	}
	if schema.IsObject() {
		return out, paramErr("does not support object type path parameters", nil)
	}
	hostType, ok := ToHostType(schema.Type, schema.Format)
	if !ok {
		return out, paramErr(msgUnsupportedType, nil)
	}
	desc, ok := scalarTypeDesc(hostType)
	if !ok {
		return out, paramErr(msgUnsupportedType, nil)
	}
	out.Type = desc
	if out.Description == "" {
		out.Description = schema.Description
	}
	return out, nil
}

// decodeBindingSchema decodes a JSON Schema fragment taken from a binding
// object.
func decodeBindingSchema(raw any) (*openapi3.Schema, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var s openapi3.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func mapBindingParameters(channel string, loc ParameterLocation, raw any) ([]ChannelParameter, error) {
	schema, err := decodeBindingSchema(raw)
	if err != nil {
		return nil, &asyncerrors.ParameterError{
			Channel:  channel,
			Location: string(loc),
			Message:  fmt.Sprintf("Invalid %s binding schema", loc),
			Cause:    err,
		}
	}

	names := make([]string, 0, len(schema.Properties))
	for n := range schema.Properties {
		names = append(names, n)
	}
	sort.Strings(names)

	params := make([]ChannelParameter, 0, len(names))
	for _, n := range names {
		p, err := mapBindingParameter(channel, loc, n, schema.Properties[n])
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

func mapBindingParameter(channel string, loc ParameterLocation, name string, ref *openapi3.SchemaRef) (ChannelParameter, error) {
	paramErr := func(msg string) error {
		return &asyncerrors.ParameterError{Channel: channel, Parameter: name, Location: string(loc), Message: msg}
	}
	unsupported := paramErr(msgUnsupportedType)

	if ref == nil || ref.Value == nil {
		return ChannelParameter{}, unsupported
	}
	s := ref.Value
	var typ syntax.TypeDesc

	switch schemaType(s) {
	case "array":
		if loc == LocationHeader {
			return ChannelParameter{}, unsupported
		}
		if s.Items == nil {
			return ChannelParameter{}, paramErr(msgMissingItemType)
		}
		elem, failure := arrayItemType(s.Items)
		if failure != "" {
			return ChannelParameter{}, paramErr(failure)
		}
		typ = syntax.Array{Elem: elem}
	default:
		hostType, ok := ToHostType(schemaType(s), s.Format)
		if !ok {
			return ChannelParameter{}, unsupported
		}
		desc, ok := scalarTypeDesc(hostType)
		if !ok || hostType == hostByteArray {
			return ChannelParameter{}, unsupported
		}
		typ = desc
	}

	nullable, _ := s.Extensions["x-nullable"].(bool)
	nullable = nullable || s.Nullable
	if nullable {
		if loc == LocationHeader {
			return ChannelParameter{}, unsupported
		}
		typ = syntax.Optional{Elem: typ}
	}

	out := ChannelParameter{
		Name:        name,
		Ident:       naming.ValidName(name, false),
		Location:    loc,
		Type:        typ,
		Description: s.Description,
	}
	if s.Default != nil {
		def, err := defaultLiteral(typ, s.Default)
		if err != nil {
			return ChannelParameter{}, paramErr(fmt.Sprintf("Unsupported default value is found in the parameter (%v)", err))
		}
		out.Default = def
	}
	return out, nil
}

// Failure messages for array parameters.
const (
	msgMissingItemType = "Please define the array item type of the parameter"
	msgUnsupportedType = "Unsupported parameter type is found in the parameter"
)

// arrayItemType maps the item schema of a query array parameter. Items may
// be string, integer, boolean or number schemas, or a component reference.
// A non-empty second result is the failure message.
func arrayItemType(items *openapi3.SchemaRef) (syntax.TypeDesc, string) {
	if items.Ref != "" {
		return syntax.Ref(ResolveRefName(items.Ref)), ""
	}
	if items.Value == nil {
		return nil, msgMissingItemType
	}
	switch t := schemaType(items.Value); t {
	case "string", "integer", "boolean", "number":
		hostType, _ := ToHostType(t, items.Value.Format)
		desc, ok := scalarTypeDesc(hostType)
		if !ok || hostType == hostByteArray {
			return nil, msgUnsupportedType
		}
		return desc, ""
	case "":
		return nil, msgMissingItemType
	default:
		return nil, msgUnsupportedType
	}
}

func schemaType(s *openapi3.Schema) string {
	if s == nil || s.Type == nil || len(*s.Type) == 0 {
		return ""
	}
	return (*s.Type)[0]
}

// defaultLiteral renders a decoded JSON default value as a literal of the
// parameter type. String parameters always get a quoted literal. Other
// scalar parameters take the value unquoted, and a string value must parse
// as that type.
func defaultLiteral(typ syntax.TypeDesc, v any) (syntax.Expr, error) {
	switch t := typ.(type) {
	case syntax.Optional:
		return defaultLiteral(t.Elem, v)
	case syntax.Array:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%v is not an array", v)
		}
		parts := make([]string, len(items))
		for i, item := range items {
			e, err := defaultLiteral(t.Elem, item)
			if err != nil {
				return nil, err
			}
			parts[i] = e.String()
		}
		return syntax.Raw{Text: "[" + strings.Join(parts, ", ") + "]"}, nil
	case syntax.Builtin:
		return builtinLiteral(t, v)
	default:
		// Referenced item types are not resolved here; the value decides.
		return valueLiteral(v)
	}
}

func builtinLiteral(t syntax.Builtin, v any) (syntax.Expr, error) {
	text, err := scalarText(v)
	if err != nil {
		return nil, err
	}
	switch t {
	case syntax.String:
		return syntax.Str(text), nil
	case syntax.Boolean:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", text)
		}
		if b {
			return syntax.True, nil
		}
		return syntax.False, nil
	case syntax.Int:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", text)
		}
		return syntax.Num(strconv.FormatInt(n, 10)), nil
	case syntax.Float, syntax.Decimal:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%q is not a number", text)
		}
		return syntax.Num(strconv.FormatFloat(f, 'f', -1, 64)), nil
	default:
		return nil, fmt.Errorf("no literal form for %s", t)
	}
}

// scalarText returns the source form of a decoded JSON scalar.
func scalarText(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported literal of type %T", v)
	}
}

// valueLiteral renders a decoded JSON scalar by its own type.
func valueLiteral(v any) (syntax.Expr, error) {
	switch v := v.(type) {
	case string:
		return syntax.Str(v), nil
	case bool:
		if v {
			return syntax.True, nil
		}
		return syntax.False, nil
	case float64:
		return syntax.Num(strconv.FormatFloat(v, 'f', -1, 64)), nil
	default:
		return nil, fmt.Errorf("unsupported literal of type %T", v)
	}
}
