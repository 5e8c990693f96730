package parser

import "strings"

// Document is an AsyncAPI 2.x document.
type Document struct {
	AsyncAPI           string              `yaml:"asyncapi" json:"asyncapi"`
	ID                 string              `yaml:"id,omitempty" json:"id,omitempty"`
	Info               *Info               `yaml:"info,omitempty" json:"info,omitempty"`
	Servers            map[string]*Server  `yaml:"servers,omitempty" json:"servers,omitempty"`
	DefaultContentType string              `yaml:"defaultContentType,omitempty" json:"defaultContentType,omitempty"`
	Channels           map[string]*Channel `yaml:"channels" json:"channels"`
	Components         *Components         `yaml:"components,omitempty" json:"components,omitempty"`
	// Extra holds x- extension fields such as x-dispatcherKey
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Info provides metadata about the API.
type Info struct {
	Title       string `yaml:"title" json:"title"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Server describes a message broker or websocket endpoint.
type Server struct {
	URL             string                     `yaml:"url" json:"url"`
	Protocol        string                     `yaml:"protocol" json:"protocol"`
	ProtocolVersion string                     `yaml:"protocolVersion,omitempty" json:"protocolVersion,omitempty"`
	Description     string                     `yaml:"description,omitempty" json:"description,omitempty"`
	Variables       map[string]*ServerVariable `yaml:"variables,omitempty" json:"variables,omitempty"`
	Security        []map[string][]string      `yaml:"security,omitempty" json:"security,omitempty"`
}

// ServerVariable is a substitution variable in a server URL.
type ServerVariable struct {
	Enum        []string `yaml:"enum,omitempty" json:"enum,omitempty"`
	Default     string   `yaml:"default,omitempty" json:"default,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
}

// Channel is a message route. For websocket APIs the channel name is the
// URL path the client connects to.
type Channel struct {
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Parameters  map[string]*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Subscribe   *Operation            `yaml:"subscribe,omitempty" json:"subscribe,omitempty"`
	Publish     *Operation            `yaml:"publish,omitempty" json:"publish,omitempty"`
	Bindings    *ChannelBindings      `yaml:"bindings,omitempty" json:"bindings,omitempty"`
	Extra       map[string]any        `yaml:",inline" json:"-"`
}

// ChannelBindings holds protocol-specific channel information. Only the
// websocket binding is modelled; other bindings are kept in Extra.
type ChannelBindings struct {
	// WS is the websocket binding. It is kept opaque here and decoded by the
	// generator, which expects "query" and "headers" JSON Schema objects.
	WS    map[string]any `yaml:"ws,omitempty" json:"ws,omitempty"`
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Parameter describes a channel path parameter.
type Parameter struct {
	Ref         string  `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Schema      *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
	Location    string  `yaml:"location,omitempty" json:"location,omitempty"`
}

// Operation is a publish or subscribe operation on a channel.
type Operation struct {
	OperationID string         `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Summary     string         `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Message     *Message       `yaml:"message,omitempty" json:"message,omitempty"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// Message describes a message payload. A message may be a reference, a
// concrete message, or a oneOf list of alternatives.
type Message struct {
	Ref         string         `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Name        string         `yaml:"name,omitempty" json:"name,omitempty"`
	Title       string         `yaml:"title,omitempty" json:"title,omitempty"`
	Summary     string         `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	ContentType string         `yaml:"contentType,omitempty" json:"contentType,omitempty"`
	Payload     *Schema        `yaml:"payload,omitempty" json:"payload,omitempty"`
	OneOf       []*Message     `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// Components holds reusable objects referenced from elsewhere in the document.
type Components struct {
	Schemas         map[string]*Schema         `yaml:"schemas,omitempty" json:"schemas,omitempty"`
	Messages        map[string]*Message        `yaml:"messages,omitempty" json:"messages,omitempty"`
	SecuritySchemes map[string]*SecurityScheme `yaml:"securitySchemes,omitempty" json:"securitySchemes,omitempty"`
	Parameters      map[string]*Parameter      `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// Schema is the JSON Schema subset used by AsyncAPI payloads and parameters.
type Schema struct {
	Ref                  string             `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Type                 string             `yaml:"type,omitempty" json:"type,omitempty"`
	Format               string             `yaml:"format,omitempty" json:"format,omitempty"`
	Title                string             `yaml:"title,omitempty" json:"title,omitempty"`
	Description          string             `yaml:"description,omitempty" json:"description,omitempty"`
	Properties           map[string]*Schema `yaml:"properties,omitempty" json:"properties,omitempty"`
	Required             []string           `yaml:"required,omitempty" json:"required,omitempty"`
	Items                *Schema            `yaml:"items,omitempty" json:"items,omitempty"`
	AdditionalProperties any                `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"`
	Enum                 []any              `yaml:"enum,omitempty" json:"enum,omitempty"`
	Const                any                `yaml:"const,omitempty" json:"const,omitempty"`
	Default              any                `yaml:"default,omitempty" json:"default,omitempty"`
	OneOf                []*Schema          `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`
	AnyOf                []*Schema          `yaml:"anyOf,omitempty" json:"anyOf,omitempty"`
	AllOf                []*Schema          `yaml:"allOf,omitempty" json:"allOf,omitempty"`
	Extra                map[string]any     `yaml:",inline" json:"-"`
}

// Nullable reports whether the schema carries x-nullable: true.
func (s *Schema) Nullable() bool {
	if s == nil {
		return false
	}
	b, ok := s.Extra["x-nullable"].(bool)
	return ok && b
}

// IsObject reports whether the schema describes a structured value.
func (s *Schema) IsObject() bool {
	if s == nil {
		return false
	}
	return s.Type == "object" || len(s.Properties) > 0
}

// SchemaRefPrefix is the local reference prefix for component schemas.
const SchemaRefPrefix = "#/components/schemas/"

// MessageRefPrefix is the local reference prefix for component messages.
const MessageRefPrefix = "#/components/messages/"

// RefName returns the last path segment of a reference
// ("#/components/schemas/Room" -> "Room").
func RefName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
