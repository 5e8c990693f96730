package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thushalya/asyncapi-tools-1/syntax"
)

func TestGenerateSchemaTypes(t *testing.T) {
	result, _, _ := parseDoc(t, `asyncapi: 2.5.0
info: {title: Chat, version: 1.0.0}
channels:
  /events:
    bindings:
      ws:
        method: GET
components:
  schemas:
    Room:
      type: object
      description: A chat room
      required: [id]
      properties:
        id:
          type: string
        members:
          type: array
          items:
            $ref: '#/components/schemas/user-name'
        topic:
          type: string
          x-nullable: true
    user-name:
      type: string
    Labels:
      type: object
      additionalProperties: true
    Payload:
      oneOf:
        - $ref: '#/components/schemas/Room'
        - type: integer
`)
	g := &schemaTypeGenerator{}
	defs := g.generateSchemaTypes(result.Schemas())
	require.Len(t, defs, 4)

	rendered := make(map[string]string, len(defs))
	for _, d := range defs {
		rendered[d.Name] = syntax.RenderTypeDefinition(d)
	}

	assert.Equal(t, "# A chat room\n"+
		"public type Room record {\n"+
		"    string id;\n"+
		"    UserName[] members?;\n"+
		"    string? topic?;\n"+
		"};\n", rendered["Room"])
	assert.Equal(t, "public type UserName string;\n", rendered["UserName"])
	assert.Equal(t, "public type Labels map<anydata>;\n", rendered["Labels"])
	assert.Equal(t, "public type Payload Room|int;\n", rendered["Payload"])
	assert.Empty(t, g.issues)
}

func TestGenerateSchemaTypesReportsDegradedSchemas(t *testing.T) {
	result, _, _ := parseDoc(t, `asyncapi: 2.5.0
info: {title: Chat, version: 1.0.0}
channels:
  /events:
    bindings:
      ws:
        method: GET
components:
  schemas:
    Merged:
      allOf:
        - type: object
    room-id:
      type: string
    RoomId:
      type: integer
`)
	g := &schemaTypeGenerator{}
	defs := g.generateSchemaTypes(result.Schemas())
	require.Len(t, defs, 2)
	assert.Equal(t, "Merged", defs[0].Name)
	assert.Equal(t, syntax.Anydata, defs[0].Alias)
	assert.Equal(t, "RoomId", defs[1].Name)
	assert.Equal(t, syntax.Int, defs[1].Alias, "RoomId sorts before room-id and keeps the name")

	require.Len(t, g.issues, 2)
	assert.Equal(t, "components.schemas.Merged", g.issues[0].Path)
	assert.Equal(t, SeverityWarning, g.issues[0].Severity)
	assert.Equal(t, "components.schemas.room-id", g.issues[1].Path)
}
