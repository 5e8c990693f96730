package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thushalya/asyncapi-tools-1/parser"
	"github.com/thushalya/asyncapi-tools-1/service"
)

func TestSchemaForBuiltins(t *testing.T) {
	tests := []struct {
		typ        string
		wantType   string
		wantFormat string
	}{
		{"string", "string", ""},
		{"int", "integer", "int64"},
		{"float", "number", "float"},
		{"decimal", "number", "double"},
		{"boolean", "boolean", ""},
		{"byte[]", "string", "byte"},
		{"int[]", "array", ""},
		{"map<string>", "object", ""},
		{"json", "", ""},
		{"()", "null", ""},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			var issues []ConversionIssue
			sm := newSchemaMapper(&service.Module{}, &issues)
			s := sm.schemaFor(service.MustParseTypeRef(tt.typ), "test")
			assert.Equal(t, tt.wantType, s.Type)
			assert.Equal(t, tt.wantFormat, s.Format)
			assert.Empty(t, issues)
		})
	}
}

func TestSchemaForComposites(t *testing.T) {
	var issues []ConversionIssue
	sm := newSchemaMapper(&service.Module{}, &issues)

	arr := sm.schemaFor(service.MustParseTypeRef("string[]"), "p")
	require.NotNil(t, arr.Items)
	assert.Equal(t, "string", arr.Items.Type)

	m := sm.schemaFor(service.MustParseTypeRef("map<int>"), "p")
	extra, ok := m.AdditionalProperties.(*parser.Schema)
	require.True(t, ok)
	assert.Equal(t, "integer", extra.Type)
	assert.Equal(t, true, sm.schemaFor(service.MustParseTypeRef("map<anydata>"), "p").AdditionalProperties)

	u := sm.schemaFor(service.MustParseTypeRef("string|int|()"), "p")
	require.Len(t, u.OneOf, 2)
	assert.True(t, u.Nullable())

	single := sm.schemaFor(service.MustParseTypeRef("string|error"), "p")
	assert.Equal(t, "string", single.Type)
	assert.Empty(t, single.OneOf)

	opt := sm.schemaFor(service.MustParseTypeRef("int?"), "p")
	assert.Equal(t, "integer", opt.Type)
	assert.True(t, opt.Nullable())

	assert.Empty(t, issues)
}

func TestSchemaForNamedTypes(t *testing.T) {
	m := &service.Module{Types: []*service.TypeDef{
		{Name: "RoomId", Alias: service.String, Doc: "Room identifier"},
		{Name: "Alias", Alias: service.Named{Name: "RoomId"}},
		{Name: "Node", Record: &service.Record{Fields: []service.RecordField{
			{Name: "'type", Type: service.String},
			{Name: "next", Type: service.Optional{Elem: service.Named{Name: "Node"}}, Optional: true},
			{Name: "root", Type: service.Named{Name: "RoomId"}, Default: `"lobby"`},
		}}},
	}}
	var issues []ConversionIssue
	sm := newSchemaMapper(m, &issues)

	ref := sm.schemaFor(service.Named{Name: "Node"}, "p")
	assert.Equal(t, "#/components/schemas/Node", ref.Ref)
	require.Len(t, sm.schemas, 2)

	node := sm.schemas["Node"]
	assert.Equal(t, []string{"type"}, node.Required)
	assert.Equal(t, "#/components/schemas/Node", node.Properties["next"].Ref)
	root := node.Properties["root"]
	require.Len(t, root.AllOf, 1)
	assert.Equal(t, "lobby", root.Default)

	assert.Equal(t, "Room identifier", sm.schemas["RoomId"].Description)

	sm.schemaFor(service.Named{Name: "Alias"}, "p")
	require.Len(t, sm.schemas["Alias"].AllOf, 1)
	assert.Equal(t, "#/components/schemas/RoomId", sm.schemas["Alias"].AllOf[0].Ref)
	assert.Empty(t, issues)

	sm.schemaFor(service.Named{Name: "Missing"}, "p.missing")
	sm.schemaFor(service.Named{Module: "websocket", Name: "Caller"}, "p.caller")
	sm.schemaFor(service.Error, "p.error")
	require.Len(t, issues, 3)
	assert.Equal(t, "p.missing", issues[0].Path)
	assert.Equal(t, SeverityWarning, issues[2].Severity)
}

func TestLiteralValue(t *testing.T) {
	tests := []struct {
		expr string
		want any
	}{
		{`"lobby"`, "lobby"},
		{`"a\"b"`, `a"b`},
		{"10", int64(10)},
		{"-3", int64(-3)},
		{"2.5", 2.5},
		{"true", true},
		{"false", false},
		{"()", nil},
		{"Mode.FAST", "Mode.FAST"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, literalValue(tt.expr))
		})
	}
}
