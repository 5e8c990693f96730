package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnion(t *testing.T) {
	tests := []struct {
		name    string
		members []TypeDesc
		want    string
	}{
		{
			name:    "single member is returned bare",
			members: []TypeDesc{String},
			want:    "string",
		},
		{
			name:    "duplicates keep first occurrence",
			members: []TypeDesc{QualifiedRef("websocket", "BearerTokenConfig"), Ref("ApiKeysConfig"), QualifiedRef("websocket", "BearerTokenConfig")},
			want:    "websocket:BearerTokenConfig|ApiKeysConfig",
		},
		{
			name:    "nested unions are flattened",
			members: []TypeDesc{NewUnion(Int, String), Boolean, String},
			want:    "int|string|boolean",
		},
		{
			name:    "nil members are skipped",
			members: []TypeDesc{nil, Float, nil, Decimal},
			want:    "float|decimal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewUnion(tt.members...).String())
		})
	}
}

func TestCompoundTypes(t *testing.T) {
	assert.Equal(t, "string[]", Array{Elem: String}.String())
	assert.Equal(t, "(int|string)[]", Array{Elem: NewUnion(Int, String)}.String())
	assert.Equal(t, "(int|string)?", Optional{Elem: NewUnion(Int, String)}.String())
	assert.Equal(t, "map<string|string[]>", Map{Value: NewUnion(String, Array{Elem: String})}.String())
	assert.Equal(t, "stream<Message>", Stream{Elem: Ref("Message")}.String())
	assert.Equal(t, "readonly & ApiKeysConfig", Intersection{Members: []TypeDesc{Readonly, Ref("ApiKeysConfig")}}.String())
	assert.Equal(t, "(readonly & ApiKeysConfig)?",
		Optional{Elem: Intersection{Members: []TypeDesc{Readonly, Ref("ApiKeysConfig")}}}.String())
	assert.Equal(t, "'error", Ref("error").String())
}

func TestIsOptional(t *testing.T) {
	assert.True(t, IsOptional(Optional{Elem: String}))
	assert.True(t, IsOptional(Nil))
	assert.True(t, IsOptional(NewUnion(String, Nil)))
	assert.True(t, IsOptional(Anydata))
	assert.False(t, IsOptional(String))
	assert.False(t, IsOptional(Ref("ConnectionConfig")))
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"string literal escapes", Str("a \"b\"\n"), `"a \"b\"\n"`},
		{"number", Num("60"), "60"},
		{"field access escapes keywords", Field(Self, "type"), "self.'type"},
		{"method call", MethodCall{Target: Var("config"), Method: "ensureType", Args: []Expr{Raw{Text: "websocket:ClientSecureSocket"}}}, "config.ensureType(websocket:ClientSecureSocket)"},
		{"check", Check{Expr: Call{Func: "getEncodedUri", Args: []Expr{Var("id")}}}, "check getEncodedUri(id)"},
		{"type test", TypeTest{Expr: Field(Var("config"), "auth"), Type: Ref("ApiKeysConfig")}, "config.auth is ApiKeysConfig"},
		{"cast", TypeCast{Type: Ref("ApiKeysConfig"), Expr: Field(Var("config"), "auth")}, "<ApiKeysConfig>config.auth"},
		{"new", New{Args: []Expr{Var("modifiedUrl"), Var("clientConfig")}}, "new (modifiedUrl, clientConfig)"},
		{"binary", Binary{Op: "+", Left: Var("serviceUrl"), Right: Var("path")}, "serviceUrl + path"},
		{"empty mapping", Mapping{}, "{}"},
		{
			"mapping with string keys",
			Mapping{Fields: []MappingField{{Key: "X-Id", StringKey: true, Value: Var("xId")}, {Key: "limit", Value: Var("limit")}}},
			`{"X-Id": xId, limit: limit}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestNumPanicsOnInvalidLiteral(t *testing.T) {
	assert.Panics(t, func() { Num("sixty") })
	assert.NotPanics(t, func() { Num("-1.5e3") })
}

func TestTemplate(t *testing.T) {
	tmpl := Template{Parts: []TemplatePart{
		{Text: "/users/"},
		{Expr: Call{Func: "getEncodedUri", Args: []Expr{Var("id")}}},
	}}
	assert.True(t, tmpl.HasInterpolation())
	assert.Equal(t, "string `/users/${getEncodedUri(id)}`", tmpl.String())

	plain := Template{Parts: []TemplatePart{{Text: "/"}}}
	assert.False(t, plain.HasInterpolation())
}

func TestRecordTypeValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  RecordType
		wantErr string
	}{
		{
			name:   "valid",
			record: RecordType{Fields: []RecordField{{Name: "a", Type: String}, {Name: "b", Type: Int, Optional: true}}},
		},
		{
			name:    "empty name",
			record:  RecordType{Fields: []RecordField{{Type: String}}},
			wantErr: "empty name",
		},
		{
			name:    "missing type",
			record:  RecordType{Fields: []RecordField{{Name: "a"}}},
			wantErr: "has no type",
		},
		{
			name:    "duplicate",
			record:  RecordType{Fields: []RecordField{{Name: "a", Type: String}, {Name: "a", Type: Int}}},
			wantErr: "duplicate",
		},
		{
			name:    "empty union",
			record:  RecordType{Fields: []RecordField{{Name: "auth", Type: NewUnion()}}},
			wantErr: "empty union type",
		},
		{
			name:    "optional and defaulted",
			record:  RecordType{Fields: []RecordField{{Name: "a", Type: Int, Optional: true, Default: Num("1")}}},
			wantErr: "both optional and defaulted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateParams(t *testing.T) {
	ok := []Param{
		{Name: "id", Type: String},
		{Name: "config", Type: Ref("ConnectionConfig"), Default: EmptyMap},
		{Name: "serviceUrl", Type: String, Default: Str("ws://localhost")},
	}
	assert.NoError(t, ValidateParams(ok))

	bad := []Param{
		{Name: "config", Type: Ref("ConnectionConfig"), Default: EmptyMap},
		{Name: "id", Type: String},
	}
	err := ValidateParams(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required parameter "id"`)

	dup := []Param{{Name: "id", Type: String}, {Name: "id", Type: Int}}
	assert.Error(t, ValidateParams(dup))
}

func TestRenderTypeDefinition(t *testing.T) {
	td := &TypeDefinition{
		Name:   "ApiKeysConfig",
		Public: true,
		Doc:    "Provides API key configurations needed when communicating with a remote WebSocket service.",
		Record: &RecordType{
			Closed: true,
			Fields: []RecordField{
				{Name: "xApiKey", Type: String, Doc: "Represents API Key `X-API-KEY`"},
				{Name: "retry", Type: Int, Optional: true},
				{Name: "timeout", Type: Decimal, Default: Num("60")},
			},
		},
	}

	want := "# Provides API key configurations needed when communicating with a remote WebSocket service.\n" +
		"public type ApiKeysConfig record {|\n" +
		"    # Represents API Key `X-API-KEY`\n" +
		"    string xApiKey;\n" +
		"    int retry?;\n" +
		"    decimal timeout = 60;\n" +
		"|};\n"
	assert.Equal(t, want, RenderTypeDefinition(td))

	open := &TypeDefinition{Name: "Extra", Record: &RecordType{Includes: []TypeDesc{Ref("Base")}}}
	assert.Equal(t, "type Extra record {\n    *Base;\n};\n", RenderTypeDefinition(open))

	alias := &TypeDefinition{Name: "Id", Public: true, Alias: String}
	assert.Equal(t, "public type Id string;\n", RenderTypeDefinition(alias))
}

func TestRenderStmts(t *testing.T) {
	stmts := []Stmt{
		VarDecl{Type: QualifiedRef("websocket", "ClientConfiguration"), Name: "clientConfig", Init: Mapping{}},
		Do{Body: []Stmt{
			If{
				Cond: TypeTest{Expr: Field(Var("config"), "secureSocket"), Type: QualifiedRef("websocket", "ClientSecureSocket")},
				Then: []Stmt{Assign{Target: Field(Var("clientConfig"), "secureSocket"), Value: Field(Var("config"), "secureSocket")}},
				Else: []Stmt{Return{}},
			},
		}},
		Return{Value: NilLit},
	}

	want := "websocket:ClientConfiguration clientConfig = {};\n" +
		"do {\n" +
		"    if config.secureSocket is websocket:ClientSecureSocket {\n" +
		"        clientConfig.secureSocket = config.secureSocket;\n" +
		"    } else {\n" +
		"        return;\n" +
		"    }\n" +
		"}\n" +
		"return ();\n"
	assert.Equal(t, want, RenderStmts(stmts))
}

func TestRenderFile(t *testing.T) {
	fn := &Function{
		Qualifiers: []string{"isolated"},
		Name:       "getEncodedUri",
		Doc:        "Gets an encoded URI.",
		Params:     []Param{{Name: "value", Type: Anydata, Doc: "Value to be encoded"}},
		ReturnType: String,
		ReturnDoc:  "Encoded string",
		Body:       []Stmt{Return{Value: Call{Func: "value.toString"}}},
	}
	class := &Class{
		Qualifiers: []string{"public", "isolated", "client"},
		Name:       "ChatClient",
		Fields:     []ClassField{{Final: true, Name: "clientEp", Type: QualifiedRef("websocket", "Client")}},
		Methods:    []*Function{{Qualifiers: []string{"public", "isolated"}, Name: "init", Body: []Stmt{Return{}}}},
	}
	file := &File{
		Imports: []Import{{Org: "ballerina", Module: "websocket"}},
		Decls:   []Decl{fn, class},
	}

	want := "import ballerina/websocket;\n" +
		"\n" +
		"# Gets an encoded URI.\n" +
		"#\n" +
		"# + value - Value to be encoded\n" +
		"# + return - Encoded string\n" +
		"isolated function getEncodedUri(anydata value) returns string {\n" +
		"    return value.toString();\n" +
		"}\n" +
		"\n" +
		"public isolated client class ChatClient {\n" +
		"    final websocket:Client clientEp;\n" +
		"\n" +
		"    public isolated function init() {\n" +
		"        return;\n" +
		"    }\n" +
		"}\n"
	assert.Equal(t, want, string(RenderFile(file)))
}

func TestRenderParams(t *testing.T) {
	params := []Param{
		{Name: "config", Type: Ref("ConnectionConfig"), Default: EmptyMap},
		{Name: "serviceUrl", Type: String, Default: Str("ws://localhost:9090")},
	}
	assert.Equal(t, `ConnectionConfig config = {}, string serviceUrl = "ws://localhost:9090"`, RenderParams(params))
}
