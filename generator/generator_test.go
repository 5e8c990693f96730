package generator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thushalya/asyncapi-tools-1/asyncerrors"
	"github.com/thushalya/asyncapi-tools-1/parser"
)

const chatDoc = `asyncapi: 2.5.0
info:
  title: Chat
  version: 1.0.0
  description: Real-time chat rooms.
servers:
  production:
    url: '{host}/v1'
    protocol: ws
    variables:
      host:
        default: chat.example.com
channels:
  /rooms/{roomId}:
    parameters:
      roomId:
        schema:
          type: integer
    bindings:
      ws:
        query:
          type: object
          properties:
            limit:
              type: integer
              default: 10
    subscribe:
      message:
        $ref: '#/components/messages/Message'
components:
  schemas:
    Message:
      type: object
      required: [text]
      properties:
        text:
          type: string
  messages:
    Message:
      payload:
        $ref: '#/components/schemas/Message'
  securitySchemes:
    token:
      type: http
      scheme: bearer
    key:
      type: httpApiKey
      name: X-API-KEY
      in: header
`

func generateFromString(t *testing.T, doc string, opts ...Option) (*GenerateResult, error) {
	t.Helper()
	parsed, err := parser.ParseWithOptions(parser.WithBytes([]byte(doc)))
	require.NoError(t, err)
	return GenerateWithOptions(append([]Option{WithParsed(*parsed)}, opts...)...)
}

func TestGenerateChatClient(t *testing.T) {
	result, err := generateFromString(t, chatDoc, WithClientName("ChatClient"))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "2.5.0", result.SourceVersion)
	assert.Equal(t, "/rooms/{roomId}", result.Channel)
	assert.Equal(t, "ws://chat.example.com/v1", result.ServiceURL)
	assert.Equal(t, AuthModeCombined, result.AuthMode)
	assert.Equal(t, 3, result.GeneratedTypes, "ApiKeysConfig, ConnectionConfig and Message")

	var names []string
	for _, f := range result.Files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{TypesFileName, ClientFileName, UtilsFileName}, names)

	types := string(result.GetFile(TypesFileName).Content)
	assert.True(t, strings.HasPrefix(types, "import ballerina/http;\nimport ballerina/websocket;\n\n"), types)
	assert.Contains(t, types, "public type ApiKeysConfig record {|\n")
	assert.Contains(t, types, "    websocket:BearerTokenConfig|ApiKeysConfig auth;\n")
	assert.Contains(t, types, "public type Message record {\n    string text;\n};\n")

	client := string(result.GetFile(ClientFileName).Content)
	assert.Contains(t, client, "# This is a generated connector for the Chat API.\n# Real-time chat rooms.\n")
	assert.Contains(t, client, "public isolated client class ChatClient {\n")
	assert.Contains(t, client, "    final websocket:Client clientEp;\n")
	assert.Contains(t, client, "    final readonly & ApiKeysConfig? apiKeyConfig;\n")
	assert.Contains(t, client, `public isolated function init(ConnectionConfig config, int roomId, string serviceUrl = "ws://chat.example.com/v1", int 'limit = 10) returns error? {`)
	assert.Contains(t, client, "string modifiedUrl = serviceUrl + string `/rooms/${getEncodedUri(roomId)}`;")

	utils := string(result.GetFile(UtilsFileName).Content)
	assert.Contains(t, utils, "isolated function getEncodedUri(anydata value) returns string {")
	assert.Contains(t, utils, "isolated function getPathForQueryParam(map<anydata> queryParam) returns string|error {")

	assert.Nil(t, result.GetFile("missing.bal"))
}

func TestGenerateIsDeterministic(t *testing.T) {
	first, err := generateFromString(t, chatDoc)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := generateFromString(t, chatDoc)
		require.NoError(t, err)
		require.Len(t, again.Files, len(first.Files))
		for j := range first.Files {
			assert.Equal(t, string(first.Files[j].Content), string(again.Files[j].Content), first.Files[j].Name)
		}
	}
}

func TestGenerateWithoutHelpers(t *testing.T) {
	result, err := generateFromString(t, `asyncapi: 2.5.0
info: {title: Lobby, version: 1.0.0}
channels:
  /lobby:
    bindings:
      ws:
        method: GET
`)
	require.NoError(t, err)
	assert.Nil(t, result.GetFile(UtilsFileName))
	assert.Equal(t, "/", result.ServiceURL)
	assert.Equal(t, AuthModeNone, result.AuthMode)
	assert.Equal(t, 1, result.InfoCount)

	client := string(result.GetFile(ClientFileName).Content)
	assert.Contains(t, client, "public isolated function init(string serviceUrl, ConnectionConfig config = {}) returns error? {")
	assert.NotContains(t, client, "apiKeyConfig")
}

func TestGeneratePathOnlyUtils(t *testing.T) {
	result, err := generateFromString(t, `asyncapi: 2.5.0
info: {title: Rooms, version: 1.0.0}
servers:
  main: {url: 'wss://rooms.example.com', protocol: wss}
channels:
  /rooms/{roomId}:
    bindings:
      ws:
        method: GET
`, WithIncludeInfo(false))
	require.NoError(t, err)

	utils := result.GetFile(UtilsFileName)
	require.NotNil(t, utils)
	assert.Contains(t, string(utils.Content), "getEncodedUri")
	assert.NotContains(t, string(utils.Content), "getPathForQueryParam")
	assert.Equal(t, "wss://rooms.example.com", result.ServiceURL)
	assert.Zero(t, result.InfoCount)
}

func TestGenerateWarnsAboutExtraChannels(t *testing.T) {
	result, err := generateFromString(t, `asyncapi: 2.5.0
info: {title: Chat, version: 1.0.0}
servers:
  main: {url: chat.example.com, protocol: ws}
channels:
  /second:
    bindings:
      ws: {method: GET}
  /first:
    bindings:
      ws: {method: GET}
`, WithSchemaTypes(false))
	require.NoError(t, err)
	assert.Equal(t, "/second", result.Channel, "channels are taken in document order")
	assert.True(t, result.HasWarnings())
	assert.False(t, result.HasCriticalIssues())
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name: "unsupported scheme",
			doc: `asyncapi: 2.5.0
info: {title: Chat, version: 1.0.0}
channels:
  /events:
    bindings:
      ws: {method: GET}
components:
  securitySchemes:
    up:
      type: userPassword
`,
			wantErr: asyncerrors.ErrUnsupportedScheme,
		},
		{
			name: "no usable auth",
			doc: `asyncapi: 2.5.0
info: {title: Chat, version: 1.0.0}
channels:
  /events:
    bindings:
      ws: {method: GET}
components:
  securitySchemes:
    cert:
      type: X509
`,
			wantErr: asyncerrors.ErrNoUsableAuth,
		},
		{
			name: "missing websocket binding",
			doc: `asyncapi: 2.5.0
info: {title: Chat, version: 1.0.0}
channels:
  /events:
    subscribe:
      message:
        payload: {type: string}
`,
			wantErr: asyncerrors.ErrUnsupportedBinding,
		},
		{
			name: "object path parameter",
			doc: `asyncapi: 2.5.0
info: {title: Chat, version: 1.0.0}
channels:
  /rooms/{room}:
    parameters:
      room:
        schema: {type: object}
    bindings:
      ws: {method: GET}
`,
			wantErr: asyncerrors.ErrUnsupportedParameterType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := generateFromString(t, tt.doc)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.True(t, strings.HasPrefix(err.Error(), "generator: "), err.Error())
		})
	}
}

func TestGenerateWithOptionsValidation(t *testing.T) {
	_, err := GenerateWithOptions()
	require.Error(t, err)
	assert.True(t, errors.Is(err, asyncerrors.ErrConfig))

	_, err = GenerateWithOptions(WithFilePath("a.yaml"), WithParsed(parser.ParseResult{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one input source")

	_, err = GenerateWithOptions(WithFilePath("a.yaml"), WithClientName("chat client"))
	require.Error(t, err)
	var cfgErr *asyncerrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "clientName", cfgErr.Option)
}

func TestGenerateFromFileAndWrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "chat.yaml")
	require.NoError(t, os.WriteFile(src, []byte(chatDoc), 0o600))

	result, err := GenerateWithOptions(WithFilePath(src))
	require.NoError(t, err)
	assert.Equal(t, parser.SourceFormatYAML, result.SourceFormat)
	assert.Positive(t, result.SourceSize)

	out := filepath.Join(dir, "client")
	require.NoError(t, result.WriteFiles(out))
	for _, f := range result.Files {
		data, err := os.ReadFile(filepath.Join(out, f.Name))
		require.NoError(t, err)
		assert.Equal(t, f.Content, data)
	}
}

func TestGenerateMissingFile(t *testing.T) {
	_, err := GenerateWithOptions(WithFilePath(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asyncerrors.ErrParse))
}

func TestWriteFilesRejectsPaths(t *testing.T) {
	result := &GenerateResult{Files: []GeneratedFile{{Name: "../escape.bal", Content: []byte("x")}}}
	err := result.WriteFiles(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path separators")
}

func TestWriteFilesRejectsUnsafeTargets(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "client.bal")
	require.NoError(t, os.WriteFile(src, []byte("original"), 0o600))
	other := filepath.Join(dir, "other.bal")
	require.NoError(t, os.WriteFile(other, []byte("other"), 0o600))
	require.NoError(t, os.Symlink(other, filepath.Join(dir, "types.bal")))

	tests := []struct {
		name    string
		result  *GenerateResult
		wantErr string
	}{
		{
			name:    "not a source file",
			result:  &GenerateResult{Files: []GeneratedFile{{Name: "client.go", Content: []byte("x")}}},
			wantErr: "must have the .bal extension",
		},
		{
			name: "source document",
			result: &GenerateResult{
				SourcePath: src,
				Files:      []GeneratedFile{{Name: "client.bal", Content: []byte("x")}},
			},
			wantErr: "refusing to overwrite source document",
		},
		{
			name:    "symlink",
			result:  &GenerateResult{Files: []GeneratedFile{{Name: "types.bal", Content: []byte("x")}}},
			wantErr: "symlink",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.WriteFiles(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
	data, err = os.ReadFile(other)
	require.NoError(t, err)
	assert.Equal(t, "other", string(data))
}

func TestWriteFilesChecksBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	result := &GenerateResult{Files: []GeneratedFile{
		{Name: "types.bal", Content: []byte("types")},
		{Name: "notes.txt", Content: []byte("notes")},
	}}
	require.Error(t, result.WriteFiles(dir))
	_, err := os.Stat(filepath.Join(dir, "types.bal"))
	assert.True(t, os.IsNotExist(err))
}

func TestServiceURL(t *testing.T) {
	tests := []struct {
		name    string
		servers map[string]*parser.Server
		want    string
	}{
		{"no servers", nil, "/"},
		{"scheme added", map[string]*parser.Server{"a": {URL: "chat.example.com"}}, "ws://chat.example.com"},
		{"scheme kept", map[string]*parser.Server{"a": {URL: "wss://chat.example.com"}}, "wss://chat.example.com"},
		{
			name: "first server by name",
			servers: map[string]*parser.Server{
				"b": {URL: "wss://b.example.com"},
				"a": {URL: "wss://a.example.com"},
			},
			want: "wss://a.example.com",
		},
		{
			name: "variables substituted",
			servers: map[string]*parser.Server{"a": {
				URL: "wss://{host}:{port}/{missing}",
				Variables: map[string]*parser.ServerVariable{
					"host": {Default: "chat.example.com"},
					"port": {Default: "443"},
				},
			}},
			want: "wss://chat.example.com:443/{missing}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ServiceURL(&parser.Document{Servers: tt.servers}))
		})
	}
	assert.Equal(t, "/", ServiceURL(nil))
}
