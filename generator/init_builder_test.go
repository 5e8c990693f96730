package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thushalya/asyncapi-tools-1/asyncerrors"
	"github.com/thushalya/asyncapi-tools-1/parser"
	"github.com/thushalya/asyncapi-tools-1/syntax"
)

func TestBuildPathTemplate(t *testing.T) {
	tests := []struct {
		channel    string
		want       string
		wantParams bool
	}{
		{"/rooms/{roomId}", "string `/rooms/${getEncodedUri(roomId)}`", true},
		{"/rooms/{room-id}/users", "string `/rooms/${getEncodedUri(roomId)}/users`", true},
		{"{a}{b}", "string `${getEncodedUri(a)}${getEncodedUri(b)}`", true},
		{"/lobby", "string `/lobby`", false},
		{"", "string ``", false},
	}
	for _, tt := range tests {
		t.Run(tt.channel, func(t *testing.T) {
			got := BuildPathTemplate(tt.channel)
			assert.Equal(t, tt.want, got.Template.String())
			assert.Equal(t, tt.wantParams, got.HasPathParams)
		})
	}
}

func TestBuildInitNoAuth(t *testing.T) {
	params := []ChannelParameter{
		{Name: "roomId", Ident: "roomId", Location: LocationPath, Type: syntax.Int},
	}
	seq, err := BuildInit(mustResolve(t, nil), "ws://chat.example.com", params, "/rooms/{roomId}")
	require.NoError(t, err)

	assert.True(t, seq.UsesPathHelper())
	assert.False(t, seq.UsesQueryHelper)
	assert.Nil(t, seq.APIKeyField)
	assert.Equal(t, `int roomId, ConnectionConfig config = {}, string serviceUrl = "ws://chat.example.com"`, syntax.RenderParams(seq.Params))

	want := "websocket:ClientConfiguration clientConfig = {subProtocols: config.subProtocols, customHeaders: config.customHeaders, " +
		"readTimeout: config.readTimeout, writeTimeout: config.writeTimeout, maxFrameSize: config.maxFrameSize, " +
		"webSocketCompressionEnabled: config.webSocketCompressionEnabled, handShakeTimeout: config.handShakeTimeout, " +
		"cookies: config.cookies, validation: config.validation};\n" +
		"do {\n" +
		"    if config.secureSocket is websocket:ClientSecureSocket {\n" +
		"        clientConfig.secureSocket = check config.secureSocket.ensureType(websocket:ClientSecureSocket);\n" +
		"    }\n" +
		"    if config.pingPongHandler is websocket:PingPongService {\n" +
		"        clientConfig.pingPongHandler = check config.pingPongHandler.ensureType(websocket:PingPongService);\n" +
		"    }\n" +
		"    if config.retryConfig is websocket:WebSocketRetryConfig {\n" +
		"        clientConfig.retryConfig = check config.retryConfig.ensureType(websocket:WebSocketRetryConfig);\n" +
		"    }\n" +
		"}\n" +
		"string modifiedUrl = serviceUrl + string `/rooms/${getEncodedUri(roomId)}`;\n" +
		"websocket:Client websocketEp = check new (modifiedUrl, clientConfig);\n" +
		"self.clientEp = websocketEp;\n" +
		"return;\n"
	assert.Equal(t, want, syntax.RenderStmts(seq.Body))
}

func TestBuildInitParamLayouts(t *testing.T) {
	bearer := map[string]*parser.SecurityScheme{"token": httpScheme("bearer")}
	key := map[string]*parser.SecurityScheme{"key": apiKeyScheme("api_key", "query")}
	combined := map[string]*parser.SecurityScheme{"token": httpScheme("bearer"), "key": apiKeyScheme("api_key", "query")}

	tests := []struct {
		name       string
		schemes    map[string]*parser.SecurityScheme
		serviceURL string
		want       string
	}{
		{"no auth", nil, "ws://x", `ConnectionConfig config = {}, string serviceUrl = "ws://x"`},
		{"no auth without server", nil, "/", `string serviceUrl, ConnectionConfig config = {}`},
		{"token", bearer, "ws://x", `ConnectionConfig config, string serviceUrl = "ws://x"`},
		{"key", key, "ws://x", `ApiKeysConfig apiKeyConfig, ConnectionConfig config = {}, string serviceUrl = "ws://x"`},
		{"combined", combined, "ws://x", `ConnectionConfig config, string serviceUrl = "ws://x"`},
		{"combined without server", combined, "", `ConnectionConfig config, string serviceUrl`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := BuildInit(mustResolve(t, tt.schemes), tt.serviceURL, nil, "/events")
			require.NoError(t, err)
			assert.Equal(t, tt.want, syntax.RenderParams(seq.Params))
			assert.NoError(t, syntax.ValidateParams(seq.Params))
		})
	}
}

func TestBuildInitTokenMode(t *testing.T) {
	seq, err := BuildInit(mustResolve(t, map[string]*parser.SecurityScheme{"token": httpScheme("bearer")}), "ws://x", nil, "/events")
	require.NoError(t, err)

	body := syntax.RenderStmts(seq.Body)
	assert.True(t, strings.HasPrefix(body, "websocket:ClientConfiguration clientConfig = {auth: config.auth, subProtocols: config.subProtocols"), body)
	assert.Nil(t, seq.APIKeyField)
	assert.False(t, seq.UsesPathHelper())
	assert.False(t, seq.UsesQueryHelper)
	assert.NotContains(t, body, "apiKeyConfig")
}

func TestBuildInitKeyMode(t *testing.T) {
	res := mustResolve(t, map[string]*parser.SecurityScheme{
		"query":  apiKeyScheme("api_key", "query"),
		"header": apiKeyScheme("X-API-KEY", "header"),
	})
	seq, err := BuildInit(res, "ws://x", nil, "/events")
	require.NoError(t, err)

	body := syntax.RenderStmts(seq.Body)
	for _, line := range []string{
		"customHeaders: config.customHeaders.clone()",
		"map<anydata> queryParam = {};\n",
		"self.apiKeyConfig = apiKeyConfig.cloneReadOnly();\n",
		"queryParam[\"api_key\"] = apiKeyConfig.api_key;\n",
		"clientConfig.customHeaders[\"X-API-KEY\"] = apiKeyConfig.xAPIKEY;\n",
		"string modifiedUrl = serviceUrl + string `/events`;\n",
		"modifiedUrl = modifiedUrl + check getPathForQueryParam(queryParam);\n",
	} {
		assert.Contains(t, body, line)
	}
	assert.NotContains(t, body, "auth: config.auth")
	assert.True(t, seq.UsesQueryHelper)

	require.NotNil(t, seq.APIKeyField)
	assert.Equal(t, "final readonly & ApiKeysConfig apiKeyConfig;", syntax.RenderClassField(*seq.APIKeyField))
}

func TestBuildInitCombinedMode(t *testing.T) {
	res := mustResolve(t, map[string]*parser.SecurityScheme{
		"token": httpScheme("bearer"),
		"basic": httpScheme("basic"),
		"key":   apiKeyScheme("X-API-KEY", "header"),
	})
	seq, err := BuildInit(res, "ws://x", nil, "/events")
	require.NoError(t, err)

	body := syntax.RenderStmts(seq.Body)
	want := "if config.auth is ApiKeysConfig {\n" +
		"    self.apiKeyConfig = (<ApiKeysConfig>config.auth).cloneReadOnly();\n" +
		"    clientConfig.customHeaders[\"X-API-KEY\"] = (<ApiKeysConfig>config.auth).xAPIKEY;\n" +
		"} else {\n" +
		"    clientConfig.auth = <websocket:CredentialsConfig|websocket:BearerTokenConfig>config.auth;\n" +
		"    self.apiKeyConfig = ();\n" +
		"}\n"
	assert.Contains(t, body, want)
	assert.NotContains(t, body, "auth: config.auth")
	assert.False(t, seq.UsesQueryHelper, "header keys need no query helper")

	require.NotNil(t, seq.APIKeyField)
	assert.Equal(t, "final readonly & ApiKeysConfig? apiKeyConfig;", syntax.RenderClassField(*seq.APIKeyField))
}

func TestBuildInitChannelParameters(t *testing.T) {
	params := []ChannelParameter{
		{Name: "roomId", Ident: "roomId", Location: LocationPath, Type: syntax.String},
		{Name: "X-Tenant", Ident: "xTenant", Location: LocationHeader, Type: syntax.String},
		{Name: "page-size", Ident: "pageSize", Location: LocationQuery, Type: syntax.Int, Default: syntax.Num("20")},
		{Name: "X-Retries", Ident: "xRetries", Location: LocationHeader, Type: syntax.Int, Default: syntax.Num("3")},
	}
	seq, err := BuildInit(mustResolve(t, nil), "ws://x", params, "/rooms/{roomId}")
	require.NoError(t, err)

	assert.Equal(t,
		`string roomId, string xTenant, ConnectionConfig config = {}, string serviceUrl = "ws://x", int pageSize = 20, int xRetries = 3`,
		syntax.RenderParams(seq.Params))

	body := syntax.RenderStmts(seq.Body)
	for _, line := range []string{
		"customHeaders: config.customHeaders.clone()",
		"clientConfig.customHeaders[\"X-Tenant\"] = xTenant;\n",
		"clientConfig.customHeaders[\"X-Retries\"] = xRetries.toString();\n",
		"map<anydata> queryParam = {\"page-size\": pageSize};\n",
		"modifiedUrl = modifiedUrl + check getPathForQueryParam(queryParam);\n",
	} {
		assert.Contains(t, body, line)
	}
	assert.True(t, seq.UsesPathHelper())
	assert.True(t, seq.UsesQueryHelper)
}

func TestBuildInitRejectsReservedNames(t *testing.T) {
	params := []ChannelParameter{
		{Name: "config", Ident: "config", Location: LocationQuery, Type: syntax.String},
	}
	_, err := BuildInit(mustResolve(t, nil), "ws://x", params, "/events")
	require.Error(t, err)
	assert.True(t, errors.Is(err, asyncerrors.ErrUnsupportedParameterType))
}

func TestInitSequenceFunction(t *testing.T) {
	seq, err := BuildInit(mustResolve(t, nil), "ws://x", nil, "/events")
	require.NoError(t, err)

	text := syntax.RenderFunction(seq.Function())
	assert.True(t, strings.HasPrefix(text, "# Gets invoked to initialize the `connector`.\n#\n"), text)
	assert.Contains(t, text, "# + config - The configurations to be used when initializing the `connector`\n")
	assert.Contains(t, text, "# + return - An error if connector initialization failed\n")
	assert.Contains(t, text, "public isolated function init(ConnectionConfig config = {}, string serviceUrl = \"ws://x\") returns error? {\n")
	assert.True(t, strings.HasSuffix(text, "    return;\n}\n"), text)
}
