package generator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thushalya/asyncapi-tools-1/asyncerrors"
	"github.com/thushalya/asyncapi-tools-1/parser"
	"github.com/thushalya/asyncapi-tools-1/syntax"
)

func mustResolve(t *testing.T, schemes map[string]*parser.SecurityScheme) *AuthResolution {
	t.Helper()
	res, err := ResolveAuth(schemes)
	require.NoError(t, err)
	return res
}

func mustSynthesize(t *testing.T, res *AuthResolution) map[string]*syntax.TypeDefinition {
	t.Helper()
	defs, err := SynthesizeConfigRecords(res)
	require.NoError(t, err)
	out := make(map[string]*syntax.TypeDefinition, len(defs))
	for _, d := range defs {
		out[d.Name] = d
	}
	return out
}

func TestAuthFieldTypeIsDeterministic(t *testing.T) {
	schemes := map[string]*parser.SecurityScheme{
		"oauth": oauthScheme(&parser.OAuthFlows{
			ClientCredentials: &parser.OAuthFlow{TokenURL: "https://auth.example.com/token"},
			AuthorizationCode: &parser.OAuthFlow{},
		}),
		"basic":  httpScheme("basic"),
		"bearer": httpScheme("bearer"),
	}
	want := "websocket:CredentialsConfig|websocket:BearerTokenConfig|OAuth2ClientCredentialsGrantConfig|websocket:OAuth2RefreshTokenGrantConfig"

	for i := 0; i < 20; i++ {
		res := mustResolve(t, schemes)
		assert.Equal(t, want, AuthFieldType(res).String())
	}
}

func TestAuthFieldType(t *testing.T) {
	tests := []struct {
		name    string
		schemes map[string]*parser.SecurityScheme
		want    string
	}{
		{
			name:    "bearer",
			schemes: map[string]*parser.SecurityScheme{"token": httpScheme("bearer")},
			want:    "websocket:BearerTokenConfig",
		},
		{
			name: "bearer and api key",
			schemes: map[string]*parser.SecurityScheme{
				"token": httpScheme("bearer"),
				"key":   apiKeyScheme("X-API-KEY", "header"),
			},
			want: "websocket:BearerTokenConfig|ApiKeysConfig",
		},
		{
			name: "password grant without token url uses the library type",
			schemes: map[string]*parser.SecurityScheme{"oauth": oauthScheme(&parser.OAuthFlows{
				Password: &parser.OAuthFlow{},
			})},
			want: "websocket:OAuth2PasswordGrantConfig",
		},
		{
			name: "bearer from two schemes is listed once",
			schemes: map[string]*parser.SecurityScheme{
				"implicit": oauthScheme(&parser.OAuthFlows{Implicit: &parser.OAuthFlow{}}),
				"token":    httpScheme("bearer"),
			},
			want: "websocket:BearerTokenConfig",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustResolve(t, tt.schemes)
			got := AuthFieldType(res)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAuthFieldTypeAbsent(t *testing.T) {
	assert.Nil(t, AuthFieldType(mustResolve(t, nil)))
	assert.Nil(t, AuthFieldType(mustResolve(t, map[string]*parser.SecurityScheme{
		"key": apiKeyScheme("api_key", "query"),
	})))
}

func TestSynthesizeAPIKeyFields(t *testing.T) {
	res := mustResolve(t, map[string]*parser.SecurityScheme{
		"first":  apiKeyScheme("X-API-KEY", "header"),
		"second": apiKeyScheme("token", "query"),
		"third":  apiKeyScheme("tenant-id", "header"),
	})
	defs := mustSynthesize(t, res)

	keys := defs[APIKeysConfigName]
	require.NotNil(t, keys)
	require.NotNil(t, keys.Record)
	assert.True(t, keys.Record.Closed)
	require.Len(t, keys.Record.Fields, 3)
	for _, f := range keys.Record.Fields {
		assert.Equal(t, syntax.String, f.Type, f.Name)
		assert.False(t, f.Optional, f.Name)
		assert.Nil(t, f.Default, f.Name)
	}

	want := "# Provides API key configurations needed when communicating with a remote WEBSOCKET service endpoint.\n" +
		"public type ApiKeysConfig record {|\n" +
		"    # Represents API Key `tenant-id`\n" +
		"    string tenantId;\n" +
		"    # Represents API Key `token`\n" +
		"    string token;\n" +
		"    # Represents API Key `X-API-KEY`\n" +
		"    string xAPIKEY;\n" +
		"|};\n"
	assert.Equal(t, want, syntax.RenderTypeDefinition(keys))
}

func TestSynthesizeKeyOnlyHasNoAuthField(t *testing.T) {
	defs := mustSynthesize(t, mustResolve(t, map[string]*parser.SecurityScheme{
		"key": apiKeyScheme("api_key", "query"),
	}))
	cfg := defs[ConnectionConfigName]
	require.NotNil(t, cfg)
	_, ok := cfg.Record.Lookup("auth")
	assert.False(t, ok)
}

func TestSynthesizeDigestWithKeyHasNoAuthField(t *testing.T) {
	res := mustResolve(t, map[string]*parser.SecurityScheme{
		"digest": httpScheme("digest"),
		"key":    apiKeyScheme("X-API-KEY", "header"),
	})
	assert.Nil(t, AuthFieldType(res))

	defs := mustSynthesize(t, res)
	_, ok := defs[ConnectionConfigName].Record.Lookup("auth")
	assert.False(t, ok)

	seq, err := BuildInit(res, "ws://localhost:9090", nil, "/chat")
	require.NoError(t, err)
	assert.NotContains(t, syntax.RenderFunction(seq.Function()), "<>")
}

func TestSynthesizeCombinedAuthField(t *testing.T) {
	defs := mustSynthesize(t, mustResolve(t, map[string]*parser.SecurityScheme{
		"token": httpScheme("bearer"),
		"key":   apiKeyScheme("X-API-KEY", "header"),
	}))
	auth, ok := defs[ConnectionConfigName].Record.Lookup("auth")
	require.True(t, ok)
	assert.Equal(t, "websocket:BearerTokenConfig|ApiKeysConfig auth;", syntax.RenderRecordField(auth))
	assert.Equal(t, "Provides Auth configurations needed when communicating with a remote Websocket service endpoint.", auth.Doc)
}

func TestSynthesizeClientCredentialsRecord(t *testing.T) {
	defs := mustSynthesize(t, mustResolve(t, map[string]*parser.SecurityScheme{
		"oauth": oauthScheme(&parser.OAuthFlows{
			ClientCredentials: &parser.OAuthFlow{TokenURL: "https://auth.example.com/oauth2/token"},
		}),
	}))

	grant := defs[ClientCredentialsGrantName]
	require.NotNil(t, grant)
	want := "# OAuth2 Client Credentials Grant Configs\n" +
		"public type OAuth2ClientCredentialsGrantConfig record {|\n" +
		"    *websocket:OAuth2ClientCredentialsGrantConfig;\n" +
		"    # Token URL\n" +
		"    string tokenUrl = \"https://auth.example.com/oauth2/token\";\n" +
		"|};\n"
	assert.Equal(t, want, syntax.RenderTypeDefinition(grant))

	auth, ok := defs[ConnectionConfigName].Record.Lookup("auth")
	require.True(t, ok)
	assert.Equal(t, "OAuth2ClientCredentialsGrantConfig", auth.Type.String())
}

func TestSynthesizeRecordOrder(t *testing.T) {
	res := mustResolve(t, map[string]*parser.SecurityScheme{
		"key": apiKeyScheme("api_key", "query"),
		"oauth": oauthScheme(&parser.OAuthFlows{
			Password:          &parser.OAuthFlow{TokenURL: "https://auth.example.com/token"},
			AuthorizationCode: &parser.OAuthFlow{RefreshURL: "https://auth.example.com/refresh"},
		}),
	})
	defs, err := SynthesizeConfigRecords(res)
	require.NoError(t, err)

	var names []string
	for _, d := range defs {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{APIKeysConfigName, PasswordGrantName, RefreshTokenGrantName, ConnectionConfigName}, names)

	refresh, ok := defs[2].Record.Lookup("refreshUrl")
	require.True(t, ok)
	assert.Equal(t, `"https://auth.example.com/refresh"`, refresh.Default.String())
}

func TestConnectionConfigFields(t *testing.T) {
	defs := mustSynthesize(t, mustResolve(t, nil))
	cfg := defs[ConnectionConfigName]
	require.NotNil(t, cfg)

	var rendered []string
	for _, f := range cfg.Record.Fields {
		rendered = append(rendered, syntax.RenderRecordField(f))
	}
	assert.Equal(t, []string{
		"string[] subProtocols = [];",
		"map<string> customHeaders = {};",
		"decimal readTimeout = -1;",
		"decimal writeTimeout = -1;",
		"websocket:ClientSecureSocket? secureSocket = ();",
		"int maxFrameSize = 65536;",
		"boolean webSocketCompressionEnabled = true;",
		"decimal handShakeTimeout = 300;",
		"http:Cookie[] cookies?;",
		"websocket:PingPongService pingPongHandler?;",
		"websocket:WebSocketRetryConfig? retryConfig = ();",
		"boolean validation = true;",
	}, rendered)
}

func TestNoUsableAuthYieldsNoRecords(t *testing.T) {
	for name, schemes := range map[string]map[string]*parser.SecurityScheme{
		"empty":       {},
		"unsupported": {"cert": {Type: parser.SchemeTypeX509}},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := ResolveAuth(schemes)
			require.Error(t, err)
			assert.True(t, errors.Is(err, asyncerrors.ErrNoUsableAuth))
			assert.Nil(t, res)
		})
	}
}
