package generator

import (
	"fmt"

	"github.com/thushalya/asyncapi-tools-1/syntax"
)

// Names of the generated configuration records.
const (
	APIKeysConfigName          = "ApiKeysConfig"
	ConnectionConfigName       = "ConnectionConfig"
	ClientCredentialsGrantName = "OAuth2ClientCredentialsGrantConfig"
	PasswordGrantName          = "OAuth2PasswordGrantConfig"
	RefreshTokenGrantName      = "OAuth2RefreshTokenGrantConfig"
)

// websocketModule is the module prefix of the websocket library types.
const websocketModule = "websocket"

func wsType(name string) syntax.Named { return syntax.QualifiedRef(websocketModule, name) }

// grantRecord describes a locally generated OAuth2 grant record.
type grantRecord struct {
	name     string
	field    string
	doc      string
	fieldDoc string
}

var grantRecords = map[AuthType]grantRecord{
	AuthClientCredentials: {ClientCredentialsGrantName, "tokenUrl", "OAuth2 Client Credentials Grant Configs", "Token URL"},
	AuthPassword:          {PasswordGrantName, "tokenUrl", "OAuth2 Password Grant Configs", "Token URL"},
	AuthRefreshToken:      {RefreshTokenGrantName, "refreshUrl", "OAuth2 Refresh Token Grant Configs", "Refresh URL"},
}

// authTypeDesc returns the type a credential of kind t is configured with.
// Grants whose endpoint was captured use the local record that carries it
// as a default.
func authTypeDesc(res *AuthResolution, t AuthType) syntax.TypeDesc {
	switch t {
	case AuthBasic:
		return wsType("CredentialsConfig")
	case AuthBearer:
		return wsType("BearerTokenConfig")
	case AuthClientCredentials, AuthPassword, AuthRefreshToken:
		g := grantRecords[t]
		if _, ok := res.TokenURL(t); ok {
			return syntax.Ref(g.name)
		}
		return wsType(g.name)
	case AuthAPIKey:
		return syntax.Ref(APIKeysConfigName)
	}
	return nil
}

// AuthFieldType returns the type of the ConnectionConfig auth field, or nil
// when the record has no auth field (no auth, or API keys only).
//
// Members follow AuthType order with duplicates removed, so the same
// resolution always renders the same text.
func AuthFieldType(res *AuthResolution) syntax.TypeDesc {
	mode := res.Mode()
	if mode != AuthModeToken && mode != AuthModeCombined {
		return nil
	}
	var members []syntax.TypeDesc
	for _, t := range res.Types() {
		if t == AuthAPIKey {
			continue
		}
		members = append(members, authTypeDesc(res, t))
	}
	if mode == AuthModeCombined {
		members = append(members, syntax.Ref(APIKeysConfigName))
	}
	return syntax.NewUnion(members...)
}

// tokenAuthType returns the auth union without ApiKeysConfig. It is the type
// the combined-mode initializer casts config.auth to once API keys have
// been ruled out.
func tokenAuthType(res *AuthResolution) syntax.TypeDesc {
	var members []syntax.TypeDesc
	for _, t := range res.Types() {
		if t != AuthAPIKey {
			members = append(members, authTypeDesc(res, t))
		}
	}
	return syntax.NewUnion(members...)
}

// SynthesizeConfigRecords builds the configuration records for a
// resolution: ApiKeysConfig, the captured OAuth2 grant records and
// ConnectionConfig, in that order.
func SynthesizeConfigRecords(res *AuthResolution) ([]*syntax.TypeDefinition, error) {
	var defs []*syntax.TypeDefinition

	if res.HasAPIKey() {
		defs = append(defs, apiKeysRecord(res))
	}
	for _, t := range []AuthType{AuthClientCredentials, AuthPassword, AuthRefreshToken} {
		url, ok := res.TokenURL(t)
		if !ok || !res.Has(t) {
			continue
		}
		g := grantRecords[t]
		defs = append(defs, &syntax.TypeDefinition{
			Name:   g.name,
			Public: true,
			Doc:    g.doc,
			Record: &syntax.RecordType{
				Closed:   true,
				Includes: []syntax.TypeDesc{wsType(g.name)},
				Fields: []syntax.RecordField{
					{Name: g.field, Type: syntax.String, Default: syntax.Str(url), Doc: g.fieldDoc},
				},
			},
		})
	}
	defs = append(defs, connectionConfigRecord(res))

	for _, d := range defs {
		if err := d.Record.Validate(); err != nil {
			return nil, fmt.Errorf("generator: record %s: %w", d.Name, err)
		}
	}
	return defs, nil
}

func apiKeysRecord(res *AuthResolution) *syntax.TypeDefinition {
	keys := res.APIKeys()
	fields := make([]syntax.RecordField, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, syntax.RecordField{
			Name: k.Field,
			Type: syntax.String,
			Doc:  fmt.Sprintf("Represents API Key `%s`", k.Name),
		})
	}
	return &syntax.TypeDefinition{
		Name:   APIKeysConfigName,
		Public: true,
		Doc:    "Provides API key configurations needed when communicating with a remote WEBSOCKET service endpoint.",
		Record: &syntax.RecordType{Closed: true, Fields: fields},
	}
}

func connectionConfigRecord(res *AuthResolution) *syntax.TypeDefinition {
	var fields []syntax.RecordField
	if auth := AuthFieldType(res); auth != nil {
		doc := "Configurations related to client authentication"
		if res.Mode() == AuthModeCombined {
			doc = "Provides Auth configurations needed when communicating with a remote Websocket service endpoint."
		}
		fields = append(fields, syntax.RecordField{Name: "auth", Type: auth, Doc: doc})
	}
	fields = append(fields,
		syntax.RecordField{Name: "subProtocols", Type: syntax.Array{Elem: syntax.String}, Default: syntax.EmptyList, Doc: "Negotiable sub protocols of the client"},
		syntax.RecordField{Name: "customHeaders", Type: syntax.Map{Value: syntax.String}, Default: syntax.EmptyMap, Doc: "Custom headers, which should be sent to the server"},
		syntax.RecordField{Name: "readTimeout", Type: syntax.Decimal, Default: syntax.Num("-1"), Doc: "Read timeout (in seconds) of the client"},
		syntax.RecordField{Name: "writeTimeout", Type: syntax.Decimal, Default: syntax.Num("-1"), Doc: "Write timeout (in seconds) of the client"},
		syntax.RecordField{Name: "secureSocket", Type: syntax.Optional{Elem: wsType("ClientSecureSocket")}, Default: syntax.NilLit, Doc: "SSL/TLS-related options"},
		syntax.RecordField{Name: "maxFrameSize", Type: syntax.Int, Default: syntax.Num("65536"), Doc: "The maximum payload size of a WebSocket frame in bytes"},
		syntax.RecordField{Name: "webSocketCompressionEnabled", Type: syntax.Boolean, Default: syntax.True, Doc: "Enable support for compression in the WebSocket"},
		syntax.RecordField{Name: "handShakeTimeout", Type: syntax.Decimal, Default: syntax.Num("300"), Doc: "Time (in seconds) that a connection waits to get the response of the WebSocket handshake."},
		syntax.RecordField{Name: "cookies", Type: syntax.Array{Elem: syntax.QualifiedRef("http", "Cookie")}, Optional: true, Doc: "An Array of http:Cookie"},
		syntax.RecordField{Name: "pingPongHandler", Type: wsType("PingPongService"), Optional: true, Doc: "A service to handle the ping/pong frames"},
		syntax.RecordField{Name: "retryConfig", Type: syntax.Optional{Elem: wsType("WebSocketRetryConfig")}, Default: syntax.NilLit, Doc: "Configurations associated with retrying"},
		syntax.RecordField{Name: "validation", Type: syntax.Boolean, Default: syntax.True, Doc: "Enable/disable constraint validation"},
	)
	return &syntax.TypeDefinition{
		Name:   ConnectionConfigName,
		Public: true,
		Doc:    "Provides a set of configurations for controlling the behaviours when communicating with a remote WebSocket service endpoint.",
		Record: &syntax.RecordType{Closed: true, Fields: fields},
	}
}
