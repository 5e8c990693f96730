package generator

import (
	"fmt"
	"sort"

	"github.com/thushalya/asyncapi-tools-1/asyncerrors"
	"github.com/thushalya/asyncapi-tools-1/internal/naming"
	"github.com/thushalya/asyncapi-tools-1/parser"
	"github.com/thushalya/asyncapi-tools-1/syntax"
)

// Identifiers used by the generated initializer.
const (
	configParam       = "config"
	serviceURLParam   = "serviceUrl"
	apiKeyConfigParam = "apiKeyConfig"
	clientConfigVar   = "clientConfig"
	queryParamVar     = "queryParam"
	modifiedURLVar    = "modifiedUrl"
	websocketEpVar    = "websocketEp"
	clientEpField     = "clientEp"
)

// reservedInitNames are the names the initializer declares itself. A channel
// parameter may not reuse them.
var reservedInitNames = map[string]bool{
	configParam:       true,
	serviceURLParam:   true,
	apiKeyConfigParam: true,
	clientConfigVar:   true,
	queryParamVar:     true,
	modifiedURLVar:    true,
	websocketEpVar:    true,
}

// passThroughFields are the ConnectionConfig fields copied into the
// websocket client configuration as they are.
var passThroughFields = []string{
	"subProtocols",
	"customHeaders",
	"readTimeout",
	"writeTimeout",
	"maxFrameSize",
	"webSocketCompressionEnabled",
	"handShakeTimeout",
	"cookies",
	"validation",
}

// ensuredField is a ConnectionConfig field whose value is narrowed with
// ensureType before being copied.
type ensuredField struct {
	name string
	typ  syntax.TypeDesc
}

var ensuredFields = []ensuredField{
	{"secureSocket", wsType("ClientSecureSocket")},
	{"pingPongHandler", wsType("PingPongService")},
	{"retryConfig", wsType("WebSocketRetryConfig")},
}

// PathTemplate is the channel path rendered as a string template.
type PathTemplate struct {
	Template syntax.Template
	// HasPathParams is true when at least one placeholder was rewritten
	HasPathParams bool
}

// BuildPathTemplate rewrites every {name} placeholder of a channel path into
// an interpolation of getEncodedUri(name).
func BuildPathTemplate(channel string) PathTemplate {
	var out PathTemplate
	last := 0
	for _, loc := range placeholderPattern.FindAllStringSubmatchIndex(channel, -1) {
		if loc[0] > last {
			out.Template.Parts = append(out.Template.Parts, syntax.TemplatePart{Text: channel[last:loc[0]]})
		}
		name := naming.ValidName(channel[loc[2]:loc[3]], false)
		out.Template.Parts = append(out.Template.Parts, syntax.TemplatePart{
			Expr: syntax.Call{Func: encodedURIFunc, Args: []syntax.Expr{syntax.Var(name)}},
		})
		out.HasPathParams = true
		last = loc[1]
	}
	if last < len(channel) || len(out.Template.Parts) == 0 {
		out.Template.Parts = append(out.Template.Parts, syntax.TemplatePart{Text: channel[last:]})
	}
	return out
}

// InitSequence is the generated client initializer together with the class
// state it needs.
type InitSequence struct {
	// Params is the initializer parameter list, required parameters first
	Params []syntax.Param
	// Body is the initializer body
	Body []syntax.Stmt
	// APIKeyField is the class field holding API keys; nil without key auth
	APIKeyField *syntax.ClassField
	// Path is the rendered channel path
	Path PathTemplate
	// UsesQueryHelper is true when the body calls getPathForQueryParam
	UsesQueryHelper bool
}

// Function returns the initializer as a method definition.
func (s *InitSequence) Function() *syntax.Function {
	return &syntax.Function{
		Qualifiers: []string{"public", "isolated"},
		Name:       "init",
		Doc:        "Gets invoked to initialize the `connector`.",
		Params:     s.Params,
		ReturnType: syntax.Optional{Elem: syntax.Error},
		ReturnDoc:  "An error if connector initialization failed",
		Body:       s.Body,
	}
}

// UsesPathHelper reports whether the body calls getEncodedUri.
func (s *InitSequence) UsesPathHelper() bool { return s.Path.HasPathParams }

// BuildInit builds the client initializer for a resolved auth layout,
// service URL and channel.
func BuildInit(res *AuthResolution, serviceURL string, params []ChannelParameter, channelPath string) (*InitSequence, error) {
	seq := &InitSequence{Path: BuildPathTemplate(channelPath)}
	mode := res.Mode()

	if err := seq.buildParams(mode, serviceURL, params, channelPath); err != nil {
		return nil, err
	}

	var queryParams, headerParams []ChannelParameter
	for _, p := range params {
		switch p.Location {
		case LocationQuery:
			queryParams = append(queryParams, p)
		case LocationHeader:
			headerParams = append(headerParams, p)
		}
	}
	queryKeys := res.APIKeysIn(parser.APIKeyInQuery)
	headerKeys := res.APIKeysIn(parser.APIKeyInHeader)
	mergesHeaders := len(headerParams) > 0 || len(headerKeys) > 0
	usesQuery := len(queryParams) > 0 || len(queryKeys) > 0

	config := syntax.Var(configParam)
	clientConfig := syntax.Var(clientConfigVar)

	var fields []syntax.MappingField
	if mode == AuthModeToken {
		fields = append(fields, syntax.MappingField{Key: "auth", Value: syntax.Field(config, "auth")})
	}
	for _, name := range passThroughFields {
		var value syntax.Expr = syntax.Field(config, name)
		if name == "customHeaders" && mergesHeaders {
			value = syntax.MethodCall{Target: value, Method: "clone"}
		}
		fields = append(fields, syntax.MappingField{Key: name, Value: value})
	}
	body := []syntax.Stmt{
		syntax.VarDecl{Type: wsType("ClientConfiguration"), Name: clientConfigVar, Init: syntax.Mapping{Fields: fields}},
	}

	var ensure []syntax.Stmt
	for _, f := range ensuredFields {
		ensure = append(ensure, syntax.If{
			Cond: syntax.TypeTest{Expr: syntax.Field(config, f.name), Type: f.typ},
			Then: []syntax.Stmt{syntax.Assign{
				Target: syntax.Field(clientConfig, f.name),
				Value: syntax.Check{Expr: syntax.MethodCall{
					Target: syntax.Field(config, f.name),
					Method: "ensureType",
					Args:   []syntax.Expr{syntax.Raw{Text: f.typ.String()}},
				}},
			}},
		})
	}
	body = append(body, syntax.Do{Body: ensure})

	headers := syntax.Field(clientConfig, "customHeaders")
	for _, p := range headerParams {
		var value syntax.Expr = syntax.Var(p.Ident)
		if p.Type != syntax.String {
			value = syntax.MethodCall{Target: value, Method: "toString"}
		}
		body = append(body, syntax.Assign{Target: syntax.Index{Target: headers, Key: syntax.Str(p.Name)}, Value: value})
	}

	queryMap := syntax.Var(queryParamVar)
	if usesQuery {
		var entries []syntax.MappingField
		for _, p := range queryParams {
			entries = append(entries, syntax.MappingField{Key: p.Name, StringKey: true, Value: syntax.Var(p.Ident)})
		}
		body = append(body, syntax.VarDecl{
			Type: syntax.Map{Value: syntax.Anydata},
			Name: queryParamVar,
			Init: syntax.Mapping{Fields: entries},
		})
	}

	// placements copies API key values from keys into the query map and
	// the handshake headers.
	placements := func(keys syntax.Expr) []syntax.Stmt {
		var stmts []syntax.Stmt
		for _, k := range queryKeys {
			stmts = append(stmts, syntax.Assign{
				Target: syntax.Index{Target: queryMap, Key: syntax.Str(k.Name)},
				Value:  syntax.Field(keys, k.Field),
			})
		}
		for _, k := range headerKeys {
			stmts = append(stmts, syntax.Assign{
				Target: syntax.Index{Target: headers, Key: syntax.Str(k.Name)},
				Value:  syntax.Field(keys, k.Field),
			})
		}
		return stmts
	}

	self := syntax.Field(syntax.Self, apiKeyConfigParam)
	apiKeysType := syntax.Ref(APIKeysConfigName)
	switch mode {
	case AuthModeKey:
		keys := syntax.Var(apiKeyConfigParam)
		body = append(body, syntax.Assign{Target: self, Value: syntax.MethodCall{Target: keys, Method: "cloneReadOnly"}})
		body = append(body, placements(keys)...)
		seq.APIKeyField = &syntax.ClassField{
			Final: true,
			Name:  apiKeyConfigParam,
			Type:  syntax.Intersection{Members: []syntax.TypeDesc{syntax.Readonly, apiKeysType}},
		}
	case AuthModeCombined:
		keys := syntax.Paren{Expr: syntax.TypeCast{Type: apiKeysType, Expr: syntax.Field(config, "auth")}}
		then := []syntax.Stmt{syntax.Assign{Target: self, Value: syntax.MethodCall{Target: keys, Method: "cloneReadOnly"}}}
		then = append(then, placements(keys)...)
		body = append(body, syntax.If{
			Cond: syntax.TypeTest{Expr: syntax.Field(config, "auth"), Type: apiKeysType},
			Then: then,
			Else: []syntax.Stmt{
				syntax.Assign{
					Target: syntax.Field(clientConfig, "auth"),
					Value:  syntax.TypeCast{Type: tokenAuthType(res), Expr: syntax.Field(config, "auth")},
				},
				syntax.Assign{Target: self, Value: syntax.NilLit},
			},
		})
		seq.APIKeyField = &syntax.ClassField{
			Final: true,
			Name:  apiKeyConfigParam,
			Type:  syntax.Intersection{Members: []syntax.TypeDesc{syntax.Readonly, syntax.Optional{Elem: apiKeysType}}},
		}
	}

	modifiedURL := syntax.Var(modifiedURLVar)
	body = append(body, syntax.VarDecl{
		Type: syntax.String,
		Name: modifiedURLVar,
		Init: syntax.Binary{Op: "+", Left: syntax.Var(serviceURLParam), Right: seq.Path.Template},
	})
	if usesQuery {
		seq.UsesQueryHelper = true
		body = append(body, syntax.Assign{
			Target: modifiedURL,
			Value: syntax.Binary{
				Op:    "+",
				Left:  modifiedURL,
				Right: syntax.Check{Expr: syntax.Call{Func: queryPathFunc, Args: []syntax.Expr{queryMap}}},
			},
		})
	}
	body = append(body,
		syntax.VarDecl{
			Type: wsType("Client"),
			Name: websocketEpVar,
			Init: syntax.Check{Expr: syntax.New{Args: []syntax.Expr{modifiedURL, clientConfig}}},
		},
		syntax.Assign{Target: syntax.Field(syntax.Self, clientEpField), Value: syntax.Var(websocketEpVar)},
		syntax.Return{},
	)
	seq.Body = body
	return seq, nil
}

func (s *InitSequence) buildParams(mode AuthMode, serviceURL string, params []ChannelParameter, channel string) error {
	urlParam := syntax.Param{Name: serviceURLParam, Type: syntax.String, Doc: "URL of the target service"}
	if serviceURL != "" && serviceURL != "/" {
		urlParam.Default = syntax.Str(serviceURL)
	}
	configDoc := "The configurations to be used when initializing the `connector`"
	connectionConfig := syntax.Ref(ConnectionConfigName)

	var list []syntax.Param
	switch mode {
	case AuthModeToken, AuthModeCombined:
		list = append(list, syntax.Param{Name: configParam, Type: connectionConfig, Doc: configDoc})
	case AuthModeKey:
		list = append(list,
			syntax.Param{Name: apiKeyConfigParam, Type: syntax.Ref(APIKeysConfigName), Doc: "API keys for authorization"},
			syntax.Param{Name: configParam, Type: connectionConfig, Default: syntax.EmptyMap, Doc: configDoc},
		)
	default:
		list = append(list, syntax.Param{Name: configParam, Type: connectionConfig, Default: syntax.EmptyMap, Doc: configDoc})
	}
	list = append(list, urlParam)

	for _, p := range params {
		if reservedInitNames[p.Ident] {
			return &asyncerrors.ParameterError{
				Channel:   channel,
				Parameter: p.Name,
				Location:  string(p.Location),
				Message:   "Parameter name clashes with a name declared by the client initializer",
			}
		}
		list = append(list, p.Param())
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Required() && !list[j].Required()
	})
	if err := syntax.ValidateParams(list); err != nil {
		return fmt.Errorf("generator: init parameters: %w", err)
	}
	s.Params = list
	return nil
}
