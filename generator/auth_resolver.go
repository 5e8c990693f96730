package generator

import (
	"sort"
	"strings"

	"github.com/thushalya/asyncapi-tools-1/asyncerrors"
	"github.com/thushalya/asyncapi-tools-1/internal/naming"
	"github.com/thushalya/asyncapi-tools-1/parser"
)

// AuthType is a credential kind the generated client accepts. The numeric
// order is the order in which members of the auth union are rendered.
type AuthType int

const (
	// AuthBasic is HTTP basic authentication.
	AuthBasic AuthType = iota
	// AuthBearer is a bearer token.
	AuthBearer
	// AuthClientCredentials is the OAuth2 client credentials grant.
	AuthClientCredentials
	// AuthPassword is the OAuth2 password grant.
	AuthPassword
	// AuthRefreshToken is the OAuth2 refresh token grant.
	AuthRefreshToken
	// AuthAPIKey is one or more API keys sent in the query or headers.
	AuthAPIKey
)

var authTypeNames = [...]string{
	AuthBasic:             "basic",
	AuthBearer:            "bearer",
	AuthClientCredentials: "client-credentials",
	AuthPassword:          "password",
	AuthRefreshToken:      "refresh-token",
	AuthAPIKey:            "api-key",
}

func (t AuthType) String() string {
	if t < 0 || int(t) >= len(authTypeNames) {
		return "unknown"
	}
	return authTypeNames[t]
}

// AuthTypeSet is a de-duplicated set of auth types. Members are reported in
// AuthType order.
type AuthTypeSet uint8

// Add adds t to the set.
func (s *AuthTypeSet) Add(t AuthType) { *s |= 1 << uint(t) }

// Has reports whether t is in the set.
func (s AuthTypeSet) Has(t AuthType) bool { return s&(1<<uint(t)) != 0 }

// Len returns the number of members.
func (s AuthTypeSet) Len() int { return len(s.Members()) }

// Members returns the members in AuthType order.
func (s AuthTypeSet) Members() []AuthType {
	var out []AuthType
	for t := AuthBasic; t <= AuthAPIKey; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// SchemeFamily classifies a security scheme by how the generator treats it.
type SchemeFamily int

const (
	// FamilyOther covers scheme types that contribute nothing (X509, openIdConnect, ...).
	FamilyOther SchemeFamily = iota
	// FamilyHTTP is an http scheme (basic or bearer).
	FamilyHTTP
	// FamilyOAuth2 is an oauth2 scheme with one or more flows.
	FamilyOAuth2
	// FamilyAPIKey is an httpApiKey scheme placed in the query, a header or a cookie.
	FamilyAPIKey
	// FamilyUserPassword is the unsupported userPassword scheme.
	FamilyUserPassword
	// FamilyAPIKeyLegacy is the unsupported apiKey scheme.
	FamilyAPIKeyLegacy
)

// ClassifyScheme returns the family of a security scheme.
func ClassifyScheme(s *parser.SecurityScheme) SchemeFamily {
	if s == nil {
		return FamilyOther
	}
	switch s.Type {
	case parser.SchemeTypeHTTP:
		return FamilyHTTP
	case parser.SchemeTypeOAuth2:
		return FamilyOAuth2
	case parser.SchemeTypeHTTPAPIKey:
		return FamilyAPIKey
	case parser.SchemeTypeUserPassword:
		return FamilyUserPassword
	case parser.SchemeTypeAPIKey:
		return FamilyAPIKeyLegacy
	default:
		return FamilyOther
	}
}

// AuthMode summarizes which constructor and record layout a resolution needs.
type AuthMode int

const (
	// AuthModeNone means the document declares no security schemes.
	AuthModeNone AuthMode = iota
	// AuthModeKey means only API keys are supported.
	AuthModeKey
	// AuthModeToken means only HTTP or OAuth2 credentials are supported.
	AuthModeToken
	// AuthModeCombined means both API keys and HTTP or OAuth2 credentials are supported.
	AuthModeCombined
)

func (m AuthMode) String() string {
	switch m {
	case AuthModeKey:
		return "key"
	case AuthModeToken:
		return "token"
	case AuthModeCombined:
		return "combined"
	default:
		return "none"
	}
}

// APIKey is one API key declared by an httpApiKey scheme.
type APIKey struct {
	// Scheme is the security scheme name that declared the key
	Scheme string
	// Name is the key name as sent on the wire ("X-API-KEY")
	Name string
	// Field is the ApiKeysConfig field that holds the key value
	Field string
	// In is the key location: query, header or cookie
	In string
}

// AuthResolution is the immutable result of resolving a document's security
// schemes. The zero value is the no-auth resolution.
type AuthResolution struct {
	apiKey      bool
	httpOrOAuth bool
	declared    bool
	types       AuthTypeSet
	urls        map[AuthType]string
	keys        []APIKey
}

// Declared reports whether the document carried a securitySchemes object.
func (r *AuthResolution) Declared() bool { return r != nil && r.declared }

// HasAPIKey reports whether at least one httpApiKey scheme was accepted.
func (r *AuthResolution) HasAPIKey() bool { return r != nil && r.apiKey }

// HTTPOrOAuth reports whether an http or oauth2 scheme was accepted.
func (r *AuthResolution) HTTPOrOAuth() bool { return r != nil && r.httpOrOAuth }

// Mode returns the auth layout for the resolution.
func (r *AuthResolution) Mode() AuthMode {
	switch {
	case r.HasAPIKey() && r.HTTPOrOAuth():
		return AuthModeCombined
	case r.HasAPIKey():
		return AuthModeKey
	case r.HTTPOrOAuth():
		return AuthModeToken
	default:
		return AuthModeNone
	}
}

// Has reports whether t was collected.
func (r *AuthResolution) Has(t AuthType) bool {
	return r != nil && r.types.Has(t)
}

// AuthTypes returns the collected auth types.
func (r *AuthResolution) AuthTypes() AuthTypeSet {
	if r == nil {
		return 0
	}
	return r.types
}

// Types returns the collected auth types in union order.
func (r *AuthResolution) Types() []AuthType {
	return r.AuthTypes().Members()
}

// TokenURL returns the endpoint captured for an OAuth2 grant. For
// AuthRefreshToken this is the refresh URL.
func (r *AuthResolution) TokenURL(t AuthType) (string, bool) {
	if r == nil {
		return "", false
	}
	u, ok := r.urls[t]
	return u, ok
}

// APIKeys returns the accepted API keys ordered by field name. Keys whose
// names map to the same field are reported once.
func (r *AuthResolution) APIKeys() []APIKey {
	if r == nil {
		return nil
	}
	return append([]APIKey(nil), r.keys...)
}

// APIKeysIn returns the accepted API keys sent at location in ("query",
// "header" or "cookie"), ordered by field name.
func (r *AuthResolution) APIKeysIn(in string) []APIKey {
	if r == nil {
		return nil
	}
	var out []APIKey
	for _, k := range r.keys {
		if k.In == in {
			out = append(out, k)
		}
	}
	return out
}

// QueryKeys returns the API keys sent as query parameters, keyed by scheme name.
func (r *AuthResolution) QueryKeys() map[string]string {
	return placement(r.APIKeysIn(parser.APIKeyInQuery))
}

// HeaderKeys returns the API keys sent as headers, keyed by scheme name.
func (r *AuthResolution) HeaderKeys() map[string]string {
	return placement(r.APIKeysIn(parser.APIKeyInHeader))
}

func placement(keys []APIKey) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k.Scheme] = k.Name
	}
	return out
}

// ResolveAuth classifies the security schemes of a document.
//
// A nil map means the document declares no schemes and yields the no-auth
// resolution. A non-nil map must contain at least one usable http (basic or
// bearer), oauth2 (with at least one flow) or httpApiKey scheme; userPassword and apiKey schemes are rejected outright.
// Schemes are visited in name order so the result does not depend on map
// iteration.
func ResolveAuth(schemes map[string]*parser.SecurityScheme) (*AuthResolution, error) {
	if schemes == nil {
		return &AuthResolution{}, nil
	}

	res := &AuthResolution{
		declared: true,
		urls:     make(map[AuthType]string),
	}
	keyFields := make(map[string]bool)

	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		scheme := schemes[name]
		if scheme == nil {
			continue
		}
		switch ClassifyScheme(scheme) {
		case FamilyHTTP:
			switch strings.ToLower(scheme.Scheme) {
			case parser.HTTPSchemeBasic:
				res.types.Add(AuthBasic)
			case parser.HTTPSchemeBearer:
				res.types.Add(AuthBearer)
			}
		case FamilyOAuth2:
			res.addFlows(scheme.Flows)
		case FamilyAPIKey:
			res.apiKey = true
			res.types.Add(AuthAPIKey)
			field := naming.ValidName(strings.TrimSpace(scheme.Name), false)
			if field == "" || keyFields[field] {
				continue
			}
			keyFields[field] = true
			res.keys = append(res.keys, APIKey{Scheme: name, Name: scheme.Name, Field: field, In: scheme.In})
		case FamilyUserPassword, FamilyAPIKeyLegacy:
			return nil, &asyncerrors.SchemeError{
				Scheme:  name,
				Type:    scheme.Type,
				Message: "the security scheme type is not supported for websocket clients",
			}
		}
	}

	// http schemes other than basic and bearer, and oauth2 schemes without
	// flows, contribute no credential type and do not count as token auth.
	for _, t := range res.types.Members() {
		if t != AuthAPIKey {
			res.httpOrOAuth = true
			break
		}
	}
	if !res.apiKey && !res.httpOrOAuth {
		return nil, &asyncerrors.SchemeError{
			Message: "the declared security schemes provide no usable authentication",
		}
	}

	sort.Slice(res.keys, func(i, j int) bool { return res.keys[i].Field < res.keys[j].Field })
	return res, nil
}

func (r *AuthResolution) addFlows(flows *parser.OAuthFlows) {
	if flows == nil {
		return
	}
	if f := flows.ClientCredentials; f != nil {
		r.types.Add(AuthClientCredentials)
		r.captureURL(AuthClientCredentials, f.TokenURL)
	}
	if f := flows.Password; f != nil {
		r.types.Add(AuthPassword)
		r.captureURL(AuthPassword, f.TokenURL)
	}
	if f := flows.AuthorizationCode; f != nil {
		r.types.Add(AuthBearer)
		r.types.Add(AuthRefreshToken)
		if strings.TrimSpace(f.RefreshURL) != "" {
			r.captureURL(AuthRefreshToken, f.RefreshURL)
		} else {
			r.captureURL(AuthRefreshToken, f.TokenURL)
		}
	}
	if flows.Implicit != nil {
		r.types.Add(AuthBearer)
	}
}

// captureURL records url for t unless it is blank or one was already seen.
func (r *AuthResolution) captureURL(t AuthType, url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	if _, ok := r.urls[t]; ok {
		return
	}
	r.urls[t] = url
}
