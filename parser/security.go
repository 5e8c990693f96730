package parser

// Security scheme types defined by AsyncAPI 2.x.
const (
	SchemeTypeUserPassword  = "userPassword"
	SchemeTypeAPIKey        = "apiKey"
	SchemeTypeX509          = "X509"
	SchemeTypeSymmetric     = "symmetricEncryption"
	SchemeTypeAsymmetric    = "asymmetricEncryption"
	SchemeTypeHTTPAPIKey    = "httpApiKey"
	SchemeTypeHTTP          = "http"
	SchemeTypeOAuth2        = "oauth2"
	SchemeTypeOpenIDConnect = "openIdConnect"
)

// HTTP authorization schemes understood by the generator.
const (
	HTTPSchemeBasic  = "basic"
	HTTPSchemeBearer = "bearer"
)

// API key locations.
const (
	APIKeyInQuery    = "query"
	APIKeyInHeader   = "header"
	APIKeyInCookie   = "cookie"
	APIKeyInUser     = "user"
	APIKeyInPassword = "password"
)

// SecurityScheme defines a security scheme that can be used by the API.
type SecurityScheme struct {
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Name of the header or query parameter (httpApiKey)
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// In is the location of the key: "query", "header" or "cookie" (httpApiKey),
	// "user" or "password" (apiKey)
	In string `yaml:"in,omitempty" json:"in,omitempty"`

	// Scheme is the HTTP authorization scheme (http)
	Scheme       string `yaml:"scheme,omitempty" json:"scheme,omitempty"`
	BearerFormat string `yaml:"bearerFormat,omitempty" json:"bearerFormat,omitempty"`

	Flows            *OAuthFlows `yaml:"flows,omitempty" json:"flows,omitempty"`
	OpenIDConnectURL string      `yaml:"openIdConnectUrl,omitempty" json:"openIdConnectUrl,omitempty"`

	Extra map[string]any `yaml:",inline" json:"-"`
}

// OAuthFlows holds the configuration of the supported OAuth flows.
type OAuthFlows struct {
	Implicit          *OAuthFlow `yaml:"implicit,omitempty" json:"implicit,omitempty"`
	Password          *OAuthFlow `yaml:"password,omitempty" json:"password,omitempty"`
	ClientCredentials *OAuthFlow `yaml:"clientCredentials,omitempty" json:"clientCredentials,omitempty"`
	AuthorizationCode *OAuthFlow `yaml:"authorizationCode,omitempty" json:"authorizationCode,omitempty"`
}

// OAuthFlow is the configuration of a single OAuth flow.
type OAuthFlow struct {
	AuthorizationURL string            `yaml:"authorizationUrl,omitempty" json:"authorizationUrl,omitempty"`
	TokenURL         string            `yaml:"tokenUrl,omitempty" json:"tokenUrl,omitempty"`
	RefreshURL       string            `yaml:"refreshUrl,omitempty" json:"refreshUrl,omitempty"`
	Scopes           map[string]string `yaml:"scopes,omitempty" json:"scopes,omitempty"`
}
