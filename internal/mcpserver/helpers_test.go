package mcpserver

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

const echoDoc = `asyncapi: 2.5.0
info:
  title: Echo
  version: 1.0.0
servers:
  local:
    url: localhost:9090
    protocol: ws
channels:
  /echo:
    publish:
      message:
        $ref: '#/components/messages/Echo'
components:
  schemas:
    Echo:
      type: object
      properties:
        text:
          type: string
  messages:
    Echo:
      payload:
        $ref: '#/components/schemas/Echo'
  securitySchemes:
    token:
      type: http
      scheme: bearer
`

const echoService = `services:
  - basePath: /echo
    annotations:
      - ref: websocket:ServiceConfig
        fields:
          dispatcherKey: '"type"'
    members:
      - kind: resource
        accessor: get
        returns: EchoService
classes:
  - name: EchoService
    qualifiers: [service]
    members:
      - kind: remote
        name: onEcho
        params:
          - {name: message, type: Echo}
        returns: Echo
types:
  - name: Echo
    record:
      fields:
        - {name: type, type: string}
        - {name: text, type: string}
`

var configEnv = []string{
	"ASYNCAPI_TOOLS_CACHE_ENABLED",
	"ASYNCAPI_TOOLS_CACHE_MAX_SIZE",
	"ASYNCAPI_TOOLS_CACHE_TTL",
	"ASYNCAPI_TOOLS_CACHE_SWEEP_INTERVAL",
	"ASYNCAPI_TOOLS_MAX_INLINE_SIZE",
	"ASYNCAPI_TOOLS_INCLUDE_INFO",
	"ASYNCAPI_TOOLS_LOG_LEVEL",
}

// clearConfigEnv unsets every ASYNCAPI_TOOLS_* variable for the duration of
// the test. An empty but set variable is not the same as an unset one.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func newTestServer(t *testing.T) *toolServer {
	t.Helper()
	clearConfigEnv(t)
	cfg, err := loadConfig()
	require.NoError(t, err)
	return newToolServer(cfg, nil)
}
