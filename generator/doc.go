// Package generator generates WebSocket client sources from AsyncAPI 2.x
// documents.
//
// The generator resolves the document's security schemes into an auth
// layout, synthesizes the connection and API key configuration records,
// maps the first channel's path, query and header parameters onto the
// client initializer and renders three files:
//
//   - types.bal: ConnectionConfig, ApiKeysConfig, OAuth2 grant records and
//     one type per component schema
//   - client.bal: the client class and its initializer
//   - utils.bal: URL encoding helpers, emitted only when the channel path
//     or query string needs them
//
// # Quick Start
//
//	result, err := generator.GenerateWithOptions(
//	    generator.WithFilePath("chat.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := result.WriteFiles("./client"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Auth layouts
//
// A document without securitySchemes yields a client with no auth field.
// httpApiKey schemes alone yield an ApiKeysConfig initializer parameter.
// http and oauth2 schemes yield an auth union on ConnectionConfig, ordered
// basic, bearer, client credentials, password, refresh token. When both
// kinds are present ApiKeysConfig joins the union last and the initializer
// tests the runtime type of config.auth.
//
// Failures are fail-fast and reported with the typed errors of package
// asyncerrors.
package generator
