// Package asyncapitools converts between AsyncAPI 2.x documents and
// WebSocket services of a Ballerina-style host language.
//
// # Overview
//
// The module is organised in two directions:
//
//   - generator: AsyncAPI document in, WebSocket client sources out
//     (types.bal, client.bal and, when needed, utils.bal)
//   - converter: service declaration tree in, AsyncAPI 2.5.0 document out
//
// Supporting packages:
//
//   - parser: decodes AsyncAPI documents and resolves $ref pointers
//   - service: decodes the YAML service tree consumed by the converter
//   - syntax: builds and prints the host-language syntax tree
//   - asyncerrors: typed errors shared by every package
//
// # Quick Start
//
// Generate a client:
//
//	import "github.com/thushalya/asyncapi-tools-1/generator"
//
//	result, err := generator.GenerateWithOptions(
//		generator.WithFilePath("chat.yaml"),
//		generator.WithClientName("ChatClient"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = result.WriteFiles("./client")
//
// Convert a service back into a document:
//
//	import "github.com/thushalya/asyncapi-tools-1/converter"
//
//	result, err := converter.ConvertWithOptions(
//		converter.WithFilePath("chat_service.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = result.WriteFile(result.FileName())
//
// # Command Line
//
// The asyncapi-tools binary in cmd/asyncapi-tools wraps both directions
// and exposes them to MCP clients through the mcp subcommand.
package asyncapitools
