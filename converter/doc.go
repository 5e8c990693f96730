// Package converter turns host websocket service declarations into
// AsyncAPI 2.5.0 documents.
//
// The converter reads the dispatcher key from the service's
// @websocket:ServiceConfig annotation and walks its get resources. Each
// resource becomes a channel: path segments name the channel, resource
// parameters become the websocket binding's query and headers schemas,
// and the service class returned by the resource contributes one message
// per on<Name> remote function.
//
// # Quick Start
//
//	result, err := converter.ConvertWithOptions(
//	    converter.WithFilePath("chat_service.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, issue := range result.Issues {
//	    fmt.Println(issue)
//	}
//	if err := result.WriteFile(result.FileName()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Messages
//
// The first parameter of a remote function that is not the websocket
// caller is the incoming message and is listed under the channel's publish
// operation. Return types other than error become subscribe messages and
// are linked from the incoming message through x-response. Handlers that
// return stream<T> are marked x-response-type: streaming, all others
// simple-rpc.
//
// A missing or empty dispatcher key fails the conversion with
// asyncerrors.ErrMissingDispatchAnnotation. Problems with individual
// handlers are reported as issues and do not stop the walk.
package converter
