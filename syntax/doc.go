// Package syntax is a small structured representation of the host source the
// generator emits: type descriptors, expressions, statements and
// declarations, plus a renderer.
//
// Building code through these values instead of formatted strings keeps
// identifier escaping and union de-duplication in one place:
//
//	auth := syntax.NewUnion(
//	    syntax.QualifiedRef("websocket", "BearerTokenConfig"),
//	    syntax.Ref("ApiKeysConfig"),
//	)
//	auth.String() // "websocket:BearerTokenConfig|ApiKeysConfig"
//
// Records are checked with [RecordType.Validate] and parameter lists with
// [ValidateParams] before they are rendered.
package syntax
