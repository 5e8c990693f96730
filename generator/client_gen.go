package generator

import (
	"fmt"

	"github.com/thushalya/asyncapi-tools-1/parser"
	"github.com/thushalya/asyncapi-tools-1/syntax"
)

// Generated file names.
const (
	TypesFileName  = "types.bal"
	ClientFileName = "client.bal"
	UtilsFileName  = "utils.bal"
)

var (
	importHTTP      = syntax.Import{Org: "ballerina", Module: "http"}
	importWebsocket = syntax.Import{Org: "ballerina", Module: "websocket"}
)

// buildTypesFile assembles types.bal from the configuration records and the
// component schema types.
func buildTypesFile(configs, schemaTypes []*syntax.TypeDefinition) *syntax.File {
	f := &syntax.File{Imports: []syntax.Import{importHTTP, importWebsocket}}
	for _, d := range configs {
		f.Decls = append(f.Decls, d)
	}
	for _, d := range schemaTypes {
		f.Decls = append(f.Decls, d)
	}
	return f
}

// buildClientFile assembles client.bal: a client class holding the
// websocket endpoint, the API key state and the initializer.
func buildClientFile(className string, info *parser.Info, seq *InitSequence) *syntax.File {
	class := &syntax.Class{
		Qualifiers: []string{"public", "isolated", "client"},
		Name:       className,
		Doc:        clientDoc(info),
		Fields: []syntax.ClassField{
			{Final: true, Name: clientEpField, Type: wsType("Client")},
		},
		Methods: []*syntax.Function{seq.Function()},
	}
	if seq.APIKeyField != nil {
		class.Fields = append(class.Fields, *seq.APIKeyField)
	}
	return &syntax.File{
		Imports: []syntax.Import{importWebsocket},
		Decls:   []syntax.Decl{class},
	}
}

func clientDoc(info *parser.Info) string {
	if info == nil || info.Title == "" {
		return "This is a generated connector for a WebSocket API."
	}
	doc := fmt.Sprintf("This is a generated connector for the %s API.", info.Title)
	if info.Description != "" {
		doc += "\n" + info.Description
	}
	return doc
}
