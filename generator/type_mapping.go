// This file implements AsyncAPI type/format to host type mapping.

package generator

import (
	"github.com/thushalya/asyncapi-tools-1/internal/naming"
	"github.com/thushalya/asyncapi-tools-1/parser"
	"github.com/thushalya/asyncapi-tools-1/syntax"
)

// Host type names returned by ToHostType.
const (
	hostString     = "string"
	hostInt        = "int"
	hostFloat      = "float"
	hostDecimal    = "decimal"
	hostBoolean    = "boolean"
	hostByteArray  = "byte[]"
	hostOpenRecord = "record {}"
	hostArray      = "[]"
)

// ToHostType maps an AsyncAPI schema type and format to a host type name.
// The second result is false for types with no host equivalent.
//
// Objects map to "record {}" and arrays to "[]"; callers that cannot accept
// structured values treat those results as unsupported.
func ToHostType(specType, format string) (string, bool) {
	switch specType {
	case "string":
		switch format {
		case "byte", "binary":
			return hostByteArray, true
		}
		return hostString, true
	case "integer":
		return hostInt, true
	case "number":
		return numberFormatToHostType(format), true
	case "boolean":
		return hostBoolean, true
	case "object":
		return hostOpenRecord, true
	case "array":
		return hostArray, true
	default:
		return "", false
	}
}

// numberFormatToHostType maps AsyncAPI number formats to host types.
func numberFormatToHostType(format string) string {
	switch format {
	case "float":
		return hostFloat
	default:
		return hostDecimal
	}
}

// ResolveRefName returns the escaped type name a component schema reference
// points to ("#/components/schemas/room-id" -> "RoomId").
func ResolveRefName(ref string) string {
	return naming.ValidName(parser.RefName(ref), true)
}

// scalarTypeDesc returns the type descriptor for a scalar host type name.
func scalarTypeDesc(name string) (syntax.TypeDesc, bool) {
	switch name {
	case hostString:
		return syntax.String, true
	case hostInt:
		return syntax.Int, true
	case hostFloat:
		return syntax.Float, true
	case hostDecimal:
		return syntax.Decimal, true
	case hostBoolean:
		return syntax.Boolean, true
	case hostByteArray:
		return syntax.Array{Elem: syntax.Byte}, true
	}
	return nil, false
}
