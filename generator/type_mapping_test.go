package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHostType(t *testing.T) {
	tests := []struct {
		specType string
		format   string
		want     string
		wantOK   bool
	}{
		{"string", "", "string", true},
		{"string", "date-time", "string", true},
		{"string", "byte", "byte[]", true},
		{"string", "binary", "byte[]", true},
		{"integer", "int64", "int", true},
		{"number", "", "decimal", true},
		{"number", "double", "decimal", true},
		{"number", "float", "float", true},
		{"boolean", "", "boolean", true},
		{"object", "", "record {}", true},
		{"array", "", "[]", true},
		{"null", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.specType+"/"+tt.format, func(t *testing.T) {
			got, ok := ToHostType(tt.specType, tt.format)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRefName(t *testing.T) {
	assert.Equal(t, "Room", ResolveRefName("#/components/schemas/Room"))
	assert.Equal(t, "RoomId", ResolveRefName("#/components/schemas/room-id"))
	assert.Equal(t, "Error", ResolveRefName("other.yaml#/components/schemas/error"))
	assert.Equal(t, "'2fa", ResolveRefName("#/components/schemas/2fa"))
}
