package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeRef(t *testing.T) {
	tests := []struct {
		text string
		want TypeRef
		str  string
	}{
		{"string", String, "string"},
		{"()", Nil, "()"},
		{"Room", Named{Name: "Room"}, "Room"},
		{"websocket:Caller", Named{Module: "websocket", Name: "Caller"}, "websocket:Caller"},
		{"int[]", Array{Elem: Int}, "int[]"},
		{"string?", Optional{Elem: String}, "string?"},
		{"int[]?", Optional{Elem: Array{Elem: Int}}, "int[]?"},
		{"Room|error", Union{Members: []TypeRef{Named{Name: "Room"}, Error}}, "Room|error"},
		{"(Room|Ack)[]", Array{Elem: Union{Members: []TypeRef{Named{Name: "Room"}, Named{Name: "Ack"}}}}, "(Room|Ack)[]"},
		{"map<json>", Map{Value: JSON}, "map<json>"},
		{"byte[]", Array{Elem: Byte}, "byte[]"},
		{"stream<Event>", Stream{Elem: Named{Name: "Event"}}, "stream<Event>"},
		{"stream<Event, error?>", Stream{Elem: Named{Name: "Event"}, Completion: Optional{Elem: Error}}, "stream<Event, error?>"},
		{" decimal | () ", Union{Members: []TypeRef{Decimal, Nil}}, "decimal|()"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseTypeRef(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.str, got.String())
		})
	}
}

func TestParseTypeRefErrors(t *testing.T) {
	for _, text := range []string{"", "   ", "int[", "map<int", "Room|", "a b", "int$", ":Caller", "a:b:c", "(int", "stream<>"} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseTypeRef(text)
			assert.Error(t, err)
		})
	}
	assert.Panics(t, func() { MustParseTypeRef("map<") })
	assert.Equal(t, Int, MustParseTypeRef("int"))
}

func TestStripError(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Room|error", "Room"},
		{"error?", ""},
		{"error", ""},
		{"Room|Ack|error?", "Room|Ack"},
		{"Room?", "Room"},
		{"stream<Event, error?>", "stream<Event, error?>"},
		{"string", "string"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := StripError(MustParseTypeRef(tt.text))
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}
	assert.Nil(t, StripError(nil))
}

func TestIsError(t *testing.T) {
	assert.True(t, IsError(Error))
	assert.True(t, IsError(MustParseTypeRef("error?")))
	assert.True(t, IsError(MustParseTypeRef("error|()")))
	assert.False(t, IsError(MustParseTypeRef("Room|error")))
	assert.False(t, IsError(String))
	assert.True(t, IsNil(Nil))
	assert.False(t, IsNil(String))
}
