package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"genrate", "generate"},
		{"generat", "generate"},
		{"conert", "convert"},
		{"convrt", "convert"},
		{"prase", "parse"},
		{"mpc", "mcp"},
		{"versio", "version"},
		{"hep", "help"},

		{"xyz", ""},
		{"validate", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, suggestCommand(tt.input))
		})
	}
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("parse", "parse"))
	assert.Equal(t, 1, editDistance("pars", "parse"))
	assert.Equal(t, 2, editDistance("mpc", "mcp"))
	assert.Equal(t, 5, editDistance("", "parse"))
}
