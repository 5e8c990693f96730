package service

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/thushalya/asyncapi-tools-1/asyncerrors"
	"github.com/thushalya/asyncapi-tools-1/internal/fileutil"
)

// MaxFileSize is the maximum size (in bytes) accepted for a service tree.
const MaxFileSize = 10 * 1024 * 1024

// Load decodes the service tree stored at path.
func Load(path string) (*Module, error) {
	data, err := fileutil.ReadLimited(path, MaxFileSize)
	if err != nil {
		return nil, &asyncerrors.ParseError{Path: path, Message: "failed to read service tree", Cause: err}
	}
	return decode(data, path)
}

// LoadBytes decodes a service tree held in memory. YAML and JSON are both
// accepted.
func LoadBytes(data []byte) (*Module, error) {
	return decode(data, "LoadBytes.yaml")
}

// LoadReader decodes a service tree read from r.
func LoadReader(r io.Reader) (*Module, error) {
	data, err := fileutil.ReadAllLimited(r, MaxFileSize)
	if err != nil {
		return nil, &asyncerrors.ParseError{Path: "LoadReader.yaml", Message: "failed to read service tree", Cause: err}
	}
	return decode(data, "LoadReader.yaml")
}

func decode(data []byte, source string) (*Module, error) {
	var m Module
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &asyncerrors.ParseError{Path: source, Message: "invalid service tree", Cause: err}
	}
	if err := m.validate(); err != nil {
		return nil, &asyncerrors.ParseError{Path: source, Message: err.Error()}
	}
	return &m, nil
}

func (m *Module) validate() error {
	if len(m.Services) == 0 {
		return fmt.Errorf("no service declarations")
	}
	seen := make(map[string]bool, len(m.Services))
	for _, s := range m.Services {
		if s == nil {
			return fmt.Errorf("empty service declaration")
		}
		if s.BasePath != "" && !strings.HasPrefix(s.BasePath, "/") {
			return fmt.Errorf("service base path %q must be absolute", s.BasePath)
		}
		if seen[s.BasePath] {
			return fmt.Errorf("duplicate service base path %q", s.BasePath)
		}
		seen[s.BasePath] = true
	}
	classes := make(map[string]bool, len(m.Classes))
	for _, c := range m.Classes {
		if c.Name == "" {
			return fmt.Errorf("class without a name")
		}
		if classes[c.Name] {
			return fmt.Errorf("duplicate class %q", c.Name)
		}
		classes[c.Name] = true
	}
	types := make(map[string]bool, len(m.Types))
	for _, t := range m.Types {
		if types[t.Name] {
			return fmt.Errorf("duplicate type %q", t.Name)
		}
		types[t.Name] = true
	}
	return nil
}
