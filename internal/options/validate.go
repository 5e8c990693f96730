// Package options provides the input-source check shared by the functional
// options of the parser, generator and converter.
package options

import "github.com/thushalya/asyncapi-tools-1/asyncerrors"

// SingleInputSource ensures exactly one input source is specified.
// sources reports, per source option, whether it was set; hint names the
// options to use and is shown when none was.
func SingleInputSource(hint string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}
	switch {
	case count == 0:
		return &asyncerrors.ConfigError{Option: "input source", Message: "must specify an input source (use " + hint + ")"}
	case count > 1:
		return &asyncerrors.ConfigError{Option: "input source", Message: "must specify exactly one input source"}
	}
	return nil
}
