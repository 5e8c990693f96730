// Package fileutil holds file permission modes and bounded file reads
// shared by the document and service loaders.
package fileutil

import (
	"fmt"
	"io"
	"os"
)

// OwnerReadWrite is the file permission mode for converted AsyncAPI
// documents (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for generated client source
// files intended to be read by build tools and other users.
const ReadableByAll os.FileMode = 0o644

// ReadLimited reads the file at path, failing when it is larger than max
// bytes.
func ReadLimited(path string, max int64) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // caller supplied path
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadAllLimited(f, max)
}

// ReadAllLimited reads r to the end, failing when it yields more than max
// bytes.
func ReadAllLimited(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("input exceeds maximum of %d bytes", max)
	}
	return data, nil
}
