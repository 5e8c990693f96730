package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thushalya/asyncapi-tools-1/internal/fileutil"
)

// sourceExt is the extension of every generated file.
const sourceExt = ".bal"

// WriteFiles writes all generated files to the specified output directory.
// The directory is created if it doesn't exist.
//
// Every file is checked before anything is written: names must be plain
// .bal file names, no target may be the source document, and existing
// symlinks are never followed.
func (r *GenerateResult) WriteFiles(outputDir string) error {
	targets := make([]string, len(r.Files))
	for i, file := range r.Files {
		target, err := r.writeTarget(outputDir, file.Name)
		if err != nil {
			return err
		}
		targets[i] = target
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for i, file := range r.Files {
		if err := os.WriteFile(targets[i], file.Content, fileutil.ReadableByAll); err != nil {
			return fmt.Errorf("failed to write file %s: %w", file.Name, err)
		}
	}
	return nil
}

func (r *GenerateResult) writeTarget(outputDir, name string) (string, error) {
	if filepath.Base(name) != name {
		return "", fmt.Errorf("invalid file name %q: must not contain path separators", name)
	}
	if !strings.HasSuffix(name, sourceExt) {
		return "", fmt.Errorf("invalid file name %q: generated files must have the %s extension", name, sourceExt)
	}
	target := filepath.Join(outputDir, name)

	if r.SourcePath != "" {
		src, err1 := filepath.Abs(r.SourcePath)
		dst, err2 := filepath.Abs(target)
		if err1 == nil && err2 == nil && src == dst {
			return "", fmt.Errorf("refusing to overwrite source document %s", r.SourcePath)
		}
	}
	if info, err := os.Lstat(target); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return "", fmt.Errorf("refusing to write %s: target is a symlink", name)
	}
	return target, nil
}
