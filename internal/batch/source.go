package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSource reads document text from files on disk, rooted at a base
// directory. An empty root resolves references relative to the working
// directory.
type FileSource struct {
	Root string
}

// Text reads the referenced file as UTF-8 text.
func (s FileSource) Text(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := ref
	if s.Root != "" && !filepath.IsAbs(ref) {
		path = filepath.Join(s.Root, ref)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(data), nil
}

// MapSource serves documents from memory, keyed by reference.
type MapSource map[string]string

// Text returns the stored text or an error for unknown references.
func (s MapSource) Text(_ context.Context, ref string) (string, error) {
	text, ok := s[ref]
	if !ok {
		return "", fmt.Errorf("unknown document %q", ref)
	}
	return text, nil
}
