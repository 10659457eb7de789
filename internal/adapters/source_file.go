package adapters

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"dbschema-spec/internal/ports"
	"dbschema-spec/internal/types"
)

// SourceFileAdapter implements ports.DocumentSource over a directory tree
// of schema documents. JSON is the primary format; .yaml/.yml documents
// decode into the same untyped tree. JSON numbers are decoded as
// json.Number so they round-trip losslessly into the output.
type SourceFileAdapter struct {
	baseDir string
}

// NewSourceFileAdapter returns a source rooted at baseDir.
func NewSourceFileAdapter(baseDir string) *SourceFileAdapter {
	return &SourceFileAdapter{baseDir: baseDir}
}

// Load reads and parses the document at a base-relative path.
func (a *SourceFileAdapter) Load(path string) (types.Document, error) {
	full := a.fullPath(path)
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("schema file not found: " + full).
				WithCause(err)
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg("failed to read schema file: " + full).
			WithCause(err)
	}

	var doc types.Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to parse YAML schema file: " + full).
				WithCause(err)
		}
	default:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&doc); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to parse JSON schema file: " + full).
				WithCause(err)
		}
	}
	return doc, nil
}

// Exists reports whether the path names a regular file.
func (a *SourceFileAdapter) Exists(path string) bool {
	info, err := os.Stat(a.fullPath(path))
	return err == nil && info.Mode().IsRegular()
}

func (a *SourceFileAdapter) fullPath(path string) string {
	return filepath.Join(a.baseDir, filepath.FromSlash(path))
}

var _ ports.DocumentSource = (*SourceFileAdapter)(nil)
