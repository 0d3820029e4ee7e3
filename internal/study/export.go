package study

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// ExportFileName is "<document-name>_<kind>.json", using only the base of docName.
func ExportFileName(docName string, kind Kind) string {
	name := filepath.Base(strings.ReplaceAll(docName, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		name = "uploaded_document"
	}
	return name + "_" + string(kind) + ".json"
}

// Export renders a as pretty-printed JSON with a two-space indent.
func Export(a Artifact) ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// WriteExport writes a into dir under ExportFileName and returns the path.
func WriteExport(dir, docName string, a Artifact) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	b, err := Export(a)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ExportFileName(docName, a.Kind()))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
