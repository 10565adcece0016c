package docs

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is returned when an interchange file does not describe documentation.
var ErrInvalidDocument = errors.New("invalid documentation file")

// Format is an interchange format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format: %s", s)
}

// FormatFromPath guesses the format of a file from its extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// IsDocsFile reports whether a path looks like an interchange file.
func IsDocsFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

//go:embed schema.json
var schemaBytes []byte

// Validate checks JSON content against the documentation schema.
// Comments and trailing commas are accepted.
func Validate(content []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(jsonc.ToJSON(content)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
	}
	return nil
}

// Decode reads documentation in the given format.
// JSON input is validated against the schema first.
func Decode(r io.Reader, format Format) (*Documentation, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	d := New()
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(b, d); err != nil {
			return nil, err
		}
	default:
		if err := Validate(b); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(jsonc.ToJSONInPlace(b), d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Encode writes documentation in the given format.
func Encode(w io.Writer, d *Documentation, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
}

// Load reads an interchange file, choosing the format from its extension.
func Load(path string) (*Documentation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return d, nil
}

// Save writes an interchange file, choosing the format from its extension.
func Save(path string, d *Documentation) error {
	return SaveFormat(path, d, FormatFromPath(path))
}

// SaveFormat writes an interchange file in the given format.
func SaveFormat(path string, d *Documentation, format Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, d, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
