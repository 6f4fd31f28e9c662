// Package dataset reads and writes record files.
//
// A dataset file holds a list of records, either as a JSON array or as a
// YAML sequence of mappings. The format follows the file extension.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/roadwatch/internal/record"
)

// Format names a dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// LoadFile reads the records stored at path.
func LoadFile(path string) ([]record.Object, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	recs, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// Decode parses records in the given format. An empty YAML document is an
// empty dataset.
func Decode(data []byte, format Format) ([]record.Object, error) {
	switch format {
	case FormatJSON:
		return record.DecodeObjects(data)
	case FormatYAML:
		var raw []any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML dataset: %w", err)
		}
		v, err := record.FromAny(raw)
		if err != nil {
			return nil, err
		}
		list, _ := v.(record.List)
		return record.ObjectsFromList(list)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}
}

// Write encodes records in the given format.
func Write(w io.Writer, recs []record.Object, format Format) error {
	switch format {
	case FormatJSON:
		items := make([]any, len(recs))
		for i, rec := range recs {
			items[i] = record.ToAny(rec)
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("encode JSON dataset: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	case FormatYAML:
		items := make([]any, len(recs))
		for i, rec := range recs {
			items[i] = record.ToAny(rec)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("encode YAML dataset: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported dataset format %q", format)
	}
}
