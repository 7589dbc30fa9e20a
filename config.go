package ammonia

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format of a policy file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf returns format of policy file by its extension. Files with unknown
// extension are YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ReadPolicy decodes a policy in given format from r. The policy starts
// empty, so every field missing in r stays empty. Unknown fields are errors.
func ReadPolicy(r io.Reader, format Format) (*Policy, error) {
	p := new(Policy)
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(p); err != nil && err != io.EOF {
			return nil, fmt.Errorf("ammonia: decode yaml policy: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(p); err != nil {
			return nil, fmt.Errorf("ammonia: decode json policy: %w", err)
		}
	default:
		return nil, fmt.Errorf("ammonia: unknown policy format %q", format)
	}
	return p, nil
}

// LoadPolicy reads policy file from path. Its format is selected by
// [FormatOf].
func LoadPolicy(path string) (*Policy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf(genericErrMsg, err)
	}
	defer f.Close()

	p, err := ReadPolicy(f, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return p, nil
}

// EncodePolicy writes p to w in given format.
func EncodePolicy(w io.Writer, p *Policy, format Format) error {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("ammonia: encode yaml policy: %w", err)
		} else if err := enc.Close(); err != nil {
			return fmt.Errorf("ammonia: encode yaml policy: %w", err)
		}
		if _, err := buf.WriteTo(w); err != nil {
			return fmt.Errorf(genericErrMsg, err)
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("ammonia: encode json policy: %w", err)
		}
	default:
		return fmt.Errorf("ammonia: unknown policy format %q", format)
	}
	return nil
}
