package scene

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/magnet/pkg/errors"
)

// Document is a parsed scene file.
type Document struct {
	Name     string    `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Stage    Stage     `json:"stage" yaml:"stage" toml:"stage"`
	Elements []Element `json:"elements" yaml:"elements" toml:"elements" validate:"dive"`
}

// Stage holds the stage size and policy. A zero width or height leaves that
// axis unbounded, so the stage sizes to its content.
type Stage struct {
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty" validate:"gte=0"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty" validate:"gte=0"`
	Policy string  `json:"policy,omitempty" yaml:"policy,omitempty" toml:"policy,omitempty" validate:"omitempty,oneof=strict lenient"`
}

// Element is one stage element. Which fields apply depends on Kind.
type Element struct {
	ID   string `json:"id" yaml:"id" toml:"id" validate:"required"`
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty" validate:"omitempty,oneof=view guideline barrier"`

	// View fields.
	Width           string             `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height          string             `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
	Margin          string             `json:"margin,omitempty" yaml:"margin,omitempty" toml:"margin,omitempty"`
	CollapsedMargin string             `json:"collapsedMargin,omitempty" yaml:"collapsedMargin,omitempty" toml:"collapsedMargin,omitempty"`
	Bias            *Bias              `json:"bias,omitempty" yaml:"bias,omitempty" toml:"bias,omitempty"`
	Pulls           map[string]string  `json:"pulls,omitempty" yaml:"pulls,omitempty" toml:"pulls,omitempty"`
	GoneMargins     map[string]float64 `json:"goneMargins,omitempty" yaml:"goneMargins,omitempty" toml:"goneMargins,omitempty"`
	Anchors         map[string]string  `json:"anchors,omitempty" yaml:"anchors,omitempty" toml:"anchors,omitempty"`
	Visibility      string             `json:"visibility,omitempty" yaml:"visibility,omitempty" toml:"visibility,omitempty" validate:"omitempty,oneof=visible hidden collapsed gone invisible"`
	Content         *Content           `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`

	// Guideline fields.
	Axis     string  `json:"axis,omitempty" yaml:"axis,omitempty" toml:"axis,omitempty" validate:"omitempty,oneof=horizontal vertical"`
	Fraction float64 `json:"fraction,omitempty" yaml:"fraction,omitempty" toml:"fraction,omitempty" validate:"gte=0,lte=1"`
	Delta    float64 `json:"delta,omitempty" yaml:"delta,omitempty" toml:"delta,omitempty"`

	// Barrier fields. Margin holds a single number for barriers.
	Side    string   `json:"side,omitempty" yaml:"side,omitempty" toml:"side,omitempty"`
	Members []string `json:"members,omitempty" yaml:"members,omitempty" toml:"members,omitempty"`
}

// Bias positions a view between two soft pulls on each axis.
type Bias struct {
	Horizontal *float64 `json:"horizontal,omitempty" yaml:"horizontal,omitempty" toml:"horizontal,omitempty" validate:"omitempty,gte=0,lte=1"`
	Vertical   *float64 `json:"vertical,omitempty" yaml:"vertical,omitempty" toml:"vertical,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Content describes what a view's host box reports when measured.
type Content struct {
	Width      float64 `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty" validate:"gte=0"`
	Height     float64 `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty" validate:"gte=0"`
	Text       string  `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
	CharWidth  float64 `json:"charWidth,omitempty" yaml:"charWidth,omitempty" toml:"charWidth,omitempty" validate:"gte=0"`
	LineHeight float64 `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty" toml:"lineHeight,omitempty" validate:"gte=0"`
	Padding    float64 `json:"padding,omitempty" yaml:"padding,omitempty" toml:"padding,omitempty" validate:"gte=0"`
}

// KindOf returns the element kind, defaulting to "view".
func (e Element) KindOf() string {
	if e.Kind == "" {
		return "view"
	}
	return e.Kind
}

// Format is a scene file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// DetectFormat picks the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported scene file %q (want .yaml, .yml, .toml or .json)", path)
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, FormatTOML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown scene format %q", s)
}

// Load reads and parses a scene file, picking the format from its
// extension.
func Load(path string) (*Document, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene file %q", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read scene file %q", path)
	}
	return Parse(data, format)
}

// Parse decodes a scene document. Unknown fields are rejected.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "decode yaml scene")
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "decode toml scene")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidSyntax, "decode toml scene: unknown field %q", undecoded[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "decode json scene")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown scene format %q", format)
	}
	return &doc, nil
}

// Marshal encodes the document in the given format.
func (d *Document) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(d)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(d); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown scene format %q", format)
}
