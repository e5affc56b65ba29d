package skinview

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// BackgroundType tags the Background union
type BackgroundType string

const (
	BackgroundColor    BackgroundType = "color"
	BackgroundImage    BackgroundType = "image"
	BackgroundPanorama BackgroundType = "panorama"
)

// Background is a solid color, a flat image or an equirectangular panorama.
// Color is used when Type is BackgroundColor, URL otherwise.
type Background struct {
	Type  BackgroundType
	Color uint32
	URL   string
}

// ColorBackground returns a solid background of 0xRRGGBB
func ColorBackground(color uint32) *Background {
	return &Background{Type: BackgroundColor, Color: color}
}

// ImageBackground returns a background loaded from an image URL
func ImageBackground(url string) *Background {
	return &Background{Type: BackgroundImage, URL: url}
}

// PanoramaBackground returns a panorama background loaded from url
func PanoramaBackground(url string) *Background {
	return &Background{Type: BackgroundPanorama, URL: url}
}

// Validate checks the tag
func (b *Background) Validate() error {
	switch b.Type {
	case BackgroundColor, BackgroundImage, BackgroundPanorama:
		return nil
	}
	return fmt.Errorf("%w: unknown type %q", ErrInvalidBackground, b.Type)
}

// Equal compares two possibly nil backgrounds by the fields their tag uses
func (b *Background) Equal(o *Background) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.Type != o.Type {
		return false
	}
	if b.Type == BackgroundColor {
		return b.Color == o.Color
	}
	return b.URL == o.URL
}

// String renders the background the way it is written in props files
func (b *Background) String() string {
	if b == nil {
		return "none"
	}
	if b.Type == BackgroundColor {
		return fmt.Sprintf("color #%06x", b.Color)
	}
	return fmt.Sprintf("%s %s", b.Type, b.URL)
}

// backgroundWire is the {type, value} shape used on the wire and in files
type backgroundWire struct {
	Type  BackgroundType `json:"type" yaml:"type"`
	Value any            `json:"value" yaml:"value"`
}

func (b *Background) fromWire(w backgroundWire) error {
	out := Background{Type: w.Type}
	if err := out.Validate(); err != nil {
		return err
	}

	if w.Type == BackgroundColor {
		c, err := colorValue(w.Value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBackground, err)
		}
		out.Color = c
	} else {
		s, ok := w.Value.(string)
		if !ok {
			return fmt.Errorf("%w: %s value must be a URL", ErrInvalidBackground, w.Type)
		}
		out.URL = s
	}

	*b = out
	return nil
}

// MarshalJSON writes {"type": ..., "value": ...} with colors as numbers
func (b Background) MarshalJSON() ([]byte, error) {
	w := backgroundWire{Type: b.Type, Value: b.URL}
	if b.Type == BackgroundColor {
		w.Value = b.Color
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads {"type": ..., "value": ...}
func (b *Background) UnmarshalJSON(data []byte) error {
	var w backgroundWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return b.fromWire(w)
}

// MarshalYAML writes colors as "#rrggbb" strings
func (b Background) MarshalYAML() (interface{}, error) {
	w := backgroundWire{Type: b.Type, Value: b.URL}
	if b.Type == BackgroundColor {
		w.Value = fmt.Sprintf("#%06x", b.Color)
	}
	return w, nil
}

// UnmarshalYAML reads {type, value}; color values may be ints or hex strings
func (b *Background) UnmarshalYAML(node *yaml.Node) error {
	var w backgroundWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	return b.fromWire(w)
}

// colorValue accepts the numeric and string forms a color may take after
// JSON or YAML decoding.
func colorValue(v any) (uint32, error) {
	switch c := v.(type) {
	case float64:
		if c < 0 || c > math.MaxUint32 || c != math.Trunc(c) {
			return 0, fmt.Errorf("color %v out of range", c)
		}
		return uint32(c), nil
	case int:
		if c < 0 || int64(c) > math.MaxUint32 {
			return 0, fmt.Errorf("color %d out of range", c)
		}
		return uint32(c), nil
	case int64:
		if c < 0 || c > math.MaxUint32 {
			return 0, fmt.Errorf("color %d out of range", c)
		}
		return uint32(c), nil
	case uint64:
		if c > math.MaxUint32 {
			return 0, fmt.Errorf("color %d out of range", c)
		}
		return uint32(c), nil
	case uint32:
		return c, nil
	case string:
		return ParseColor(c)
	}
	return 0, fmt.Errorf("unsupported color value %v", v)
}

// ParseColor parses "#rrggbb", "0xrrggbb" or a decimal number
func ParseColor(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(s, "#"):
		s, base = s[1:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	}
	n, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	return uint32(n), nil
}
