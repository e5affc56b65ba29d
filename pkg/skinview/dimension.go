package skinview

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dimension is a canvas width or height. Decoding coerces numbers and
// numeric strings; anything else becomes NaN and is passed to the viewer
// as is.
type Dimension float64

// ParseDimension coerces s the way a number conversion would: blank is 0,
// unparsable is NaN.
func ParseDimension(s string) Dimension {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Dimension(math.NaN())
	}
	return Dimension(f)
}

// Float returns the numeric value
func (d Dimension) Float() float64 {
	return float64(d)
}

// MarshalJSON encodes non-finite values as null
func (d Dimension) MarshalJSON() ([]byte, error) {
	f := float64(d)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON accepts a number, a numeric string or null
func (d *Dimension) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = ParseDimension(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*d = Dimension(math.NaN())
		return nil
	}
	*d = Dimension(f)
	return nil
}

// UnmarshalYAML accepts any scalar
func (d *Dimension) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		*d = 0
		return nil
	}
	*d = ParseDimension(node.Value)
	return nil
}
