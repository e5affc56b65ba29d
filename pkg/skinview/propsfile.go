package skinview

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseProps decodes a YAML props document on top of DefaultProps and
// validates the result. Keys missing from data keep their defaults.
func ParseProps(data []byte) (Props, error) {
	p := DefaultProps()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Props{}, fmt.Errorf("failed to parse props: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Props{}, err
	}
	return p, nil
}

// LoadProps reads and parses a YAML props file
func LoadProps(path string) (Props, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Props{}, err
	}
	p, err := ParseProps(data)
	if err != nil {
		return Props{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// SaveProps writes p as YAML
func SaveProps(path string, p Props) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DecodePropsJSON decodes a JSON snapshot on top of DefaultProps and
// validates it.
func DecodePropsJSON(data []byte) (Props, error) {
	p := DefaultProps()
	if err := json.Unmarshal(data, &p); err != nil {
		return Props{}, fmt.Errorf("failed to decode props: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Props{}, err
	}
	return p, nil
}

// EncodePropsJSON is the wire encoding used by the live protocol
func EncodePropsJSON(p Props) ([]byte, error) {
	return json.Marshal(p)
}
