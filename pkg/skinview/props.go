package skinview

import (
	"errors"
	"fmt"
	"math"
)

// Default property values
const (
	DefaultFOV             = 70.0
	DefaultZoom            = 0.9
	DefaultGlobalLight     = 0.4
	DefaultCameraLight     = 0.6
	DefaultAutoRotateSpeed = 2.0
)

var (
	// ErrInvalidFOV is returned when the field of view is outside (0, 180)
	ErrInvalidFOV = errors.New("fov must be between 0 and 180 exclusive")
	// ErrInvalidBackground is returned for an unknown background type
	ErrInvalidBackground = errors.New("invalid background")
	// ErrUnknownAnimation is returned for an unknown animation kind
	ErrUnknownAnimation = errors.New("unknown animation")
)

// ModelType selects the player arm model used for a skin
type ModelType string

const (
	ModelAutoDetect ModelType = ""
	ModelDefault    ModelType = "default"
	ModelSlim       ModelType = "slim"
)

// BackEquipment selects what a cape texture is rendered as
type BackEquipment string

const (
	EquipCape   BackEquipment = ""
	EquipElytra BackEquipment = "elytra"
)

// SkinOptions are passed along with every skin load
type SkinOptions struct {
	Model ModelType `json:"model,omitempty" yaml:"model,omitempty"`

	// Ears renders ears from the skin texture. The viewer keeps ears it
	// already loaded when this is dropped, so the binding clears them.
	Ears bool `json:"ears,omitempty" yaml:"ears,omitempty"`
}

// CapeOptions are passed along with every cape load
type CapeOptions struct {
	BackEquipment BackEquipment `json:"backEquipment,omitempty" yaml:"backEquipment,omitempty"`
}

// Props is a snapshot of the component inputs. Snapshots are compared by
// value; Animation and Background are compared by what they point to.
type Props struct {
	Width  Dimension `json:"width,omitempty" yaml:"width,omitempty"`
	Height Dimension `json:"height,omitempty" yaml:"height,omitempty"`

	FOV         float64 `json:"fov" yaml:"fov"`
	Zoom        float64 `json:"zoom" yaml:"zoom"`
	GlobalLight float64 `json:"globalLight" yaml:"globalLight"`
	CameraLight float64 `json:"cameraLight" yaml:"cameraLight"`

	SkinURL     string      `json:"skinUrl,omitempty" yaml:"skinUrl,omitempty"`
	SkinOptions SkinOptions `json:"skinOptions" yaml:"skinOptions"`
	CapeURL     string      `json:"capeUrl,omitempty" yaml:"capeUrl,omitempty"`
	CapeOptions CapeOptions `json:"capeOptions" yaml:"capeOptions"`

	EnableRotate bool `json:"enableRotate" yaml:"enableRotate"`
	EnableZoom   bool `json:"enableZoom" yaml:"enableZoom"`
	EnablePan    bool `json:"enablePan" yaml:"enablePan"`

	Layers Layers `json:"layers" yaml:"layers"`

	AutoRotate      bool    `json:"autoRotate" yaml:"autoRotate"`
	AutoRotateSpeed float64 `json:"autoRotateSpeed" yaml:"autoRotateSpeed"`

	Animation  *Animation  `json:"animation,omitempty" yaml:"animation,omitempty"`
	Background *Background `json:"background,omitempty" yaml:"background,omitempty"`
	NameTag    string      `json:"nameTag,omitempty" yaml:"nameTag,omitempty"`
}

// DefaultProps returns the props a component starts with
func DefaultProps() Props {
	return Props{
		FOV:             DefaultFOV,
		Zoom:            DefaultZoom,
		GlobalLight:     DefaultGlobalLight,
		CameraLight:     DefaultCameraLight,
		EnableRotate:    true,
		EnableZoom:      true,
		EnablePan:       false,
		Layers:          DefaultLayers(),
		AutoRotate:      false,
		AutoRotateSpeed: DefaultAutoRotateSpeed,
	}
}

// Validate checks the declarative constraints on a snapshot
func (p Props) Validate() error {
	if !(p.FOV > 0 && p.FOV < 180) {
		return fmt.Errorf("%w: got %v", ErrInvalidFOV, p.FOV)
	}
	if p.Background != nil {
		if err := p.Background.Validate(); err != nil {
			return err
		}
	}
	if p.Animation != nil {
		if err := p.Animation.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a copy that shares nothing with p
func (p Props) Clone() Props {
	out := p
	if p.Animation != nil {
		a := *p.Animation
		out.Animation = &a
	}
	if p.Background != nil {
		b := *p.Background
		out.Background = &b
	}
	return out
}

// Equal reports whether two snapshots would project to the same viewer state
func (p Props) Equal(o Props) bool {
	return p.sizeEqual(o) &&
		p.FOV == o.FOV &&
		p.Zoom == o.Zoom &&
		p.GlobalLight == o.GlobalLight &&
		p.CameraLight == o.CameraLight &&
		p.SkinURL == o.SkinURL &&
		p.SkinOptions == o.SkinOptions &&
		p.CapeURL == o.CapeURL &&
		p.CapeOptions == o.CapeOptions &&
		p.EnableRotate == o.EnableRotate &&
		p.EnableZoom == o.EnableZoom &&
		p.EnablePan == o.EnablePan &&
		p.Layers == o.Layers &&
		p.AutoRotate == o.AutoRotate &&
		p.AutoRotateSpeed == o.AutoRotateSpeed &&
		p.Animation.Equal(o.Animation) &&
		p.Background.Equal(o.Background) &&
		p.NameTag == o.NameTag
}

// sizeEqual treats two NaN dimensions as equal so a bad width is not
// pushed again on every update.
func (p Props) sizeEqual(o Props) bool {
	return sameFloat(float64(p.Width), float64(o.Width)) &&
		sameFloat(float64(p.Height), float64(o.Height))
}

// sizeUnset reports whether neither width nor height was given
func (p Props) sizeUnset() bool {
	return p.Width == 0 && p.Height == 0
}

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
