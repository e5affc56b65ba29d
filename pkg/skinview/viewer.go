package skinview

import (
	"errors"

	"github.com/recera/skinview/pkg/vango/vdom"
)

// ErrUnsupported is returned by NewJSViewer outside js/wasm builds
var ErrUnsupported = errors.New("skin viewer requires WASM")

// Control names one orbit-control switch
type Control string

const (
	ControlRotate Control = "enableRotate"
	ControlZoom   Control = "enableZoom"
	ControlPan    Control = "enablePan"
)

// Viewer is the part of the wrapped skin viewer the binding drives.
// Loads are fire-and-forget; an empty URL clears the texture.
type Viewer interface {
	SetSize(width, height float64)

	SetFOV(fov float64)
	SetZoom(zoom float64)
	SetGlobalLight(intensity float64)
	SetCameraLight(intensity float64)
	SetAutoRotate(enabled bool)
	SetAutoRotateSpeed(speed float64)
	SetAnimation(anim *Animation)
	SetNameTag(tag string)

	SetControl(c Control, enabled bool)
	SetLayerVisible(kind LayerKind, part BodyPart, visible bool)

	LoadSkin(url string, opts SkinOptions)
	LoadCape(url string, opts CapeOptions)
	ClearEars()

	SetBackgroundColor(color uint32)
	ClearBackground()
	LoadBackground(url string)
	LoadPanorama(url string)

	Dispose()
}

// Factory constructs a viewer drawing into canvas. Width and height are
// the initial size and may be zero.
type Factory func(canvas vdom.ElementRef, width, height float64) (Viewer, error)

// JSOptions configures viewers created by JSFactory
type JSOptions struct {
	// Namespace is the global object exposing SkinViewer; defaults to "skinview3d"
	Namespace string

	// OnError receives rejected texture and background loads. When nil
	// they go to the debug log.
	OnError func(op string, err error)
}

func (o *JSOptions) namespace() string {
	if o == nil || o.Namespace == "" {
		return "skinview3d"
	}
	return o.Namespace
}
