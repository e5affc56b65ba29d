package skinview

import (
	"errors"
	"fmt"

	"github.com/recera/skinview/pkg/vango/vdom"
)

// ErrNoViewer is returned when a Factory returns neither a viewer nor an error
var ErrNoViewer = errors.New("factory returned no viewer")

// debugLog is set by platform-specific code
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// State is the binding's lifecycle state
type State uint8

const (
	// Unbound means no viewer exists; props are only recorded
	Unbound State = iota
	// Bound means a live viewer mirrors the recorded props
	Bound
)

func (s State) String() string {
	if s == Bound {
		return "bound"
	}
	return "unbound"
}

// handler projects one group of props onto the viewer
type handler struct {
	name    string
	changed func(prev, next *Props) bool
	apply   func(v Viewer, p *Props)
}

// handlers run in this order on bind and, filtered to the changed ones,
// on every update.
var handlers = []handler{
	{
		name:    "size",
		changed: func(a, b *Props) bool { return !a.sizeEqual(*b) && !b.sizeUnset() },
		apply: func(v Viewer, p *Props) {
			// An unset size leaves the canvas at its own dimensions
			if p.sizeUnset() {
				return
			}
			v.SetSize(p.Width.Float(), p.Height.Float())
		},
	},
	{
		name:    "fov",
		changed: func(a, b *Props) bool { return a.FOV != b.FOV },
		apply:   func(v Viewer, p *Props) { v.SetFOV(p.FOV) },
	},
	{
		name:    "zoom",
		changed: func(a, b *Props) bool { return a.Zoom != b.Zoom },
		apply:   func(v Viewer, p *Props) { v.SetZoom(p.Zoom) },
	},
	{
		name:    "autoRotate",
		changed: func(a, b *Props) bool { return a.AutoRotate != b.AutoRotate },
		apply:   func(v Viewer, p *Props) { v.SetAutoRotate(p.AutoRotate) },
	},
	{
		name:    "autoRotateSpeed",
		changed: func(a, b *Props) bool { return a.AutoRotateSpeed != b.AutoRotateSpeed },
		apply:   func(v Viewer, p *Props) { v.SetAutoRotateSpeed(p.AutoRotateSpeed) },
	},
	{
		name:    "animation",
		changed: func(a, b *Props) bool { return !a.Animation.Equal(b.Animation) },
		apply:   func(v Viewer, p *Props) { v.SetAnimation(p.Animation) },
	},
	{
		name:    "nameTag",
		changed: func(a, b *Props) bool { return a.NameTag != b.NameTag },
		apply:   func(v Viewer, p *Props) { v.SetNameTag(p.NameTag) },
	},
	{
		name:    "globalLight",
		changed: func(a, b *Props) bool { return a.GlobalLight != b.GlobalLight },
		apply:   func(v Viewer, p *Props) { v.SetGlobalLight(p.GlobalLight) },
	},
	{
		name:    "cameraLight",
		changed: func(a, b *Props) bool { return a.CameraLight != b.CameraLight },
		apply:   func(v Viewer, p *Props) { v.SetCameraLight(p.CameraLight) },
	},
	{
		name: "skin",
		changed: func(a, b *Props) bool {
			return a.SkinURL != b.SkinURL || a.SkinOptions != b.SkinOptions
		},
		apply: func(v Viewer, p *Props) {
			// Dropping the ears flag does not remove ears the viewer already has
			if !p.SkinOptions.Ears {
				v.ClearEars()
			}
			v.LoadSkin(p.SkinURL, p.SkinOptions)
		},
	},
	{
		name: "cape",
		changed: func(a, b *Props) bool {
			return a.CapeURL != b.CapeURL || a.CapeOptions != b.CapeOptions
		},
		apply: func(v Viewer, p *Props) { v.LoadCape(p.CapeURL, p.CapeOptions) },
	},
	{
		name:    "enableRotate",
		changed: func(a, b *Props) bool { return a.EnableRotate != b.EnableRotate },
		apply:   func(v Viewer, p *Props) { v.SetControl(ControlRotate, p.EnableRotate) },
	},
	{
		name:    "enableZoom",
		changed: func(a, b *Props) bool { return a.EnableZoom != b.EnableZoom },
		apply:   func(v Viewer, p *Props) { v.SetControl(ControlZoom, p.EnableZoom) },
	},
	{
		name:    "enablePan",
		changed: func(a, b *Props) bool { return a.EnablePan != b.EnablePan },
		apply:   func(v Viewer, p *Props) { v.SetControl(ControlPan, p.EnablePan) },
	},
	{
		name:    "layers",
		changed: func(a, b *Props) bool { return a.Layers != b.Layers },
		apply: func(v Viewer, p *Props) {
			for _, part := range BodyParts {
				for _, kind := range LayerKinds {
					v.SetLayerVisible(kind, part, p.Layers.Visible(kind, part))
				}
			}
		},
	},
	{
		name:    "background",
		changed: func(a, b *Props) bool { return !a.Background.Equal(b.Background) },
		apply: func(v Viewer, p *Props) {
			bg := p.Background
			switch {
			case bg == nil:
				v.ClearBackground()
			case bg.Type == BackgroundColor:
				v.SetBackgroundColor(bg.Color)
			case bg.Type == BackgroundImage:
				v.LoadBackground(bg.URL)
			case bg.Type == BackgroundPanorama:
				v.LoadPanorama(bg.URL)
			}
		},
	},
}

// HandlerNames returns the handler names in application order
func HandlerNames() []string {
	names := make([]string, len(handlers))
	for i, h := range handlers {
		names[i] = h.name
	}
	return names
}

// Binding keeps one viewer in step with the latest props snapshot. It is
// not safe for concurrent use; the owner serializes calls.
type Binding struct {
	factory Factory
	state   State
	viewer  Viewer
	canvas  vdom.ElementRef
	props   Props
}

// NewBinding returns an unbound binding that will create viewers with
// factory and starts from initial.
func NewBinding(factory Factory, initial Props) *Binding {
	return &Binding{
		factory: factory,
		canvas:  vdom.NullElement,
		props:   initial.Clone(),
	}
}

// Bind creates a viewer on canvas and applies the recorded props in full.
// A bound binding disposes its current viewer first. On error the binding
// is left unbound.
func (b *Binding) Bind(canvas vdom.ElementRef) error {
	if b.state == Bound {
		b.Unbind()
	}

	v, err := b.factory(canvas, b.props.Width.Float(), b.props.Height.Float())
	if err != nil {
		return fmt.Errorf("failed to create viewer: %w", err)
	}
	if v == nil {
		return ErrNoViewer
	}

	b.viewer = v
	b.canvas = canvas
	b.state = Bound

	for _, h := range handlers {
		h.apply(v, &b.props)
	}

	if debugLog != nil {
		debugLog("[SkinView] Viewer bound, applied", len(handlers), "handlers")
	}
	return nil
}

// Update records p and, when bound, pushes the props that differ from the
// previous snapshot. It returns the names of the handlers that ran.
func (b *Binding) Update(p Props) []string {
	next := p.Clone()
	if b.state != Bound {
		b.props = next
		return nil
	}

	var ran []string
	for _, h := range handlers {
		if h.changed(&b.props, &next) {
			h.apply(b.viewer, &next)
			ran = append(ran, h.name)
		}
	}
	b.props = next

	if debugLog != nil && len(ran) > 0 {
		debugLog("[SkinView] Updated", ran)
	}
	return ran
}

// Unbind disposes the viewer. It reports whether a viewer was disposed;
// calling it while unbound does nothing.
func (b *Binding) Unbind() bool {
	if b.state != Bound {
		return false
	}

	v := b.viewer
	b.viewer = nil
	b.canvas = vdom.NullElement
	b.state = Unbound
	v.Dispose()

	if debugLog != nil {
		debugLog("[SkinView] Viewer disposed")
	}
	return true
}

// State returns the lifecycle state
func (b *Binding) State() State {
	return b.state
}

// Viewer returns the live viewer, or nil when unbound
func (b *Binding) Viewer() Viewer {
	return b.viewer
}

// Canvas returns the canvas the viewer draws into, or the null element
// when unbound
func (b *Binding) Canvas() vdom.ElementRef {
	return b.canvas
}

// Props returns the last recorded snapshot
func (b *Binding) Props() Props {
	return b.props.Clone()
}
