// Package skinview binds declarative props to a 3D Minecraft skin viewer
// drawing into a canvas.
package skinview

import (
	"errors"
	"sync"

	"github.com/recera/skinview/pkg/reactive"
	"github.com/recera/skinview/pkg/scheduler"
	"github.com/recera/skinview/pkg/vango/vdom"
)

// ErrUnmounted is returned when a torn-down component is used again
var ErrUnmounted = errors.New("component is unmounted")

// DefaultCanvasStyle is applied to the rendered canvas when Options.Style is empty
const DefaultCanvasStyle = "display:block;touch-action:none"

// Options configures a Component
type Options struct {
	// Factory creates the viewer; defaults to NewJSViewer
	Factory Factory

	// Style is the canvas style attribute
	Style string

	// Class is the canvas class attribute
	Class string

	// OnError receives failures from ref callbacks, which have no caller to
	// return them to
	OnError func(err error)
}

func (o *Options) withDefaults() Options {
	d := Options{
		Factory: NewJSViewer,
		Style:   DefaultCanvasStyle,
	}
	if o == nil {
		return d
	}
	if o.Factory != nil {
		d.Factory = o.Factory
	}
	if o.Style != "" {
		d.Style = o.Style
	}
	d.Class = o.Class
	d.OnError = o.OnError
	return d
}

// Component renders a canvas and keeps a skin viewer on it in sync with
// its props. Property changes reach the viewer on the scheduler's next
// flush.
type Component struct {
	mu        sync.Mutex
	opts      Options
	sched     *scheduler.Scheduler
	props     *reactive.State[Props]
	binding   *Binding
	effect    *scheduler.Effect
	unmounted bool
}

// New creates a component with initial props. Invalid props are rejected.
func New(sched *scheduler.Scheduler, initial Props, opts *Options) (*Component, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}

	o := opts.withDefaults()
	c := &Component{
		opts:    o,
		sched:   sched,
		binding: NewBinding(o.Factory, initial),
	}
	c.props = reactive.NewStateWithEqual(initial.Clone(), sched, Props.Equal)
	c.effect = sched.CreateEffect(c.sync, nil)
	c.effect.SetUserData(c)
	c.effect.SetErrorHandler(func(e *scheduler.Effect, err interface{}) bool {
		if debugLog != nil {
			debugLog("[SkinView] Sync effect failed:", err)
		}
		return true
	})

	// Subscribe the effect without running a sync; the binding already
	// holds the initial props.
	reactive.Track(c.effect, func() { _ = c.props.Get() })
	return c, nil
}

// sync is the component's effect: push the current snapshot to the binding
func (c *Component) sync() {
	var p Props
	reactive.Track(c.effect, func() { p = c.props.Get() })

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		return
	}
	c.binding.Update(p)
}

// SetProps replaces the props snapshot. Invalid snapshots are rejected and
// the previous one is kept.
func (c *Component) SetProps(p Props) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if c.isUnmounted() {
		return ErrUnmounted
	}
	c.props.Set(p.Clone())
	return nil
}

// UpdateProps applies fn to a copy of the current props and sets the result
func (c *Component) UpdateProps(fn func(p *Props)) error {
	p := c.props.Peek().Clone()
	fn(&p)
	return c.SetProps(p)
}

// Props returns the current snapshot, which may not have reached the
// viewer yet
func (c *Component) Props() Props {
	return c.props.Peek().Clone()
}

// Render returns the canvas node. Its ref callback mounts the viewer when
// the element exists and unbinds it when the element goes away.
func (c *Component) Render() *vdom.VNode {
	props := vdom.Props{
		"style": c.opts.Style,
		"ref":   vdom.RefFunc(c.handleRef),
	}
	if c.opts.Class != "" {
		props["class"] = c.opts.Class
	}
	return vdom.NewElement("canvas", props)
}

func (c *Component) handleRef(el vdom.ElementRef) {
	if vdom.IsNull(el) {
		c.Detach()
		return
	}
	if err := c.Mount(el); err != nil {
		if debugLog != nil {
			debugLog("[SkinView] Mount failed:", err.Error())
		}
		if c.opts.OnError != nil {
			c.opts.OnError(err)
		}
	}
}

// Mount creates the viewer on canvas. Mounting the canvas the viewer
// already uses does nothing; a different canvas replaces the viewer.
func (c *Component) Mount(canvas vdom.ElementRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unmounted {
		return ErrUnmounted
	}
	if c.binding.State() == Bound && vdom.SameElement(c.binding.Canvas(), canvas) {
		return nil
	}

	c.binding.Unbind()
	// Start from the newest snapshot even if its flush is still pending
	c.binding.Update(c.props.Peek())
	return c.binding.Bind(canvas)
}

// Detach disposes the viewer because its canvas went away. The component
// stays usable and binds again on the next Mount.
func (c *Component) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.binding.Unbind()
}

// Unmount tears the component down: the viewer is disposed exactly once
// and no later props reach it. Calling Unmount again does nothing.
func (c *Component) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unmounted {
		return
	}
	c.unmounted = true
	c.props.Unsubscribe(c.effect)
	c.sched.RemoveEffect(c.effect)
	c.binding.Unbind()
}

// Viewer exposes the live viewer for functionality props do not cover.
// It returns nil before mount and after teardown.
func (c *Component) Viewer() Viewer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.binding.Viewer()
}

// State returns whether a viewer is currently bound
func (c *Component) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.binding.State()
}

func (c *Component) isUnmounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unmounted
}
