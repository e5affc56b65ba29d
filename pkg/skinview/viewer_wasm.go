//go:build js && wasm
// +build js,wasm

package skinview

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/recera/skinview/pkg/vango/vdom"
)

// animationClasses maps kinds to skinview3d animation constructors
var animationClasses = map[AnimationKind]string{
	AnimationIdle:    "IdleAnimation",
	AnimationWalking: "WalkingAnimation",
	AnimationRunning: "RunningAnimation",
	AnimationFlying:  "FlyingAnimation",
	AnimationWave:    "WaveAnimation",
	AnimationCrouch:  "CrouchAnimation",
	AnimationHit:     "HitAnimation",
}

// JSViewer drives a skinview3d SkinViewer
type JSViewer struct {
	lib      js.Value
	viewer   js.Value
	disposed bool
	onError  func(op string, err error)
}

// NewJSViewer creates a SkinViewer from the global skinview3d namespace
func NewJSViewer(canvas vdom.ElementRef, width, height float64) (Viewer, error) {
	return newJSViewer(canvas, width, height, nil)
}

// JSFactory returns a Factory creating viewers configured by opts
func JSFactory(opts *JSOptions) Factory {
	return func(canvas vdom.ElementRef, width, height float64) (Viewer, error) {
		return newJSViewer(canvas, width, height, opts)
	}
}

func newJSViewer(canvas vdom.ElementRef, width, height float64, opts *JSOptions) (v Viewer, err error) {
	lib := js.Global().Get(opts.namespace())
	if !lib.Truthy() || lib.Get("SkinViewer").Type() != js.TypeFunction {
		return nil, fmt.Errorf("%s.SkinViewer not found in global scope", opts.namespace())
	}
	if !canvas.Truthy() {
		return nil, errors.New("canvas element is not available")
	}

	// Constructor exceptions surface as panics carrying js.Error
	defer func() {
		if r := recover(); r != nil {
			v = nil
			if jsErr, ok := r.(js.Error); ok {
				err = fmt.Errorf("SkinViewer constructor failed: %w", jsErr)
			} else {
				err = fmt.Errorf("SkinViewer constructor failed: %v", r)
			}
		}
	}()

	init := map[string]interface{}{"canvas": canvas}
	if width > 0 && height > 0 {
		init["width"] = width
		init["height"] = height
	}

	jv := &JSViewer{
		lib:    lib,
		viewer: lib.Get("SkinViewer").New(js.ValueOf(init)),
	}
	if opts != nil {
		jv.onError = opts.OnError
	}
	return jv, nil
}

// Value returns the underlying SkinViewer object
func (v *JSViewer) Value() js.Value {
	return v.viewer
}

func (v *JSViewer) SetSize(width, height float64) {
	if v.disposed {
		return
	}
	v.viewer.Call("setSize", width, height)
}

func (v *JSViewer) SetFOV(fov float64)               { v.set("fov", fov) }
func (v *JSViewer) SetZoom(zoom float64)             { v.set("zoom", zoom) }
func (v *JSViewer) SetAutoRotate(enabled bool)       { v.set("autoRotate", enabled) }
func (v *JSViewer) SetAutoRotateSpeed(speed float64) { v.set("autoRotateSpeed", speed) }

func (v *JSViewer) SetGlobalLight(intensity float64) {
	if v.disposed {
		return
	}
	v.viewer.Get("globalLight").Set("intensity", intensity)
}

func (v *JSViewer) SetCameraLight(intensity float64) {
	if v.disposed {
		return
	}
	v.viewer.Get("cameraLight").Set("intensity", intensity)
}

func (v *JSViewer) SetAnimation(anim *Animation) {
	if v.disposed {
		return
	}
	if anim == nil {
		v.set("animation", js.Null())
		return
	}
	class, ok := animationClasses[anim.Kind]
	if !ok || v.lib.Get(class).Type() != js.TypeFunction {
		v.report("animation", fmt.Errorf("%w: %q", ErrUnknownAnimation, anim.Kind))
		return
	}
	a := v.lib.Get(class).New()
	if anim.Speed > 0 {
		a.Set("speed", anim.Speed)
	}
	a.Set("paused", anim.Paused)
	v.set("animation", a)
}

func (v *JSViewer) SetNameTag(tag string) {
	v.set("nameTag", nullable(tag))
}

func (v *JSViewer) SetControl(c Control, enabled bool) {
	if v.disposed {
		return
	}
	v.viewer.Get("controls").Set(string(c), enabled)
}

func (v *JSViewer) SetLayerVisible(kind LayerKind, part BodyPart, visible bool) {
	if v.disposed {
		return
	}
	v.viewer.Get("playerObject").Get("skin").Get(string(part)).Get(string(kind)+"Layer").Set("visible", visible)
}

func (v *JSViewer) LoadSkin(url string, opts SkinOptions) {
	if v.disposed {
		return
	}
	model := string(opts.Model)
	if opts.Model == ModelAutoDetect {
		model = "auto-detect"
	}
	o := map[string]interface{}{
		"model": model,
		"ears":  opts.Ears,
	}
	v.watch("loadSkin", v.viewer.Call("loadSkin", nullable(url), o))
}

func (v *JSViewer) LoadCape(url string, opts CapeOptions) {
	if v.disposed {
		return
	}
	equip := string(opts.BackEquipment)
	if opts.BackEquipment == EquipCape {
		equip = "cape"
	}
	o := map[string]interface{}{"backEquipment": equip}
	v.watch("loadCape", v.viewer.Call("loadCape", nullable(url), o))
}

func (v *JSViewer) ClearEars() {
	if v.disposed {
		return
	}
	v.viewer.Call("loadEars", js.Null())
}

func (v *JSViewer) SetBackgroundColor(color uint32) { v.set("background", color) }
func (v *JSViewer) ClearBackground()                { v.set("background", js.Null()) }

func (v *JSViewer) LoadBackground(url string) {
	if v.disposed {
		return
	}
	v.watch("loadBackground", v.viewer.Call("loadBackground", url))
}

func (v *JSViewer) LoadPanorama(url string) {
	if v.disposed {
		return
	}
	v.watch("loadPanorama", v.viewer.Call("loadPanorama", url))
}

// Dispose releases the WebGL resources. Only the first call reaches the
// SkinViewer.
func (v *JSViewer) Dispose() {
	if v.disposed {
		return
	}
	v.disposed = true
	v.viewer.Call("dispose")
}

func (v *JSViewer) set(field string, value interface{}) {
	if v.disposed {
		return
	}
	v.viewer.Set(field, value)
}

// watch reports a rejection of p without waiting for it
func (v *JSViewer) watch(op string, p js.Value) {
	if p.Type() != js.TypeObject || p.Get("then").Type() != js.TypeFunction {
		return
	}

	var onDone, onFail js.Func
	release := func() {
		onDone.Release()
		onFail.Release()
	}
	onDone = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		release()
		return nil
	})
	onFail = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		release()
		err := errors.New("load rejected")
		if len(args) > 0 {
			err = js.Error{Value: args[0]}
		}
		v.report(op, err)
		return nil
	})
	p.Call("then", onDone, onFail)
}

func (v *JSViewer) report(op string, err error) {
	if v.onError != nil {
		v.onError(op, err)
		return
	}
	if debugLog != nil {
		debugLog("[SkinView]", op, "failed:", err.Error())
	}
}

func nullable(s string) interface{} {
	if s == "" {
		return js.Null()
	}
	return s
}
