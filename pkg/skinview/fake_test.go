package skinview

import (
	"fmt"
	"strings"

	"github.com/recera/skinview/pkg/vango/vdom"
)

// recorder is shared by every fake viewer a factory creates so tests can
// see construct and dispose order across viewers.
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...interface{}) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) reset() {
	r.calls = nil
}

// count returns how many calls start with prefix
func (r *recorder) count(prefix string) int {
	n := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// index returns the position of the first call equal to call, or -1
func (r *recorder) index(call string) int {
	for i, c := range r.calls {
		if c == call {
			return i
		}
	}
	return -1
}

// fakeViewer records every call and mirrors the state it was given
type fakeViewer struct {
	rec      *recorder
	id       int
	canvas   vdom.ElementRef
	disposed bool

	width, height float64
	fov, zoom     float64
	global, cam   float64
	autoRotate    bool
	rotateSpeed   float64
	animation     *Animation
	nameTag       string
	controls      map[Control]bool
	layers        map[string]bool
	skin, cape    string
	background    string
}

func (f *fakeViewer) log(format string, args ...interface{}) {
	if f.disposed {
		f.rec.add("AFTER-DISPOSE "+format, args...)
		return
	}
	f.rec.add(format, args...)
}

func (f *fakeViewer) SetSize(w, h float64) {
	f.width, f.height = w, h
	f.log("setSize(%v,%v)", w, h)
}
func (f *fakeViewer) SetFOV(v float64)         { f.fov = v; f.log("fov=%v", v) }
func (f *fakeViewer) SetZoom(v float64)        { f.zoom = v; f.log("zoom=%v", v) }
func (f *fakeViewer) SetGlobalLight(v float64) { f.global = v; f.log("globalLight=%v", v) }
func (f *fakeViewer) SetCameraLight(v float64) { f.cam = v; f.log("cameraLight=%v", v) }
func (f *fakeViewer) SetAutoRotate(v bool)     { f.autoRotate = v; f.log("autoRotate=%v", v) }
func (f *fakeViewer) SetAutoRotateSpeed(v float64) {
	f.rotateSpeed = v
	f.log("autoRotateSpeed=%v", v)
}
func (f *fakeViewer) SetAnimation(a *Animation) {
	f.animation = a
	f.log("animation=%v", a)
}
func (f *fakeViewer) SetNameTag(tag string) { f.nameTag = tag; f.log("nameTag=%q", tag) }

func (f *fakeViewer) SetControl(c Control, enabled bool) {
	f.controls[c] = enabled
	f.log("controls.%s=%v", c, enabled)
}

func (f *fakeViewer) SetLayerVisible(kind LayerKind, part BodyPart, visible bool) {
	f.layers[string(kind)+"."+string(part)] = visible
	f.log("layer.%s.%s=%v", kind, part, visible)
}

func (f *fakeViewer) LoadSkin(url string, opts SkinOptions) {
	f.skin = url
	f.log("loadSkin(%q,%+v)", url, opts)
}

func (f *fakeViewer) LoadCape(url string, opts CapeOptions) {
	f.cape = url
	f.log("loadCape(%q,%+v)", url, opts)
}

func (f *fakeViewer) ClearEars() { f.log("loadEars(null)") }

func (f *fakeViewer) SetBackgroundColor(c uint32) {
	f.background = fmt.Sprintf("color:%06x", c)
	f.log("background=%06x", c)
}
func (f *fakeViewer) ClearBackground() { f.background = ""; f.log("background=null") }
func (f *fakeViewer) LoadBackground(url string) {
	f.background = "image:" + url
	f.log("loadBackground(%q)", url)
}
func (f *fakeViewer) LoadPanorama(url string) {
	f.background = "panorama:" + url
	f.log("loadPanorama(%q)", url)
}

func (f *fakeViewer) Dispose() {
	f.log("dispose#%d", f.id)
	f.disposed = true
}

// fakeFactory builds fake viewers and remembers each one
type fakeFactory struct {
	rec     *recorder
	viewers []*fakeViewer
	err     error
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{rec: &recorder{}}
}

func (ff *fakeFactory) New(canvas vdom.ElementRef, width, height float64) (Viewer, error) {
	if ff.err != nil {
		return nil, ff.err
	}
	v := &fakeViewer{
		rec:      ff.rec,
		id:       len(ff.viewers) + 1,
		canvas:   canvas,
		controls: make(map[Control]bool),
		layers:   make(map[string]bool),
	}
	ff.viewers = append(ff.viewers, v)
	ff.rec.add("construct#%d", v.id)
	return v, nil
}

func (ff *fakeFactory) last() *fakeViewer {
	if len(ff.viewers) == 0 {
		return nil
	}
	return ff.viewers[len(ff.viewers)-1]
}

// fakeCanvas stands in for a DOM element
type fakeCanvas struct {
	name string
}
