package skinview

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func boundBinding(t *testing.T, p Props) (*Binding, *fakeFactory) {
	t.Helper()
	ff := newFakeFactory()
	b := NewBinding(ff.New, p)
	if err := b.Bind(&fakeCanvas{name: "main"}); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	ff.rec.reset()
	return b, ff
}

func TestHandlerNames(t *testing.T) {
	want := []string{
		"size", "fov", "zoom", "autoRotate", "autoRotateSpeed", "animation",
		"nameTag", "globalLight", "cameraLight", "skin", "cape",
		"enableRotate", "enableZoom", "enablePan", "layers", "background",
	}
	if got := HandlerNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected handlers %v, got %v", want, got)
	}
}

func TestBinding_BindAppliesEveryProp(t *testing.T) {
	p := DefaultProps()
	p.Width, p.Height = 300, 300
	p.FOV = 45
	p.SkinURL = "steve.png"
	p.SkinOptions.Model = ModelSlim
	p.CapeURL = "cape.png"
	p.CapeOptions.BackEquipment = EquipElytra
	p.NameTag = "Steve"
	p.Animation = NewAnimation(AnimationWalking)
	p.Background = ColorBackground(0x5a76f3)
	p.EnablePan = true

	ff := newFakeFactory()
	b := NewBinding(ff.New, p)

	if b.State() != Unbound {
		t.Fatalf("Expected new binding to be unbound, got %s", b.State())
	}
	if err := b.Bind(&fakeCanvas{}); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if b.State() != Bound {
		t.Fatalf("Expected bound after Bind, got %s", b.State())
	}

	if ff.rec.calls[0] != "construct#1" {
		t.Errorf("Expected construct first, got %q", ff.rec.calls[0])
	}

	v := ff.last()
	if v.width != 300 || v.height != 300 {
		t.Errorf("Expected size 300x300, got %vx%v", v.width, v.height)
	}
	if v.fov != 45 {
		t.Errorf("Expected fov 45, got %v", v.fov)
	}
	if v.zoom != DefaultZoom {
		t.Errorf("Expected zoom %v, got %v", DefaultZoom, v.zoom)
	}
	if v.global != DefaultGlobalLight || v.cam != DefaultCameraLight {
		t.Errorf("Expected lights %v/%v, got %v/%v", DefaultGlobalLight, DefaultCameraLight, v.global, v.cam)
	}
	if v.skin != "steve.png" || v.cape != "cape.png" {
		t.Errorf("Expected skin and cape loaded, got %q and %q", v.skin, v.cape)
	}
	if v.nameTag != "Steve" {
		t.Errorf("Expected name tag Steve, got %q", v.nameTag)
	}
	if !v.animation.Equal(p.Animation) {
		t.Errorf("Expected animation %v, got %v", p.Animation, v.animation)
	}
	if v.background != "color:5a76f3" {
		t.Errorf("Expected color background, got %q", v.background)
	}
	if !v.controls[ControlRotate] || !v.controls[ControlZoom] || !v.controls[ControlPan] {
		t.Errorf("Expected all controls enabled, got %v", v.controls)
	}
	if len(v.layers) != 12 {
		t.Errorf("Expected 12 layer meshes set, got %d", len(v.layers))
	}
	if v.rotateSpeed != DefaultAutoRotateSpeed {
		t.Errorf("Expected rotate speed %v, got %v", DefaultAutoRotateSpeed, v.rotateSpeed)
	}
}

func TestBinding_BindOrder(t *testing.T) {
	ff := newFakeFactory()
	b := NewBinding(ff.New, DefaultProps())
	if err := b.Bind(&fakeCanvas{}); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	// Order of the first call of each handler group
	order := []string{"construct#1", "fov=70", "zoom=0.9", "autoRotate=false"}
	for i, call := range order {
		if ff.rec.calls[i] != call {
			t.Errorf("Expected call %d to be %q, got %q", i, call, ff.rec.calls[i])
		}
	}
	if ff.rec.index("loadEars(null)") > ff.rec.index("controls.enableRotate=true") {
		t.Error("Expected skin handler to run before controls")
	}
	if last := ff.rec.calls[len(ff.rec.calls)-1]; last != "background=null" {
		t.Errorf("Expected background last, got %q", last)
	}
}

func TestBinding_UpdateDispatchesOnlyChanged(t *testing.T) {
	b, ff := boundBinding(t, DefaultProps())

	p := DefaultProps()
	p.FOV = 50
	ran := b.Update(p)

	if !reflect.DeepEqual(ran, []string{"fov"}) {
		t.Errorf("Expected only fov handler, got %v", ran)
	}
	if !reflect.DeepEqual(ff.rec.calls, []string{"fov=50"}) {
		t.Errorf("Expected a single fov call, got %v", ff.rec.calls)
	}
}

func TestBinding_UpdateUnchanged(t *testing.T) {
	p := DefaultProps()
	p.SkinURL = "steve.png"
	b, ff := boundBinding(t, p)

	if ran := b.Update(p.Clone()); len(ran) != 0 {
		t.Errorf("Expected no handlers for an equal snapshot, got %v", ran)
	}
	if len(ff.rec.calls) != 0 {
		t.Errorf("Expected no viewer calls, got %v", ff.rec.calls)
	}
}

func TestBinding_EachPropReachesViewer(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Props)
		handler string
		check   func(v *fakeViewer) bool
	}{
		{"zoom", func(p *Props) { p.Zoom = 2 }, "zoom", func(v *fakeViewer) bool { return v.zoom == 2 }},
		{"globalLight", func(p *Props) { p.GlobalLight = 1 }, "globalLight", func(v *fakeViewer) bool { return v.global == 1 }},
		{"cameraLight", func(p *Props) { p.CameraLight = 0 }, "cameraLight", func(v *fakeViewer) bool { return v.cam == 0 }},
		{"autoRotate", func(p *Props) { p.AutoRotate = true }, "autoRotate", func(v *fakeViewer) bool { return v.autoRotate }},
		{"autoRotateSpeed", func(p *Props) { p.AutoRotateSpeed = 5 }, "autoRotateSpeed", func(v *fakeViewer) bool { return v.rotateSpeed == 5 }},
		{"animation", func(p *Props) { p.Animation = NewAnimation(AnimationRunning) }, "animation", func(v *fakeViewer) bool {
			return v.animation != nil && v.animation.Kind == AnimationRunning
		}},
		{"nameTag", func(p *Props) { p.NameTag = "Alex" }, "nameTag", func(v *fakeViewer) bool { return v.nameTag == "Alex" }},
		{"cape", func(p *Props) { p.CapeURL = "cape.png" }, "cape", func(v *fakeViewer) bool { return v.cape == "cape.png" }},
		{"enableRotate", func(p *Props) { p.EnableRotate = false }, "enableRotate", func(v *fakeViewer) bool { return !v.controls[ControlRotate] }},
		{"enableZoom", func(p *Props) { p.EnableZoom = false }, "enableZoom", func(v *fakeViewer) bool { return !v.controls[ControlZoom] }},
		{"enablePan", func(p *Props) { p.EnablePan = true }, "enablePan", func(v *fakeViewer) bool { return v.controls[ControlPan] }},
		{"image background", func(p *Props) { p.Background = ImageBackground("bg.png") }, "background", func(v *fakeViewer) bool {
			return v.background == "image:bg.png"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ff := boundBinding(t, DefaultProps())
			p := DefaultProps()
			tt.mutate(&p)

			ran := b.Update(p)
			if !reflect.DeepEqual(ran, []string{tt.handler}) {
				t.Errorf("Expected handler %s, got %v", tt.handler, ran)
			}
			if !tt.check(ff.last()) {
				t.Errorf("Expected viewer to reflect %s, calls were %v", tt.name, ff.rec.calls)
			}
		})
	}
}

func TestBinding_Resize(t *testing.T) {
	p := DefaultProps()
	p.Width = ParseDimension("300")
	p.Height = ParseDimension("300")
	b, ff := boundBinding(t, p)

	p.Width = ParseDimension("600")
	p.Height = ParseDimension("400")
	ran := b.Update(p)

	if !reflect.DeepEqual(ran, []string{"size"}) {
		t.Errorf("Expected only size handler, got %v", ran)
	}
	if !reflect.DeepEqual(ff.rec.calls, []string{"setSize(600,400)"}) {
		t.Errorf("Expected one setSize(600,400), got %v", ff.rec.calls)
	}
}

func TestBinding_UnsetSizeNotPushed(t *testing.T) {
	ff := newFakeFactory()
	b := NewBinding(ff.New, DefaultProps())
	if err := b.Bind(&fakeCanvas{}); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	for _, call := range ff.rec.calls {
		if strings.HasPrefix(call, "setSize") {
			t.Fatalf("Expected no setSize for an unset size, got %q", call)
		}
	}

	p := DefaultProps()
	p.Width = 300
	p.Height = 200
	b.Update(p)

	// Clearing the size again leaves the last pushed size alone
	ff.rec.calls = nil
	if ran := b.Update(DefaultProps()); len(ran) != 0 {
		t.Errorf("Expected no handlers when the size is cleared, got %v", ran)
	}
	if len(ff.rec.calls) != 0 {
		t.Errorf("Expected no viewer calls, got %v", ff.rec.calls)
	}

	ff.rec.reset()
	p.Width = 640
	b.Update(p)
	if ff.rec.index("setSize(640,200)") < 0 {
		t.Errorf("Expected setSize(640,200) after size set again, got %v", ff.rec.calls)
	}
}

func TestBinding_NaNSizeNotRepeated(t *testing.T) {
	p := DefaultProps()
	p.Width = ParseDimension("wide")
	b, ff := boundBinding(t, p)

	if !math.IsNaN(ff.last().width) {
		t.Errorf("Expected NaN width to be passed through, got %v", ff.last().width)
	}

	q := p.Clone()
	q.Width = ParseDimension("also wide")
	if ran := b.Update(q); len(ran) != 0 {
		t.Errorf("Expected NaN to NaN to be unchanged, got %v", ran)
	}
}

func TestBinding_LayerToggle(t *testing.T) {
	b, ff := boundBinding(t, DefaultProps())

	p := DefaultProps()
	p.Layers.SetVisible(LayerOuter, PartHead, false)
	ran := b.Update(p)

	if !reflect.DeepEqual(ran, []string{"layers"}) {
		t.Errorf("Expected only layers handler, got %v", ran)
	}
	if n := ff.rec.count("layer."); n != 12 {
		t.Errorf("Expected 12 layer calls, got %d", n)
	}

	v := ff.last()
	if v.layers["outer.head"] {
		t.Error("Expected outer head hidden")
	}
	for key, visible := range v.layers {
		if key != "outer.head" && !visible {
			t.Errorf("Expected %s visible", key)
		}
	}
}

func TestBinding_BackgroundSwitch(t *testing.T) {
	p := DefaultProps()
	p.Background = ColorBackground(0x5a76f3)
	b, ff := boundBinding(t, p)

	p.Background = PanoramaBackground("pano.png")
	b.Update(p)
	if !reflect.DeepEqual(ff.rec.calls, []string{`loadPanorama("pano.png")`}) {
		t.Errorf("Expected panorama load, got %v", ff.rec.calls)
	}

	ff.rec.reset()
	p.Background = nil
	b.Update(p)
	if !reflect.DeepEqual(ff.rec.calls, []string{"background=null"}) {
		t.Errorf("Expected background cleared, got %v", ff.rec.calls)
	}

	ff.rec.reset()
	p.Background = ColorBackground(0x000000)
	b.Update(p)
	if ff.last().background != "color:000000" {
		t.Errorf("Expected black background, got %q", ff.last().background)
	}
}

func TestBinding_SameColorNotReapplied(t *testing.T) {
	p := DefaultProps()
	p.Background = ColorBackground(0x112233)
	b, _ := boundBinding(t, p)

	q := p.Clone()
	q.Background = ColorBackground(0x112233)
	if ran := b.Update(q); len(ran) != 0 {
		t.Errorf("Expected equal background to be skipped, got %v", ran)
	}
}

func TestBinding_EarsClearedBeforeReload(t *testing.T) {
	p := DefaultProps()
	p.SkinURL = "eared.png"
	p.SkinOptions.Ears = true
	b, ff := boundBinding(t, p)

	p.SkinOptions.Ears = false
	ran := b.Update(p)

	if !reflect.DeepEqual(ran, []string{"skin"}) {
		t.Errorf("Expected only skin handler, got %v", ran)
	}
	clear := ff.rec.index("loadEars(null)")
	load := ff.rec.count("loadSkin(\"eared.png\"")
	if clear != 0 || load != 1 || len(ff.rec.calls) != 2 {
		t.Errorf("Expected ears cleared then skin reloaded, got %v", ff.rec.calls)
	}
}

func TestBinding_EarsKeptWhenRequested(t *testing.T) {
	b, ff := boundBinding(t, DefaultProps())

	p := DefaultProps()
	p.SkinURL = "eared.png"
	p.SkinOptions.Ears = true
	b.Update(p)

	if n := ff.rec.count("loadEars"); n != 0 {
		t.Errorf("Expected ears left alone, got %v", ff.rec.calls)
	}
	if n := ff.rec.count("loadSkin"); n != 1 {
		t.Errorf("Expected one skin load, got %d", n)
	}
}

func TestBinding_EmptySkinClears(t *testing.T) {
	p := DefaultProps()
	p.SkinURL = "steve.png"
	b, ff := boundBinding(t, p)

	p.SkinURL = ""
	b.Update(p)
	if ff.last().skin != "" {
		t.Errorf("Expected skin cleared, got %q", ff.last().skin)
	}
}

func TestBinding_UpdateWhileUnbound(t *testing.T) {
	ff := newFakeFactory()
	b := NewBinding(ff.New, DefaultProps())

	p := DefaultProps()
	p.NameTag = "queued"
	if ran := b.Update(p); ran != nil {
		t.Errorf("Expected nothing to run while unbound, got %v", ran)
	}
	if len(ff.rec.calls) != 0 {
		t.Errorf("Expected no viewer, got %v", ff.rec.calls)
	}

	if err := b.Bind(&fakeCanvas{}); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if ff.last().nameTag != "queued" {
		t.Errorf("Expected recorded props applied on bind, got %q", ff.last().nameTag)
	}
}

func TestBinding_UnbindDisposesOnce(t *testing.T) {
	b, ff := boundBinding(t, DefaultProps())

	if !b.Unbind() {
		t.Error("Expected first Unbind to dispose")
	}
	if b.Unbind() {
		t.Error("Expected second Unbind to do nothing")
	}
	if b.Viewer() != nil {
		t.Error("Expected no viewer after Unbind")
	}

	p := DefaultProps()
	p.FOV = 30
	b.Update(p)

	if !reflect.DeepEqual(ff.rec.calls, []string{"dispose#1"}) {
		t.Errorf("Expected exactly one dispose and nothing after, got %v", ff.rec.calls)
	}
	if len(ff.viewers) != 1 {
		t.Errorf("Expected one construct, got %d", len(ff.viewers))
	}
}

func TestBinding_Rebind(t *testing.T) {
	b, ff := boundBinding(t, DefaultProps())

	p := DefaultProps()
	p.FOV = 90
	b.Update(p)

	second := &fakeCanvas{name: "second"}
	if err := b.Bind(second); err != nil {
		t.Fatalf("Rebind failed: %v", err)
	}

	dispose := ff.rec.index("dispose#1")
	construct := ff.rec.index("construct#2")
	if dispose < 0 || construct < 0 || dispose > construct {
		t.Errorf("Expected old viewer disposed before new one is built, got %v", ff.rec.calls)
	}
	if ff.last().fov != 90 {
		t.Errorf("Expected new viewer to start from latest props, got fov %v", ff.last().fov)
	}
	if b.Canvas() != second {
		t.Error("Expected binding to track the new canvas")
	}
	if ff.rec.count("AFTER-DISPOSE") != 0 {
		t.Errorf("Expected no calls on a disposed viewer, got %v", ff.rec.calls)
	}
}

func TestBinding_FactoryError(t *testing.T) {
	ff := newFakeFactory()
	ff.err = errors.New("webgl unavailable")
	b := NewBinding(ff.New, DefaultProps())

	err := b.Bind(&fakeCanvas{})
	if !errors.Is(err, ff.err) {
		t.Errorf("Expected wrapped factory error, got %v", err)
	}
	if b.State() != Unbound {
		t.Errorf("Expected unbound after failure, got %s", b.State())
	}
	if b.Canvas() != nil {
		t.Error("Expected no canvas after failure")
	}
}

func TestBinding_NilViewer(t *testing.T) {
	b := NewBinding(func(_ interface{}, _, _ float64) (Viewer, error) {
		return nil, nil
	}, DefaultProps())

	if err := b.Bind(&fakeCanvas{}); !errors.Is(err, ErrNoViewer) {
		t.Errorf("Expected ErrNoViewer, got %v", err)
	}
	if b.State() != Unbound {
		t.Errorf("Expected unbound, got %s", b.State())
	}
}

func TestBinding_PropsIsolated(t *testing.T) {
	p := DefaultProps()
	p.Animation = NewAnimation(AnimationIdle)
	b := NewBinding(newFakeFactory().New, p)

	p.Animation.Kind = AnimationHit
	if b.Props().Animation.Kind != AnimationIdle {
		t.Error("Expected binding to keep its own copy of props")
	}
}
