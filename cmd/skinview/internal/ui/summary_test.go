package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/recera/skinview/pkg/skinview"
)

func TestRenderCheck(t *testing.T) {
	p := skinview.DefaultProps()
	p.SkinURL = "steve.png"
	p.Animation = skinview.NewAnimation(skinview.AnimationWalking)
	p.Layers.SetVisible(skinview.LayerOuter, skinview.PartHead, false)

	out := RenderCheck("props.yaml", p, nil)
	for _, want := range []string{"✓ props.yaml", "steve.png", "walking", "outer.head", "fov 70"} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary should contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderCheck_Error(t *testing.T) {
	out := RenderCheck("props.yaml", skinview.Props{}, errors.New("fov must be between 0 and 180 exclusive"))
	if !strings.Contains(out, "✗ props.yaml") || !strings.Contains(out, "fov must be") {
		t.Errorf("Unexpected error summary:\n%s", out)
	}
}
