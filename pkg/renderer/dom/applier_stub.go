//go:build !js || !wasm
// +build !js !wasm

package dom

import (
	"errors"

	"github.com/recera/skinview/pkg/vango/vdom"
)

// ErrUnsupported is returned by the DOM applier outside WASM builds
var ErrUnsupported = errors.New("DOM applier is only available in WASM builds")

// DOMApplier renders VNodes into the browser DOM (stub for non-WASM builds)
type DOMApplier struct{}

// NewDOMApplier creates a new DOM applier (stub)
func NewDOMApplier() *DOMApplier {
	return &DOMApplier{}
}

// Mount is unavailable outside WASM builds
func (a *DOMApplier) Mount(_ vdom.ElementRef, _ *vdom.VNode) error {
	return ErrUnsupported
}

// MountSelector is unavailable outside WASM builds
func (a *DOMApplier) MountSelector(_ string, _ *vdom.VNode) error {
	return ErrUnsupported
}

// Unmount does nothing outside WASM builds
func (a *DOMApplier) Unmount() {}

// Mounted always reports false outside WASM builds
func (a *DOMApplier) Mounted() bool {
	return false
}
