//go:build !js || !wasm
// +build !js !wasm

package skinview

import "github.com/recera/skinview/pkg/vango/vdom"

// NewJSViewer is stubbed out for non-WASM builds
func NewJSViewer(_ vdom.ElementRef, _, _ float64) (Viewer, error) {
	return nil, ErrUnsupported
}

// JSFactory is stubbed out for non-WASM builds
func JSFactory(_ *JSOptions) Factory {
	return NewJSViewer
}
