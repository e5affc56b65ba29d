//go:build !js || !wasm
// +build !js !wasm

package vdom

// ElementRef is an opaque element handle outside WASM builds
type ElementRef = any

// NullElement is passed to ref callbacks when an element is removed
var NullElement ElementRef

// IsNull reports whether el refers to no element
func IsNull(el ElementRef) bool {
	return el == nil
}

// SameElement reports whether a and b are the same element. Handles that
// cannot be compared are never the same.
func SameElement(a, b ElementRef) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
