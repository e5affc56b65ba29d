//go:build js && wasm
// +build js,wasm

package vdom

import "syscall/js"

// ElementRef is a reference to a DOM element in WASM builds
type ElementRef = js.Value

// NullElement is passed to ref callbacks when an element is removed
var NullElement = js.Null()

// IsNull reports whether el refers to no element
func IsNull(el ElementRef) bool {
	return el.IsNull() || el.IsUndefined()
}

// SameElement reports whether a and b are the same DOM element
func SameElement(a, b ElementRef) bool {
	return a.Equal(b)
}
