//go:build js && wasm
// +build js,wasm

package dom

import (
	"errors"
	"fmt"
	"strings"
	"syscall/js"

	"github.com/recera/skinview/pkg/vango/vdom"
)

// listener is an event handler attached to a created element
type listener struct {
	elem  js.Value
	event string
	fn    js.Func
}

// boundRef is a ref callback waiting to be told its element is gone
type boundRef struct {
	fn   vdom.RefFunc
	elem js.Value
}

// DOMApplier renders a VNode tree into the browser DOM and tears it down
// again. Ref callbacks receive their element once the tree is attached and
// the null element when it is removed.
type DOMApplier struct {
	document  js.Value
	parent    js.Value
	nodes     []js.Value
	listeners []listener
	refs      []boundRef
	mounted   bool
}

// NewDOMApplier creates a new DOM applier
func NewDOMApplier() *DOMApplier {
	return &DOMApplier{
		document: js.Global().Get("document"),
	}
}

// Mount appends node's DOM tree to parent. A previously mounted tree is
// unmounted first.
func (a *DOMApplier) Mount(parent vdom.ElementRef, node *vdom.VNode) error {
	if vdom.IsNull(parent) {
		return errors.New("mount parent not found")
	}
	if node == nil {
		return errors.New("nothing to mount")
	}
	if a.mounted {
		a.Unmount()
	}

	a.parent = parent
	created := a.createDOMTree(node)
	for _, n := range created {
		parent.Call("appendChild", n)
	}
	a.nodes = created
	a.mounted = true

	// Refs run after attachment so elements have layout
	for _, r := range a.refs {
		r.fn(r.elem)
	}
	return nil
}

// MountSelector mounts node into the first element matching selector
func (a *DOMApplier) MountSelector(selector string, node *vdom.VNode) error {
	parent := a.document.Call("querySelector", selector)
	if vdom.IsNull(parent) {
		return fmt.Errorf("no element matches %q", selector)
	}
	return a.Mount(parent, node)
}

// Unmount notifies refs, detaches event handlers and removes the tree
func (a *DOMApplier) Unmount() {
	if !a.mounted {
		return
	}
	a.mounted = false

	for i := len(a.refs) - 1; i >= 0; i-- {
		a.refs[i].fn(vdom.NullElement)
	}
	for _, l := range a.listeners {
		l.elem.Call("removeEventListener", l.event, l.fn)
		l.fn.Release()
	}
	for _, n := range a.nodes {
		if p := n.Get("parentNode"); !vdom.IsNull(p) {
			p.Call("removeChild", n)
		}
	}

	a.refs = nil
	a.listeners = nil
	a.nodes = nil
	a.parent = js.Undefined()
}

// Mounted reports whether a tree is currently attached
func (a *DOMApplier) Mounted() bool {
	return a.mounted
}

// createDOMTree creates DOM nodes for vnode; fragments yield their
// children's nodes
func (a *DOMApplier) createDOMTree(vnode *vdom.VNode) []js.Value {
	if vnode == nil {
		return nil
	}

	switch vnode.Kind {
	case vdom.KindText:
		return []js.Value{a.document.Call("createTextNode", vnode.Text)}

	case vdom.KindElement:
		elem := a.document.Call("createElement", vnode.Tag)

		for key, value := range vnode.Props {
			if vdom.IsSpecialKey(key) {
				continue
			}
			a.setAttribute(elem, key, value)
		}
		a.attachEventHandlers(elem, vnode.Props)
		if ref := vnode.Ref(); ref != nil {
			a.refs = append(a.refs, boundRef{fn: ref, elem: elem})
		}

		for i := range vnode.Kids {
			for _, child := range a.createDOMTree(&vnode.Kids[i]) {
				elem.Call("appendChild", child)
			}
		}
		return []js.Value{elem}

	case vdom.KindFragment:
		var out []js.Value
		for i := range vnode.Kids {
			out = append(out, a.createDOMTree(&vnode.Kids[i])...)
		}
		return out
	}
	return nil
}

// setAttribute sets an attribute on an element
func (a *DOMApplier) setAttribute(elem js.Value, key string, value interface{}) {
	switch key {
	case "class":
		elem.Set("className", fmt.Sprintf("%v", value))
	case "for":
		elem.Set("htmlFor", fmt.Sprintf("%v", value))
	case "checked", "selected", "disabled", "readonly", "required", "hidden":
		b, _ := value.(bool)
		elem.Set(key, b)
	default:
		elem.Call("setAttribute", key, fmt.Sprintf("%v", value))
	}
}

// attachEventHandlers attaches event handlers from VNode props to a DOM element
func (a *DOMApplier) attachEventHandlers(elem js.Value, props vdom.Props) {
	for key, value := range props {
		if len(key) <= 2 || key[0] != 'o' || key[1] != 'n' {
			continue
		}
		// Convert onClick to click, onChange to change, etc.
		eventName := strings.ToLower(key[2:])

		var jsFunc js.Func
		switch h := value.(type) {
		case func():
			jsFunc = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
				h()
				return nil
			})
		case func(js.Value):
			jsFunc = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
				if len(args) > 0 {
					h(args[0])
				} else {
					h(js.Undefined())
				}
				return nil
			})
		case func(string):
			jsFunc = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
				var s string
				if len(args) > 0 {
					ev := args[0]
					switch eventName {
					case "input", "change":
						if tgt := ev.Get("target"); tgt.Truthy() {
							s = tgt.Get("value").String()
						}
					case "keydown", "keyup", "keypress":
						s = ev.Get("key").String()
					default:
						s = ev.Get("type").String()
					}
				}
				h(s)
				return nil
			})
		default:
			// Unsupported handler types are ignored
			continue
		}

		elem.Call("addEventListener", eventName, jsFunc)
		a.listeners = append(a.listeners, listener{elem: elem, event: eventName, fn: jsFunc})
	}
}
