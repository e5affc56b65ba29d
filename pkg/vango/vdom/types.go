package vdom

// VKind represents the type of virtual node
type VKind uint8

const (
	// KindElement represents a DOM element node
	KindElement VKind = iota
	// KindText represents a text node
	KindText
	// KindFragment represents a fragment (multiple children without parent)
	KindFragment
)

// VNodeFlags are bitwise flags for VNode optimizations
type VNodeFlags uint8

const (
	// FlagHasKey indicates this node has a key for list reconciliation
	FlagHasKey VNodeFlags = 1 << iota
	// FlagHasRef indicates this node has a ref callback
	FlagHasRef
	// FlagHasEvents indicates this node has event listeners
	FlagHasEvents
)

// RefFunc receives the element once it exists and a null element when it
// goes away
type RefFunc func(el ElementRef)

// Props represents the properties/attributes of a VNode
type Props map[string]any

// VNode represents a virtual DOM node
// This struct is immutable - once created, it should never be modified
type VNode struct {
	Kind  VKind
	Tag   string
	Props Props
	Kids  []VNode
	Key   string
	Flags VNodeFlags

	// Text content (only used when Kind == KindText)
	Text string
}

// NewElement creates a new element VNode
func NewElement(tag string, props Props, children ...*VNode) *VNode {
	flags := VNodeFlags(0)

	if props != nil {
		for k := range props {
			if isEventKey(k) {
				flags |= FlagHasEvents
				break
			}
		}
		if _, hasKey := props["key"]; hasKey {
			flags |= FlagHasKey
		}
		if _, hasRef := props["ref"]; hasRef {
			flags |= FlagHasRef
		}
	}

	return &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: props,
		Kids:  collect(children),
		Flags: flags,
	}
}

// NewText creates a new text VNode
func NewText(text string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: text,
	}
}

// NewFragment creates a new fragment VNode
func NewFragment(children ...*VNode) *VNode {
	return &VNode{
		Kind: KindFragment,
		Kids: collect(children),
	}
}

func collect(children []*VNode) []VNode {
	kids := make([]VNode, 0, len(children))
	for _, child := range children {
		if child != nil {
			kids = append(kids, *child)
		}
	}
	return kids
}

// IsSpecialKey reports whether a prop is handled by the renderer rather
// than written as an attribute
func IsSpecialKey(k string) bool {
	return k == "key" || k == "ref" || isEventKey(k)
}

func isEventKey(k string) bool {
	return len(k) > 2 && k[0] == 'o' && k[1] == 'n'
}

// IsElement returns true if this is an element node
func (v VNode) IsElement() bool {
	return v.Kind == KindElement
}

// IsText returns true if this is a text node
func (v VNode) IsText() bool {
	return v.Kind == KindText
}

// HasFlag returns true if the specified flag is set
func (v VNode) HasFlag(flag VNodeFlags) bool {
	return v.Flags&flag != 0
}

// GetKey returns the key of this node, handling the Props map safely
func (v VNode) GetKey() string {
	if v.Props != nil {
		if key, ok := v.Props["key"].(string); ok {
			return key
		}
	}
	return v.Key
}

// Ref returns the node's ref callback, or nil
func (v VNode) Ref() RefFunc {
	if v.Props == nil {
		return nil
	}
	switch fn := v.Props["ref"].(type) {
	case RefFunc:
		return fn
	case func(ElementRef):
		return fn
	}
	return nil
}
