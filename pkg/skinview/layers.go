package skinview

// BodyPart names one of the six player model parts
type BodyPart string

const (
	PartHead     BodyPart = "head"
	PartBody     BodyPart = "body"
	PartRightArm BodyPart = "rightArm"
	PartLeftArm  BodyPart = "leftArm"
	PartRightLeg BodyPart = "rightLeg"
	PartLeftLeg  BodyPart = "leftLeg"
)

// BodyParts lists every part in application order
var BodyParts = [...]BodyPart{
	PartHead,
	PartBody,
	PartRightArm,
	PartLeftArm,
	PartRightLeg,
	PartLeftLeg,
}

// LayerKind selects the base (inner) or overlay (outer) skin layer
type LayerKind string

const (
	LayerInner LayerKind = "inner"
	LayerOuter LayerKind = "outer"
)

// LayerKinds lists both layer kinds in application order
var LayerKinds = [...]LayerKind{LayerInner, LayerOuter}

// PartVisibility holds one visibility flag per body part
type PartVisibility struct {
	Head     bool `json:"head" yaml:"head"`
	Body     bool `json:"body" yaml:"body"`
	RightArm bool `json:"rightArm" yaml:"rightArm"`
	LeftArm  bool `json:"leftArm" yaml:"leftArm"`
	RightLeg bool `json:"rightLeg" yaml:"rightLeg"`
	LeftLeg  bool `json:"leftLeg" yaml:"leftLeg"`
}

// Get returns the flag for part; unknown parts report false
func (v PartVisibility) Get(part BodyPart) bool {
	if f := v.field(part); f != nil {
		return *f
	}
	return false
}

// Set changes the flag for part; unknown parts are ignored
func (v *PartVisibility) Set(part BodyPart, visible bool) {
	if f := v.field(part); f != nil {
		*f = visible
	}
}

func (v *PartVisibility) field(part BodyPart) *bool {
	switch part {
	case PartHead:
		return &v.Head
	case PartBody:
		return &v.Body
	case PartRightArm:
		return &v.RightArm
	case PartLeftArm:
		return &v.LeftArm
	case PartRightLeg:
		return &v.RightLeg
	case PartLeftLeg:
		return &v.LeftLeg
	}
	return nil
}

// Layers maps (layer kind, body part) to mesh visibility
type Layers struct {
	Inner PartVisibility `json:"inner" yaml:"inner"`
	Outer PartVisibility `json:"outer" yaml:"outer"`
}

// DefaultLayers returns layers with all twelve meshes visible
func DefaultLayers() Layers {
	var l Layers
	l.SetAll(true)
	return l
}

// Visible reports whether the mesh for (kind, part) is shown
func (l Layers) Visible(kind LayerKind, part BodyPart) bool {
	switch kind {
	case LayerInner:
		return l.Inner.Get(part)
	case LayerOuter:
		return l.Outer.Get(part)
	}
	return false
}

// SetVisible changes the visibility of one mesh
func (l *Layers) SetVisible(kind LayerKind, part BodyPart, visible bool) {
	switch kind {
	case LayerInner:
		l.Inner.Set(part, visible)
	case LayerOuter:
		l.Outer.Set(part, visible)
	}
}

// SetAll sets every mesh to visible
func (l *Layers) SetAll(visible bool) {
	for _, kind := range LayerKinds {
		for _, part := range BodyParts {
			l.SetVisible(kind, part, visible)
		}
	}
}
