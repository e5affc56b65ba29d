package skinview

import "fmt"

// AnimationKind names one of the viewer's built-in player animations
type AnimationKind string

const (
	AnimationIdle    AnimationKind = "idle"
	AnimationWalking AnimationKind = "walking"
	AnimationRunning AnimationKind = "running"
	AnimationFlying  AnimationKind = "flying"
	AnimationWave    AnimationKind = "wave"
	AnimationCrouch  AnimationKind = "crouch"
	AnimationHit     AnimationKind = "hit"
)

// AnimationKinds lists the supported kinds
var AnimationKinds = [...]AnimationKind{
	AnimationIdle,
	AnimationWalking,
	AnimationRunning,
	AnimationFlying,
	AnimationWave,
	AnimationCrouch,
	AnimationHit,
}

// Animation is a handle to a player animation. The adapter creates a fresh
// viewer-side animation object whenever the handle changes.
type Animation struct {
	Kind AnimationKind `json:"kind" yaml:"kind"`

	// Speed multiplies playback speed; zero keeps the viewer's default
	Speed  float64 `json:"speed,omitempty" yaml:"speed,omitempty"`
	Paused bool    `json:"paused,omitempty" yaml:"paused,omitempty"`
}

// NewAnimation returns a handle for kind at normal speed
func NewAnimation(kind AnimationKind) *Animation {
	return &Animation{Kind: kind, Speed: 1}
}

// Validate checks the kind
func (a *Animation) Validate() error {
	for _, k := range AnimationKinds {
		if a.Kind == k {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownAnimation, a.Kind)
}

// Equal compares two possibly nil handles
func (a *Animation) Equal(o *Animation) bool {
	if a == nil || o == nil {
		return a == o
	}
	return *a == *o
}

func (a *Animation) String() string {
	if a == nil {
		return "none"
	}
	if a.Paused {
		return fmt.Sprintf("%s x%g (paused)", a.Kind, a.Speed)
	}
	return fmt.Sprintf("%s x%g", a.Kind, a.Speed)
}
