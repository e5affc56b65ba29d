package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/recera/skinview/pkg/skinview"
)

// fieldKind decides how a field reacts to keys
type fieldKind int

const (
	kindBool fieldKind = iota
	kindNumber
	kindText
	kindEnum
)

// field is one editable row of the props editor
type field struct {
	label string
	kind  fieldKind

	value  func(p skinview.Props) string
	toggle func(p *skinview.Props)
	cycle  func(p *skinview.Props, dir int)
	set    func(p *skinview.Props, s string) error
}

func boolField(label string, ptr func(p *skinview.Props) *bool) field {
	return field{
		label: label,
		kind:  kindBool,
		value: func(p skinview.Props) string { return checkbox(*ptr(&p)) },
		toggle: func(p *skinview.Props) {
			b := ptr(p)
			*b = !*b
		},
	}
}

func numberField(label string, ptr func(p *skinview.Props) *float64) field {
	return field{
		label: label,
		kind:  kindNumber,
		value: func(p skinview.Props) string { return strconv.FormatFloat(*ptr(&p), 'g', -1, 64) },
		set: func(p *skinview.Props, s string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return fmt.Errorf("%s: %q is not a number", label, s)
			}
			*ptr(p) = f
			return nil
		},
	}
}

func textField(label string, ptr func(p *skinview.Props) *string) field {
	return field{
		label: label,
		kind:  kindText,
		value: func(p skinview.Props) string { return *ptr(&p) },
		set: func(p *skinview.Props, s string) error {
			*ptr(p) = strings.TrimSpace(s)
			return nil
		},
	}
}

func dimensionField(label string, ptr func(p *skinview.Props) *skinview.Dimension) field {
	return field{
		label: label,
		kind:  kindText,
		value: func(p skinview.Props) string {
			d := *ptr(&p)
			if d == 0 {
				return ""
			}
			return strconv.FormatFloat(d.Float(), 'g', -1, 64)
		},
		set: func(p *skinview.Props, s string) error {
			*ptr(p) = skinview.ParseDimension(s)
			return nil
		},
	}
}

// enumField cycles through options; get reports the current index
func enumField(label string, options []string, get func(p skinview.Props) int, put func(p *skinview.Props, i int)) field {
	return field{
		label: label,
		kind:  kindEnum,
		value: func(p skinview.Props) string { return options[get(p)] },
		cycle: func(p *skinview.Props, dir int) {
			n := len(options)
			put(p, ((get(*p)+dir)%n+n)%n)
		},
	}
}

func layerField(kind skinview.LayerKind, part skinview.BodyPart) field {
	return field{
		label: fmt.Sprintf("layers.%s.%s", kind, part),
		kind:  kindBool,
		value: func(p skinview.Props) string { return checkbox(p.Layers.Visible(kind, part)) },
		toggle: func(p *skinview.Props) {
			p.Layers.SetVisible(kind, part, !p.Layers.Visible(kind, part))
		},
	}
}

func checkbox(b bool) string {
	if b {
		return "[x]"
	}
	return "[ ]"
}

var (
	modelOptions      = []skinview.ModelType{skinview.ModelAutoDetect, skinview.ModelDefault, skinview.ModelSlim}
	equipmentOptions  = []skinview.BackEquipment{skinview.EquipCape, skinview.EquipElytra}
	backgroundOptions = []skinview.BackgroundType{"", skinview.BackgroundColor, skinview.BackgroundImage, skinview.BackgroundPanorama}
)

func animationOptions() []string {
	out := []string{"none"}
	for _, k := range skinview.AnimationKinds {
		out = append(out, string(k))
	}
	return out
}

// propsFields lists the editor rows in display order
func propsFields() []field {
	fields := []field{
		dimensionField("width", func(p *skinview.Props) *skinview.Dimension { return &p.Width }),
		dimensionField("height", func(p *skinview.Props) *skinview.Dimension { return &p.Height }),
		numberField("fov", func(p *skinview.Props) *float64 { return &p.FOV }),
		numberField("zoom", func(p *skinview.Props) *float64 { return &p.Zoom }),
		numberField("globalLight", func(p *skinview.Props) *float64 { return &p.GlobalLight }),
		numberField("cameraLight", func(p *skinview.Props) *float64 { return &p.CameraLight }),

		textField("skinUrl", func(p *skinview.Props) *string { return &p.SkinURL }),
		enumField("skinOptions.model", []string{"auto", "default", "slim"},
			func(p skinview.Props) int { return indexOf(modelOptions, p.SkinOptions.Model) },
			func(p *skinview.Props, i int) { p.SkinOptions.Model = modelOptions[i] }),
		boolField("skinOptions.ears", func(p *skinview.Props) *bool { return &p.SkinOptions.Ears }),
		textField("capeUrl", func(p *skinview.Props) *string { return &p.CapeURL }),
		enumField("capeOptions.backEquipment", []string{"cape", "elytra"},
			func(p skinview.Props) int { return indexOf(equipmentOptions, p.CapeOptions.BackEquipment) },
			func(p *skinview.Props, i int) { p.CapeOptions.BackEquipment = equipmentOptions[i] }),

		boolField("enableRotate", func(p *skinview.Props) *bool { return &p.EnableRotate }),
		boolField("enableZoom", func(p *skinview.Props) *bool { return &p.EnableZoom }),
		boolField("enablePan", func(p *skinview.Props) *bool { return &p.EnablePan }),
		boolField("autoRotate", func(p *skinview.Props) *bool { return &p.AutoRotate }),
		numberField("autoRotateSpeed", func(p *skinview.Props) *float64 { return &p.AutoRotateSpeed }),

		enumField("animation", animationOptions(), animationIndex, setAnimation),
		enumField("background", []string{"none", "color", "image", "panorama"}, backgroundIndex, setBackgroundType),
		backgroundValueField(),
		textField("nameTag", func(p *skinview.Props) *string { return &p.NameTag }),
	}

	for _, kind := range skinview.LayerKinds {
		for _, part := range skinview.BodyParts {
			fields = append(fields, layerField(kind, part))
		}
	}
	return fields
}

func indexOf[T comparable](options []T, v T) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return 0
}

func animationIndex(p skinview.Props) int {
	if p.Animation == nil {
		return 0
	}
	for i, k := range skinview.AnimationKinds {
		if k == p.Animation.Kind {
			return i + 1
		}
	}
	return 0
}

func setAnimation(p *skinview.Props, i int) {
	if i == 0 {
		p.Animation = nil
		return
	}
	p.Animation = skinview.NewAnimation(skinview.AnimationKinds[i-1])
}

func backgroundIndex(p skinview.Props) int {
	if p.Background == nil {
		return 0
	}
	return indexOf(backgroundOptions, p.Background.Type)
}

// setBackgroundType switches the background kind, keeping a URL when
// moving between image and panorama
func setBackgroundType(p *skinview.Props, i int) {
	t := backgroundOptions[i]
	switch {
	case t == "":
		p.Background = nil
	case t == skinview.BackgroundColor:
		p.Background = skinview.ColorBackground(0)
	default:
		url := ""
		if p.Background != nil && p.Background.Type != skinview.BackgroundColor {
			url = p.Background.URL
		}
		p.Background = &skinview.Background{Type: t, URL: url}
	}
}

func backgroundValueField() field {
	return field{
		label: "background.value",
		kind:  kindText,
		value: func(p skinview.Props) string {
			switch {
			case p.Background == nil:
				return ""
			case p.Background.Type == skinview.BackgroundColor:
				return fmt.Sprintf("#%06x", p.Background.Color)
			}
			return p.Background.URL
		},
		set: func(p *skinview.Props, s string) error {
			if p.Background == nil {
				return fmt.Errorf("choose a background type first")
			}
			bg := *p.Background
			if bg.Type == skinview.BackgroundColor {
				c, err := skinview.ParseColor(s)
				if err != nil {
					return err
				}
				bg.Color = c
			} else {
				bg.URL = strings.TrimSpace(s)
			}
			p.Background = &bg
			return nil
		},
	}
}
