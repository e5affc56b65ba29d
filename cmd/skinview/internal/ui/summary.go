package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/recera/skinview/pkg/skinview"
)

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(primaryColor).
	Padding(0, 1)

// RenderCheck renders the outcome of validating a props file
func RenderCheck(path string, p skinview.Props, err error) string {
	if err != nil {
		return errorStyle.Render("✗ "+path) + "\n  " + err.Error()
	}

	var b strings.Builder
	b.WriteString(successStyle.Render("✓ " + path))
	b.WriteString("\n")

	rows := [][2]string{
		{"size", sizeString(p)},
		{"camera", fmt.Sprintf("fov %g, zoom %g", p.FOV, p.Zoom)},
		{"lights", fmt.Sprintf("global %g, camera %g", p.GlobalLight, p.CameraLight)},
		{"skin", orNone(p.SkinURL)},
		{"cape", orNone(p.CapeURL)},
		{"animation", p.Animation.String()},
		{"background", p.Background.String()},
		{"name tag", orNone(p.NameTag)},
		{"hidden layers", hiddenLayers(p.Layers)},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Width(16).Render(row[0]))
		b.WriteString(row[1])
		b.WriteString("\n")
	}

	return boxStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

func sizeString(p skinview.Props) string {
	if p.Width == 0 && p.Height == 0 {
		return mutedStyle.Render("viewer default")
	}
	return fmt.Sprintf("%g x %g", p.Width.Float(), p.Height.Float())
}

func orNone(s string) string {
	if s == "" {
		return mutedStyle.Render("none")
	}
	return s
}

func hiddenLayers(l skinview.Layers) string {
	var hidden []string
	for _, kind := range skinview.LayerKinds {
		for _, part := range skinview.BodyParts {
			if !l.Visible(kind, part) {
				hidden = append(hidden, fmt.Sprintf("%s.%s", kind, part))
			}
		}
	}
	if len(hidden) == 0 {
		return mutedStyle.Render("none")
	}
	return strings.Join(hidden, ", ")
}
