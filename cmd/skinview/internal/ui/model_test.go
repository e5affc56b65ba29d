package ui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/recera/skinview/pkg/skinview"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

// focus moves the cursor to the field with label
func focus(t *testing.T, m Model, label string) Model {
	t.Helper()
	for i, f := range m.fields {
		if f.label == label {
			m.cursor = i
			return m
		}
	}
	t.Fatalf("no field %q", label)
	return m
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	return NewModel(filepath.Join(t.TempDir(), "props.yaml"), skinview.DefaultProps())
}

func TestFields_CoverProps(t *testing.T) {
	m := newTestModel(t)
	seen := make(map[string]bool)
	for _, f := range m.fields {
		if seen[f.label] {
			t.Errorf("Duplicate field %q", f.label)
		}
		seen[f.label] = true
	}
	for _, label := range []string{"width", "fov", "skinUrl", "capeUrl", "animation", "background", "nameTag", "layers.outer.leftLeg"} {
		if !seen[label] {
			t.Errorf("Missing field %q", label)
		}
	}
	if got := len(m.fields); got != 32 {
		t.Errorf("Expected 32 fields, got %d", got)
	}
}

func TestModel_Navigation(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, runes("k"))
	if m.cursor != 0 {
		t.Errorf("Expected cursor to stay at 0, got %d", m.cursor)
	}
	m = send(t, m, runes("j"), tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Errorf("Expected cursor 2, got %d", m.cursor)
	}
}

func TestModel_ToggleBool(t *testing.T) {
	m := focus(t, newTestModel(t), "autoRotate")
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})

	if !m.Props().AutoRotate {
		t.Error("Expected autoRotate to be toggled on")
	}
	if !m.Dirty() {
		t.Error("Expected model to be dirty")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Props().AutoRotate || m.Dirty() {
		t.Error("Expected second toggle to restore the saved value")
	}
}

func TestModel_ToggleLayer(t *testing.T) {
	m := focus(t, newTestModel(t), "layers.outer.head")
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})

	p := m.Props()
	if p.Layers.Visible(skinview.LayerOuter, skinview.PartHead) {
		t.Error("Expected outer head layer to be hidden")
	}
	if !p.Layers.Visible(skinview.LayerInner, skinview.PartHead) {
		t.Error("Expected inner head layer to be untouched")
	}
}

func TestModel_CycleAnimation(t *testing.T) {
	m := focus(t, newTestModel(t), "animation")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if a := m.Props().Animation; a == nil || a.Kind != skinview.AnimationIdle {
		t.Fatalf("Expected idle animation, got %v", a)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	if a := m.Props().Animation; a == nil || a.Kind != skinview.AnimationHit {
		t.Errorf("Expected cycling back to wrap to hit, got %v", a)
	}
}

func TestModel_EditNumber(t *testing.T) {
	m := focus(t, newTestModel(t), "fov")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.editing {
		t.Fatal("Expected enter to start editing")
	}
	if m.input.Value() != "70" {
		t.Errorf("Expected input to start with current value, got %q", m.input.Value())
	}

	m.input.SetValue("45")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.editing {
		t.Error("Expected editing to end")
	}
	if m.Props().FOV != 45 {
		t.Errorf("Expected fov 45, got %v", m.Props().FOV)
	}
}

func TestModel_EditRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		label string
		value string
	}{
		{"fov out of range", "fov", "200"},
		{"not a number", "zoom", "close"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := focus(t, newTestModel(t), tt.label)
			m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
			m.input.SetValue(tt.value)
			m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

			if !m.editing {
				t.Error("Expected to stay in edit mode")
			}
			if m.errorMessage == "" {
				t.Error("Expected an error message")
			}
			if m.Dirty() {
				t.Error("Expected props to be unchanged")
			}
		})
	}
}

func TestModel_EditCancel(t *testing.T) {
	m := focus(t, newTestModel(t), "nameTag")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m.input.SetValue("Steve")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.editing || m.Props().NameTag != "" {
		t.Errorf("Expected cancel to discard the edit, got %q", m.Props().NameTag)
	}
}

func TestModel_Background(t *testing.T) {
	m := focus(t, newTestModel(t), "background.value")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m.input.SetValue("#ff0000")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.errorMessage == "" {
		t.Error("Expected error when no background type is chosen")
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m = focus(t, m, "background")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = focus(t, m, "background.value")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m.input.SetValue("#ff0000")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	bg := m.Props().Background
	if bg == nil || bg.Type != skinview.BackgroundColor || bg.Color != 0xff0000 {
		t.Fatalf("Expected red color background, got %v", bg)
	}

	// Image keeps its URL when switching to panorama
	m = focus(t, m, "background")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = focus(t, m, "background.value")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m.input.SetValue("https://example.com/bg.png")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = focus(t, m, "background")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})

	bg = m.Props().Background
	if bg == nil || bg.Type != skinview.BackgroundPanorama || bg.URL != "https://example.com/bg.png" {
		t.Errorf("Expected panorama with kept URL, got %v", bg)
	}
}

func TestModel_SaveAndRevert(t *testing.T) {
	m := newTestModel(t)
	m = focus(t, m, "nameTag")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m.input.SetValue("Steve")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("s"))

	if m.Dirty() {
		t.Error("Expected model to be clean after save")
	}
	loaded, err := skinview.LoadProps(m.path)
	if err != nil {
		t.Fatalf("LoadProps failed: %v", err)
	}
	if loaded.NameTag != "Steve" {
		t.Errorf("Expected saved nameTag, got %q", loaded.NameTag)
	}

	m = focus(t, m, "enablePan")
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace}, runes("r"))
	if m.Dirty() || m.Props().EnablePan {
		t.Error("Expected revert to restore the saved props")
	}
}

func TestModel_SaveError(t *testing.T) {
	m := NewModel(filepath.Join(t.TempDir(), "missing", "props.yaml"), skinview.DefaultProps())
	m = send(t, m, runes("s"))
	if !strings.HasPrefix(m.errorMessage, "Save failed") {
		t.Errorf("Expected save error, got %q", m.errorMessage)
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if !next.(Model).quitting {
		t.Error("Expected model to be quitting")
	}
	if next.(Model).View() != "" {
		t.Error("Expected empty view after quitting")
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 60})

	view := m.View()
	for _, want := range []string{"Skin Viewer Props", "fov", "70", "layers.inner.head", "[x]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
	if strings.Contains(view, "(modified)") {
		t.Error("Fresh model should not be marked modified")
	}

	m = focus(t, m, "autoRotate")
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !strings.Contains(m.View(), "(modified)") {
		t.Error("Edited model should be marked modified")
	}
}
