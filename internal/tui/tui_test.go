package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"texnumber/internal/model"
	"texnumber/internal/renumber"
)

const doc = "\\section{Intro}\n" +
	"\\begin{equation}\\label{eqnEnergy}E=mc^2\\end{equation}\n" +
	"\\begin{equation}\\label{eqnMass}m\\end{equation}\n" +
	"See \\eqref{eqnEnergy} and \\ref{eqnMass}. \\label{eqnMass}\n"

func loadedModel(t *testing.T) AppModel {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paper.tex")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}
	job := Job{
		InputPath: path,
		Options:   renumber.Options{Pattern: "eqn", Replacement: "Eqn", IgnoreComments: true},
	}
	m := InitialModel(job)
	msg := InitRunCmd(job)()
	ready, ok := msg.(MsgRunReady)
	if !ok {
		t.Fatalf("Expected MsgRunReady, got %T: %v", msg, msg)
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	next, _ = next.(AppModel).Update(ready)
	return next.(AppModel)
}

func press(t *testing.T, m AppModel, key string) AppModel {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(AppModel)
}

func TestRunReady(t *testing.T) {
	m := loadedModel(t)
	if m.Loading {
		t.Fatal("Expected loading to finish")
	}
	if got := len(m.FilteredIndices); got != 2 {
		t.Fatalf("Expected 2 labels, got %d", got)
	}
	if !strings.Contains(string(m.Output), "\\eqref{Eqn1} and \\ref{Eqn2}") {
		t.Errorf("Expected rewritten output, got %q", m.Output)
	}
	if !m.duplicated["{eqnMass}"] {
		t.Error("Expected {eqnMass} to be flagged as duplicated")
	}
}

func TestNavigation(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "j")
	if sel, _ := m.Selected(); sel.Label != "{eqnMass}" {
		t.Errorf("Expected {eqnMass} selected, got %s", sel.Label)
	}
	m = press(t, m, "j")
	if m.SelectedIdx != 1 {
		t.Errorf("Expected cursor to stop at the last label, got %d", m.SelectedIdx)
	}
	m = press(t, m, "k")
	if m.SelectedIdx != 0 {
		t.Errorf("Expected cursor back at 0, got %d", m.SelectedIdx)
	}
	m = press(t, m, "tab")
	if !m.DetailsFocus {
		t.Error("Expected details focus after Tab")
	}
}

func TestFilter(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "/")
	if !m.InputMode {
		t.Fatal("Expected input mode")
	}
	m = press(t, m, "mass")
	m = press(t, m, "enter")
	if !m.FilterActive || len(m.FilteredIndices) != 1 {
		t.Fatalf("Expected one filtered label, got %v", m.FilteredIndices)
	}
	if sel, _ := m.Selected(); sel.Label != "{eqnMass}" {
		t.Errorf("Expected {eqnMass}, got %s", sel.Label)
	}
	m = press(t, m, "esc")
	if m.FilterActive || len(m.FilteredIndices) != 2 {
		t.Errorf("Expected filter cleared, got %v", m.FilteredIndices)
	}
}

func TestDetailsContent(t *testing.T) {
	m := loadedModel(t)
	details := m.detailsContent()
	for _, want := range []string{"Label:      {eqnEnergy}", "Becomes:    {Eqn1}", "2 occurrence(s)", "\\eqref at 4:5"} {
		if !strings.Contains(details, want) {
			t.Errorf("Expected details to contain %q, got\n%s", want, details)
		}
	}
}

func TestSaveWithoutOutput(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "s")
	if !strings.Contains(m.Status, "No --output") {
		t.Errorf("Expected status about missing output, got %q", m.Status)
	}
}

func TestSaveCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tex")
	msg := SaveCmd(path, []byte("x"))().(MsgSaved)
	if msg.Err != nil {
		t.Fatalf("Save failed: %v", msg.Err)
	}
	if data, _ := os.ReadFile(path); string(data) != "x" {
		t.Errorf("Expected saved content, got %q", data)
	}
}

func TestWarningsPopup(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "d")
	if !m.ShowWarnings {
		t.Fatal("Expected warnings popup")
	}
	if view := m.View(); !strings.Contains(view, "\\label{eqnMass}, 4:") {
		t.Errorf("Expected duplicate warning in popup, got\n%s", view)
	}
	m = press(t, m, "d")
	if m.ShowWarnings {
		t.Error("Expected popup closed")
	}
}

func TestInitRunCmd_MissingFile(t *testing.T) {
	msg := InitRunCmd(Job{InputPath: filepath.Join(t.TempDir(), "missing.tex")})()
	if _, ok := msg.(MsgError); !ok {
		t.Errorf("Expected MsgError, got %T", msg)
	}
}

func TestWarningsPopupScrolls(t *testing.T) {
	m := loadedModel(t)
	for i := 1; i <= 100; i++ {
		m.Result.Warnings.Add(model.Warning{
			Kind:   model.UndefinedReference,
			Token:  fmt.Sprintf("\\ref{eqnMissing%d}", i),
			Line:   i,
			Column: 1,
		})
	}
	next, _ := m.Update(MsgRunReady{Result: m.Result, Lines: m.Lines, Output: m.Output})
	m = next.(AppModel)

	m = press(t, m, "d")
	if strings.Contains(m.View(), "eqnMissing100}") {
		t.Fatal("Expected the last warning below the fold")
	}
	m = press(t, m, "j")
	m = press(t, m, "j")
	if m.WarningsViewport.YOffset != 2 {
		t.Errorf("Expected offset 2 after two lines down, got %d", m.WarningsViewport.YOffset)
	}
	m.WarningsViewport.GotoBottom()
	if view := m.View(); !strings.Contains(view, "eqnMissing100}") {
		t.Errorf("Expected the last warning after scrolling to the bottom, got\n%s", view)
	}
	if m.SelectedIdx != 0 {
		t.Errorf("Expected the label cursor untouched while scrolling, got %d", m.SelectedIdx)
	}

	m = press(t, m, "d")
	m = press(t, m, "d")
	if m.WarningsViewport.YOffset != 0 {
		t.Errorf("Expected reopening to start at the top, got %d", m.WarningsViewport.YOffset)
	}
}
