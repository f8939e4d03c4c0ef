package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"texnumber/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	dimmedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))

	adviceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	borderColor = lipgloss.Color("63")
	activeColor = lipgloss.Color("205")
)

const helpText = `texnumber review

Left panel lists every label in the order it was numbered.
  →  label will be rewritten
  =  label already has its final name
  ≈  label is declared more than once

Keys
  ↑/↓ j/k   select label (or scroll details)
  Tab       switch focus between list and details
  /         filter labels
  d         show warnings
  s         save the rewritten document to --output
  ?         this help
  q         quit`

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Renumbering labels... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}
	if m.ShowHelp {
		return m.renderPopup(helpText, borderColor)
	}
	if m.ShowWarnings {
		hint := dimmedStyle.Render("j/k to scroll, d/Esc to close")
		return m.renderPopup(m.WarningsViewport.View()+"\n"+hint, lipgloss.Color("208"))
	}

	width := m.WindowSize.Width
	height := m.WindowSize.Height

	netWidth := width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth

	boxHeight := height - 6
	if boxHeight < 6 {
		boxHeight = 6
	}
	interiorHeight := boxHeight - 2

	// LEFT PANEL: label list
	var leftView strings.Builder
	leftView.WriteString(headerStyle.Render(fmt.Sprintf("Labels (%d)", len(m.FilteredIndices))))
	leftView.WriteString("\n\n")

	visibleItems := interiorHeight - 2
	if visibleItems < 1 {
		visibleItems = 1
	}
	startIdx := 0
	endIdx := len(m.FilteredIndices)
	if len(m.FilteredIndices) > visibleItems {
		if m.SelectedIdx >= visibleItems/2 {
			startIdx = m.SelectedIdx - (visibleItems / 2)
		}
		if startIdx+visibleItems > len(m.FilteredIndices) {
			startIdx = len(m.FilteredIndices) - visibleItems
		}
		endIdx = startIdx + visibleItems
	}

	for i := startIdx; i < endIdx; i++ {
		mp := m.Result.Mappings[m.FilteredIndices[i]]
		line := fmt.Sprintf("%3d. %s %s -> %s", mp.Number, m.statusIcon(mp), mp.Label, mp.Canonical)
		line = runewidth.Truncate(line, leftWidth-2, "...")

		style := normalStyle
		if i == m.SelectedIdx {
			style = selectedStyle
		} else if !mp.Modified {
			style = dimmedStyle
		}
		leftView.WriteString(style.Render(line))
		leftView.WriteString("\n")
	}
	if len(m.FilteredIndices) == 0 {
		leftView.WriteString(dimmedStyle.Render("No labels match."))
	}

	lBorder, rBorder := activeColor, borderColor
	if m.DetailsFocus {
		lBorder, rBorder = borderColor, activeColor
	}

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lBorder).
		Render(strings.TrimSuffix(leftView.String(), "\n"))

	// RIGHT PANEL: details viewport
	vp := m.DetailsViewport
	vp.Width = rightWidth
	vp.Height = interiorHeight - 2
	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(rBorder).
		Render(headerStyle.Render("Details") + "\n\n" + vp.View())

	help := "↑/↓: Navigate • Tab: Switch Panel • /: Filter • d: Warnings • s: Save • ?: Help • q: Quit"
	footer := "\n" + m.summaryLine() + "\n" + help
	if m.InputMode {
		footer = fmt.Sprintf("\n\nFilter: %s", m.InputBuffer.View())
	} else if m.Status != "" {
		footer += "\n" + adviceStyle.Render(m.Status)
	}

	return titleStyle.Render("texnumber "+model.Version) + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, left, right) + footer
}

func (m AppModel) statusIcon(mp model.Mapping) string {
	switch {
	case m.duplicated[mp.Label]:
		return model.IconDuplicate
	case !mp.Modified:
		return model.IconUnchanged
	default:
		return model.IconModified
	}
}

func (m AppModel) summaryLine() string {
	r := m.Result
	return fmt.Sprintf("%d labels, %d renamed, %d lines modified, %d warnings",
		r.LabelCount(), r.DistinctModifications(), len(r.ModifiedLines), r.Warnings.Count())
}

// detailsContent lists every use of the selected label with its source context.
func (m AppModel) detailsContent() string {
	mp, ok := m.Selected()
	if !ok {
		return "No label selected."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Label:      %s\n", mp.Label)
	fmt.Fprintf(&b, "Becomes:    %s", mp.Canonical)
	if !mp.Modified {
		b.WriteString(" (unchanged)")
	}
	fmt.Fprintf(&b, "\nNumber:     %d\n", mp.Number)

	if m.duplicated[mp.Label] {
		b.WriteString(adviceStyle.Render(fmt.Sprintf("\n%s Declared more than once; every declaration gets the same number.\n", model.IconDuplicate)))
	}

	occ := m.Result.OccurrencesOf(mp.Label)
	fmt.Fprintf(&b, "\n--- %d occurrence(s) ---", len(occ))
	for _, o := range occ {
		fmt.Fprintf(&b, "\n\n\\%s at %d:%d\n", o.Keyword, o.Line, o.Column)
		b.WriteString(model.GetLineContext(m.Lines, o.Line).String())
	}
	return b.String()
}

func (m AppModel) warningsContent() string {
	ws := m.Result.Warnings
	if ws.Empty() {
		return headerStyle.Render("Warnings") + "\n\n" + model.IconOK + "No warnings."
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("Warnings"))
	if len(ws.Undefined) > 0 {
		b.WriteString("\n\nUndefined references\n")
		for _, w := range ws.Undefined {
			fmt.Fprintf(&b, "  %s %s, %d:%d\n", model.IconUndefined, w.Token, w.Line, w.Column)
		}
	}
	if len(ws.Duplicates) > 0 {
		b.WriteString("\n\nDuplicate labels\n")
		for _, w := range ws.Duplicates {
			fmt.Fprintf(&b, "  %s %s, %d:%d\n", model.IconDuplicate, w.Token, w.Line, w.Column)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// popupSize is the width and height of a popup, borders excluded.
func (m AppModel) popupSize() (int, int) {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	popupWidth := w * 80 / 100
	if popupWidth < 40 {
		popupWidth = 40
	}
	if popupWidth > w-4 {
		popupWidth = w - 4
	}
	return popupWidth, h - 6
}

func (m AppModel) renderPopup(content string, border lipgloss.Color) string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return "Window too small"
	}
	popupWidth, popupHeight := m.popupSize()

	lines := strings.Split(content, "\n")
	if len(lines) > popupHeight-2 {
		lines = lines[:popupHeight-2]
	}

	dialog := lipgloss.NewStyle().
		Width(popupWidth).
		Height(popupHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, InitRunCmd(m.Job))
}
