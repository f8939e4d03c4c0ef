package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"texnumber/internal/model"
	"texnumber/internal/renumber"
	"texnumber/internal/textenc"
)

// MsgRunReady carries the outcome of the renumbering run.
type MsgRunReady struct {
	Result *model.Result
	Lines  []string
	Output []byte
}

// MsgSaved reports the outcome of writing the output file.
type MsgSaved struct {
	Path string
	Err  error
}

// MsgError indicates an error occurred.
type MsgError error

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = msg.Width / 2
		m.DetailsViewport.Height = msg.Height - 8 // borders, title, footer
		w, h := m.popupSize()
		m.WarningsViewport.Width = w - 2  // padding
		m.WarningsViewport.Height = h - 3 // borders, hint line
		m.refreshDetails()
		return m, nil

	case MsgRunReady:
		m.Loading = false
		m.Result = msg.Result
		m.Lines = msg.Lines
		m.Output = msg.Output
		m.duplicated = make(map[string]bool)
		for _, w := range m.Result.Warnings.Duplicates {
			m.duplicated[strings.TrimPrefix(w.Token, `\label`)] = true
		}
		m.applyFilter()
		m.WarningsViewport.SetContent(m.warningsContent())
		return m, nil

	case MsgSaved:
		if msg.Err != nil {
			m.Status = fmt.Sprintf("Save failed: %v", msg.Err)
		} else {
			m.Status = fmt.Sprintf("Saved %s", msg.Path)
		}
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.applyFilter()
				return m, nil
			case tea.KeyEsc:
				m.clearFilter()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		if m.ShowWarnings {
			switch msg.String() {
			case "up", "k":
				m.WarningsViewport.LineUp(1)
				return m, nil
			case "down", "j":
				m.WarningsViewport.LineDown(1)
				return m, nil
			case "pgup", "b":
				m.WarningsViewport.ViewUp()
				return m, nil
			case "pgdown", " ":
				m.WarningsViewport.ViewDown()
				return m, nil
			}
		}

		if m.ShowHelp || m.ShowWarnings {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "?", "d":
				m.ShowHelp = false
				m.ShowWarnings = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.FilterActive {
				m.clearFilter()
			}
			m.DetailsFocus = false
		case "tab":
			m.DetailsFocus = !m.DetailsFocus
		case "up", "k":
			if m.DetailsFocus {
				m.DetailsViewport.LineUp(1)
			} else if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.refreshDetails()
			}
		case "down", "j":
			if m.DetailsFocus {
				m.DetailsViewport.LineDown(1)
			} else if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
				m.refreshDetails()
			}
		case "d":
			m.ShowWarnings = true
			m.WarningsViewport.GotoTop()
		case "?":
			m.ShowHelp = true
		case "/":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue("")
			return m, textinput.Blink
		case "s":
			if m.Job.OutputPath == "" {
				m.Status = "No --output given, nothing to save"
				return m, nil
			}
			return m, SaveCmd(m.Job.OutputPath, m.Output)
		}
	}

	return m, cmd
}

func (m *AppModel) clearFilter() {
	m.InputMode = false
	m.InputBuffer.Blur()
	m.InputBuffer.SetValue("")
	m.applyFilter()
}

// applyFilter keeps the mappings whose original or canonical label contains
// the filter text.
func (m *AppModel) applyFilter() {
	if m.Result == nil {
		return
	}
	term := strings.ToLower(strings.TrimSpace(m.InputBuffer.Value()))
	m.FilterActive = term != ""
	m.FilteredIndices = lo.FilterMap(m.Result.Mappings, func(mp model.Mapping, i int) (int, bool) {
		if term == "" {
			return i, true
		}
		return i, strings.Contains(strings.ToLower(mp.Label), term) ||
			strings.Contains(strings.ToLower(mp.Canonical), term)
	})

	if m.SelectedIdx >= len(m.FilteredIndices) {
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = len(m.FilteredIndices) - 1
		} else {
			m.SelectedIdx = 0
		}
	}
	m.refreshDetails()
}

// Selected returns the mapping under the cursor.
func (m AppModel) Selected() (model.Mapping, bool) {
	if m.Result == nil || m.SelectedIdx >= len(m.FilteredIndices) {
		return model.Mapping{}, false
	}
	return m.Result.Mappings[m.FilteredIndices[m.SelectedIdx]], true
}

func (m *AppModel) refreshDetails() {
	m.DetailsViewport.SetContent(m.detailsContent())
	m.DetailsViewport.GotoTop()
}

// InitRunCmd renumbers the job's input in background.
func InitRunCmd(job Job) tea.Cmd {
	return func() tea.Msg {
		raw, err := os.ReadFile(job.InputPath)
		if err != nil {
			return MsgError(errors.Wrap(err, "read input"))
		}
		decoded, err := io.ReadAll(textenc.NewReader(bytes.NewReader(raw), job.Options.Encoding))
		if err != nil {
			return MsgError(errors.Wrap(err, "decode input"))
		}

		opts := job.Options
		opts.RecordOccurrences = true
		var out bytes.Buffer
		res, err := renumber.Run(context.Background(), bytes.NewReader(raw), &out, opts)
		if err != nil {
			return MsgError(err)
		}
		return MsgRunReady{
			Result: res,
			Lines:  model.SplitLines(string(decoded)),
			Output: out.Bytes(),
		}
	}
}

// SaveCmd writes the rewritten document.
func SaveCmd(path string, data []byte) tea.Cmd {
	return func() tea.Msg {
		err := os.WriteFile(path, data, 0644)
		return MsgSaved{Path: path, Err: err}
	}
}
