package tui

import (
	"texnumber/internal/model"
	"texnumber/internal/renumber"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Job describes the document under review.
type Job struct {
	InputPath  string
	OutputPath string // empty disables saving
	Options    renumber.Options
}

// AppModel holds the TUI state.
type AppModel struct {
	Job Job

	// Data
	Result  *model.Result
	Lines   []string // decoded input, for source context
	Output  []byte   // encoded rewritten document
	Loading bool
	Err     error

	// UI State
	SelectedIdx  int
	WindowSize   tea.WindowSizeMsg
	DetailsFocus bool

	// Popups
	ShowWarnings bool
	ShowHelp     bool

	// Filter State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int // Indices of Mappings to show
	FilterActive    bool

	// duplicated holds the labels with a duplicate warning.
	duplicated map[string]bool

	Status string

	// Components
	DetailsViewport  viewport.Model
	WarningsViewport viewport.Model
}

// InitialModel returns the initial state.
func InitialModel(job Job) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Label..."
	ti.CharLimit = 50
	ti.Width = 20

	return AppModel{
		Job:              job,
		Loading:          true,
		InputBuffer:      ti,
		DetailsViewport:  viewport.New(40, 10),
		WarningsViewport: viewport.New(40, 10),
	}
}
