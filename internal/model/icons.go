package model

// Markers used by the report and the TUI.
// Single-width characters keep terminal columns aligned.
const (
	IconModified  = "→"
	IconUnchanged = "="
	IconDuplicate = "≈" // label declared more than once
	IconUndefined = "✗" // reference without a declaration
	IconOK        = " "
)
