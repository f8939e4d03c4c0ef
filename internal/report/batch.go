package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"texnumber/internal/model"
)

// Styles decorate the batch report headings and markers.
type Styles struct {
	Heading   lipgloss.Style
	Unchanged lipgloss.Style
	Warning   lipgloss.Style

	plain bool
}

// NewStyles returns colored styles, or plain text when color is false
// (output redirected to a file or a pipe).
func NewStyles(color bool) Styles {
	if !color {
		return Styles{plain: true}
	}
	return Styles{
		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			TabWidth(lipgloss.NoTabConversion),
		Unchanged: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")). // Grey
			TabWidth(lipgloss.NoTabConversion),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")). // Orange
			TabWidth(lipgloss.NoTabConversion),
	}
}

func (st Styles) render(s lipgloss.Style, text string) string {
	if st.plain {
		return text
	}
	return s.Render(text)
}

// Batch renders the verbose report printed after a file-to-file run.
func Batch(res *model.Result, now time.Time, st Styles) string {
	var b strings.Builder

	b.WriteString(st.render(st.Heading, "REPLACEMENTS:"))
	b.WriteString("\n")
	for _, m := range res.Mappings {
		line := fmt.Sprintf("\t%s -> %s", m.Label, m.Canonical)
		if !m.Modified {
			b.WriteString(st.render(st.Unchanged, line+" NOT MODIFIED"))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	if res.Warnings.Empty() {
		b.WriteString(st.render(st.Heading, "WARNINGS:") + " None\n")
	} else {
		b.WriteString(st.render(st.Heading, "WARNINGS:"))
		b.WriteString("\n")
		if len(res.Warnings.Duplicates) > 0 {
			b.WriteString("Additional duplicate labels: \n")
			writeWarningList(&b, res.Warnings.Duplicates, st)
		}
		if len(res.Warnings.Undefined) > 0 {
			b.WriteString("Undefined references: \n")
			writeWarningList(&b, res.Warnings.Undefined, st)
		}
	}

	lines := lo.Map(res.ModifiedLines, func(n int, _ int) string { return strconv.Itoa(n) })

	b.WriteString(st.render(st.Heading, "STATISTICS:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "\tInput file: %s\n", displayName(res.InputName, "<stdin>"))
	fmt.Fprintf(&b, "\tOutput file: %s\n", displayName(res.OutputName, "<stdout>"))
	fmt.Fprintf(&b, "\tInput pattern: \\label{%s*}\n", res.Pattern)
	fmt.Fprintf(&b, "\tOutput pattern: {%s*}\n", res.Replacement)
	fmt.Fprintf(&b, "\tTotal of %d labels.\n", res.LabelCount())
	fmt.Fprintf(&b, "\tReplaced %d distinct labels.\n", res.DistinctModifications())
	fmt.Fprintf(&b, "\tModified %d lines: [%s]\n", len(res.ModifiedLines), strings.Join(lines, ", "))
	fmt.Fprintf(&b, "\tProcessed %s in %d lines.\n", humanize.Bytes(uint64(res.BytesRead)), res.Lines)
	fmt.Fprintf(&b, "\tCurrent Time and Date: %s\n", now.Format("15:04:05 2006/01/02"))
	return b.String()
}

// WriteBatch writes Batch to w.
func WriteBatch(w io.Writer, res *model.Result, now time.Time, st Styles) error {
	_, err := io.WriteString(w, Batch(res, now, st))
	return err
}

func writeWarningList(b *strings.Builder, ws []model.Warning, st Styles) {
	for _, x := range ws {
		b.WriteString(st.render(st.Warning, fmt.Sprintf("\t%s on line %d at position %d", x.Token, x.Line, x.Column)))
		b.WriteString("\n")
	}
}

func displayName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
