package model

import (
	"fmt"
	"strings"
)

// LineContext represents a line of the input with surrounding context
type LineContext struct {
	Before2    string // Two lines before the target
	Before1    string // Line before the target
	Target     string // The actual target line
	After1     string // Line after the target
	After2     string // Two lines after the target
	LineNumber int    // Line number of the target
	HasBefore2 bool
	HasBefore1 bool
	HasAfter1  bool
	HasAfter2  bool
	ErrorMsg   string // Set when the line number is out of range
}

// SplitLines splits a document into lines without their terminators.
func SplitLines(doc string) []string {
	doc = strings.TrimSuffix(doc, "\n")
	if doc == "" {
		return nil
	}
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// GetLineContext returns the 1-based lineNumber of lines with two lines of context on each side.
func GetLineContext(lines []string, lineNumber int) LineContext {
	result := LineContext{
		LineNumber: lineNumber,
	}

	if lineNumber < 1 || lineNumber > len(lines) {
		result.ErrorMsg = fmt.Sprintf("Line %d out of range (document has %d lines)", lineNumber, len(lines))
		return result
	}

	result.Target = lines[lineNumber-1]

	if lineNumber > 2 {
		result.Before2 = lines[lineNumber-3]
		result.HasBefore2 = true
	}
	if lineNumber > 1 {
		result.Before1 = lines[lineNumber-2]
		result.HasBefore1 = true
	}

	if lineNumber < len(lines) {
		result.After1 = lines[lineNumber]
		result.HasAfter1 = true
	}
	if lineNumber+1 < len(lines) {
		result.After2 = lines[lineNumber+1]
		result.HasAfter2 = true
	}

	return result
}

// String renders the context the way the report and the TUI show it,
// with the target line marked.
func (c LineContext) String() string {
	if c.ErrorMsg != "" {
		return c.ErrorMsg
	}
	var b strings.Builder
	if c.HasBefore2 {
		fmt.Fprintf(&b, "  %4d  %s\n", c.LineNumber-2, c.Before2)
	}
	if c.HasBefore1 {
		fmt.Fprintf(&b, "  %4d  %s\n", c.LineNumber-1, c.Before1)
	}
	fmt.Fprintf(&b, "» %4d  %s", c.LineNumber, c.Target)
	if c.HasAfter1 {
		fmt.Fprintf(&b, "\n  %4d  %s", c.LineNumber+1, c.After1)
	}
	if c.HasAfter2 {
		fmt.Fprintf(&b, "\n  %4d  %s", c.LineNumber+2, c.After2)
	}
	return b.String()
}
