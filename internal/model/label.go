package model

import "sort"

// Version is the texnumber release string.
const Version = "v1.2.0"

// WarningKind distinguishes the two soft failures of a run.
type WarningKind string

const (
	DuplicateLabel     WarningKind = "duplicate-label"
	UndefinedReference WarningKind = "undefined-reference"
)

// Warning records a questionable token and where it was found.
// Line and Column are 1-based; Column counts code points in the input line.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Token  string      `json:"token"`
	Line   int         `json:"line"`
	Column int         `json:"column"`
}

// Warnings is the report object both passes append to.
type Warnings struct {
	Duplicates []Warning `json:"duplicates"`
	Undefined  []Warning `json:"undefined"`
}

// Add files w under its kind.
func (ws *Warnings) Add(w ...Warning) {
	for _, x := range w {
		switch x.Kind {
		case DuplicateLabel:
			ws.Duplicates = append(ws.Duplicates, x)
		case UndefinedReference:
			ws.Undefined = append(ws.Undefined, x)
		}
	}
}

// Empty reports whether no warning was recorded.
func (ws Warnings) Empty() bool {
	return len(ws.Duplicates) == 0 && len(ws.Undefined) == 0
}

// Count returns the total number of warnings.
func (ws Warnings) Count() int {
	return len(ws.Duplicates) + len(ws.Undefined)
}

// Mapping is one dictionary entry as presented to users.
type Mapping struct {
	Label     string `json:"label"`     // brace group as found, e.g. {eqnFoo}
	Canonical string `json:"canonical"` // brace group written, e.g. {Eqn1}
	Number    int    `json:"number"`
	Modified  bool   `json:"modified"` // false when Label already equals Canonical
}

// Occurrence is one keyword use of a tracked label in the input.
type Occurrence struct {
	Keyword string `json:"keyword"`
	Label   string `json:"label"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// Result contains everything a run produced besides the output text.
type Result struct {
	InputName   string    `json:"input,omitempty"`
	OutputName  string    `json:"output,omitempty"`
	Pattern     string    `json:"pattern"`
	Replacement string    `json:"replacement"`
	Mappings    []Mapping `json:"mappings"`
	Warnings    Warnings  `json:"warnings"`

	// ModifiedLines holds the line numbers whose content changed, ascending.
	ModifiedLines []int `json:"modified_lines"`

	Occurrences []Occurrence `json:"occurrences,omitempty"`

	Lines        int   `json:"lines"`
	BytesRead    int64 `json:"bytes_read"`
	BytesWritten int64 `json:"bytes_written"`
}

// LabelCount is the number of distinct labels indexed.
func (r *Result) LabelCount() int {
	return len(r.Mappings)
}

// DistinctModifications counts labels whose canonical form differs from the original.
func (r *Result) DistinctModifications() int {
	n := 0
	for _, m := range r.Mappings {
		if m.Modified {
			n++
		}
	}
	return n
}

// MarkModified records line as changed, keeping ModifiedLines sorted.
func (r *Result) MarkModified(line int) {
	i := sort.SearchInts(r.ModifiedLines, line)
	if i < len(r.ModifiedLines) && r.ModifiedLines[i] == line {
		return
	}
	r.ModifiedLines = append(r.ModifiedLines, 0)
	copy(r.ModifiedLines[i+1:], r.ModifiedLines[i:])
	r.ModifiedLines[i] = line
}

// OccurrencesOf returns the occurrences of label in input order.
func (r *Result) OccurrencesOf(label string) []Occurrence {
	var out []Occurrence
	for _, o := range r.Occurrences {
		if o.Label == label {
			out = append(out, o)
		}
	}
	return out
}
