package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"texnumber/internal/model"
)

func sampleResult() *model.Result {
	res := &model.Result{
		InputName:   "paper.tex",
		OutputName:  "paper.out.tex",
		Pattern:     "eqn",
		Replacement: "Eqn",
		Mappings: []model.Mapping{
			{Label: "{eqnFoo}", Canonical: "{Eqn1}", Number: 1, Modified: true},
			{Label: "{Eqn2}", Canonical: "{Eqn2}", Number: 2, Modified: false},
		},
		ModifiedLines: []int{1, 2},
		Lines:         3,
		BytesRead:     1200,
	}
	res.Warnings.Add(
		model.Warning{Kind: model.DuplicateLabel, Token: `\label{eqnFoo}`, Line: 2, Column: 18},
		model.Warning{Kind: model.UndefinedReference, Token: `\eqref{eqnBar}`, Line: 3, Column: 1},
	)
	return res
}

func TestWriteWarnings(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWarnings(&buf, sampleResult().Warnings); err != nil {
		t.Fatalf("WriteWarnings failed: %v", err)
	}
	want := "PARSING WARNING: Undefined references\n" +
		"\\eqref{eqnBar}, 3:1\n" +
		"PARSING WARNING: Duplicate labels\n" +
		"\\label{eqnFoo}, 2:18\n"
	if buf.String() != want {
		t.Errorf("Expected\n%s\ngot\n%s", want, buf.String())
	}
}

func TestWriteWarnings_SilentWhenClean(t *testing.T) {
	var buf bytes.Buffer
	WriteWarnings(&buf, model.Warnings{})
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}

func TestWriteMappingLog(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMappingLog(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteMappingLog failed: %v", err)
	}
	want := "eqnFoo -> Eqn1\nEqn2 -> Eqn2\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}

func TestBatch(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	out := Batch(sampleResult(), now, NewStyles(false))

	expected := []string{
		"REPLACEMENTS:\n\t{eqnFoo} -> {Eqn1}\n\t{Eqn2} -> {Eqn2} NOT MODIFIED\n",
		"WARNINGS:\nAdditional duplicate labels: \n\t\\label{eqnFoo} on line 2 at position 18\n",
		"Undefined references: \n\t\\eqref{eqnBar} on line 3 at position 1\n",
		"\tInput file: paper.tex\n",
		"\tOutput file: paper.out.tex\n",
		"\tInput pattern: \\label{eqn*}\n",
		"\tOutput pattern: {Eqn*}\n",
		"\tTotal of 2 labels.\n",
		"\tReplaced 1 distinct labels.\n",
		"\tModified 2 lines: [1, 2]\n",
		"\tProcessed 1.2 kB in 3 lines.\n",
		"\tCurrent Time and Date: 14:05:06 2024/03/09\n",
	}
	for _, e := range expected {
		if !strings.Contains(out, e) {
			t.Errorf("Expected report to contain %q, got\n%s", e, out)
		}
	}
}

func TestBatch_NoWarnings(t *testing.T) {
	res := sampleResult()
	res.Warnings = model.Warnings{}
	res.InputName, res.OutputName = "", ""
	out := Batch(res, time.Now(), NewStyles(false))
	if !strings.Contains(out, "WARNINGS: None\n") {
		t.Errorf("Expected 'WARNINGS: None', got\n%s", out)
	}
	if !strings.Contains(out, "Input file: <stdin>") {
		t.Errorf("Expected stdin placeholder, got\n%s", out)
	}
}
