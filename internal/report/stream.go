// Package report renders the outcome of a run: the terse warning block and
// mapping log of stream mode, and the verbose report of batch mode.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"texnumber/internal/model"
)

// WriteWarnings writes the stream-mode diagnostics. Nothing is written when
// there are no warnings.
func WriteWarnings(w io.Writer, ws model.Warnings) error {
	if ws.Empty() {
		return nil
	}
	bw := bufio.NewWriter(w)
	if len(ws.Undefined) > 0 {
		fmt.Fprintln(bw, "PARSING WARNING: Undefined references")
		for _, x := range ws.Undefined {
			fmt.Fprintf(bw, "%s, %d:%d\n", x.Token, x.Line, x.Column)
		}
	}
	if len(ws.Duplicates) > 0 {
		fmt.Fprintln(bw, "PARSING WARNING: Duplicate labels")
		for _, x := range ws.Duplicates {
			fmt.Fprintf(bw, "%s, %d:%d\n", x.Token, x.Line, x.Column)
		}
	}
	return bw.Flush()
}

var braces = strings.NewReplacer("{", "", "}", "")

// WriteMappingLog writes one "<label> -> <replacement><n>" line per label,
// in assignment order, with the braces of the original label removed.
func WriteMappingLog(w io.Writer, res *model.Result) error {
	bw := bufio.NewWriter(w)
	for _, m := range res.Mappings {
		fmt.Fprintf(bw, "%s -> %s%d\n", braces.Replace(m.Label), res.Replacement, m.Number)
	}
	return bw.Flush()
}
