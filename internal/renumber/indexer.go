package renumber

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"texnumber/internal/model"
)

// Index is the first pass. It numbers every \label{<pattern>...} of r in
// order of first appearance and returns a duplicate warning for each repeat.
// With ignoreComments, text after the first unescaped '%' of a line is not scanned.
func Index(r io.Reader, pattern string, ignoreComments bool) (*Dictionary, []model.Warning, error) {
	re := keywordPattern("label", pattern)
	dict := NewDictionary()
	var warnings []model.Warning

	err := eachLine(r, func(lineNo int, line string) error {
		if ignoreComments {
			line, _ = SplitComment(line)
		}
		for _, loc := range re.FindAllStringSubmatchIndex(line, -1) {
			key := line[loc[2]:loc[3]]
			if _, isNew := dict.insert(key); !isNew {
				warnings = append(warnings, model.Warning{
					Kind:   model.DuplicateLabel,
					Token:  `\label` + key,
					Line:   lineNo,
					Column: column(line, loc[0]),
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return dict, warnings, nil
}

// eachLine calls fn for every line of r, terminator included.
// A final line without terminator is still delivered.
func eachLine(r io.Reader, fn func(lineNo int, line string) error) error {
	br := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if line != "" {
			if ferr := fn(lineNo, line); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "read input")
		}
	}
}
