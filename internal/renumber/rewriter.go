package renumber

import (
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"

	"texnumber/internal/model"
)

// Rewriter is the second pass: it rewrites the brace groups of tracked
// keywords to their canonical form, one line at a time.
type Rewriter struct {
	keywords       []string
	patterns       []*regexp.Regexp
	replacement    string
	dict           *Dictionary
	ignoreComments bool
}

// NewRewriter compiles one pattern per distinct keyword. An empty keyword
// list selects DefaultKeywords.
func NewRewriter(keywords []string, pattern, replacement string, dict *Dictionary, ignoreComments bool) *Rewriter {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	keywords = lo.Uniq(keywords)
	rw := &Rewriter{
		keywords:       keywords,
		replacement:    replacement,
		dict:           dict,
		ignoreComments: ignoreComments,
	}
	for _, kw := range keywords {
		rw.patterns = append(rw.patterns, keywordPattern(kw, pattern))
	}
	return rw
}

// LineResult is the outcome of rewriting a single line.
type LineResult struct {
	Text        string
	Warnings    []model.Warning // undefined references
	Occurrences []model.Occurrence
}

// RewriteLine rewrites line (the lineNo-th of the input) and returns the
// new text together with the undefined references it contains.
func (rw *Rewriter) RewriteLine(line string, lineNo int) (string, []model.Warning) {
	res := rw.Rewrite(line, lineNo)
	return res.Text, res.Warnings
}

// span is a rewritten match in the coordinates of the line being built.
// delta is how much the rewrite changed the line's length.
type span struct {
	start, end int
	delta      int
}

type edit struct {
	matchStart int // start of \keyword
	start, end int // brace group
	text       string
}

// Rewrite is RewriteLine with the located occurrences of known labels.
func (rw *Rewriter) Rewrite(line string, lineNo int) LineResult {
	head, tail := line, ""
	if rw.ignoreComments {
		head, tail = SplitComment(line)
	}
	orig := head

	var (
		res  LineResult
		done []span
	)
	for i, re := range rw.patterns {
		kw := rw.keywords[i]
		var edits []edit
		for _, loc := range re.FindAllStringSubmatchIndex(head, -1) {
			if overlaps(done, loc[0], loc[1]) {
				continue
			}
			group := head[loc[2]:loc[3]]
			col := column(orig, originalOffset(done, loc[0]))
			n, ok := rw.dict.Lookup(group)
			if !ok {
				res.Warnings = append(res.Warnings, model.Warning{
					Kind:   model.UndefinedReference,
					Token:  `\` + kw + group,
					Line:   lineNo,
					Column: col,
				})
				continue
			}
			res.Occurrences = append(res.Occurrences, model.Occurrence{
				Keyword: kw,
				Label:   group,
				Line:    lineNo,
				Column:  col,
			})
			canon := Canonical(rw.replacement, n)
			if canon == group {
				continue
			}
			edits = append(edits, edit{matchStart: loc[0], start: loc[2], end: loc[3], text: canon})
		}
		head, done = applyEdits(head, edits, done)
	}

	res.Text = head + tail
	return res
}

func overlaps(done []span, start, end int) bool {
	for _, s := range done {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

// originalOffset maps an offset of the rewritten head back to the input line.
func originalOffset(done []span, pos int) int {
	for _, s := range done {
		if s.end <= pos {
			pos -= s.delta
		}
	}
	return pos
}

// applyEdits replaces the brace group of each edit, which must be ordered and
// disjoint from done, and returns the new line with done moved to the new
// coordinates and extended by the rewritten matches.
func applyEdits(s string, edits []edit, done []span) (string, []span) {
	if len(edits) == 0 {
		return s, done
	}

	for i := range done {
		shift := 0
		for _, e := range edits {
			if e.end <= done[i].start {
				shift += len(e.text) - (e.end - e.start)
			}
		}
		done[i].start += shift
		done[i].end += shift
	}

	var b strings.Builder
	b.Grow(len(s))
	last, shift := 0, 0
	for _, e := range edits {
		b.WriteString(s[last:e.start])
		b.WriteString(e.text)
		last = e.end
		d := len(e.text) - (e.end - e.start)
		done = append(done, span{start: e.matchStart + shift, end: e.end + shift + d, delta: d})
		shift += d
	}
	b.WriteString(s[last:])

	sort.Slice(done, func(i, j int) bool { return done[i].start < done[j].start })
	return b.String(), done
}
