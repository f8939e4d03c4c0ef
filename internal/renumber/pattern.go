package renumber

import (
	"regexp"
	"strconv"
	"unicode/utf8"
)

// DefaultKeywords are the reference commands rewritten when none are configured.
// Order matters only for which pass claims a span first.
var DefaultKeywords = []string{"label", "eqref", "ref", "pageref"}

// keywordPattern matches \<keyword>{<prefix>...} with the brace group as submatch 1.
// The group is single-level: it ends at the first '}' and never spans lines,
// so nested braces inside a label are not supported.
func keywordPattern(keyword, prefix string) *regexp.Regexp {
	return regexp.MustCompile(`\\` + regexp.QuoteMeta(keyword) +
		`(\{` + regexp.QuoteMeta(prefix) + `[^}\n]*?\})`)
}

// Canonical is the brace group a label numbered n is rewritten to.
func Canonical(replacement string, n int) string {
	return "{" + replacement + strconv.Itoa(n) + "}"
}

// column converts a byte offset in line to a 1-based code point column.
func column(line string, offset int) int {
	if offset > len(line) {
		offset = len(line)
	}
	return utf8.RuneCountInString(line[:offset]) + 1
}
