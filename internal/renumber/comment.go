package renumber

// SplitComment cuts line at its first unescaped '%'.
// The tail keeps the '%' and everything after it, line terminator included.
// A '%' is escaped when preceded by an odd number of backslashes (\%, \\\%).
func SplitComment(line string) (head, tail string) {
	backslashes := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			backslashes++
			continue
		case '%':
			if backslashes%2 == 0 {
				return line[:i], line[i:]
			}
		}
		backslashes = 0
	}
	return line, ""
}
