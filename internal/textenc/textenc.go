// Package textenc resolves the character encodings texnumber can read and
// write, and wraps readers and writers to convert from and to UTF-8.
package textenc

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// UTF8 is the default encoding name. Input in UTF-8 is passed through untouched.
const UTF8 = "utf-8"

var encodings = map[string]encoding.Encoding{
	"utf-8-bom":    unicode.UTF8BOM,
	"utf-16":       unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16le":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16be":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
	"gbk":          simplifiedchinese.GBK,
}

// Lookup returns the encoding registered under name (case-insensitive).
// UTF-8 and the empty name return nil, meaning no conversion.
func Lookup(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || key == UTF8 || key == "utf8" {
		return nil, nil
	}
	enc, ok := encodings[key]
	if !ok {
		return nil, fmt.Errorf("unknown encoding %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return enc, nil
}

// Names lists the supported encodings.
func Names() []string {
	names := []string{UTF8}
	for k := range encodings {
		names = append(names, k)
	}
	sort.Strings(names[1:])
	return names
}

// NewReader decodes r from enc to UTF-8. A nil enc returns r unchanged.
func NewReader(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc == nil {
		return r
	}
	return transform.NewReader(r, enc.NewDecoder())
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// NewWriter encodes UTF-8 written to it into enc on w.
// Close must be called to flush the final bytes.
func NewWriter(w io.Writer, enc encoding.Encoding) io.WriteCloser {
	if enc == nil {
		return nopCloser{w}
	}
	return transform.NewWriter(w, enc.NewEncoder())
}
