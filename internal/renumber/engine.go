// Package renumber turns semantically named LaTeX labels into sequential
// numbered ones. Index numbers the labels, the Rewriter rewrites every
// reference to them, and Run drives both passes over one input.
package renumber

import (
	"bufio"
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"

	"texnumber/internal/model"
	"texnumber/internal/textenc"
)

// Options configures a run.
type Options struct {
	Pattern        string   // prefix labels must start with to be renumbered
	Replacement    string   // prefix of the new labels
	Keywords       []string // defaults to DefaultKeywords
	IgnoreComments bool

	// Encoding of both input and output; nil means UTF-8.
	Encoding encoding.Encoding

	// InputName and OutputName are only copied into the Result.
	InputName  string
	OutputName string

	// RecordOccurrences keeps every located label use in the Result.
	RecordOccurrences bool

	Logger logrus.FieldLogger
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Run indexes in, rewinds it, and writes the rewritten document to out.
// Only I/O failures and cancellation are returned as errors; questionable
// labels end up in the Result's warnings.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) (*model.Result, error) {
	log := opts.logger().WithFields(logrus.Fields{
		"pattern":     opts.Pattern,
		"replacement": opts.Replacement,
	})

	// Transcoded input is never seekable, so wrapping it costs no rewind.
	var raw *countingReader
	if opts.Encoding != nil {
		raw = &countingReader{r: in}
		in = raw
	}
	src, err := NewSource(textenc.NewReader(in, opts.Encoding))
	if err != nil {
		return nil, err
	}

	dict, duplicates, err := Index(src, opts.Pattern, opts.IgnoreComments)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"labels":     dict.Len(),
		"duplicates": len(duplicates),
	}).Debug("indexed labels")

	res := &model.Result{
		InputName:   opts.InputName,
		OutputName:  opts.OutputName,
		Pattern:     opts.Pattern,
		Replacement: opts.Replacement,
		Mappings:    dict.Mappings(opts.Replacement),
		BytesRead:   src.BytesRead(),
	}
	if raw != nil {
		// the whole input was spooled by NewSource
		res.BytesRead = raw.n
	}
	res.Warnings.Add(duplicates...)

	if err := src.Rewind(); err != nil {
		return nil, err
	}

	cw := &countingWriter{w: out}
	enc := textenc.NewWriter(cw, opts.Encoding)
	bw := bufio.NewWriter(enc)
	rw := NewRewriter(opts.Keywords, opts.Pattern, opts.Replacement, dict, opts.IgnoreComments)

	err = eachLine(src, func(lineNo int, line string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		lr := rw.Rewrite(line, lineNo)
		if lr.Text != line {
			res.MarkModified(lineNo)
		}
		res.Warnings.Add(lr.Warnings...)
		if opts.RecordOccurrences {
			res.Occurrences = append(res.Occurrences, lr.Occurrences...)
		}
		res.Lines = lineNo
		if _, err := bw.WriteString(lr.Text); err != nil {
			return errors.Wrap(err, "write output")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := bw.Flush(); err != nil {
		return nil, errors.Wrap(err, "write output")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode output")
	}
	res.BytesWritten = cw.n

	log.WithFields(logrus.Fields{
		"lines":     res.Lines,
		"modified":  len(res.ModifiedLines),
		"undefined": len(res.Warnings.Undefined),
	}).Debug("rewrote document")
	return res, nil
}
