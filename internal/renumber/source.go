package renumber

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// Source is an input that can be read more than once.
// Seekable readers (regular files) are rewound in place; anything else,
// such as a pipe on stdin, is read into memory the first time.
type Source struct {
	rs    io.ReadSeeker
	start int64
	read  int64
}

// NewSource wraps r for repeated reading.
func NewSource(r io.Reader) (*Source, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		if pos, err := rs.Seek(0, io.SeekCurrent); err == nil {
			return &Source{rs: rs, start: pos}, nil
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	return &Source{rs: bytes.NewReader(data)}, nil
}

func (s *Source) Read(p []byte) (int, error) {
	n, err := s.rs.Read(p)
	s.read += int64(n)
	return n, err
}

// Rewind moves back to where the input started.
func (s *Source) Rewind() error {
	if _, err := s.rs.Seek(s.start, io.SeekStart); err != nil {
		return errors.Wrap(err, "rewind input")
	}
	s.read = 0
	return nil
}

// BytesRead counts the bytes delivered since the last rewind.
func (s *Source) BytesRead() int64 {
	return s.read
}
