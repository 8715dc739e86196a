// SPDX-License-Identifier: MIT

package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ErrIO is wrapped around every write, flush or close failure.
var ErrIO = errors.New("output: i/o failure")

func ioErrorf(op string, err error) error {
	return fmt.Errorf("output: %s: %w: %w", op, ErrIO, err)
}

// SampleWriter formats samples onto a buffered stream. It implements
// nested.Sink and is not safe for concurrent use.
type SampleWriter struct {
	w     *bufio.Writer
	c     io.Closer
	line  []byte
	count int
}

// NewSampleWriter buffers w. If w is an io.Closer, Close closes it.
func NewSampleWriter(w io.Writer) *SampleWriter {
	sw := &SampleWriter{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		sw.c = c
	}

	return sw
}

// CreateSampleFile truncates or creates path and returns a writer on it.
func CreateSampleFile(path string) (*SampleWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, ioErrorf("create "+path, err)
	}

	return NewSampleWriter(f), nil
}

// WriteSample appends one line: values at full precision, then logL as %f.
func (s *SampleWriter) WriteSample(values []float64, logL float64) error {
	b := s.line[:0]
	for _, v := range values {
		b = strconv.AppendFloat(b, v, 'g', -1, 64)
		b = append(b, ' ')
	}
	b = strconv.AppendFloat(b, logL, 'f', 6, 64)
	b = append(b, '\n')
	s.line = b
	if _, err := s.w.Write(b); err != nil {
		return ioErrorf("write sample", err)
	}
	s.count++

	return nil
}

// Flush pushes buffered lines to the underlying writer.
func (s *SampleWriter) Flush() error {
	if err := s.w.Flush(); err != nil {
		return ioErrorf("flush samples", err)
	}

	return nil
}

// Count is the number of lines written so far.
func (s *SampleWriter) Count() int { return s.count }

// Close flushes and closes the underlying writer when it is closable.
func (s *SampleWriter) Close() error {
	err := s.Flush()
	if s.c != nil {
		if cerr := s.c.Close(); cerr != nil && err == nil {
			err = ioErrorf("close samples", cerr)
		}
	}

	return err
}
