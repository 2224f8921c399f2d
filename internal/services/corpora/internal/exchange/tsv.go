package exchange

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxLineSize = 1 << 20

// tsvReader splits lines on tabs. Quotes have no meaning: a lone `"` is a
// punctuation token like any other.
type tsvReader struct {
	sc   *bufio.Scanner
	line int
}

func newTSVReader(r io.Reader) *tsvReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &tsvReader{sc: sc}
}

// Read returns the fields of the next line, or io.EOF.
func (r *tsvReader) Read() ([]string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line+1, err)
		}
		return nil, io.EOF
	}
	r.line++

	return strings.Split(strings.TrimSuffix(r.sc.Text(), "\r"), "\t"), nil
}

// Line is the 1-based number of the line last read.
func (r *tsvReader) Line() int {
	return r.line
}

type tsvWriter struct {
	w *bufio.Writer
}

func newTSVWriter(w io.Writer) *tsvWriter {
	return &tsvWriter{w: bufio.NewWriter(w)}
}

func (w *tsvWriter) Write(fields []string) error {
	for _, f := range fields {
		if strings.ContainsAny(f, "\t\r\n") {
			return fmt.Errorf("value %q holds a tab or a line break", f)
		}
	}

	if _, err := w.w.WriteString(strings.Join(fields, "\t")); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

func (w *tsvWriter) Flush() error {
	return w.w.Flush()
}
