package exchange

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
)

// File names used when a corpus is dumped to or read from a directory.
const (
	TokensFile = "tokens.csv"
	LemmaFile  = "allowed_lemma.txt"
	POSFile    = "allowed_pos.txt"
	MorphFile  = "allowed_morph.csv"
)

// AllowedFile returns the file name holding the allowed values of f.
func AllowedFile(f model.Field) string {
	switch f {
	case model.FieldLemma:
		return LemmaFile
	case model.FieldPOS:
		return POSFile
	default:
		return MorphFile
	}
}

// ReadAllowed parses allowed values in the format used for f: one lemma per
// line, comma separated POS, or morph rows of label and readable form.
// Duplicates are dropped.
func ReadAllowed(f model.Field, r io.Reader) ([]model.AllowedValue, error) {
	switch f {
	case model.FieldLemma:
		return readLines(r)
	case model.FieldPOS:
		return readCommaSeparated(r)
	default:
		return readMorph(r)
	}
}

func WriteAllowed(f model.Field, w io.Writer, values []model.AllowedValue) error {
	switch f {
	case model.FieldLemma:
		return writeJoined(w, values, "\n")
	case model.FieldPOS:
		return writeJoined(w, values, ",")
	default:
		return writeMorph(w, values)
	}
}

type dedup struct {
	seen   map[string]bool
	values []model.AllowedValue
}

func (d *dedup) add(v model.AllowedValue) {
	v.Label = strings.TrimSpace(v.Label)
	if v.Label == "" || d.seen[v.Label] {
		return
	}
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	d.seen[v.Label] = true
	d.values = append(d.values, v)
}

func readLines(r io.Reader) ([]model.AllowedValue, error) {
	var d dedup
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		d.add(model.AllowedValue{Label: sc.Text()})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}

	return d.values, nil
}

func readCommaSeparated(r io.Reader) ([]model.AllowedValue, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}

	var d dedup
	for _, line := range strings.Split(string(data), "\n") {
		for _, v := range strings.Split(line, ",") {
			d.add(model.AllowedValue{Label: v})
		}
	}

	return d.values, nil
}

// readMorph reads label/readable rows. A header naming the columns is
// skipped, a missing readable form defaults to the label.
func readMorph(r io.Reader) ([]model.AllowedValue, error) {
	tr := newTSVReader(r)

	var d dedup
	first := true
	for {
		row, err := tr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read morph: %w", err)
		}
		if blank(row) {
			continue
		}

		label, readable := cell(row, 0), cell(row, 1)
		if first {
			first = false
			if strings.EqualFold(label, "label") {
				continue
			}
		}
		if readable == "" {
			readable = label
		}
		d.add(model.AllowedValue{Label: label, Readable: readable})
	}

	return d.values, nil
}

func writeJoined(w io.Writer, values []model.AllowedValue, sep string) error {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = v.Label
	}

	if _, err := io.WriteString(w, strings.Join(labels, sep)); err != nil {
		return fmt.Errorf("write values: %w", err)
	}
	return nil
}

func writeMorph(w io.Writer, values []model.AllowedValue) error {
	tw := newTSVWriter(w)

	if err := tw.Write([]string{"label", "readable"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, v := range values {
		readable := v.Readable
		if readable == "" {
			readable = v.Label
		}
		if err := tw.Write([]string{v.Label, readable}); err != nil {
			return fmt.Errorf("write morph %q: %w", v.Label, err)
		}
	}

	return tw.Flush()
}
