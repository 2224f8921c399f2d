// Package exchange reads and writes the tab separated files corpora are
// imported from and exported to.
package exchange

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
)

// Absent is written in place of a missing POS or morph value.
const Absent = "_"

var Header = []string{"token_id", "form", "lemma", "POS", "morph"}

// MissingTokenColumnValue reports a token row without one of the required
// values, or an input lacking a required column altogether.
type MissingTokenColumnValue struct {
	Line   int
	Column string
}

func (e *MissingTokenColumnValue) Error() string {
	return fmt.Sprintf("line %d: missing value for column %q", e.Line, e.Column)
}

type columns struct {
	form, lemma, pos, morph int
}

func parseHeader(row []string) (columns, error) {
	cols := columns{form: -1, lemma: -1, pos: -1, morph: -1}
	for i, name := range row {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "form", "tokens", "token":
			cols.form = i
		case "lemma", "lemmas":
			cols.lemma = i
		case "pos":
			cols.pos = i
		case "morph":
			cols.morph = i
		}
	}

	if cols.form < 0 {
		return cols, &MissingTokenColumnValue{Line: 1, Column: "form"}
	}
	if cols.lemma < 0 {
		return cols, &MissingTokenColumnValue{Line: 1, Column: "lemma"}
	}

	return cols, nil
}

// ReadTokens parses a token file. The header names the columns: form (or
// tokens), lemma, and optionally POS and morph; any other column is
// ignored. Empty values and "_" are read as absent POS or morph. Positions
// follow the row order, starting at 1.
func ReadTokens(r io.Reader) ([]model.WordToken, error) {
	tr := newTSVReader(r)

	head, err := tr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := parseHeader(head)
	if err != nil {
		return nil, err
	}

	var tokens []model.WordToken
	for {
		row, err := tr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tokens: %w", err)
		}

		line := tr.Line()
		if blank(row) {
			continue
		}

		form := cell(row, cols.form)
		if form == "" {
			return nil, &MissingTokenColumnValue{Line: line, Column: "form"}
		}
		lemma := cell(row, cols.lemma)
		if lemma == "" {
			return nil, &MissingTokenColumnValue{Line: line, Column: "lemma"}
		}

		tokens = append(tokens, model.WordToken{
			OrderID: len(tokens) + 1,
			Form:    form,
			Annotation: model.Annotation{
				Lemma: lemma,
				POS:   optional(cell(row, cols.pos)),
				Morph: optional(cell(row, cols.morph)),
			},
		})
	}

	return tokens, nil
}

// WriteTokens writes tokens with the export header, one row per token.
func WriteTokens(w io.Writer, tokens []model.WordToken) error {
	tw := newTSVWriter(w)

	if err := tw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, t := range tokens {
		err := tw.Write([]string{
			strconv.FormatInt(t.ID, 10),
			t.Form,
			t.Lemma,
			orAbsent(t.POS),
			orAbsent(t.Morph),
		})
		if err != nil {
			return fmt.Errorf("write token %d: %w", t.ID, err)
		}
	}

	return tw.Flush()
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func optional(v string) *string {
	if v == "" || v == Absent {
		return nil
	}
	return &v
}

func orAbsent(v *string) string {
	if v == nil || *v == "" {
		return Absent
	}
	return *v
}
