package service

import (
	"fmt"
	"unicode/utf8"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
)

// Column sizes of the schema, checked before hitting the database.
const (
	MaxFormLength  = 100
	MaxLemmaLength = 100
	MaxPOSLength   = 64
	MaxMorphLength = 128
	MaxLabelLength = 128
	MaxNameLength  = 255

	MaxReadableLength  = 256
	MaxDelimiterLength = 12
	// Contexts are stored in 1024 characters: ten forms of MaxFormLength
	// and their separators fit.
	MaxContextSize = 10
)

func maxLength(f model.Field) int {
	switch f {
	case model.FieldPOS:
		return MaxPOSLength
	case model.FieldMorph:
		return MaxMorphLength
	default:
		return MaxLemmaLength
	}
}

func checkLength(field, value string, maxLen int) error {
	if utf8.RuneCountInString(value) > maxLen {
		return validationErr(field, fmt.Sprintf("longer than %d characters", maxLen))
	}
	return nil
}

func checkAnnotation(a model.Annotation) error {
	if a.Lemma == "" {
		return validationErr(string(model.FieldLemma), "must not be empty")
	}
	for _, f := range model.Fields {
		if v := a.Get(f); v != nil {
			if err := checkLength(string(f), *v, maxLength(f)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkForm(form string) error {
	if form == "" {
		return validationErr("form", "must not be empty")
	}
	return checkLength("form", form, MaxFormLength)
}

func checkLabels(values []model.AllowedValue) error {
	for _, v := range values {
		if v.Label == "" {
			return validationErr("label", "must not be empty")
		}
		if err := checkLength("label", v.Label, MaxLabelLength); err != nil {
			return err
		}
		if err := checkLength("readable", v.Readable, MaxReadableLength); err != nil {
			return err
		}
	}
	return nil
}

func checkContextSize(field string, n int) error {
	if n < 0 {
		return validationErr(field, "must not be negative")
	}
	if n > MaxContextSize {
		return validationErr(field, fmt.Sprintf("larger than %d", MaxContextSize))
	}
	return nil
}
