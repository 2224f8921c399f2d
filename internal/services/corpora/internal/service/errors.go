package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/serr"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
)

var (
	ErrNoOwnerLeft = errors.New("at least one current owner must remain")
	ErrForbidden   = errors.New("forbidden")
	ErrLastToken   = errors.New("last token")
)

// Statuses tells, per annotation field, whether the candidate value is
// acceptable.
type Statuses map[model.Field]bool

func (s Statuses) Valid() bool {
	for _, ok := range s {
		if !ok {
			return false
		}
	}
	return true
}

// Invalid returns the failing fields in display order.
func (s Statuses) Invalid() []model.Field {
	var fs []model.Field
	for _, f := range model.Fields {
		if ok, found := s[f]; found && !ok {
			fs = append(fs, f)
		}
	}
	return fs
}

// ValidityError reports annotation values accepted neither by the control
// list nor by the corpus dictionary.
type ValidityError struct {
	Statuses Statuses
}

func (e *ValidityError) Error() string {
	names := make([]string, 0, 3)
	for _, f := range e.Statuses.Invalid() {
		names = append(names, string(f))
	}
	return "invalid value in " + strings.Join(names, ", ")
}

// NothingChangedError is returned when an update leaves a token untouched.
type NothingChangedError struct{}

func (NothingChangedError) Error() string {
	return "nothing changed"
}

// PreferencesUpdateError reports a rejected change of corpus settings.
type PreferencesUpdateError struct {
	Reason string
}

func (e *PreferencesUpdateError) Error() string {
	return e.Reason
}

// ValidationError reports a value that does not fit its column.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validityErr(st Statuses) *serr.ServiceError {
	ve := &ValidityError{Statuses: st}
	return serr.NewServiceError(ve, http.StatusForbidden, "%s", ve.Error()).WithDetails(st)
}

func nothingChangedErr(tokenID int64) *serr.ServiceError {
	return serr.NewServiceError(NothingChangedError{}, http.StatusBadRequest, "nothing changed").
		WithEnv("token_id", tokenID)
}

func preferencesErr(reason string) *serr.ServiceError {
	return serr.NewServiceError(&PreferencesUpdateError{Reason: reason}, http.StatusBadRequest, "%s", reason)
}

func validationErr(field, reason string) *serr.ServiceError {
	ve := &ValidationError{Field: field, Reason: reason}
	return serr.NewServiceError(ve, http.StatusBadRequest, "%s", ve.Error()).
		WithDetails(map[string]string{"field": field, "reason": reason})
}

func notFoundErr(err error, what string, id int64) *serr.ServiceError {
	return serr.NewServiceError(err, http.StatusNotFound, "%s not found", what).WithEnv("id", id)
}

func forbiddenErr(msg string) *serr.ServiceError {
	return serr.NewServiceError(ErrForbidden, http.StatusForbidden, "%s", msg)
}

func badRequestErr(err error, msg string, args ...any) *serr.ServiceError {
	return serr.NewServiceError(err, http.StatusBadRequest, msg, args...)
}

func conflictErr(err error, msg string, args ...any) *serr.ServiceError {
	return serr.NewServiceError(err, http.StatusConflict, msg, args...)
}
