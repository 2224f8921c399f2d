package serr

import (
	"fmt"
	"runtime/debug"
)

// ServiceError is an error that knows how it should be reported to an HTTP client.
// Env holds diagnostic values that are logged but never sent; Details is sent
// to the client alongside Msg.
type ServiceError struct {
	Err        error
	Msg        string
	StackTrace string
	StatusCode int
	Env        map[string]string
	Details    any
}

func NewServiceError(err error, statusCode int, msg string, args ...any) *ServiceError {
	return &ServiceError{
		Err:        err,
		Msg:        fmt.Sprintf(msg, args...),
		StatusCode: statusCode,
		StackTrace: string(debug.Stack()),
		Env:        make(map[string]string),
	}
}

// WithDetails attaches a client visible payload to the error.
func (e *ServiceError) WithDetails(details any) *ServiceError {
	e.Details = details
	return e
}

// WithEnv records a diagnostic key/value pair.
func (e *ServiceError) WithEnv(key string, val any) *ServiceError {
	e.Env[key] = fmt.Sprint(val)
	return e
}

func (e *ServiceError) Error() string {
	return e.Msg
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
