package errors

import (
	"fmt"
	"reflect"
)

const (
	// SuccessCode signals that the processing was successful and no error
	// is returned.
	SuccessCode = 0

	// All unclassified errors that do not provide a code are clubbed under
	// an internal error code and a generic message instead of detailed
	// error string.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Info returns the code and the log message that can be exposed to a client.
// Any error that does not provide code information is categorized as error
// with code 1.
// When not running in a debug mode all messages of errors that do not provide
// code information are replaced with generic "internal error". Panics are
// always redacted unless debug is set.
func Info(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessCode, ""
	}

	code := Code(err)
	if debug {
		// Try to trigger full information formatting. This might
		// produce a stacktrace.
		return code, fmt.Sprintf("%+v", err)
	}
	if code == internalCode || code == ErrPanic.code {
		return code, internalLog
	}
	return code, err.Error()
}

type coder interface {
	Code() uint32
}

// Code test if given error contains a registered code and returns the value
// of it if available. This function is testing for the causer interface as
// well and unwraps the error.
func Code(err error) uint32 {
	if errIsNil(err) {
		return SuccessCode
	}

	for {
		if c, ok := err.(coder); ok {
			return c.Code()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalCode
		}
	}
}

// errIsNil returns true if value represented by the given error is nil.
//
// Most of the time a simple == check is enough. There is a very narrowed
// spectrum of cases (mostly in tests) where a more sophisticated check is
// required.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}
