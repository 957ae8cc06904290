package errors

import (
	"bytes"
	"fmt"
)

// Errors represents a list of errors; any non-nil Errors value represents a
// non-empty list of errors, so clients may compare an Errors with nil to
// check for the absence of errors.
type Errors interface {
	error
	// Slice returns a non-empty slice of underlying non-nil errors.
	Slice() []error
	// Len is always > 0.
	Len() int
}

type errorSlice []error

func (m errorSlice) Slice() []error {
	return append([]error(nil), m...)
}

func (m errorSlice) Len() int {
	return len(m)
}

func (m errorSlice) Error() string {
	var b bytes.Buffer
	for i, err := range m {
		if i > 0 {
			fmt.Fprint(&b, "\n")
		}
		fmt.Fprint(&b, err)
	}
	return b.String()
}

// Append appends the given (possibly nil) error to the given (possibly nil) Errors.
// If the error is nil, it returns the given Errors unchanged.
func Append(errs Errors, err error) Errors {
	if err == nil {
		return errs
	}
	var slice errorSlice
	if errs != nil {
		slice = errorSlice(errs.Slice())
	}
	if err, _ := err.(Errors); err != nil {
		return errorSlice(append(slice, err.Slice()...))
	}
	return append(slice, err)
}

// Combine combines errors e & f into a single error
func Combine(e, f error) error {
	if e == nil {
		return f
	}
	if f == nil {
		return e
	}
	if errs := Append(Append(nil, e), f); errs != nil {
		return errs
	}
	return nil
}

// Defer is a helper method for deferring error-returning functions
func Defer(err *error, f func() error) {
	*err = Combine(*err, f())
}
