package repository

import (
	"errors"
	"fmt"
)

// NotFoundError reports a rule name absent from the store. Rate lookups
// propagate it so callers can distinguish a missing rule from bad input.
type NotFoundError struct {
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("tax rule %q not found", e.Name)
}

// IsNotFound reports whether err is (or wraps) a rule NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
