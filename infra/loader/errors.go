package loader

import (
	"errors"
	"fmt"
)

// ErrInvalid marks input that failed parsing or validation.
var ErrInvalid = errors.New("loader: invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
