package halftone

import (
	"errors"
	"fmt"
)

// ErrLoad matches any failure to obtain the source image.
var ErrLoad = errors.New("failed to load image")

// LoadError reports a source image that could not be fetched or decoded.
// errors.Is(err, ErrLoad) holds for every LoadError.
type LoadError struct {
	Ref string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load image %q: %v", e.Ref, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}
