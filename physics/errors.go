package physics

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLevel is the root of every anchor resolution failure.
	ErrMalformedLevel = errors.New("malformed level")

	ErrNoBody          = fmt.Errorf("%w: no body at anchor", ErrMalformedLevel)
	ErrAmbiguousAnchor = fmt.Errorf("%w: ambiguous anchor", ErrMalformedLevel)
)
