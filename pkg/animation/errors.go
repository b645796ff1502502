package animation

import "errors"

// ErrInvalidArgument is wrapped by every validation failure of this package.
// Use errors.Is to test for it.
var ErrInvalidArgument = errors.New("invalid argument")
