package observe

import "errors"

// ErrMissingName indicates an empty cache name was provided.
var ErrMissingName = errors.New("observe: cache name is required")
