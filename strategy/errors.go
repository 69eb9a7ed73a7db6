package strategy

import "errors"

// ErrNoDestinations indicates that no destinations were provided for assignment.
var ErrNoDestinations = errors.New("no destinations available for assignment")
