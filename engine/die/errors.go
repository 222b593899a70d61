package die

import "errors"

// Error kinds shared by the simulation core. Call sites wrap these with
// context; test with errors.Is.
var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrNotFound               = errors.New("not found")
	ErrInvalidWeight          = errors.New("invalid weight")
	ErrDegenerateDistribution = errors.New("degenerate distribution: all weights are zero")
	ErrNoResults              = errors.New("no results: play the game first")
)
