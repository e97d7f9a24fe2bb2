package repl

import "errors"

var (
	ErrOutOfBounds  = errors.New("history index out of range")
	ErrEditDeclined = errors.New("prelude edit declined")
)
