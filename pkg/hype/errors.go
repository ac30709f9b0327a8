package hype

import "errors"

// ErrConfig is returned when a scoring configuration cannot be used.
var ErrConfig = errors.New("invalid scoring configuration")

// ErrData is returned when a mention violates the input contract.
var ErrData = errors.New("invalid mention data")
