package isp

import "errors"

var (
	ErrInvalidBuffer      = errors.New("invalid buffer")
	ErrOutOfBounds        = errors.New("pixel coordinates out of bounds")
	ErrUnsupportedPattern = errors.New("unsupported bayer pattern")
	ErrInvalidConfig      = errors.New("invalid pipeline config")
)
