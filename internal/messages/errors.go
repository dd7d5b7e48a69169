package messages

import (
	"errors"
)

var (
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrContentTooLong = errors.New("message is too long")
)
