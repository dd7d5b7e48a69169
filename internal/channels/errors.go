package channels

import (
	"errors"
)

var (
	ErrChannelNotFound    = errors.New("channel not found")
	ErrInvalidChannelName = errors.New("invalid channel name")
)
