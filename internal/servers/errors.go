package servers

import (
	"errors"
)

var (
	ErrServerNotFound    = errors.New("server not found")
	ErrNotMember         = errors.New("you must be a member of this server")
	ErrNotAdmin          = errors.New("only server owners and admins can do this")
	ErrInvalidServerName = errors.New("invalid server name")
	ErrInvalidIcon       = errors.New("invalid server icon")
)
