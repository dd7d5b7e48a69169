package invites

import (
	"errors"
)

var (
	ErrInviteNotFound   = errors.New("invite not found")
	ErrInviteExhausted  = errors.New("invite has no uses left")
	ErrInviteExpired    = errors.New("invite has expired")
	ErrCodeTaken        = errors.New("invite code already exists")
	ErrAlreadyMember    = errors.New("that user is already in this server")
	ErrAlreadyInvited   = errors.New("that user has already been invited")
	ErrCannotInviteSelf = errors.New("you cannot invite yourself")
)
