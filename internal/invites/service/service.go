package invitesservice

import (
	"context"
	"errors"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/parleychat/parley/internal/invites"
)

const (
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"
	codeLength   = 8

	// attempts at a fresh code before giving up on unique collisions
	maxCodeAttempts = 3
)

type Repo interface {
	CreateInvite(ctx context.Context, code string, serverID, createdBy int64, maxUses int) (invites.Invite, error)
	GetByCode(ctx context.Context, code string) (invites.Invite, error)
	Redeem(ctx context.Context, inviteID, serverID, userID int64) error
	CreateDirectInvite(ctx context.Context, serverID, invitedUserID, invitedBy int64) error
	GetDirectInvite(ctx context.Context, id int64) (invites.DirectInvite, error)
	ListPendingForUser(ctx context.Context, userID int64) ([]invites.DirectInvite, error)
	Resolve(ctx context.Context, inviteID, serverID, userID int64, status string) error
}

type Members interface {
	IsMember(ctx context.Context, serverID, userID int64) (bool, error)
	RequireAdmin(ctx context.Context, serverID, userID int64) error
}

type Service struct {
	repo    Repo
	members Members
	now     func() time.Time
}

func New(repo Repo, members Members) *Service {
	return &Service{repo: repo, members: members, now: time.Now}
}

func (s *Service) CreateInvite(ctx context.Context, serverID, userID int64, maxUses int) (invites.Invite, error) {
	if err := s.members.RequireAdmin(ctx, serverID, userID); err != nil {
		return invites.Invite{}, err
	}

	if maxUses <= 0 {
		maxUses = invites.DefaultMaxUses
	}

	var lastErr error
	for range maxCodeAttempts {
		code, err := gonanoid.Generate(codeAlphabet, codeLength)
		if err != nil {
			return invites.Invite{}, err
		}

		inv, err := s.repo.CreateInvite(ctx, code, serverID, userID, maxUses)
		if errors.Is(err, invites.ErrCodeTaken) {
			lastErr = err
			continue
		}
		if err != nil {
			return invites.Invite{}, err
		}
		return inv, nil
	}

	return invites.Invite{}, lastErr
}

// Redeem joins userID to the invite's server. Joining twice is a no-op and
// does not consume a use.
func (s *Service) Redeem(ctx context.Context, code string, userID int64) (int64, error) {
	inv, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return 0, err
	}

	member, err := s.members.IsMember(ctx, inv.ServerID, userID)
	if err != nil {
		return 0, err
	}
	if member {
		return inv.ServerID, nil
	}

	if inv.Uses >= inv.MaxUses {
		return 0, invites.ErrInviteExhausted
	}
	if inv.ExpiresAt != nil && inv.ExpiresAt.Before(s.now()) {
		return 0, invites.ErrInviteExpired
	}

	if err := s.repo.Redeem(ctx, inv.ID, inv.ServerID, userID); err != nil {
		return 0, err
	}

	return inv.ServerID, nil
}

func (s *Service) SendDirectInvite(ctx context.Context, serverID, actingUserID, invitedUserID int64) error {
	if actingUserID == invitedUserID {
		return invites.ErrCannotInviteSelf
	}

	if err := s.members.RequireAdmin(ctx, serverID, actingUserID); err != nil {
		return err
	}

	member, err := s.members.IsMember(ctx, serverID, invitedUserID)
	if err != nil {
		return err
	}
	if member {
		return invites.ErrAlreadyMember
	}

	return s.repo.CreateDirectInvite(ctx, serverID, invitedUserID, actingUserID)
}

func (s *Service) PendingInvites(ctx context.Context, userID int64) ([]invites.DirectInvite, error) {
	return s.repo.ListPendingForUser(ctx, userID)
}

func (s *Service) AcceptDirectInvite(ctx context.Context, inviteID, userID int64) error {
	return s.resolve(ctx, inviteID, userID, invites.StatusAccepted)
}

func (s *Service) DeclineDirectInvite(ctx context.Context, inviteID, userID int64) error {
	return s.resolve(ctx, inviteID, userID, invites.StatusDeclined)
}

func (s *Service) resolve(ctx context.Context, inviteID, userID int64, status string) error {
	inv, err := s.repo.GetDirectInvite(ctx, inviteID)
	if err != nil {
		return err
	}

	// Only the invitee may act on an invite; anyone else sees not-found.
	if inv.InvitedUserID != userID || inv.Status != invites.StatusPending {
		return invites.ErrInviteNotFound
	}

	return s.repo.Resolve(ctx, inviteID, inv.ServerID, userID, status)
}
