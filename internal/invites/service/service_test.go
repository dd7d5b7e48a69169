package invitesservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parleychat/parley/internal/invites"
	invitesservice "github.com/parleychat/parley/internal/invites/service"
	"github.com/parleychat/parley/internal/servers"
)

type fakeRepo struct {
	invites       map[string]invites.Invite
	direct        map[int64]invites.DirectInvite
	nextID        int64
	redeemed      []int64
	resolved      map[int64]string
	takeFirstCode bool // fail the first CreateInvite with ErrCodeTaken
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		invites:  map[string]invites.Invite{},
		direct:   map[int64]invites.DirectInvite{},
		resolved: map[int64]string{},
	}
}

func (r *fakeRepo) CreateInvite(_ context.Context, code string, serverID, createdBy int64, maxUses int) (invites.Invite, error) {
	if r.takeFirstCode {
		r.takeFirstCode = false
		return invites.Invite{}, invites.ErrCodeTaken
	}
	r.nextID++
	inv := invites.Invite{ID: r.nextID, Code: code, ServerID: serverID, CreatedByUserID: createdBy, MaxUses: maxUses}
	r.invites[code] = inv
	return inv, nil
}

func (r *fakeRepo) GetByCode(_ context.Context, code string) (invites.Invite, error) {
	inv, ok := r.invites[code]
	if !ok {
		return invites.Invite{}, invites.ErrInviteNotFound
	}
	return inv, nil
}

func (r *fakeRepo) Redeem(_ context.Context, inviteID, serverID, userID int64) error {
	r.redeemed = append(r.redeemed, inviteID)
	return nil
}

func (r *fakeRepo) CreateDirectInvite(_ context.Context, serverID, invitedUserID, invitedBy int64) error {
	for _, d := range r.direct {
		if d.ServerID == serverID && d.InvitedUserID == invitedUserID && d.Status == invites.StatusPending {
			return invites.ErrAlreadyInvited
		}
	}
	r.nextID++
	r.direct[r.nextID] = invites.DirectInvite{
		ID: r.nextID, ServerID: serverID, InvitedUserID: invitedUserID,
		InvitedByUserID: invitedBy, Status: invites.StatusPending,
	}
	return nil
}

func (r *fakeRepo) GetDirectInvite(_ context.Context, id int64) (invites.DirectInvite, error) {
	d, ok := r.direct[id]
	if !ok {
		return invites.DirectInvite{}, invites.ErrInviteNotFound
	}
	return d, nil
}

func (r *fakeRepo) ListPendingForUser(_ context.Context, userID int64) ([]invites.DirectInvite, error) {
	var out []invites.DirectInvite
	for _, d := range r.direct {
		if d.InvitedUserID == userID && d.Status == invites.StatusPending {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeRepo) Resolve(_ context.Context, inviteID, serverID, userID int64, status string) error {
	d := r.direct[inviteID]
	d.Status = status
	r.direct[inviteID] = d
	r.resolved[inviteID] = status
	return nil
}

type fakeMembers struct {
	members map[int64]bool // userID -> member
	admins  map[int64]bool
}

func newFakeMembers() *fakeMembers {
	return &fakeMembers{members: map[int64]bool{}, admins: map[int64]bool{}}
}

func (m *fakeMembers) IsMember(_ context.Context, _, userID int64) (bool, error) {
	return m.members[userID], nil
}

func (m *fakeMembers) RequireAdmin(_ context.Context, _, userID int64) error {
	if !m.admins[userID] {
		return servers.ErrNotAdmin
	}
	return nil
}

func TestCreateInvite(t *testing.T) {
	repo := newFakeRepo()
	members := newFakeMembers()
	members.admins[1] = true

	svc := invitesservice.New(repo, members)

	inv, err := svc.CreateInvite(context.Background(), 10, 1, 0)
	require.NoError(t, err)
	require.Len(t, inv.Code, 8)
	require.Equal(t, invites.DefaultMaxUses, inv.MaxUses, "zero max_uses falls back to the default")
}

func TestCreateInvite_RetriesOnCodeCollision(t *testing.T) {
	repo := newFakeRepo()
	repo.takeFirstCode = true
	members := newFakeMembers()
	members.admins[1] = true

	svc := invitesservice.New(repo, members)

	inv, err := svc.CreateInvite(context.Background(), 10, 1, 5)
	require.NoError(t, err)
	require.NotEmpty(t, inv.Code)
}

func TestCreateInvite_RequiresAdmin(t *testing.T) {
	svc := invitesservice.New(newFakeRepo(), newFakeMembers())

	_, err := svc.CreateInvite(context.Background(), 10, 1, 5)
	require.ErrorIs(t, err, servers.ErrNotAdmin)
}

func TestRedeem(t *testing.T) {
	repo := newFakeRepo()
	members := newFakeMembers()
	members.admins[1] = true

	svc := invitesservice.New(repo, members)

	inv, err := svc.CreateInvite(context.Background(), 10, 1, 5)
	require.NoError(t, err)

	serverID, err := svc.Redeem(context.Background(), inv.Code, 2)
	require.NoError(t, err)
	require.Equal(t, int64(10), serverID)
	require.Len(t, repo.redeemed, 1)
}

func TestRedeem_UnknownCode(t *testing.T) {
	svc := invitesservice.New(newFakeRepo(), newFakeMembers())

	_, err := svc.Redeem(context.Background(), "nope1234", 2)
	require.ErrorIs(t, err, invites.ErrInviteNotFound)
}

func TestRedeem_IdempotentForExistingMember(t *testing.T) {
	repo := newFakeRepo()
	repo.invites["abc"] = invites.Invite{ID: 1, Code: "abc", ServerID: 10, MaxUses: 1, Uses: 1}

	members := newFakeMembers()
	members.members[2] = true

	svc := invitesservice.New(repo, members)

	// exhausted invite, but the caller is already in: joining again succeeds
	// and consumes nothing
	serverID, err := svc.Redeem(context.Background(), "abc", 2)
	require.NoError(t, err)
	require.Equal(t, int64(10), serverID)
	require.Empty(t, repo.redeemed)
}

func TestRedeem_Exhausted(t *testing.T) {
	repo := newFakeRepo()
	repo.invites["abc"] = invites.Invite{ID: 1, Code: "abc", ServerID: 10, MaxUses: 2, Uses: 2}

	svc := invitesservice.New(repo, newFakeMembers())

	_, err := svc.Redeem(context.Background(), "abc", 2)
	require.ErrorIs(t, err, invites.ErrInviteExhausted)
}

func TestRedeem_Expired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	repo := newFakeRepo()
	repo.invites["abc"] = invites.Invite{ID: 1, Code: "abc", ServerID: 10, MaxUses: 5, ExpiresAt: &past}

	svc := invitesservice.New(repo, newFakeMembers())

	_, err := svc.Redeem(context.Background(), "abc", 2)
	require.ErrorIs(t, err, invites.ErrInviteExpired)
}

func TestSendDirectInvite(t *testing.T) {
	repo := newFakeRepo()
	members := newFakeMembers()
	members.admins[1] = true

	svc := invitesservice.New(repo, members)

	require.NoError(t, svc.SendDirectInvite(context.Background(), 10, 1, 2))

	pending, err := svc.PendingInvites(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestSendDirectInvite_Self(t *testing.T) {
	svc := invitesservice.New(newFakeRepo(), newFakeMembers())

	err := svc.SendDirectInvite(context.Background(), 10, 1, 1)
	require.ErrorIs(t, err, invites.ErrCannotInviteSelf)
}

func TestSendDirectInvite_AlreadyMember(t *testing.T) {
	members := newFakeMembers()
	members.admins[1] = true
	members.members[2] = true

	svc := invitesservice.New(newFakeRepo(), members)

	err := svc.SendDirectInvite(context.Background(), 10, 1, 2)
	require.ErrorIs(t, err, invites.ErrAlreadyMember)
}

func TestSendDirectInvite_Duplicate(t *testing.T) {
	members := newFakeMembers()
	members.admins[1] = true

	svc := invitesservice.New(newFakeRepo(), members)

	require.NoError(t, svc.SendDirectInvite(context.Background(), 10, 1, 2))
	err := svc.SendDirectInvite(context.Background(), 10, 1, 2)
	require.ErrorIs(t, err, invites.ErrAlreadyInvited)
}

func TestAcceptDirectInvite(t *testing.T) {
	repo := newFakeRepo()
	members := newFakeMembers()
	members.admins[1] = true

	svc := invitesservice.New(repo, members)
	require.NoError(t, svc.SendDirectInvite(context.Background(), 10, 1, 2))

	var inviteID int64
	for id := range repo.direct {
		inviteID = id
	}

	require.NoError(t, svc.AcceptDirectInvite(context.Background(), inviteID, 2))
	require.Equal(t, invites.StatusAccepted, repo.resolved[inviteID])
}

func TestDeclineDirectInvite(t *testing.T) {
	repo := newFakeRepo()
	members := newFakeMembers()
	members.admins[1] = true

	svc := invitesservice.New(repo, members)
	require.NoError(t, svc.SendDirectInvite(context.Background(), 10, 1, 2))

	var inviteID int64
	for id := range repo.direct {
		inviteID = id
	}

	require.NoError(t, svc.DeclineDirectInvite(context.Background(), inviteID, 2))
	require.Equal(t, invites.StatusDeclined, repo.resolved[inviteID])
}

func TestResolveDirectInvite_WrongUserSeesNotFound(t *testing.T) {
	repo := newFakeRepo()
	members := newFakeMembers()
	members.admins[1] = true

	svc := invitesservice.New(repo, members)
	require.NoError(t, svc.SendDirectInvite(context.Background(), 10, 1, 2))

	var inviteID int64
	for id := range repo.direct {
		inviteID = id
	}

	err := svc.AcceptDirectInvite(context.Background(), inviteID, 3)
	require.ErrorIs(t, err, invites.ErrInviteNotFound)
	require.Empty(t, repo.resolved)
}

func TestResolveDirectInvite_AlreadyResolved(t *testing.T) {
	repo := newFakeRepo()
	repo.direct[1] = invites.DirectInvite{ID: 1, ServerID: 10, InvitedUserID: 2, Status: invites.StatusDeclined}

	svc := invitesservice.New(repo, newFakeMembers())

	err := svc.AcceptDirectInvite(context.Background(), 1, 2)
	require.ErrorIs(t, err, invites.ErrInviteNotFound)
}
