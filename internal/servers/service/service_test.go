package serversservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parleychat/parley/internal/channels"
	"github.com/parleychat/parley/internal/servers"
	serversservice "github.com/parleychat/parley/internal/servers/service"
)

type fakeRepo struct {
	servers map[int64]servers.Server
	roles   map[int64]string // userID -> role on any server
	nextID  int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{servers: map[int64]servers.Server{}, roles: map[int64]string{}}
}

func (r *fakeRepo) CreateServer(_ context.Context, name string, iconEmoji, iconColor *string, userID int64) (servers.Server, channels.Channel, error) {
	r.nextID++
	srv := servers.Server{ID: r.nextID, Name: name, IconEmoji: iconEmoji, IconColor: iconColor}
	r.servers[srv.ID] = srv
	r.roles[userID] = servers.RoleOwner
	general := channels.Channel{ID: r.nextID * 100, ServerID: srv.ID, Name: "general", Type: channels.TypeText}
	return srv, general, nil
}

func (r *fakeRepo) GetServer(_ context.Context, serverID int64) (servers.Server, error) {
	srv, ok := r.servers[serverID]
	if !ok {
		return servers.Server{}, servers.ErrServerNotFound
	}
	return srv, nil
}

func (r *fakeRepo) ListForUser(_ context.Context, userID int64) ([]servers.Server, error) {
	if _, ok := r.roles[userID]; !ok {
		return nil, nil
	}
	var out []servers.Server
	for _, s := range r.servers {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeRepo) ListMembers(_ context.Context, serverID int64) ([]servers.Member, error) {
	return []servers.Member{{ServerID: serverID, UserID: 1, Role: servers.RoleOwner}}, nil
}

func (r *fakeRepo) IsMember(_ context.Context, _, userID int64) (bool, error) {
	_, ok := r.roles[userID]
	return ok, nil
}

func (r *fakeRepo) MemberRole(_ context.Context, _, userID int64) (string, error) {
	role, ok := r.roles[userID]
	if !ok {
		return "", servers.ErrNotMember
	}
	return role, nil
}

func strptr(s string) *string { return &s }

func TestCreateServer(t *testing.T) {
	repo := newFakeRepo()
	svc := serversservice.New(repo)

	srv, general, err := svc.CreateServer(context.Background(), 1, servers.CreateServerRequest{
		Name:      "  My Server  ",
		IconEmoji: strptr("🦫"),
		IconColor: strptr("#ff8800"),
	})

	require.NoError(t, err)
	require.Equal(t, "My Server", srv.Name, "name is stored trimmed")
	require.Equal(t, "general", general.Name, "a default channel comes with every server")
	require.Equal(t, servers.RoleOwner, repo.roles[1], "creator becomes owner")
}

func TestCreateServer_InvalidName(t *testing.T) {
	svc := serversservice.New(newFakeRepo())

	for _, name := range []string{"", "   ", string(make([]byte, 101))} {
		_, _, err := svc.CreateServer(context.Background(), 1, servers.CreateServerRequest{Name: name})
		require.ErrorIs(t, err, servers.ErrInvalidServerName)
	}
}

func TestCreateServer_InvalidIcon(t *testing.T) {
	svc := serversservice.New(newFakeRepo())

	tests := []servers.CreateServerRequest{
		{Name: "ok", IconColor: strptr("orange")},
		{Name: "ok", IconColor: strptr("#12345g")},
		{Name: "ok", IconEmoji: strptr("not an emoji at all")},
	}

	for _, req := range tests {
		_, _, err := svc.CreateServer(context.Background(), 1, req)
		require.ErrorIs(t, err, servers.ErrInvalidIcon)
	}
}

func TestCreateServer_BlankIconFieldsAreDropped(t *testing.T) {
	svc := serversservice.New(newFakeRepo())

	srv, _, err := svc.CreateServer(context.Background(), 1, servers.CreateServerRequest{
		Name:      "ok",
		IconEmoji: strptr("   "),
		IconColor: strptr(""),
	})

	require.NoError(t, err)
	require.Nil(t, srv.IconEmoji)
	require.Nil(t, srv.IconColor)
}

func TestGetServer_NonMember(t *testing.T) {
	repo := newFakeRepo()
	svc := serversservice.New(repo)

	_, _, err := svc.CreateServer(context.Background(), 1, servers.CreateServerRequest{Name: "ok"})
	require.NoError(t, err)

	_, _, err = svc.GetServer(context.Background(), 1, 99)
	require.ErrorIs(t, err, servers.ErrNotMember)
}

func TestRequireAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc := serversservice.New(repo)

	repo.roles[1] = servers.RoleOwner
	repo.roles[2] = servers.RoleAdmin
	repo.roles[3] = servers.RoleMember

	require.NoError(t, svc.RequireAdmin(context.Background(), 10, 1))
	require.NoError(t, svc.RequireAdmin(context.Background(), 10, 2))
	require.ErrorIs(t, svc.RequireAdmin(context.Background(), 10, 3), servers.ErrNotAdmin)
	require.ErrorIs(t, svc.RequireAdmin(context.Background(), 10, 99), servers.ErrNotMember)
}
