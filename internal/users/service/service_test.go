package usersservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parleychat/parley/internal/auth"
	"github.com/parleychat/parley/internal/users"
	usersservice "github.com/parleychat/parley/internal/users/service"
)

type fakeRepo struct {
	byID     map[int64]users.User
	hashes   map[int64]string
	byEmail  map[string]int64
	byName   map[string]int64
	nextID   int64
	profiles []string // usernames written via UpdateProfile
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    map[int64]users.User{},
		hashes:  map[int64]string{},
		byEmail: map[string]int64{},
		byName:  map[string]int64{},
	}
}

func (r *fakeRepo) CreateUser(_ context.Context, email, username, passwordHash string) (users.User, error) {
	if _, ok := r.byEmail[email]; ok {
		return users.User{}, users.ErrUserAlreadyExists
	}
	if _, ok := r.byName[username]; ok {
		return users.User{}, users.ErrUserAlreadyExists
	}
	r.nextID++
	u := users.User{
		ID: r.nextID, Email: email, Username: username,
		ThemePreference: users.ThemeDark, NotificationPreference: users.NotifyPopup,
		CreatedAt: time.Now(),
	}
	r.byID[u.ID] = u
	r.hashes[u.ID] = passwordHash
	r.byEmail[email] = u.ID
	r.byName[username] = u.ID
	return u, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (users.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return users.User{}, users.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (users.User, string, error) {
	id, ok := r.byEmail[email]
	if !ok {
		return users.User{}, "", users.ErrUserNotFound
	}
	return r.byID[id], r.hashes[id], nil
}

func (r *fakeRepo) GetByUsername(_ context.Context, username string) (users.User, error) {
	id, ok := r.byName[username]
	if !ok {
		return users.User{}, users.ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *fakeRepo) GetPasswordHash(_ context.Context, id int64) (string, error) {
	h, ok := r.hashes[id]
	if !ok {
		return "", users.ErrUserNotFound
	}
	return h, nil
}

func (r *fakeRepo) UpdateProfile(_ context.Context, id int64, username, theme, notification *string) (users.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return users.User{}, users.ErrUserNotFound
	}
	if username != nil {
		u.Username = *username
		r.profiles = append(r.profiles, *username)
	}
	if theme != nil {
		u.ThemePreference = *theme
	}
	if notification != nil {
		u.NotificationPreference = *notification
	}
	r.byID[id] = u
	return u, nil
}

func (r *fakeRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	r.hashes[id] = hash
	return nil
}

func newService(repo *fakeRepo) *usersservice.Service {
	return usersservice.New(repo, auth.NewTokenManager("test-secret", time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)

	u, token, err := svc.Register(context.Background(), users.RegisterRequest{
		Email: "  Alice@Example.COM ", Username: "alice", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", u.Email, "email is normalized")
	require.NotEmpty(t, token)

	logged, token, err := svc.Login(context.Background(), users.LoginRequest{
		Email: "alice@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.Equal(t, u.ID, logged.ID)
	require.NotEmpty(t, token)
}

func TestRegister_InvalidInput(t *testing.T) {
	svc := newService(newFakeRepo())

	cases := []users.RegisterRequest{
		{Email: "not-an-email", Username: "alice", Password: "hunter2hunter2"},
		{Email: "a@b.com", Username: "al", Password: "hunter2hunter2"},
		{Email: "a@b.com", Username: "alice", Password: "short"},
	}

	for _, req := range cases {
		_, _, err := svc.Register(context.Background(), req)
		require.ErrorIs(t, err, users.ErrInvalidInput)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newService(newFakeRepo())

	_, _, err := svc.Register(context.Background(), users.RegisterRequest{
		Email: "a@b.com", Username: "alice", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), users.RegisterRequest{
		Email: "a@b.com", Username: "alice2", Password: "hunter2hunter2",
	})
	require.ErrorIs(t, err, users.ErrUserAlreadyExists)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newService(newFakeRepo())

	_, _, err := svc.Register(context.Background(), users.RegisterRequest{
		Email: "a@b.com", Username: "alice", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), users.LoginRequest{
		Email: "a@b.com", Password: "wrong-password",
	})
	require.ErrorIs(t, err, users.ErrInvalidCredentials)
}

func TestLogin_UnknownEmailLooksLikeBadCredentials(t *testing.T) {
	svc := newService(newFakeRepo())

	_, _, err := svc.Login(context.Background(), users.LoginRequest{
		Email: "ghost@b.com", Password: "whatever123",
	})
	require.ErrorIs(t, err, users.ErrInvalidCredentials)
}

func TestUpdateProfile_Preferences(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)

	u, _, err := svc.Register(context.Background(), users.RegisterRequest{
		Email: "a@b.com", Username: "alice", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	retro := users.ThemeRetro
	badgeOnly := users.NotifyBadgeOnly
	updated, err := svc.UpdateProfile(context.Background(), u.ID, users.UpdateProfileRequest{
		ThemePreference:        &retro,
		NotificationPreference: &badgeOnly,
	})
	require.NoError(t, err)
	require.Equal(t, users.ThemeRetro, updated.ThemePreference)
	require.Equal(t, users.NotifyBadgeOnly, updated.NotificationPreference)

	bogus := "solarized"
	_, err = svc.UpdateProfile(context.Background(), u.ID, users.UpdateProfileRequest{ThemePreference: &bogus})
	require.ErrorIs(t, err, users.ErrInvalidPreference)
}

func TestUpdateProfile_UsernameLength(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)

	u, _, err := svc.Register(context.Background(), users.RegisterRequest{
		Email: "a@b.com", Username: "alice", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	short := "ab"
	_, err = svc.UpdateProfile(context.Background(), u.ID, users.UpdateProfileRequest{Username: &short})
	require.ErrorIs(t, err, users.ErrInvalidInput)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)

	u, _, err := svc.Register(context.Background(), users.RegisterRequest{
		Email: "a@b.com", Username: "alice", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), u.ID, users.ChangePasswordRequest{
		CurrentPassword: "wrong-password", NewPassword: "newpassword123",
	})
	require.ErrorIs(t, err, users.ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), u.ID, users.ChangePasswordRequest{
		CurrentPassword: "hunter2hunter2", NewPassword: "newpassword123",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), users.LoginRequest{
		Email: "a@b.com", Password: "newpassword123",
	})
	require.NoError(t, err)
}
