package serversservice

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/parleychat/parley/internal/channels"
	"github.com/parleychat/parley/internal/servers"
)

const maxServerNameLength = 100

var hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type Repo interface {
	CreateServer(ctx context.Context, name string, iconEmoji, iconColor *string, userID int64) (servers.Server, channels.Channel, error)
	GetServer(ctx context.Context, serverID int64) (servers.Server, error)
	ListForUser(ctx context.Context, userID int64) ([]servers.Server, error)
	ListMembers(ctx context.Context, serverID int64) ([]servers.Member, error)
	IsMember(ctx context.Context, serverID, userID int64) (bool, error)
	MemberRole(ctx context.Context, serverID, userID int64) (string, error)
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateServer(ctx context.Context, userID int64, req servers.CreateServerRequest) (servers.Server, channels.Channel, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxServerNameLength {
		return servers.Server{}, channels.Channel{}, servers.ErrInvalidServerName
	}

	iconEmoji := normalizeOptional(req.IconEmoji)
	iconColor := normalizeOptional(req.IconColor)

	if iconEmoji != nil && !isValidIconEmoji(*iconEmoji) {
		return servers.Server{}, channels.Channel{}, servers.ErrInvalidIcon
	}
	if iconColor != nil && !hexColorRe.MatchString(*iconColor) {
		return servers.Server{}, channels.Channel{}, servers.ErrInvalidIcon
	}

	return s.repo.CreateServer(ctx, name, iconEmoji, iconColor, userID)
}

func (s *Service) ListServers(ctx context.Context, userID int64) ([]servers.Server, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) GetServer(ctx context.Context, serverID, userID int64) (servers.Server, []servers.Member, error) {
	member, err := s.repo.IsMember(ctx, serverID, userID)
	if err != nil {
		return servers.Server{}, nil, err
	}
	if !member {
		return servers.Server{}, nil, servers.ErrNotMember
	}

	srv, err := s.repo.GetServer(ctx, serverID)
	if err != nil {
		return servers.Server{}, nil, err
	}

	members, err := s.repo.ListMembers(ctx, serverID)
	if err != nil {
		return servers.Server{}, nil, err
	}

	return srv, members, nil
}

func (s *Service) IsMember(ctx context.Context, serverID, userID int64) (bool, error) {
	return s.repo.IsMember(ctx, serverID, userID)
}

func (s *Service) RequireAdmin(ctx context.Context, serverID, userID int64) error {
	role, err := s.repo.MemberRole(ctx, serverID, userID)
	if err != nil {
		return err
	}
	if role != servers.RoleOwner && role != servers.RoleAdmin {
		return servers.ErrNotAdmin
	}
	return nil
}

func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// isValidIconEmoji accepts one short non-space token. Full grapheme
// segmentation is overkill for an icon field; the length bound keeps
// arbitrary text out.
func isValidIconEmoji(v string) bool {
	if len(v) == 0 || len(v) > 16 {
		return false
	}
	for _, r := range v {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
