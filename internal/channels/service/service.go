package channelsservice

import (
	"context"
	"strings"

	"github.com/parleychat/parley/internal/channels"
	"github.com/parleychat/parley/internal/servers"
)

const maxChannelNameLength = 100

type Repo interface {
	CreateChannel(ctx context.Context, serverID int64, name, chType string) (channels.Channel, error)
	GetChannel(ctx context.Context, channelID int64) (channels.Channel, error)
	ChannelServer(ctx context.Context, channelID int64) (int64, error)
	ListForServer(ctx context.Context, serverID int64) ([]channels.Channel, error)
}

type Members interface {
	IsMember(ctx context.Context, serverID, userID int64) (bool, error)
	RequireAdmin(ctx context.Context, serverID, userID int64) error
}

type Service struct {
	repo    Repo
	members Members
}

func New(repo Repo, members Members) *Service {
	return &Service{repo: repo, members: members}
}

func (s *Service) CreateChannel(ctx context.Context, serverID, userID int64, req channels.CreateChannelRequest) (channels.Channel, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxChannelNameLength {
		return channels.Channel{}, channels.ErrInvalidChannelName
	}

	if err := s.members.RequireAdmin(ctx, serverID, userID); err != nil {
		return channels.Channel{}, err
	}

	return s.repo.CreateChannel(ctx, serverID, name, channels.TypeText)
}

func (s *Service) ListChannels(ctx context.Context, serverID, userID int64) ([]channels.Channel, error) {
	member, err := s.members.IsMember(ctx, serverID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, servers.ErrNotMember
	}

	return s.repo.ListForServer(ctx, serverID)
}
