package messagesservice

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/parleychat/parley/internal/config"
	"github.com/parleychat/parley/internal/messages"
	"github.com/parleychat/parley/internal/servers"
	"github.com/parleychat/parley/internal/uploads"
)

type Repo interface {
	InsertMessage(ctx context.Context, channelID, userID int64, text string) (messages.Message, error)
	ListForChannel(ctx context.Context, channelID int64) ([]messages.Message, error)
}

type ChannelDirectory interface {
	ChannelServer(ctx context.Context, channelID int64) (int64, error)
}

type Members interface {
	IsMember(ctx context.Context, serverID, userID int64) (bool, error)
}

// Ingestor is the attachment pipeline: per-file validation plus the
// store-and-link step for each file of a composed message.
type Ingestor interface {
	ValidateFile(f uploads.File) error
	Ingest(ctx context.Context, in uploads.IngestInput) (uploads.Attachment, error)
	MaxFilesPerMessage() int
	MaxTotalSize() int64
}

type Service struct {
	repo     Repo
	channels ChannelDirectory
	members  Members
	ingestor Ingestor
	cfg      config.MessagesConfig
}

func New(repo Repo, channels ChannelDirectory, members Members, ingestor Ingestor, cfg config.MessagesConfig) *Service {
	return &Service{repo: repo, channels: channels, members: members, ingestor: ingestor, cfg: cfg}
}

// Compose validates the whole request, creates the message row, then ingests
// files in input order.
//
// The aggregate file checks run before the insert so a request that cannot
// possibly succeed never leaves a message behind. Ingestion stops at the
// first failing file and surfaces that failure; the message and any earlier
// attachments stay as they are. Callers see the partially attached message on
// the next list.
func (s *Service) Compose(ctx context.Context, in messages.ComposeInput) (messages.Message, error) {
	text := strings.TrimSpace(in.Text)

	if text == "" && len(in.Files) == 0 {
		return messages.Message{}, messages.ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > s.cfg.MaxContentLength {
		return messages.Message{}, messages.ErrContentTooLong
	}

	serverID, err := s.channels.ChannelServer(ctx, in.ChannelID)
	if err != nil {
		return messages.Message{}, err
	}

	member, err := s.members.IsMember(ctx, serverID, in.UserID)
	if err != nil {
		return messages.Message{}, err
	}
	if !member {
		return messages.Message{}, servers.ErrNotMember
	}

	if err := s.validateFiles(in.Files); err != nil {
		return messages.Message{}, err
	}

	msg, err := s.repo.InsertMessage(ctx, in.ChannelID, in.UserID, text)
	if err != nil {
		return messages.Message{}, err
	}

	for _, f := range in.Files {
		att, err := s.ingestor.Ingest(ctx, uploads.IngestInput{
			ChannelID: in.ChannelID,
			MessageID: msg.ID,
			UserID:    in.UserID,
			File:      f,
		})
		if err != nil {
			// the message and earlier attachments stay in place
			return msg, err
		}
		msg.Attachments = append(msg.Attachments, att)
	}

	return msg, nil
}

func (s *Service) List(ctx context.Context, channelID, userID int64) ([]messages.Message, error) {
	serverID, err := s.channels.ChannelServer(ctx, channelID)
	if err != nil {
		return nil, err
	}

	member, err := s.members.IsMember(ctx, serverID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, servers.ErrNotMember
	}

	return s.repo.ListForChannel(ctx, channelID)
}

func (s *Service) validateFiles(files []uploads.File) error {
	if len(files) == 0 {
		return nil
	}

	if len(files) > s.ingestor.MaxFilesPerMessage() {
		return uploads.ErrAttachmentLimitExceeded
	}

	var total int64
	for _, f := range files {
		total += int64(len(f.Data))
	}
	if total > s.ingestor.MaxTotalSize() {
		return uploads.ErrTotalSizeExceeded
	}

	for _, f := range files {
		if err := s.ingestor.ValidateFile(f); err != nil {
			return err
		}
	}

	return nil
}
