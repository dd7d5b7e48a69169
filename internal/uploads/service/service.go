package uploadsservice

import (
	"context"
	"fmt"
	"time"

	"github.com/parleychat/parley/internal/config"
	"github.com/parleychat/parley/internal/servers"
	"github.com/parleychat/parley/internal/uploads"
)

type BlobStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Repo interface {
	MessageInChannel(ctx context.Context, messageID, channelID int64) (bool, error)
	CountForMessage(ctx context.Context, messageID int64) (int, error)
	Insert(ctx context.Context, messageID int64, filePath, fileType string) (uploads.Attachment, error)
	GetAttachmentServer(ctx context.Context, attachmentID int64) (uploads.Attachment, int64, error)
}

type ChannelDirectory interface {
	ChannelServer(ctx context.Context, channelID int64) (int64, error)
}

type Members interface {
	IsMember(ctx context.Context, serverID, userID int64) (bool, error)
}

type Service struct {
	store    BlobStore
	repo     Repo
	channels ChannelDirectory
	members  Members
	cfg      config.UploadsConfig
}

func New(store BlobStore, repo Repo, channels ChannelDirectory, members Members, cfg config.UploadsConfig) *Service {
	return &Service{store: store, repo: repo, channels: channels, members: members, cfg: cfg}
}

// ValidateFile checks one file against the type whitelist and the per-file
// size ceiling. Shared by Ingest and the pre-flight validation in the message
// composer.
func (s *Service) ValidateFile(f uploads.File) error {
	if !uploads.IsAllowedMediaType(f.MediaType) {
		return uploads.ErrInvalidFileType
	}
	if int64(len(f.Data)) > s.cfg.MaxFileSize {
		return uploads.ErrFileTooLarge
	}
	return nil
}

func (s *Service) MaxFilesPerMessage() int { return s.cfg.MaxFilesPerMessage }
func (s *Service) MaxTotalSize() int64     { return s.cfg.MaxTotalSize }

// Ingest stores one file's bytes exactly once and links them to the message.
//
// The path is derived from the content, so a probe for an existing object is
// enough to skip the upload: whatever sits at that path is byte-identical by
// construction. The probe-then-put pair is racy across requests; both racers
// write the same bytes to the same path, so the overwrite is harmless.
func (s *Service) Ingest(ctx context.Context, in uploads.IngestInput) (uploads.Attachment, error) {
	const op = "uploads.service.Ingest"

	if err := s.ValidateFile(in.File); err != nil {
		return uploads.Attachment{}, err
	}

	serverID, err := s.channels.ChannelServer(ctx, in.ChannelID)
	if err != nil {
		return uploads.Attachment{}, err
	}

	member, err := s.members.IsMember(ctx, serverID, in.UserID)
	if err != nil {
		return uploads.Attachment{}, err
	}
	if !member {
		return uploads.Attachment{}, servers.ErrNotMember
	}

	ok, err := s.repo.MessageInChannel(ctx, in.MessageID, in.ChannelID)
	if err != nil {
		return uploads.Attachment{}, err
	}
	if !ok {
		return uploads.Attachment{}, uploads.ErrMessageNotFound
	}

	count, err := s.repo.CountForMessage(ctx, in.MessageID)
	if err != nil {
		return uploads.Attachment{}, err
	}
	if count >= s.cfg.MaxFilesPerMessage {
		return uploads.Attachment{}, uploads.ErrAttachmentLimitExceeded
	}

	path := uploads.AddressOf(in.File.Data, in.File.MediaType)

	exists, err := s.store.Exists(ctx, path)
	if err != nil {
		return uploads.Attachment{}, fmt.Errorf("%s: %w: %w", op, uploads.ErrStorageWriteFailed, err)
	}

	if !exists {
		if err := s.store.Put(ctx, path, in.File.Data, in.File.MediaType); err != nil {
			return uploads.Attachment{}, fmt.Errorf("%s: %w: %w", op, uploads.ErrStorageWriteFailed, err)
		}
	}

	att, err := s.repo.Insert(ctx, in.MessageID, path, uploads.KindImage)
	if err != nil {
		// the stored object stays; it is content-addressed and may be
		// referenced by a later upload
		return uploads.Attachment{}, fmt.Errorf("%s: %w: %w", op, uploads.ErrPersistenceFailed, err)
	}

	return att, nil
}

// PresignDownload returns a short-lived URL for an attachment's object, after
// checking the caller can see the message it belongs to.
func (s *Service) PresignDownload(ctx context.Context, userID, attachmentID int64) (string, error) {
	att, serverID, err := s.repo.GetAttachmentServer(ctx, attachmentID)
	if err != nil {
		return "", err
	}

	member, err := s.members.IsMember(ctx, serverID, userID)
	if err != nil {
		return "", err
	}
	if !member {
		return "", servers.ErrNotMember
	}

	if err := uploads.ValidatePath(att.FilePath); err != nil {
		return "", err
	}

	ttl := time.Duration(s.cfg.PresignTTL.DownloadSec) * time.Second

	return s.store.PresignGet(ctx, att.FilePath, ttl)
}
