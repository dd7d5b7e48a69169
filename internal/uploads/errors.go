package uploads

import (
	"errors"
)

var (
	ErrInvalidFileType         = errors.New("invalid file type, allowed: JPEG, PNG, GIF, WebP")
	ErrFileTooLarge            = errors.New("file exceeds the per-file size limit")
	ErrTotalSizeExceeded       = errors.New("total attachment size limit exceeded")
	ErrAttachmentLimitExceeded = errors.New("too many attachments for one message")
	ErrMessageNotFound         = errors.New("message not found")
	ErrAttachmentNotFound      = errors.New("attachment not found")
	ErrInvalidPath             = errors.New("invalid storage path")
	ErrStorageWriteFailed      = errors.New("failed to store file")
	ErrPersistenceFailed       = errors.New("failed to save attachment")
)
