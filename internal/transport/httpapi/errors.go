package httpapi

import (
	"errors"
	"net/http"

	"github.com/parleychat/parley/internal/channels"
	"github.com/parleychat/parley/internal/invites"
	"github.com/parleychat/parley/internal/messages"
	"github.com/parleychat/parley/internal/servers"
	"github.com/parleychat/parley/internal/uploads"
	"github.com/parleychat/parley/internal/users"
)

// MapError folds the feature sentinels into one transport policy:
// validation 400, auth 401/403, missing resources 404, conflicts 409,
// storage and persistence failures 500. Membership failures stay generic so
// non-members learn nothing about what exists.
func MapError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, messages.ErrEmptyMessage):
		return http.StatusBadRequest, "empty_message", err.Error()

	case errors.Is(err, messages.ErrContentTooLong):
		return http.StatusBadRequest, "content_too_long", err.Error()

	case errors.Is(err, uploads.ErrInvalidFileType):
		return http.StatusBadRequest, "invalid_file_type", err.Error()

	case errors.Is(err, uploads.ErrFileTooLarge):
		return http.StatusBadRequest, "file_too_large", err.Error()

	case errors.Is(err, uploads.ErrTotalSizeExceeded):
		return http.StatusBadRequest, "total_size_exceeded", err.Error()

	case errors.Is(err, uploads.ErrAttachmentLimitExceeded):
		return http.StatusBadRequest, "attachment_limit_exceeded", err.Error()

	case errors.Is(err, uploads.ErrInvalidPath):
		return http.StatusBadRequest, "invalid_path", err.Error()

	case errors.Is(err, users.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input", err.Error()

	case errors.Is(err, users.ErrInvalidPreference):
		return http.StatusBadRequest, "invalid_preference", err.Error()

	case errors.Is(err, servers.ErrInvalidServerName):
		return http.StatusBadRequest, "invalid_server_name", err.Error()

	case errors.Is(err, servers.ErrInvalidIcon):
		return http.StatusBadRequest, "invalid_icon", err.Error()

	case errors.Is(err, channels.ErrInvalidChannelName):
		return http.StatusBadRequest, "invalid_channel_name", err.Error()

	case errors.Is(err, invites.ErrCannotInviteSelf):
		return http.StatusBadRequest, "cannot_invite_self", err.Error()

	case errors.Is(err, invites.ErrInviteExhausted):
		return http.StatusBadRequest, "invite_exhausted", err.Error()

	case errors.Is(err, invites.ErrInviteExpired):
		return http.StatusBadRequest, "invite_expired", err.Error()

	case errors.Is(err, users.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", err.Error()

	case errors.Is(err, servers.ErrNotMember):
		return http.StatusForbidden, "not_a_member", servers.ErrNotMember.Error()

	case errors.Is(err, servers.ErrNotAdmin):
		return http.StatusForbidden, "not_admin", servers.ErrNotAdmin.Error()

	case errors.Is(err, channels.ErrChannelNotFound):
		return http.StatusNotFound, "channel_not_found", err.Error()

	case errors.Is(err, uploads.ErrMessageNotFound):
		return http.StatusNotFound, "message_not_found", err.Error()

	case errors.Is(err, uploads.ErrAttachmentNotFound):
		return http.StatusNotFound, "attachment_not_found", err.Error()

	case errors.Is(err, servers.ErrServerNotFound):
		return http.StatusNotFound, "server_not_found", err.Error()

	case errors.Is(err, invites.ErrInviteNotFound):
		return http.StatusNotFound, "invite_not_found", err.Error()

	case errors.Is(err, users.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found", err.Error()

	case errors.Is(err, users.ErrUserAlreadyExists):
		return http.StatusConflict, "user_already_exists", err.Error()

	case errors.Is(err, users.ErrUsernameTaken):
		return http.StatusConflict, "username_taken", err.Error()

	case errors.Is(err, invites.ErrAlreadyMember):
		return http.StatusConflict, "already_member", err.Error()

	case errors.Is(err, invites.ErrAlreadyInvited):
		return http.StatusConflict, "already_invited", err.Error()

	case errors.Is(err, uploads.ErrStorageWriteFailed):
		return http.StatusInternalServerError, "storage_write_failed", uploads.ErrStorageWriteFailed.Error()

	case errors.Is(err, uploads.ErrPersistenceFailed):
		return http.StatusInternalServerError, "persistence_failed", uploads.ErrPersistenceFailed.Error()
	}

	return http.StatusInternalServerError, "internal_error", "internal server error"
}
