package uploads

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// PathPrefix is where all content-addressed objects live in the bucket.
const PathPrefix = "by-hash/"

const defaultExtension = "jpg"

var mediaTypeExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// AddressOf maps file content to its storage path: by-hash/<sha256-hex>.<ext>.
// The declared media type is part of the address, so identical bytes declared
// as different types land on different paths. Deterministic across processes;
// the whole dedup scheme rests on that.
func AddressOf(data []byte, mediaType string) string {
	sum := sha256.Sum256(data)

	ext, ok := mediaTypeExtensions[mediaType]
	if !ok {
		// media type is validated before we get here; jpg is a safety net
		ext = defaultExtension
	}

	return PathPrefix + hex.EncodeToString(sum[:]) + "." + ext
}

func IsAllowedMediaType(mediaType string) bool {
	_, ok := mediaTypeExtensions[mediaType]
	return ok
}

func ValidatePath(path string) error {
	if path == "" {
		return ErrInvalidPath
	}
	if !strings.HasPrefix(path, PathPrefix) {
		return ErrInvalidPath
	}
	if strings.Contains(path, "..") {
		return ErrInvalidPath
	}
	return nil
}
