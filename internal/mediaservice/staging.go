package mediaservice

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// A staged reference is a data URI holding the image bytes inline. It has no
// network identity, so discarding an editing session leaves nothing behind
// in storage.
const stagedScheme = "data:"

var ErrNotStaged = errors.New("reference is not a staged data URI")

// EncodeFileAsStagedReference encodes raw image bytes as a data URI. The
// media type is sniffed from the bytes, not taken from the file name.
func EncodeFileAsStagedReference(data []byte) string {
	mediaType := http.DetectContentType(data)
	return stagedScheme + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsStaged distinguishes a staged reference from a resolved storage URL by
// its scheme. The commit protocol relies on this to never re-upload an
// already resolved reference.
func IsStaged(ref string) bool {
	return strings.HasPrefix(ref, stagedScheme)
}

// DecodeStagedReference parses a staged reference back into its media type
// and raw bytes.
func DecodeStagedReference(ref string) (string, []byte, error) {
	if !IsStaged(ref) {
		return "", nil, ErrNotStaged
	}

	meta, payload, ok := strings.Cut(ref[len(stagedScheme):], ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed staged reference: missing payload")
	}

	mediaType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return "", nil, fmt.Errorf("malformed staged reference: unsupported encoding %q", encoding)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("malformed staged reference: %w", err)
	}

	return mediaType, data, nil
}
