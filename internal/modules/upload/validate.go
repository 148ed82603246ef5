package upload

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Kind names double as the key prefix in the bucket.
const (
	KindAvatar     = "avatar"
	KindPortfolio  = "portfolio"
	KindAttachment = "attachment"
)

// Executable and script extensions are refused for every kind, whatever the
// declared MIME type says.
var blockedExtensions = map[string]struct{}{
	".exe": {}, ".dll": {}, ".msi": {}, ".com": {}, ".scr": {},
	".bat": {}, ".cmd": {}, ".ps1": {}, ".sh": {},
	".php": {}, ".phtml": {}, ".jsp": {}, ".asp": {}, ".aspx": {},
	".js": {}, ".jar": {},
}

type rule struct {
	maxSize      int64
	allowedMimes map[string]struct{}
}

var rules = map[string]rule{
	KindAvatar: {
		maxSize: 2 << 20,
		allowedMimes: map[string]struct{}{
			"image/jpeg": {}, "image/png": {}, "image/webp": {},
		},
	},
	KindPortfolio: {
		maxSize: 8 << 20,
		allowedMimes: map[string]struct{}{
			"image/jpeg": {}, "image/png": {}, "image/webp": {}, "image/gif": {},
		},
	},
	KindAttachment: {
		maxSize: 15 << 20,
		allowedMimes: map[string]struct{}{
			"image/jpeg": {}, "image/png": {}, "image/webp": {}, "image/gif": {},
			"application/pdf": {}, "application/zip": {},
			"text/plain": {}, "text/csv": {},
		},
	},
}

// Validate checks a declared file against the rules of its kind. Size and
// MIME checks use what the client declared; content sniffing happens
// separately where the bytes are available.
func Validate(kind, fileName, mimeType string, size int64) error {
	r, ok := rules[kind]
	if !ok {
		return ErrUnknownKind
	}

	if fileName == "" || strings.ContainsAny(fileName, "/\\") || strings.Contains(fileName, "..") {
		return ErrBadFileName
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if _, blocked := blockedExtensions[ext]; blocked {
		return ErrExtBlocked
	}

	if size <= 0 || size > r.maxSize {
		return ErrTooLarge
	}

	mime := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if _, allowed := r.allowedMimes[mime]; !allowed {
		return ErrBadMimeType
	}

	return nil
}

// signatures maps a MIME type to the magic-byte prefixes that prove it.
var signatures = map[string][][]byte{
	"image/jpeg":      {{0xFF, 0xD8, 0xFF}},
	"image/png":       {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	"image/gif":       {[]byte("GIF87a"), []byte("GIF89a")},
	"application/pdf": {[]byte("%PDF-")},
	"application/zip": {{0x50, 0x4B, 0x03, 0x04}, {0x50, 0x4B, 0x05, 0x06}},
}

// VerifyContent checks the leading bytes against the declared MIME type.
// Types without a registered signature (text, webp containers are handled
// below) pass when the declared type is already allowed.
func VerifyContent(mimeType string, head []byte) error {
	mime := strings.ToLower(strings.TrimSpace(mimeType))

	if mime == "image/webp" {
		// RIFF....WEBP
		if len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP")) {
			return nil
		}
		return ErrContentMismatch
	}

	prefixes, ok := signatures[mime]
	if !ok {
		return nil
	}
	for _, p := range prefixes {
		if len(head) >= len(p) && bytes.Equal(head[:len(p)], p) {
			return nil
		}
	}
	return ErrContentMismatch
}

// MaxSize reports the byte cap for a kind, 0 for unknown kinds.
func MaxSize(kind string) int64 {
	if r, ok := rules[kind]; ok {
		return r.maxSize
	}
	return 0
}
