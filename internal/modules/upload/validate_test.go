package upload

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateBlockedExtensions(t *testing.T) {
	for _, name := range []string{"payload.exe", "drop.sh", "shell.PHP", "bundle.Js", "tool.jar"} {
		t.Run(name, func(t *testing.T) {
			err := Validate(KindAttachment, name, "application/pdf", 100)
			require.ErrorIs(t, err, ErrExtBlocked)
		})
	}
}

func TestValidateFileNames(t *testing.T) {
	require.ErrorIs(t, Validate(KindAvatar, "", "image/png", 100), ErrBadFileName)
	require.ErrorIs(t, Validate(KindAvatar, "../../etc/passwd", "image/png", 100), ErrBadFileName)
	require.ErrorIs(t, Validate(KindAvatar, "a/b.png", "image/png", 100), ErrBadFileName)
	require.ErrorIs(t, Validate(KindAvatar, `a\b.png`, "image/png", 100), ErrBadFileName)
	require.NoError(t, Validate(KindAvatar, "photo.png", "image/png", 100))
}

func TestValidateSizeBoundary(t *testing.T) {
	max := MaxSize(KindAvatar)
	require.Equal(t, int64(2<<20), max)

	require.NoError(t, Validate(KindAvatar, "photo.png", "image/png", max))
	require.ErrorIs(t, Validate(KindAvatar, "photo.png", "image/png", max+1), ErrTooLarge)
	require.ErrorIs(t, Validate(KindAvatar, "photo.png", "image/png", 0), ErrTooLarge)
}

func TestValidateMimeRules(t *testing.T) {
	// gif is fine for portfolio but not for avatars
	require.NoError(t, Validate(KindPortfolio, "anim.gif", "image/gif", 100))
	require.ErrorIs(t, Validate(KindAvatar, "anim.gif", "image/gif", 100), ErrBadMimeType)

	// charset parameters are stripped before matching
	require.NoError(t, Validate(KindAttachment, "notes.txt", "text/plain; charset=utf-8", 100))

	require.ErrorIs(t, Validate("thumbnail", "photo.png", "image/png", 100), ErrUnknownKind)
}

func TestVerifyContent(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}

	require.NoError(t, VerifyContent("image/png", png))
	require.NoError(t, VerifyContent("image/jpeg", jpeg))

	// declared png, jpeg bytes
	require.ErrorIs(t, VerifyContent("image/png", jpeg), ErrContentMismatch)

	// webp uses the RIFF container check
	webp := append([]byte("RIFF"), 0x1A, 0x00, 0x00, 0x00)
	webp = append(webp, []byte("WEBP")...)
	require.NoError(t, VerifyContent("image/webp", webp))
	require.ErrorIs(t, VerifyContent("image/webp", png), ErrContentMismatch)

	// no signature registered for plain text, declared type rules already applied
	require.NoError(t, VerifyContent("text/plain", []byte("hello")))
}
