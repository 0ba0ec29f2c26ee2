package media

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sadopc/habitcal/internal/habit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
	webmBytes = []byte("\x1a\x45\xdf\xa3\x9f\x42\x86\x81\x01\x42\xf7\x81\x01webm")
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadPhoto(t *testing.T) {
	p, err := ReadPhoto(writeTemp(t, "pic.png", pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(p), "data:image/png;base64,"))

	mt, data, err := Decode(p)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mt)
	assert.Equal(t, pngBytes, data)
}

func TestReadPhotoSniffsWithoutExtension(t *testing.T) {
	p, err := ReadPhoto(writeTemp(t, "camera-upload", pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(p), "data:image/png;base64,"))
}

func TestReadAudioWebm(t *testing.T) {
	for _, name := range []string{"clip.webm", "clip"} {
		p, err := ReadAudio(writeTemp(t, name, webmBytes))
		require.NoError(t, err, name)
		assert.True(t, strings.HasPrefix(string(p), "data:audio/webm;base64,"), name)
	}
}

func TestReadWrongKind(t *testing.T) {
	_, err := ReadAudio(writeTemp(t, "pic.png", pngBytes))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	_, err = ReadPhoto(writeTemp(t, "notes.txt", []byte("hello")))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestReadMissing(t *testing.T) {
	_, err := ReadPhoto(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, errors.Is(err, ErrMediaPermissionDenied))
}

func TestReadPermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("file modes are not enforced here")
	}
	path := writeTemp(t, "locked.png", pngBytes)
	require.NoError(t, os.Chmod(path, 0o000))

	_, err := ReadPhoto(path)
	assert.ErrorIs(t, err, ErrMediaPermissionDenied)
}

func TestReadTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(MaxPayloadBytes+1))
	f.Close()

	_, err = ReadPhoto(path)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestReadDirectory(t *testing.T) {
	_, err := ReadPhoto(t.TempDir())
	assert.Error(t, err)
}

func TestDecodeMalformed(t *testing.T) {
	for _, p := range []habit.Payload{
		"",
		"image/png;base64,AAAA",
		"data:image/png;base64",
		"data:text/plain,hello",
		"data:image/png;base64,***",
	} {
		_, _, err := Decode(p)
		assert.ErrorIs(t, err, ErrMalformedPayload, "payload=%q", p)
	}
}

func TestDecodeStripsParams(t *testing.T) {
	mt, data, err := Decode("data:audio/webm;codecs=opus;base64,aGk=")
	require.NoError(t, err)
	assert.Equal(t, "audio/webm", mt)
	assert.Equal(t, []byte("hi"), data)
}

func TestSize(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte("a"), []byte("ab"), []byte("abc"), pngBytes} {
		assert.Equal(t, int64(len(raw)), Size(Encode("image/png", raw)))
	}
	assert.Zero(t, Size("not a payload"))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".jpg", Extension("image/jpeg"))
	assert.Equal(t, ".webm", Extension("audio/webm"))
	assert.Equal(t, ".bin", Extension("application/x-unknown-thing"))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteFile(Encode("image/png", pngBytes), dir, "2025-08-17-photo")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2025-08-17-photo.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)

	_, err = WriteFile("garbage", dir, "x")
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
