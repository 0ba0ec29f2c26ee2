// Package media turns photo and audio files into the text payloads stored
// on habit records, and back.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sadopc/habitcal/internal/habit"
)

// MaxPayloadBytes bounds the raw size of a single attachment.
const MaxPayloadBytes = 4 << 20

var (
	ErrMediaPermissionDenied = errors.New("media permission denied")
	ErrUnsupportedMedia      = errors.New("unsupported media type")
	ErrPayloadTooLarge       = errors.New("media payload too large")
	ErrMalformedPayload      = errors.New("malformed media payload")
)

// Kind selects which MIME family a file must belong to.
type Kind string

const (
	KindPhoto Kind = "image"
	KindAudio Kind = "audio"
)

// ReadPhoto encodes an image file as a data URL payload.
func ReadPhoto(path string) (habit.Payload, error) {
	return Read(path, KindPhoto)
}

// ReadAudio encodes an audio file as a data URL payload.
func ReadAudio(path string) (habit.Payload, error) {
	return Read(path, KindAudio)
}

// Read loads path and encodes it as a data URL, checking that the content
// is of the requested kind.
func Read(path string, kind Kind) (habit.Payload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", wrapOpenErr(path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("read %s: is a directory", path)
	}
	if info.Size() > MaxPayloadBytes {
		return "", fmt.Errorf("read %s (%d bytes): %w", path, info.Size(), ErrPayloadTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", wrapOpenErr(path, err)
	}

	mt := detectType(path, data)
	if !strings.HasPrefix(mt, string(kind)+"/") {
		return "", fmt.Errorf("read %s as %s: got %s: %w", path, kind, mt, ErrUnsupportedMedia)
	}
	return Encode(mt, data), nil
}

func wrapOpenErr(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("read %s: %w: %v", path, ErrMediaPermissionDenied, err)
	}
	return fmt.Errorf("read %s: %w", path, err)
}

// detectType prefers the file extension and falls back to sniffing, which
// also covers recordings saved without an extension.
func detectType(path string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	mt := extTypes[ext]
	if mt == "" {
		mt = mime.TypeByExtension(ext)
	}
	if mt == "" {
		mt = http.DetectContentType(data)
	}
	if base, _, err := mime.ParseMediaType(mt); err == nil {
		mt = base
	}
	switch mt {
	case "video/webm":
		// Microphone clips are audio-only webm.
		return "audio/webm"
	case "application/ogg":
		return "audio/ogg"
	case "audio/wave", "audio/x-wav":
		return "audio/wav"
	}
	return mt
}

// Encode builds a base64 data URL payload.
func Encode(mimeType string, data []byte) habit.Payload {
	return habit.Payload("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// Decode splits a data URL payload into its MIME type and raw bytes.
func Decode(p habit.Payload) (string, []byte, error) {
	s := string(p)
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, fmt.Errorf("decode payload: missing data: prefix: %w", ErrMalformedPayload)
	}
	meta, body, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("decode payload: missing comma: %w", ErrMalformedPayload)
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("decode payload: only base64 payloads are supported: %w", ErrMalformedPayload)
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return "", nil, fmt.Errorf("decode payload: %w: %v", ErrMalformedPayload, err)
	}
	return mimeType, data, nil
}

// Size returns the decoded byte size of p without decoding it, or 0 when
// p is not a base64 data URL.
func Size(p habit.Payload) int64 {
	_, body, ok := strings.Cut(string(p), ";base64,")
	if !ok {
		return 0
	}
	return int64(base64.StdEncoding.DecodedLen(len(body)) - strings.Count(body[max(0, len(body)-2):], "="))
}

var preferredExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"audio/webm": ".webm",
	"audio/ogg":  ".ogg",
	"audio/mpeg": ".mp3",
	"audio/wav":  ".wav",
	"audio/mp4":  ".m4a",
}

var extTypes = map[string]string{}

func init() {
	for mt, ext := range preferredExt {
		extTypes[ext] = mt
	}
	extTypes[".jpeg"] = "image/jpeg"
}

// Extension returns a file extension for mimeType, or ".bin".
func Extension(mimeType string) string {
	if ext, ok := preferredExt[mimeType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// WriteFile decodes p into dir/name<ext> and returns the written path.
func WriteFile(p habit.Payload, dir, name string) (string, error) {
	mimeType, data, err := Decode(p)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+Extension(mimeType))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
