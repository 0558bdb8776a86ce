package media

import (
	"bytes"
	"errors"
	"mime"
	"net/textproto"
)

type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
	FormatWEBP Format = "webp"
	FormatAVIF Format = "avif"
	FormatSVG  Format = "svg"
)

var ErrUnsupported = errors.New("unsupported image format")

// SniffLen is how many leading bytes Sniff needs at most.
const SniffLen = 512

type Detected struct {
	Format      Format
	ContentType string
}

// Extension is the file extension used in object keys.
func (d Detected) Extension() string {
	if d.Format == FormatJPEG {
		return "jpg"
	}
	return string(d.Format)
}

var signatures = []struct {
	detected Detected
	match    func([]byte) bool
}{
	{Detected{FormatJPEG, "image/jpeg"}, func(b []byte) bool {
		return bytes.HasPrefix(b, []byte{0xff, 0xd8, 0xff})
	}},
	{Detected{FormatPNG, "image/png"}, func(b []byte) bool {
		return bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n"))
	}},
	{Detected{FormatGIF, "image/gif"}, func(b []byte) bool {
		return bytes.HasPrefix(b, []byte("GIF87a")) || bytes.HasPrefix(b, []byte("GIF89a"))
	}},
	{Detected{FormatWEBP, "image/webp"}, func(b []byte) bool {
		return len(b) >= 12 && bytes.Equal(b[:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP"))
	}},
	{Detected{FormatAVIF, "image/avif"}, func(b []byte) bool {
		return len(b) >= 12 && bytes.Equal(b[4:8], []byte("ftyp")) && bytes.Contains(b[8:], []byte("avif"))
	}},
	{Detected{FormatSVG, "image/svg+xml"}, func(b []byte) bool {
		trimmed := bytes.TrimSpace(b)
		return bytes.HasPrefix(trimmed, []byte("<svg")) ||
			(bytes.HasPrefix(trimmed, []byte("<?xml")) && bytes.Contains(bytes.ToLower(b), []byte("<svg")))
	}},
}

// Sniff identifies an image from its leading bytes.
func Sniff(head []byte) (Detected, error) {
	if len(head) > SniffLen {
		head = head[:SniffLen]
	}
	for _, sig := range signatures {
		if sig.match(head) {
			return sig.detected, nil
		}
	}
	return Detected{}, ErrUnsupported
}

// DeclaredType returns the media type of a multipart part without parameters.
func DeclaredType(header textproto.MIMEHeader) string {
	value := header.Get("Content-Type")
	if value == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return ""
	}
	return mediaType
}
