package media

import (
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniff(t *testing.T) {
	cases := map[string]struct {
		head   []byte
		format Format
		ext    string
	}{
		"jpeg": {[]byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, FormatJPEG, "jpg"},
		"png":  {[]byte("\x89PNG\r\n\x1a\n\x00\x00"), FormatPNG, "png"},
		"gif":  {[]byte("GIF89a\x01\x00"), FormatGIF, "gif"},
		"webp": {[]byte("RIFF\x00\x00\x00\x00WEBPVP8 "), FormatWEBP, "webp"},
		"avif": {[]byte("\x00\x00\x00\x1cftypavif\x00\x00"), FormatAVIF, "avif"},
		"svg":  {[]byte("  <svg xmlns=\"http://www.w3.org/2000/svg\"></svg>"), FormatSVG, "svg"},
		"xml":  {[]byte("<?xml version=\"1.0\"?><svg></svg>"), FormatSVG, "svg"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Sniff(tc.head)
			require.NoError(t, err)
			assert.Equal(t, tc.format, got.Format)
			assert.Equal(t, tc.ext, got.Extension())
		})
	}
}

func TestSniffRejectsUnknown(t *testing.T) {
	_, err := Sniff([]byte("%PDF-1.7"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Sniff(nil)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Sniff([]byte("<?xml version=\"1.0\"?><note/>"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDeclaredType(t *testing.T) {
	h := textproto.MIMEHeader{}
	assert.Empty(t, DeclaredType(h))

	h.Set("Content-Type", "image/png; charset=binary")
	assert.Equal(t, "image/png", DeclaredType(h))
}

func TestSanitizeSVG(t *testing.T) {
	input := []byte(`<svg onload="alert(1)" onclick='x()'><script>alert(2)</script>` +
		`<a href="javascript:evil()"><rect/></a><foreignObject><div/></foreignObject></svg>`)

	clean, err := SanitizeSVG(input)
	require.NoError(t, err)

	assert.Equal(t, `<svg><a><rect/></a></svg>`, string(clean))

	_, err = SanitizeSVG([]byte("<html></html>"))
	assert.ErrorIs(t, err, ErrNotSVG)
}
