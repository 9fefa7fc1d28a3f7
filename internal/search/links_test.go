package search

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facex/internal/domain"
)

func encodeTestImage(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	switch format {
	case "png":
		require.NoError(t, png.Encode(&buf, img))
	case "jpeg":
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	default:
		t.Fatalf("unsupported format %s", format)
	}
	return buf.Bytes()
}

func TestLinksEnginesAndOrder(t *testing.T) {
	rec := domain.ImageRecord{Data: encodeTestImage(t, "png"), Format: "png"}

	links, err := Links(rec)
	require.NoError(t, err)
	require.Len(t, links, 4)

	assert.Equal(t, "Google", links[0].Engine)
	assert.Equal(t, "Bing", links[1].Engine)
	assert.Equal(t, "Yahoo", links[2].Engine)
	assert.Equal(t, "DuckDuckGo", links[3].Engine)

	assert.True(t, strings.HasPrefix(links[0].URL, "https://www.google.com/searchbyimage?image_url=data:image/png;base64,"))
	assert.True(t, strings.HasPrefix(links[1].URL, "https://www.bing.com/images/search?q=imgurl:"))
	assert.True(t, strings.HasPrefix(links[2].URL, "https://images.search.yahoo.com/search/images?imgurl=data:image/png;base64,"))
	assert.True(t, strings.HasPrefix(links[3].URL, "https://duckduckgo.com/?q="))
	assert.True(t, strings.HasSuffix(links[3].URL, "&iax=images&ia=images"))
}

func TestLinksEmbedPNGUploadsVerbatim(t *testing.T) {
	data := encodeTestImage(t, "png")
	rec := domain.ImageRecord{Data: data, Format: "png"}

	links, err := Links(rec)
	require.NoError(t, err)

	expected := base64.StdEncoding.EncodeToString(data)
	assert.Contains(t, links[0].URL, expected)
}

func TestLinksReencodeJPEGToPNG(t *testing.T) {
	rec := domain.ImageRecord{Data: encodeTestImage(t, "jpeg"), Format: "jpeg"}

	links, err := Links(rec)
	require.NoError(t, err)

	// The embedded payload must be a decodable PNG, not the JPEG bytes.
	b64 := strings.TrimPrefix(links[0].URL, "https://www.google.com/searchbyimage?image_url=data:image/png;base64,")
	raw, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	assert.NoError(t, err)
}

func TestLinksCorruptImage(t *testing.T) {
	rec := domain.ImageRecord{Data: []byte("not an image"), Format: "jpeg"}
	_, err := Links(rec)
	assert.Error(t, err)
}
