// Package search builds reverse-image-search hyperlinks for the analysis
// view. The links embed a base64 PNG of the image in each engine's query
// scheme; no network call is made by this service.
package search

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder for JPEG uploads
	"image/png"

	"github.com/saturnino-fabrica-de-software/facex/internal/domain"
)

// Link is one engine's informational hyperlink.
type Link struct {
	Engine string `json:"engine"`
	URL    string `json:"url"`
}

// Links builds the engine links for a record, in display order. JPEG
// uploads are re-encoded to PNG first; PNG uploads are embedded as-is.
func Links(rec domain.ImageRecord) ([]Link, error) {
	pngBytes, err := asPNG(rec)
	if err != nil {
		return nil, err
	}
	b64 := base64.StdEncoding.EncodeToString(pngBytes)

	return []Link{
		{Engine: "Google", URL: fmt.Sprintf("https://www.google.com/searchbyimage?image_url=data:image/png;base64,%s", b64)},
		{Engine: "Bing", URL: fmt.Sprintf("https://www.bing.com/images/search?q=imgurl:%s", b64)},
		{Engine: "Yahoo", URL: fmt.Sprintf("https://images.search.yahoo.com/search/images?imgurl=data:image/png;base64,%s", b64)},
		{Engine: "DuckDuckGo", URL: fmt.Sprintf("https://duckduckgo.com/?q=%s&iax=images&ia=images", b64)},
	}, nil
}

func asPNG(rec domain.ImageRecord) ([]byte, error) {
	if rec.Format == "png" {
		return rec.Data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(rec.Data))
	if err != nil {
		return nil, fmt.Errorf("decode image for search links: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png for search links: %w", err)
	}
	return buf.Bytes(), nil
}
