// Package render flattens a composition's placements into a single preview
// image. Gesture-level transforms (rotation, sub-pixel scale) belong to the
// presentation layer; this compositor draws each item's photo at its placed
// position, back to front, which is enough for a recognizable preview.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	_ "image/jpeg" // decode item photos saved as JPEG

	"closet-go/internal/closet"
)

// Compositor implements closet.Renderer by stacking item photos onto a
// fixed-size canvas and encoding the result as PNG.
type Compositor struct {
	media  closet.MediaStore
	width  int
	height int
}

var _ closet.Renderer = (*Compositor)(nil)

// NewCompositor creates a compositor with the given canvas size.
func NewCompositor(media closet.MediaStore, width, height int) *Compositor {
	if width <= 0 {
		width = 600
	}
	if height <= 0 {
		height = 800
	}
	return &Compositor{media: media, width: width, height: height}
}

// Render draws the placements in stacking order and returns the encoded
// canvas. Items whose photo is missing from the media store are skipped;
// an unreadable photo fails the render.
func (c *Compositor) Render(placements []closet.Placement) ([]byte, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, c.width, c.height))

	for _, p := range placements {
		if p.Item.ImageName == "" {
			continue
		}
		data, err := c.media.Load(p.Item.ImageName)
		if err != nil {
			return nil, fmt.Errorf("loading image for %s: %w", p.Item.ID, err)
		}
		if data == nil {
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding image for %s: %w", p.Item.ID, err)
		}

		offset := image.Pt(int(p.X), int(p.Y))
		target := img.Bounds().Sub(img.Bounds().Min).Add(offset)
		draw.Draw(canvas, target, img, img.Bounds().Min, draw.Over)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encoding preview: %w", err)
	}
	return buf.Bytes(), nil
}
