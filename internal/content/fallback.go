package content

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const fallbackImageSize = 512

// Fallbacks holds the fixed safe content for tip, story and image requests.
// Images are rendered once at construction.
type Fallbacks struct {
	tip    string
	story  Story
	images []Image
}

func NewFallbacks(cat *Catalog) (*Fallbacks, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog required")
	}
	face, err := loadFontFace(goregular.TTF, 40)
	if err != nil {
		return nil, err
	}
	images := make([]Image, 0, len(cat.Fallback.Images))
	for _, spec := range cat.Fallback.Images {
		buf, err := renderFallbackImage(spec, face)
		if err != nil {
			return nil, fmt.Errorf("render fallback %q: %w", spec.Name, err)
		}
		images = append(images, Image{
			MIMEType:  "image/png",
			Data:      buf.Bytes(),
			Reference: "fallback:" + spec.Name,
		})
	}
	return &Fallbacks{
		tip:    strings.TrimSpace(cat.Fallback.Tip),
		story:  Story{Title: strings.TrimSpace(cat.Fallback.Story.Title), Content: strings.TrimSpace(cat.Fallback.Story.Content)},
		images: images,
	}, nil
}

func (f *Fallbacks) Tip() string  { return f.tip }
func (f *Fallbacks) Story() Story { return f.story }

func (f *Fallbacks) ImageCount() int { return len(f.images) }

// Image returns variant i modulo the number of variants.
func (f *Fallbacks) Image(i int) Image {
	if i < 0 {
		i = -i
	}
	img := f.images[i%len(f.images)]
	img.Data = append([]byte(nil), img.Data...)
	return img
}

func renderFallbackImage(spec FallbackImageSpec, face font.Face) (bytes.Buffer, error) {
	const size = fallbackImageSize
	var buf bytes.Buffer

	top, err := parseHexColor(spec.Top)
	if err != nil {
		return buf, err
	}
	bottom, err := parseHexColor(spec.Bottom)
	if err != nil {
		return buf, err
	}
	accent, err := parseHexColor(spec.Accent)
	if err != nil {
		return buf, err
	}

	dc := gg.NewContext(size, size)

	grad := gg.NewLinearGradient(0, 0, 0, size)
	grad.AddColorStop(0, top)
	grad.AddColorStop(1, bottom)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, size, size)
	dc.Fill()

	// Glow
	cx, cy := float64(size)/2, float64(size)*0.42
	for i, r := range []float64{150, 115, 80} {
		a := accent
		a.A = uint8(40 + 50*i)
		dc.SetColor(a)
		dc.DrawCircle(cx, cy, r)
		dc.Fill()
	}

	dc.SetColor(color.White)
	dc.DrawEllipse(cx, cy, 46, 38)
	dc.Fill()

	if spec.Caption != "" {
		dc.SetFontFace(face)
		dc.SetColor(accent)
		dc.DrawStringAnchored(spec.Caption, cx, float64(size)*0.84, 0.5, 0.5)
	}

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func loadFontFace(ttf []byte, size float64) (font.Face, error) {
	parsed, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsed, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

func parseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
