package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	watermarkText   = "@bluetrivia"
	watermarkMargin = 8

	// DefaultMaxDimension caps either side of a published image.
	DefaultMaxDimension = 1280
	// DefaultQuality is the JPEG quality used when none is configured.
	DefaultQuality = 75
)

// coverColor fills censored regions.
var coverColor = color.RGBA{R: 16, G: 18, B: 24, A: 255}

// Planner yields a censor layout for the given working dimensions.
// Production injects *Generator; tests inject fixed plans.
type Planner interface {
	Generate(width, height int) Plan
}

// Pipeline turns raw question media into publishable bytes: downscale,
// censor, watermark, encode. All randomness lives in the injected Planner,
// so a fixed plan yields byte-identical output.
type Pipeline struct {
	maxWidth  int
	maxHeight int
	quality   int
	planner   Planner
	logger    zerolog.Logger
}

// NewPipeline builds a pipeline with the given caps and planner.
func NewPipeline(maxWidth, maxHeight, quality int, planner Planner, logger zerolog.Logger) *Pipeline {
	if maxWidth < 1 {
		maxWidth = DefaultMaxDimension
	}
	if maxHeight < 1 {
		maxHeight = DefaultMaxDimension
	}
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &Pipeline{
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
		quality:   quality,
		planner:   planner,
		logger:    logger,
	}
}

// Prepare decodes raw image bytes, downscales to the configured caps
// (never upscales), blacks out the planner's cover rectangles, stamps the
// attribution mark and encodes the result as JPEG.
func (p *Pipeline) Prepare(raw []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	frame := p.downscale(src)
	w, h := frame.Bounds().Dx(), frame.Bounds().Dy()

	plan := p.planner.Generate(w, h)
	if err := plan.Validate(w, h); err != nil {
		// An invalid plan is an internal defect; publish the frame
		// uncensored rather than draw a corrupt layout.
		p.logger.Error().Err(err).Int("width", w).Int("height", h).
			Msg("censor plan failed validation, skipping censor")
		plan = uncensored(w, h)
	}
	for _, cover := range plan.Covers {
		draw.Draw(frame, cover, image.NewUniform(coverColor), image.Point{}, draw.Src)
	}

	p.stampWatermark(frame)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, frame, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}

func (p *Pipeline) downscale(src image.Image) *image.RGBA {
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()

	scale := 1.0
	if w > p.maxWidth {
		scale = float64(p.maxWidth) / float64(w)
	}
	if h > p.maxHeight {
		if s := float64(p.maxHeight) / float64(h); s < scale {
			scale = s
		}
	}
	if scale < 1.0 {
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, xdraw.Src, nil)
	return dst
}

// stampWatermark draws the attribution mark at a fixed offset from the
// bottom-left edge.
func (p *Pipeline) stampWatermark(frame *image.RGBA) {
	b := frame.Bounds()
	d := &font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(b.Min.X+watermarkMargin, b.Max.Y-watermarkMargin),
	}
	d.DrawString(watermarkText)
}
