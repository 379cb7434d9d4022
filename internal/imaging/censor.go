package imaging

import (
	"fmt"
	"image"
	"math"
	"math/rand"
)

// Plan describes a censoring layout: one visible window plus the opaque
// cover rectangles that tile the rest of the frame.
type Plan struct {
	Visible image.Rectangle
	Covers  []image.Rectangle
}

// Validate checks the tiling invariant: every rectangle non-empty and
// inside the frame, all rectangles pairwise disjoint, combined area exactly
// the full frame.
func (p Plan) Validate(width, height int) error {
	bounds := image.Rect(0, 0, width, height)
	rects := append([]image.Rectangle{p.Visible}, p.Covers...)
	area := 0
	for i, r := range rects {
		if r.Empty() {
			return fmt.Errorf("rectangle %d is empty", i)
		}
		if !r.In(bounds) {
			return fmt.Errorf("rectangle %d outside %dx%d frame", i, width, height)
		}
		area += r.Dx() * r.Dy()
		for j := i + 1; j < len(rects); j++ {
			if r.Overlaps(rects[j]) {
				return fmt.Errorf("rectangles %d and %d overlap", i, j)
			}
		}
	}
	if area != width*height {
		return fmt.Errorf("tiling covers %d of %d pixels", area, width*height)
	}
	return nil
}

// uncensored is the production fallback for an invalid plan: the whole
// frame stays visible rather than risking corrupt cover drawing.
func uncensored(width, height int) Plan {
	return Plan{Visible: image.Rect(0, 0, width, height)}
}

// Generator produces randomized censor plans whose visible window keeps a
// pixel area inclusively between MinCoverage and MaxCoverage of the frame.
type Generator struct {
	minCoverage float64
	maxCoverage float64
	rng         *rand.Rand
}

// Default visible-area coverage ratios.
const (
	DefaultMinCoverage = 0.08
	DefaultMaxCoverage = 0.20
)

// NewGenerator builds a plan generator. Out-of-range coverage values fall
// back to the defaults.
func NewGenerator(minCoverage, maxCoverage float64, seed int64) *Generator {
	if minCoverage <= 0 || minCoverage >= 1 {
		minCoverage = DefaultMinCoverage
	}
	if maxCoverage <= minCoverage || maxCoverage > 1 {
		maxCoverage = DefaultMaxCoverage
		if maxCoverage <= minCoverage {
			maxCoverage = minCoverage
		}
	}
	return &Generator{
		minCoverage: minCoverage,
		maxCoverage: maxCoverage,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Generate picks a visible window inside the frame and derives the cover
// bands tiling its complement.
func (g *Generator) Generate(width, height int) Plan {
	if width < 1 || height < 1 {
		return uncensored(width, height)
	}
	total := width * height
	minArea := int(math.Ceil(g.minCoverage * float64(total)))
	maxArea := int(math.Floor(g.maxCoverage * float64(total)))
	if minArea < 1 {
		minArea = 1
	}
	if maxArea > total {
		maxArea = total
	}
	if maxArea < minArea {
		maxArea = minArea
	}

	// Narrow the width range so a height within the area budget always
	// exists for the chosen width.
	wLo := (minArea + height - 1) / height
	if wLo < 1 {
		wLo = 1
	}
	if wLo > width {
		wLo = width
	}
	wHi := width
	if wHi > maxArea {
		wHi = maxArea
	}
	if wHi < wLo {
		wHi = wLo
	}
	vw := wLo + g.rng.Intn(wHi-wLo+1)

	hLo := (minArea + vw - 1) / vw
	hHi := maxArea / vw
	if hLo < 1 {
		hLo = 1
	}
	if hHi > height {
		hHi = height
	}
	if hHi < hLo {
		hHi = hLo
	}
	vh := hLo + g.rng.Intn(hHi-hLo+1)

	x := g.rng.Intn(width - vw + 1)
	y := g.rng.Intn(height - vh + 1)

	visible := image.Rect(x, y, x+vw, y+vh)
	return Plan{Visible: visible, Covers: coverBands(visible, width, height)}
}

// coverBands returns the up-to-four axis-aligned bands around the visible
// window: full-width strips above and below, side strips clipped to the
// visible rows. Bands collapsed by an edge-touching window are omitted.
func coverBands(visible image.Rectangle, width, height int) []image.Rectangle {
	bands := []image.Rectangle{
		image.Rect(0, 0, width, visible.Min.Y),
		image.Rect(0, visible.Max.Y, width, height),
		image.Rect(0, visible.Min.Y, visible.Min.X, visible.Max.Y),
		image.Rect(visible.Max.X, visible.Min.Y, width, visible.Max.Y),
	}
	covers := make([]image.Rectangle, 0, len(bands))
	for _, b := range bands {
		if !b.Empty() {
			covers = append(covers, b)
		}
	}
	return covers
}
