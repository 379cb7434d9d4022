package imaging

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePlansTileExactly(t *testing.T) {
	sizes := []struct{ w, h int }{
		{1280, 720},
		{640, 480},
		{1920, 1080},
		{101, 37},
		{16, 16},
	}
	gen := NewGenerator(0.08, 0.20, 1)
	for _, size := range sizes {
		for i := 0; i < 200; i++ {
			plan := gen.Generate(size.w, size.h)
			require.NoError(t, plan.Validate(size.w, size.h),
				"size %dx%d iteration %d plan %+v", size.w, size.h, i, plan)
		}
	}
}

func TestGenerateVisibleAreaWithinCoverage(t *testing.T) {
	const w, h = 1280, 720
	total := w * h
	gen := NewGenerator(0.08, 0.20, 42)
	for i := 0; i < 500; i++ {
		plan := gen.Generate(w, h)
		area := plan.Visible.Dx() * plan.Visible.Dy()
		assert.GreaterOrEqual(t, float64(area), 0.08*float64(total), "iteration %d", i)
		assert.LessOrEqual(t, float64(area), 0.20*float64(total), "iteration %d", i)
		assert.True(t, plan.Visible.In(image.Rect(0, 0, w, h)))
	}
}

func TestCoverBandsOmitEmptyBands(t *testing.T) {
	cases := []struct {
		name    string
		visible image.Rectangle
		bands   int
	}{
		{"center", image.Rect(10, 10, 20, 20), 4},
		{"top left corner", image.Rect(0, 0, 10, 10), 2},
		{"left edge", image.Rect(0, 10, 10, 20), 3},
		{"bottom edge", image.Rect(10, 90, 20, 100), 3},
		{"full frame", image.Rect(0, 0, 100, 100), 0},
		{"full width strip", image.Rect(0, 40, 100, 60), 2},
	}
	for _, tc := range cases {
		covers := coverBands(tc.visible, 100, 100)
		assert.Len(t, covers, tc.bands, tc.name)
		for _, c := range covers {
			assert.False(t, c.Empty(), "%s emitted a degenerate cover %v", tc.name, c)
		}
		plan := Plan{Visible: tc.visible, Covers: covers}
		assert.NoError(t, plan.Validate(100, 100), tc.name)
	}
}

func TestValidateRejectsBrokenPlans(t *testing.T) {
	full := image.Rect(0, 0, 100, 100)

	gap := Plan{Visible: image.Rect(10, 10, 20, 20), Covers: []image.Rectangle{
		image.Rect(0, 0, 100, 10),
	}}
	assert.Error(t, gap.Validate(100, 100))

	overlap := Plan{Visible: image.Rect(10, 10, 20, 20), Covers: []image.Rectangle{
		image.Rect(0, 0, 100, 10),
		image.Rect(0, 20, 100, 100),
		image.Rect(0, 10, 15, 20),
		image.Rect(20, 10, 100, 20),
	}}
	assert.Error(t, overlap.Validate(100, 100), "cover intrudes into visible window")

	outside := Plan{Visible: image.Rect(90, 90, 110, 110)}
	assert.Error(t, outside.Validate(100, 100))

	degenerate := Plan{Visible: image.Rect(10, 10, 20, 20), Covers: append(
		coverBands(image.Rect(10, 10, 20, 20), 100, 100),
		image.Rect(5, 5, 5, 30),
	)}
	assert.Error(t, degenerate.Validate(100, 100), "zero-area cover must be rejected")

	assert.NoError(t, Plan{Visible: full}.Validate(100, 100))
}

func TestGeneratorSeedDeterminism(t *testing.T) {
	a := NewGenerator(0.08, 0.20, 7)
	b := NewGenerator(0.08, 0.20, 7)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Generate(800, 600), b.Generate(800, 600))
	}
}
