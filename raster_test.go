package halftone

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/wbrown/halftone/imageutil"
)

func singlePixel(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, c)
	return img
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewRasterKeepsAlpha(t *testing.T) {
	t.Parallel()

	r := NewRaster(singlePixel(color.NRGBA{R: 10, G: 20, B: 30, A: 40}))
	if r.Width != 1 || r.Height != 1 {
		t.Fatalf("Expected 1x1, got %dx%d", r.Width, r.Height)
	}
	if r.Pix[0] != 10 || r.Pix[1] != 20 || r.Pix[2] != 30 {
		t.Errorf("Straight RGB not preserved: %v", r.Pix)
	}
	if r.Alpha[0] != 40 {
		t.Errorf("Expected alpha 40, got %d", r.Alpha[0])
	}
}

func TestAdjustToneBrightnessClamps(t *testing.T) {
	t.Parallel()

	r := NewRaster(singlePixel(color.NRGBA{R: 100, G: 150, B: 200, A: 255})).AdjustTone(100, 1)
	want := []float64{200, 250, 255}
	for i, w := range want {
		if !approx(r.Pix[i], w) {
			t.Errorf("Channel %d: got %f, want %f", i, r.Pix[i], w)
		}
	}

	r = NewRaster(singlePixel(color.NRGBA{R: 10, G: 150, B: 200, A: 255})).AdjustTone(-50, 1)
	if r.Pix[0] != 0 {
		t.Errorf("Expected clamp at 0, got %f", r.Pix[0])
	}
}

func TestAdjustToneSaturation(t *testing.T) {
	t.Parallel()

	// Zero saturation collapses each channel onto the pixel's luma.
	r := NewRaster(singlePixel(color.NRGBA{R: 100, G: 150, B: 200, A: 255})).AdjustTone(0, 0)
	l := 0.299*100 + 0.587*150 + 0.114*200
	for i := 0; i < 3; i++ {
		if !approx(r.Pix[i], l) {
			t.Errorf("Channel %d: got %f, want luma %f", i, r.Pix[i], l)
		}
	}

	// Oversaturation leaves [0, 255] until the contrast stage.
	r = NewRaster(singlePixel(color.NRGBA{R: 255, A: 255})).AdjustTone(0, 2)
	l = 0.299 * 255
	if !approx(r.Pix[0], l+2*(255-l)) {
		t.Errorf("Red: got %f, want %f", r.Pix[0], l+2*(255-l))
	}
	if r.Pix[0] <= 255 || r.Pix[1] >= 0 {
		t.Errorf("Saturation should not clamp, got %v", r.Pix)
	}

	r.ApplyContrast(1, false)
	if r.Pix[0] != 255 || r.Pix[1] != 0 || r.Pix[2] != 0 {
		t.Errorf("Contrast should clamp to [0, 255], got %v", r.Pix)
	}
}

func TestApplyContrast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     uint8
		boost  float64
		invert bool
		want   float64
	}{
		// 236.25 is stored as a byte.
		{200, 1.5, false, 236},
		{200, 1.5, true, 19},
		{128, 1.0, false, 128},
		{0, 2.0, false, 0},
		{255, 2.0, false, 255},
		{200, 1.0, true, 55},
		{0, 2.0, true, 255},
		// Round half to even.
		{64, 0, false, 128},
	}
	for _, tt := range tests {
		r := NewRaster(singlePixel(color.NRGBA{R: tt.in, G: tt.in, B: tt.in, A: 255})).
			ApplyContrast(tt.boost, tt.invert)
		if !approx(r.Pix[0], tt.want) {
			t.Errorf("contrast(%d, %v, %v) = %f, want %f", tt.in, tt.boost, tt.invert, r.Pix[0], tt.want)
		}
	}
}

func TestLuma(t *testing.T) {
	t.Parallel()

	tests := []struct {
		c    color.NRGBA
		want uint8
	}{
		{color.NRGBA{A: 255}, 0},
		{color.NRGBA{R: 255, G: 255, B: 255, A: 255}, 255},
		{color.NRGBA{R: 255, A: 255}, 76},
		{color.NRGBA{G: 255, A: 255}, 150},
		{color.NRGBA{B: 255, A: 255}, 29},
		{color.NRGBA{R: 128, G: 128, B: 128, A: 255}, 128},
	}
	for _, tt := range tests {
		gray := NewRaster(singlePixel(tt.c)).Luma()
		if got := gray.GetGray(0, 0); got != tt.want {
			t.Errorf("Luma(%v) = %d, want %d", tt.c, got, tt.want)
		}
	}
}

// byteStageLuma runs one pixel through tone, contrast and luma, storing
// every stage except saturation as a clamped byte.
func byteStageLuma(c color.NRGBA, brightness, saturation, boost float64, invert bool) uint8 {
	ch := [3]float64{float64(c.R), float64(c.G), float64(c.B)}
	for i := range ch {
		ch[i] = float64(imageutil.Clamp8(ch[i] + brightness))
	}
	l := 0.299*ch[0] + 0.587*ch[1] + 0.114*ch[2]
	for i := range ch {
		ch[i] = l + saturation*(ch[i]-l)
	}
	for i := range ch {
		v := imageutil.Clamp8(((ch[i]/255-0.5)*boost + 0.5) * 255)
		if invert {
			v = 255 - v
		}
		ch[i] = float64(v)
	}
	return imageutil.Clamp8(0.299*ch[0] + 0.587*ch[1] + 0.114*ch[2])
}

func TestLumaStoresStagesAsBytes(t *testing.T) {
	t.Parallel()

	// Contrast 1.5 gives 255, 251.25 and 209.25; stored as bytes the luma
	// is 247.408, not the 247.58 of unrounded channels.
	got := NewRaster(singlePixel(color.NRGBA{R: 255, G: 210, B: 182, A: 255})).
		AdjustTone(0, 1).ApplyContrast(1.5, false).Luma().GetGray(0, 0)
	if got != 247 {
		t.Errorf("Expected 247, got %d", got)
	}

	settings := []struct {
		brightness, saturation, boost float64
		invert                        bool
	}{
		{0, 1, 1.5, false},
		{0, 1, 1.5, true},
		{0, 0.5, 1.5, false},
		{12.5, 1.8, 1.2, true},
		{-30, 3, 0.7, false},
	}
	for _, s := range settings {
		mismatches := 0
		for r := 0; r < 256; r += 5 {
			for g := 0; g < 256; g += 5 {
				for b := 0; b < 256; b += 5 {
					c := color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
					want := byteStageLuma(c, s.brightness, s.saturation, s.boost, s.invert)
					got := NewRaster(singlePixel(c)).
						AdjustTone(s.brightness, s.saturation).
						ApplyContrast(s.boost, s.invert).
						Luma().GetGray(0, 0)
					if got != want {
						if mismatches < 5 {
							t.Errorf("%+v color %v: got %d, want %d", s, c, got, want)
						}
						mismatches++
					}
				}
			}
		}
		if mismatches > 0 {
			t.Errorf("%+v: %d colors differ", s, mismatches)
		}
	}
}
