package halftone

import (
	"image"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/wbrown/halftone/imageutil"
)

func relativeLuminance(t *testing.T, hex string) float64 {
	t.Helper()
	c, err := colorful.Hex(hex)
	if err != nil {
		t.Fatalf("Invalid hex %q: %v", hex, err)
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func TestExtractPalette(t *testing.T) {
	t.Parallel()

	img := imageutil.CreateColorBarsImage(80, 20)
	for _, method := range []PaletteMethod{PaletteDominant, PaletteKMeans} {
		pal, err := ExtractPalette(img, method)
		if err != nil {
			t.Fatalf("%s: %v", method, err)
		}
		if pal.Name != method.String() {
			t.Errorf("Expected name %q, got %q", method, pal.Name)
		}
		if bad := pal.Malformed(); len(bad) > 0 {
			t.Errorf("%s: malformed colors %v", method, bad)
		}
		l1 := relativeLuminance(t, pal.Color1)
		l2 := relativeLuminance(t, pal.Color2)
		l3 := relativeLuminance(t, pal.Color3)
		if l1 > l2 || l2 > l3 {
			t.Errorf("%s: palette not ordered by luminance: %s", method, pal)
		}
	}
}

func TestExtractPaletteSolid(t *testing.T) {
	t.Parallel()

	// One color in the image; the remaining entries are padded.
	img := imageutil.CreateSolidImage(16, 16, imageutil.RGB{R: 40, G: 80, B: 160})
	pal, err := ExtractPalette(img, PaletteKMeans)
	if err != nil {
		t.Fatalf("ExtractPalette failed: %v", err)
	}
	if bad := pal.Malformed(); len(bad) > 0 {
		t.Errorf("Malformed colors %v", bad)
	}
}

func TestExtractPaletteEmpty(t *testing.T) {
	t.Parallel()

	if _, err := ExtractPalette(image.NewNRGBA(image.Rect(0, 0, 0, 0)), PaletteKMeans); err != ErrNoColors {
		t.Errorf("Expected ErrNoColors, got %v", err)
	}
}
