package halftone

import (
	"errors"
	"image"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// PaletteMethod selects how ExtractPalette finds colors in an image.
type PaletteMethod int

const (
	PaletteDominant PaletteMethod = iota
	PaletteKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ErrNoColors is returned when an image yields no usable colors.
var ErrNoColors = errors.New("no colors found in image")

// maxKMeansSamples bounds the pixels fed to k-means.
const maxKMeansSamples = 12000

// ExtractPalette derives a three-color palette from img, ordered from
// darkest to brightest so that the darker source tones map to Color1.
// The k-means method starts from random centers, so its result can vary
// between calls; the dominant-color method is deterministic.
func ExtractPalette(img image.Image, method PaletteMethod) (Palette, error) {
	if img.Bounds().Empty() {
		return Palette{}, ErrNoColors
	}

	var found []colorful.Color
	switch method {
	case PaletteKMeans:
		found = kmeansColors(img, 3)
	default:
		found = dominantColors(img, 3)
	}
	if len(found) == 0 {
		return Palette{}, ErrNoColors
	}
	for len(found) < 3 {
		// Pad with lighter versions of the brightest color found.
		l, a, b := found[len(found)-1].Lab()
		found = append(found, colorful.Lab(math.Min(1, l+0.2), a, b).Clamped())
	}

	sortByLuminance(found)
	return Palette{
		Name:   method.String(),
		Color1: found[0].Hex(),
		Color2: found[1].Hex(),
		Color3: found[2].Hex(),
	}, nil
}

func dominantColors(img image.Image, k int) []colorful.Color {
	var out []colorful.Color
	for _, c := range dominantcolor.FindWeight(img, k) {
		col, ok := colorful.MakeColor(c.RGBA)
		if !ok {
			continue
		}
		out = append(out, col.Clamped())
	}
	return out
}

func kmeansColors(img image.Image, k int) []colorful.Color {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	step := 1
	if width*height > maxKMeansSamples {
		step = int(math.Sqrt(float64(width*height)/maxKMeansSamples)) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxKMeansSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r16) / 65535.0,
				float64(g16) / 65535.0,
				float64(b16) / 65535.0,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	cc, err := kmeans.New().Partition(dataset, min(k, len(dataset)))
	if err != nil {
		return nil
	}
	// Most populated clusters first.
	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	out := make([]colorful.Color, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		out = append(out, colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped())
	}
	return out
}

// sortByLuminance orders colors from darkest to brightest by relative
// luminance.
func sortByLuminance(palette []colorful.Color) {
	slices.SortStableFunc(palette, func(a, b colorful.Color) int {
		ri, gi, bi := a.LinearRgb()
		rj, gj, bj := b.LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		switch {
		case yi < yj:
			return -1
		case yi > yj:
			return 1
		default:
			return 0
		}
	})
}
