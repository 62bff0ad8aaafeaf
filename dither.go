package halftone

import (
	"math"

	"github.com/wbrown/halftone/imageutil"
)

// Levels are the four evenly spaced intensities every kernel quantizes to.
// They are fixed: the palette thresholds never feed back into dithering.
var Levels = [4]uint8{0, 85, 170, 255}

// bayer4 is the 4x4 ordered dither matrix.
var bayer4 = [4][4]float64{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// orderedSpread is the peak-to-peak amplitude of the Bayer offset.
const orderedSpread = 40.0

// nearestLevel returns the level closest to v. On a tie the lower level
// wins.
func nearestLevel(v float64) uint8 {
	closest := Levels[0]
	minDiff := math.Abs(v - float64(Levels[0]))
	for _, level := range Levels[1:] {
		if diff := math.Abs(v - float64(level)); diff < minDiff {
			minDiff = diff
			closest = level
		}
	}
	return closest
}

// Quantize dithers gray in place with method and returns it. Unknown
// methods use the ordered kernel.
func Quantize(gray *imageutil.GrayImage, method DitherMethod) *imageutil.GrayImage {
	switch method {
	case FloydSteinberg:
		return FloydSteinbergDither(gray)
	case Atkinson:
		return AtkinsonDither(gray)
	default:
		return OrderedDither(gray)
	}
}

// diffuse adds err to the pixel at (x, y), storing the clamped 8-bit
// result immediately. Pixels outside the buffer are skipped.
func diffuse(gray *imageutil.GrayImage, x, y int, err float64) {
	gray.SetLevel(x, y, float64(gray.GetGray(x, y))+err)
}

// FloydSteinbergDither scans row-major and pushes 7/16 of each pixel's
// quantization error right, 3/16 below-left, 5/16 below and 1/16
// below-right, in that order.
func FloydSteinbergDither(gray *imageutil.GrayImage) *imageutil.GrayImage {
	w, h := gray.Width(), gray.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*gray.Stride + x
			old := gray.Pix[i]
			q := nearestLevel(float64(old))
			gray.Pix[i] = q

			err := float64(old) - float64(q)
			diffuse(gray, x+1, y, err*7/16)
			diffuse(gray, x-1, y+1, err*3/16)
			diffuse(gray, x, y+1, err*5/16)
			diffuse(gray, x+1, y+1, err*1/16)
		}
	}
	return gray
}

// AtkinsonDither gives an eighth of the error to each of six neighbors.
// The remaining quarter is dropped, which keeps highlights and shadows
// crisper than Floyd-Steinberg.
func AtkinsonDither(gray *imageutil.GrayImage) *imageutil.GrayImage {
	w, h := gray.Width(), gray.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*gray.Stride + x
			old := gray.Pix[i]
			q := nearestLevel(float64(old))
			gray.Pix[i] = q

			err := (float64(old) - float64(q)) / 8
			diffuse(gray, x+1, y, err)
			diffuse(gray, x+2, y, err)
			diffuse(gray, x-1, y+1, err)
			diffuse(gray, x, y+1, err)
			diffuse(gray, x+1, y+1, err)
			diffuse(gray, x, y+2, err)
		}
	}
	return gray
}

// OrderedDither perturbs each pixel by its Bayer cell before quantizing.
// Pixels are independent of each other.
func OrderedDither(gray *imageutil.GrayImage) *imageutil.GrayImage {
	w, h := gray.Width(), gray.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*gray.Stride + x
			offset := (bayer4[y%4][x%4]/16 - 0.5) * orderedSpread
			gray.Pix[i] = nearestLevel(float64(gray.Pix[i]) + offset)
		}
	}
	return gray
}
