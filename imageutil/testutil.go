package imageutil

import (
	"image"
	"image/color"
	"math"
)

// CreateGradientImage creates a horizontal gray gradient from 0 at the
// left edge to 255 at the right edge.
func CreateGradientImage(width, height int) *NRGBAImage {
	img := NewNRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(255 * x / (width - 1))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// CreateVerticalGradientImage creates a vertical gradient test image.
func CreateVerticalGradientImage(width, height int) *NRGBAImage {
	img := NewNRGBAImage(width, height)
	for y := 0; y < height; y++ {
		v := uint8(255 * y / (height - 1))
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// CreateCheckerboardImage creates a black and white checkerboard.
func CreateCheckerboardImage(width, height, squareSize int) *NRGBAImage {
	img := NewNRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				img.SetRGB(x, y, RGB{255, 255, 255})
			} else {
				img.SetRGB(x, y, RGB{0, 0, 0})
			}
		}
	}
	return img
}

// CreateSolidImage creates a solid color image.
func CreateSolidImage(width, height int, c RGB) *NRGBAImage {
	img := NewNRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, c)
		}
	}
	return img
}

// CreateColorBarsImage creates a color bars test pattern.
func CreateColorBarsImage(width, height int) *NRGBAImage {
	img := NewNRGBAImage(width, height)
	colors := []RGB{
		{255, 255, 255}, // White
		{255, 255, 0},   // Yellow
		{0, 255, 255},   // Cyan
		{0, 255, 0},     // Green
		{255, 0, 255},   // Magenta
		{255, 0, 0},     // Red
		{0, 0, 255},     // Blue
		{0, 0, 0},       // Black
	}

	barWidth := max(1, width/len(colors))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			colorIdx := min(x/barWidth, len(colors)-1)
			img.SetRGB(x, y, colors[colorIdx])
		}
	}
	return img
}

// CreatePortraitImage creates a smooth radial blob on a darker background,
// a rough stand-in for a lit subject against a backdrop.
func CreatePortraitImage(width, height int) *NRGBAImage {
	img := NewNRGBAImage(width, height)
	cx, cy := float64(width)/2, float64(height)/2
	radius := math.Min(cx, cy)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy) / radius
			v := math.Max(0, 1-d)
			img.SetRGB(x, y, RGB{
				R: uint8(40 + 200*v),
				G: uint8(30 + 150*v),
				B: uint8(60 + 90*v),
			})
		}
	}
	return img
}

// CalculateMSE calculates the mean squared RGB error between two images.
func CalculateMSE(img1, img2 *NRGBAImage) float64 {
	if img1.Width() != img2.Width() || img1.Height() != img2.Height() {
		return math.MaxFloat64
	}

	width, height := img1.Width(), img1.Height()
	var sumSq float64
	count := float64(width * height * 3) // 3 channels

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c1 := img1.NRGBAAt(x, y)
			c2 := img2.NRGBAAt(x, y)
			dr := float64(c1.R) - float64(c2.R)
			dg := float64(c1.G) - float64(c2.G)
			db := float64(c1.B) - float64(c2.B)
			sumSq += dr*dr + dg*dg + db*db
		}
	}

	return sumSq / count
}

// CountColors returns how many pixels carry each distinct RGB value.
func CountColors(img image.Image) map[RGB]int {
	counts := make(map[RGB]int)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			counts[RGBFromColor(img.At(x, y))]++
		}
	}
	return counts
}
