package halftone

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/wbrown/halftone/imageutil"
)

// Level is a pixel's final class: black or one of the palette colors.
type Level uint8

const (
	LevelBlack Level = iota
	LevelColor1
	LevelColor2
	LevelColor3
)

var levelNames = [4]string{"Black", "Color1", "Color2", "Color3"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", uint8(l))
}

// Upper bounds of the classification bands, centered between the fixed
// dither levels. These do not follow Stats.Thresholds.
const (
	bandBlack  = 10
	bandColor1 = 95
	bandColor2 = 180
)

// Classify maps a dithered intensity to its level.
func Classify(v uint8) Level {
	switch {
	case v <= bandBlack:
		return LevelBlack
	case v <= bandColor1:
		return LevelColor1
	case v <= bandColor2:
		return LevelColor2
	default:
		return LevelColor3
	}
}

// Stats summarizes one processing call.
type Stats struct {
	// Thresholds are the histogram-derived cut points, or the caller's
	// fixed triple when histogram mode is off.
	Thresholds       [3]int     `json:"thresholds"`
	ColorCounts      [4]int     `json:"colorCounts"`
	TotalPixels      int        `json:"totalPixels"`
	ColorPercentages [4]float64 `json:"colorPercentages"`
	// LumaMean and LumaStdDev describe the grayscale buffer before
	// dithering.
	LumaMean   float64 `json:"lumaMean"`
	LumaStdDev float64 `json:"lumaStdDev"`
}

func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "thresholds: T1=%d T2=%d T3=%d\n",
		s.Thresholds[0], s.Thresholds[1], s.Thresholds[2])
	for i, name := range levelNames {
		fmt.Fprintf(&b, "%-7s %7d px  %5.1f%%\n", name+":",
			s.ColorCounts[i], s.ColorPercentages[i])
	}
	fmt.Fprintf(&b, "total pixels: %d", s.TotalPixels)
	return b.String()
}

// MapLevels classifies every pixel of the dithered buffer and paints it
// with colors[level]. alpha, when it holds one entry per pixel, is copied
// into the output; otherwise the output is opaque.
func MapLevels(gray *imageutil.GrayImage, alpha []uint8, colors [4]color.NRGBA) (*image.NRGBA, Stats) {
	w, h := gray.Width(), gray.Height()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	withAlpha := len(alpha) == w*h

	var stats Stats
	stats.TotalPixels = w * h
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			level := Classify(gray.Pix[y*gray.Stride+x])
			stats.ColorCounts[level]++

			c := colors[level]
			if withAlpha {
				c.A = alpha[y*w+x]
			} else {
				c.A = 255
			}
			out.SetNRGBA(x, y, c)
		}
	}

	if stats.TotalPixels > 0 {
		for i, n := range stats.ColorCounts {
			stats.ColorPercentages[i] = float64(n) / float64(stats.TotalPixels) * 100
		}
	}
	return out, stats
}

// lumaStats returns the mean and sample standard deviation of gray.
func lumaStats(gray *imageutil.GrayImage) (mean, std float64) {
	w, h := gray.Width(), gray.Height()
	if w*h == 0 {
		return 0, 0
	}
	values := make([]float64, 0, w*h)
	for y := 0; y < h; y++ {
		for _, v := range gray.Pix[y*gray.Stride : y*gray.Stride+w] {
			values = append(values, float64(v))
		}
	}
	if len(values) < 2 {
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}
