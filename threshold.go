package halftone

import "github.com/wbrown/halftone/imageutil"

// Histogram counts the pixels at each intensity.
func Histogram(gray *imageutil.GrayImage) [256]int {
	var hist [256]int
	w, h := gray.Width(), gray.Height()
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for _, v := range row {
			hist[v]++
		}
	}
	return hist
}

// HistogramThresholds picks three cut points so that, walking the
// histogram upward, roughly distribution[0]% of pixels fall at or below
// the first, distribution[0]+distribution[1]% at or below the second, and
// so on. distribution[3] is implied by the rest and not read.
//
// The result is always strictly increasing: a threshold that does not
// exceed its predecessor is bumped to predecessor+1, capped at 255. When
// the cap leaves a tie at the top (a nearly all-white image), the lower
// thresholds are pulled down below their successor instead.
func HistogramThresholds(gray *imageutil.GrayImage, distribution [4]float64) [3]int {
	hist := Histogram(gray)
	total := float64(gray.Width() * gray.Height())

	black, c1, c2 := distribution[0], distribution[1], distribution[2]
	targets := [3]float64{
		black / 100 * total,
		(black + c1) / 100 * total,
		(black + c1 + c2) / 100 * total,
	}

	var thresholds [3]int
	cumulative := 0
	next := 0
	// At most one threshold is placed per bin, so a tall bin that covers
	// several targets pushes the later ones to the following bins.
	for i := 0; i < 256 && next < 3; i++ {
		cumulative += hist[i]
		if float64(cumulative) >= targets[next] {
			thresholds[next] = i
			next++
		}
	}

	return enforceIncreasing(thresholds)
}

func enforceIncreasing(t [3]int) [3]int {
	for i := 1; i < len(t); i++ {
		if t[i] <= t[i-1] {
			t[i] = min(255, t[i-1]+1)
		}
	}
	for i := len(t) - 2; i >= 0; i-- {
		if t[i] >= t[i+1] {
			t[i] = t[i+1] - 1
		}
	}
	return t
}
