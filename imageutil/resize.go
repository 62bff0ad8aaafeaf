package imageutil

import (
	"fmt"
	"image"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationLinear uses bilinear interpolation, the closest match to
	// what a browser canvas does when drawing a scaled image.
	InterpolationLinear Interpolation = iota

	// InterpolationCatmullRom uses Catmull-Rom for high-quality scaling.
	InterpolationCatmullRom

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	InterpolationNearest
)

var interpolationNames = map[Interpolation]string{
	InterpolationLinear:     "linear",
	InterpolationCatmullRom: "catmull-rom",
	InterpolationNearest:    "nearest",
}

func (interp Interpolation) String() string {
	if name, ok := interpolationNames[interp]; ok {
		return name
	}
	return fmt.Sprintf("Interpolation(%d)", int(interp))
}

// ParseInterpolation reads "linear", "catmull-rom" or "nearest".
func ParseInterpolation(s string) (Interpolation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for interp, name := range interpolationNames {
		if s == name {
			return interp, nil
		}
	}
	return InterpolationLinear, fmt.Errorf("unknown interpolation %q", s)
}

func (interp Interpolation) scaler() draw.Scaler {
	switch interp {
	case InterpolationCatmullRom:
		return draw.CatmullRom
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.BiLinear
	}
}

// Resize resizes an image to the specified dimensions using the given
// interpolation method.
func Resize(img image.Image, width, height int, interp Interpolation) *NRGBAImage {
	dst := NewNRGBAImage(width, height)
	interp.scaler().Scale(dst.NRGBA, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// HeightForWidth returns the height that keeps the aspect ratio of a
// srcWidth x srcHeight image when it is scaled to width.
func HeightForWidth(srcWidth, srcHeight, width int) int {
	if srcWidth <= 0 {
		return 0
	}
	return int(math.Round(float64(width) * float64(srcHeight) / float64(srcWidth)))
}

// ResizeToWidth resizes an image to the specified width while maintaining
// aspect ratio.
func ResizeToWidth(img image.Image, width int, interp Interpolation) *NRGBAImage {
	b := img.Bounds()
	return Resize(img, width, HeightForWidth(b.Dx(), b.Dy(), width), interp)
}

// ScaleResizer resamples with the golang.org/x/image/draw scalers.
type ScaleResizer struct {
	Interpolation Interpolation
}

// ResizeToWidth implements the resizer contract used by the processor.
func (s ScaleResizer) ResizeToWidth(img image.Image, width int) (image.Image, error) {
	return ResizeToWidth(img, width, s.Interpolation), nil
}
