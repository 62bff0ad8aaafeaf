// Package imageutil provides the pure Go image plumbing used by the halftone
// pipeline: pixel buffer wrappers, decoding, encoding and resampling.
package imageutil

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to an opaque color.NRGBA.
func (rgb RGB) ToColor() color.NRGBA {
	return color.NRGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBFromColor converts a color.Color to RGB, dropping alpha.
func RGBFromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// NRGBAImage wraps image.NRGBA with convenience methods for pixel access.
// Channels are stored non-premultiplied, so the RGB of a translucent pixel
// is kept intact alongside its alpha.
type NRGBAImage struct {
	*image.NRGBA
}

// NewNRGBAImage creates a new NRGBAImage with the specified dimensions.
func NewNRGBAImage(width, height int) *NRGBAImage {
	return &NRGBAImage{
		NRGBA: image.NewNRGBA(image.Rect(0, 0, width, height)),
	}
}

// NRGBAImageFromImage converts any image.Image to an NRGBAImage whose
// bounds start at the origin.
func NRGBAImageFromImage(img image.Image) *NRGBAImage {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return &NRGBAImage{NRGBA: n}
	}
	bounds := img.Bounds()
	dst := NewNRGBAImage(bounds.Dx(), bounds.Dy())
	draw.Draw(dst.NRGBA, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// Width returns the image width.
func (img *NRGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *NRGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GetRGB returns the RGB value at (x, y).
func (img *NRGBAImage) GetRGB(x, y int) RGB {
	c := img.NRGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// SetRGB sets an opaque RGB value at (x, y).
func (img *NRGBAImage) SetRGB(x, y int, c RGB) {
	img.SetNRGBA(x, y, c.ToColor())
}

// Clone creates a deep copy of the image.
func (img *NRGBAImage) Clone() *NRGBAImage {
	clone := NewNRGBAImage(img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+img.Width()*4]
		copy(clone.Pix[y*clone.Stride:], src)
	}
	return clone
}

// GrayImage wraps image.Gray for single-channel intensity buffers.
type GrayImage struct {
	*image.Gray
}

// NewGrayImage creates a new GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{
		Gray: image.NewGray(image.Rect(0, 0, width, height)),
	}
}

// Width returns the image width.
func (img *GrayImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *GrayImage) Height() int {
	return img.Bounds().Dy()
}

// GetGray returns the grayscale value at (x, y).
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.GrayAt(x, y).Y
}

// SetGrayValue sets the grayscale value at (x, y).
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.Gray.SetGray(x, y, color.Gray{Y: v})
}

// Clamp8 converts v to an 8-bit intensity the way a clamped byte array
// does: clamp to [0, 255], then round half to even. NaN becomes 0.
func Clamp8(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}

// SetLevel stores v at (x, y) through Clamp8. Out of bounds writes are
// ignored.
func (img *GrayImage) SetLevel(x, y int, v float64) {
	if !(image.Point{X: x, Y: y}.In(img.Rect)) {
		return
	}
	img.Pix[img.PixOffset(x, y)] = Clamp8(v)
}
