package halftone

import (
	"image"

	"github.com/wbrown/halftone/imageutil"
)

// BT.601 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

func luma(r, g, b float64) float64 {
	return lumaR*r + lumaG*g + lumaB*b
}

// Raster is the color working buffer for the tone and contrast stages.
// Channels hold 8-bit values except between saturation and contrast,
// where a saturation boost may leave [0, 255] until the contrast stage
// clamps it. Alpha is carried through untouched.
type Raster struct {
	Width, Height int
	// Pix holds R, G, B for each pixel in row-major order.
	Pix   []float64
	Alpha []uint8
}

// NewRaster copies img into a fresh Raster.
func NewRaster(img image.Image) *Raster {
	src := imageutil.NRGBAImageFromImage(img)
	w, h := src.Width(), src.Height()
	r := &Raster{
		Width:  w,
		Height: h,
		Pix:    make([]float64, w*h*3),
		Alpha:  make([]uint8, w*h),
	}
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			i := y*w + x
			r.Pix[i*3] = float64(row[x*4])
			r.Pix[i*3+1] = float64(row[x*4+1])
			r.Pix[i*3+2] = float64(row[x*4+2])
			r.Alpha[i] = row[x*4+3]
		}
	}
	return r
}

// AdjustTone adds brightness to each channel, storing the result as an
// 8-bit value, then scales each channel's distance from the pixel's luma
// by saturation. The saturation result is neither clamped nor rounded.
func (r *Raster) AdjustTone(brightness, saturation float64) *Raster {
	for i := 0; i+2 < len(r.Pix); i += 3 {
		px := r.Pix[i : i+3 : i+3]
		for j := range px {
			px[j] = float64(imageutil.Clamp8(px[j] + brightness))
		}
		l := luma(px[0], px[1], px[2])
		for j := range px {
			px[j] = l + saturation*(px[j]-l)
		}
	}
	return r
}

// ApplyContrast stretches each channel around mid-gray by boost and stores
// it as an 8-bit value. With invert set, each stored channel is then
// replaced by 255 minus itself. Every channel is whole and within [0, 255]
// afterwards.
func (r *Raster) ApplyContrast(boost float64, invert bool) *Raster {
	for i, v := range r.Pix {
		c := imageutil.Clamp8(((v/255-0.5)*boost + 0.5) * 255)
		if invert {
			c = 255 - c
		}
		r.Pix[i] = float64(c)
	}
	return r
}

// Luma reduces the raster to an 8-bit grayscale buffer.
func (r *Raster) Luma() *imageutil.GrayImage {
	gray := imageutil.NewGrayImage(r.Width, r.Height)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			i := (y*r.Width + x) * 3
			gray.Pix[y*gray.Stride+x] = imageutil.Clamp8(luma(r.Pix[i], r.Pix[i+1], r.Pix[i+2]))
		}
	}
	return gray
}
