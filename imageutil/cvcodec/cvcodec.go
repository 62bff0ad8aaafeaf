// Package cvcodec decodes, encodes and resamples images through OpenCV.
// It is a drop-in alternative to the pure Go codecs in imageutil for hosts
// that already ship OpenCV; importing it requires cgo.
package cvcodec

import (
	"errors"
	"fmt"
	"image"
	"io"

	"gocv.io/x/gocv"

	"github.com/wbrown/halftone/imageutil"
)

// ErrEmpty is returned when OpenCV decodes a buffer into an empty Mat.
var ErrEmpty = errors.New("cvcodec: could not decode image")

// Codec implements imageutil.Decoder and imageutil.Encoder.
type Codec struct {
	// Ext selects the output format; defaults to PNG.
	Ext gocv.FileExt
}

func (c Codec) ext() gocv.FileExt {
	if c.Ext == "" {
		return gocv.PNGFileExt
	}
	return c.Ext
}

// Decode reads the whole stream and decodes it with IMDecode.
func (c Codec) Decode(r io.Reader) (image.Image, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	mat, err := gocv.IMDecode(buf, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, ErrEmpty
	}
	return mat.ToImage()
}

// Encode converts img to a BGRA Mat and writes it with IMEncode.
func (c Codec) Encode(w io.Writer, img image.Image) error {
	mat, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	buf, err := gocv.IMEncode(c.ext(), mat)
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	_, err = w.Write(buf.GetBytes())
	return err
}

// Resizer resamples with cv::resize. The zero value uses nearest-neighbor;
// InterpolationArea is the usual choice for downscaling photos.
type Resizer struct {
	Interpolation gocv.InterpolationFlags
}

// ResizeToWidth scales img to width, height = round(width * H / W).
func (r Resizer) ResizeToWidth(img image.Image, width int) (image.Image, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return img, nil
	}
	height := imageutil.HeightForWidth(b.Dx(), b.Dy(), width)

	src, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Resize(src, &dst, image.Pt(width, height), 0, 0, r.Interpolation)
	if dst.Empty() {
		return nil, ErrEmpty
	}
	return dst.ToImage()
}
