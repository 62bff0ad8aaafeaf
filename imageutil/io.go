package imageutil

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Decoder turns encoded bytes into an image.
type Decoder interface {
	Decode(r io.Reader) (image.Image, error)
}

// Encoder writes an image in some encoded form.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
}

// Format selects the output encoding of StdCodec.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatGIF
)

// FormatFromPath picks an output format from a file extension.
// Unknown extensions map to PNG.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".gif":
		return FormatGIF
	default:
		return FormatPNG
	}
}

// StdCodec decodes every format registered with the image package (PNG,
// JPEG, GIF, BMP, TIFF and WebP) and encodes with the standard encoders.
type StdCodec struct {
	Format      Format
	JPEGQuality int
}

// Decode implements Decoder.
func (c StdCodec) Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Encode implements Encoder.
func (c StdCodec) Encode(w io.Writer, img image.Image) error {
	switch c.Format {
	case FormatJPEG:
		quality := c.JPEGQuality
		if quality <= 0 {
			quality = 95
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatGIF:
		return gif.Encode(w, img, nil)
	default:
		return png.Encode(w, img)
	}
}

// Loader resolves an image reference to a decoded image. A reference is a
// filesystem path, an http(s) URL or a data: URL.
type Loader struct {
	Decoder Decoder
	Client  *http.Client
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDecoder swaps the decoder used for every reference kind.
func WithDecoder(dec Decoder) LoaderOption {
	return func(l *Loader) {
		l.Decoder = dec
	}
}

// WithHTTPClient sets the client used for http(s) references.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		l.Client = client
	}
}

// NewLoader creates a Loader using StdCodec and http.DefaultClient unless
// overridden.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		Decoder: StdCodec{},
		Client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and decodes ref. The context bounds network fetches only.
func (l *Loader) Load(ctx context.Context, ref string) (image.Image, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return DecodeDataURL(ref, l.Decoder)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return l.fetch(ctx, ref)
	default:
		return l.open(ref)
	}
}

func (l *Loader) open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return l.Decoder.Decode(f)
}

func (l *Loader) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch image: unexpected status %s", resp.Status)
	}
	return l.Decoder.Decode(resp.Body)
}

// LoadImage loads an image from the specified path.
func LoadImage(path string) (*NRGBAImage, error) {
	img, err := NewLoader().open(path)
	if err != nil {
		return nil, err
	}
	return NRGBAImageFromImage(img), nil
}

// SaveImage saves an image to the specified path.
// Format is determined by file extension (png, jpg/jpeg, gif).
func SaveImage(img image.Image, path string) error {
	return SaveImageWith(img, path, StdCodec{Format: FormatFromPath(path)})
}

// SaveImageWith saves an image to path using enc.
func SaveImageWith(img image.Image, path string, enc Encoder) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return f.Close()
}
