// Package halftone reduces an image to four tones, black plus three palette
// colors, with a choice of error-diffusion or ordered dithering.
package halftone

import (
	"context"
	"image"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/wbrown/halftone/imageutil"
)

// Loader resolves an image reference (path, URL, ...) to an image.
type Loader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// Resizer scales an image to a width, keeping its aspect ratio.
type Resizer interface {
	ResizeToWidth(img image.Image, width int) (image.Image, error)
}

// Processor runs the halftone pipeline. It holds configuration only, so a
// single Processor may serve concurrent calls; each call owns its buffers.
type Processor struct {
	logger  zerolog.Logger
	loader  Loader
	resizer Resizer
}

// ProcessorOption is a functional option for configuring a Processor.
type ProcessorOption func(*Processor)

// NewProcessor creates a Processor with the given options.
// Default values: no logging, imageutil.NewLoader() for loading, and
// bilinear x/image/draw scaling for TargetWidth.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{
		logger:  zerolog.Nop(),
		loader:  imageutil.NewLoader(),
		resizer: imageutil.ScaleResizer{Interpolation: imageutil.InterpolationLinear},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithLogger sets the logger. Entries carry component=halftone.
func WithLogger(logger zerolog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = logger.With().Str("component", "halftone").Logger()
	}
}

// WithLoader replaces the image loader.
func WithLoader(l Loader) ProcessorOption {
	return func(p *Processor) {
		p.loader = l
	}
}

// WithResizer replaces the resampler used for TargetWidth.
func WithResizer(r Resizer) ProcessorOption {
	return func(p *Processor) {
		p.resizer = r
	}
}

// Result is the processed image and its statistics.
type Result struct {
	Image *image.NRGBA
	Stats Stats
}

// Encode writes the processed image with enc.
func (r *Result) Encode(w io.Writer, enc imageutil.Encoder) error {
	return enc.Encode(w, r.Image)
}

// DataURL returns the processed image as a base64 PNG data URL.
func (r *Result) DataURL() (string, error) {
	return imageutil.EncodeDataURL(r.Image)
}

// Process loads ref and runs the pipeline on it. A load failure returns a
// *LoadError and no result. ctx bounds the load; once pixels are in
// memory it is checked a single time, before the pipeline starts.
func (p *Processor) Process(ctx context.Context, ref string, pal Palette, opts Options) (*Result, error) {
	img, err := p.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return p.ProcessImage(img, pal, opts)
}

// Load resolves ref with the configured loader. Failures come back as a
// *LoadError; a context cancelled during the load returns ctx.Err().
func (p *Processor) Load(ctx context.Context, ref string) (image.Image, error) {
	start := time.Now()
	img, err := p.loader.Load(ctx, ref)
	if err != nil {
		p.logger.Error().Err(err).Str("ref", ref).Msg("load failed")
		return nil, &LoadError{Ref: ref, Err: err}
	}
	p.logger.Debug().Str("ref", ref).Dur("elapsed", time.Since(start)).Msg("image loaded")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

// ProcessImage runs the pipeline on an in-memory image. It fails only if
// the configured Resizer does.
func (p *Processor) ProcessImage(img image.Image, pal Palette, opts Options) (*Result, error) {
	start := time.Now()

	if opts.TargetWidth > 0 && img.Bounds().Dx() != opts.TargetWidth {
		resized, err := p.resizer.ResizeToWidth(img, opts.TargetWidth)
		if err != nil {
			return nil, err
		}
		img = resized
	}

	if bad := pal.Malformed(); len(bad) > 0 {
		p.logger.Debug().Strs("colors", bad).Msg("malformed palette colors replaced with black")
	}

	raster := NewRaster(img).
		AdjustTone(opts.BrightnessAdjust, opts.Saturation).
		ApplyContrast(opts.ContrastBoost, opts.Invert)
	gray := raster.Luma()

	thresholds := opts.ColorThresholds
	if opts.UseHistogram {
		thresholds = HistogramThresholds(gray, opts.ColorDistribution)
	}
	mean, std := lumaStats(gray)

	Quantize(gray, opts.DitherMethod)
	out, stats := MapLevels(gray, raster.Alpha, pal.Colors())
	stats.Thresholds = thresholds
	stats.LumaMean = mean
	stats.LumaStdDev = std

	p.logger.Debug().
		Str("dither", opts.DitherMethod.String()).
		Bool("histogram", opts.UseHistogram).
		Ints("thresholds", thresholds[:]).
		Ints("counts", stats.ColorCounts[:]).
		Msg("levels mapped")
	p.logger.Info().
		Int("width", raster.Width).
		Int("height", raster.Height).
		Dur("elapsed", time.Since(start)).
		Msg("image processed")

	return &Result{Image: out, Stats: stats}, nil
}

var defaultProcessor = NewProcessor()

// Process runs ref through a Processor with default settings.
func Process(ctx context.Context, ref string, pal Palette, opts Options) (*Result, error) {
	return defaultProcessor.Process(ctx, ref, pal, opts)
}
