package halftone

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DitherMethod names one of the three quantization kernels.
type DitherMethod string

const (
	FloydSteinberg DitherMethod = "floyd-steinberg"
	Atkinson       DitherMethod = "atkinson"
	Ordered        DitherMethod = "ordered"
)

// DitherMethods lists the supported kernels in a stable order.
var DitherMethods = []DitherMethod{FloydSteinberg, Atkinson, Ordered}

// ParseDitherMethod validates a method name. Matching is case-insensitive.
func ParseDitherMethod(s string) (DitherMethod, error) {
	m := DitherMethod(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range DitherMethods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown dither method %q, options are "+
		"floyd-steinberg, atkinson, or ordered", s)
}

func (m DitherMethod) String() string {
	return string(m)
}

// Options controls one processing call. The zero value is not useful;
// start from DefaultOptions or DisplayOptions.
type Options struct {
	// DitherMethod selects the kernel. Unknown values fall back to Ordered.
	DitherMethod DitherMethod `json:"ditherMethod"`
	// ColorThresholds is reported as-is when UseHistogram is false.
	// It is not checked for monotonicity.
	ColorThresholds [3]int `json:"colorThresholds"`
	// ContrastBoost above 1 pushes toward black/white, below 1 toward gray.
	ContrastBoost float64 `json:"contrastBoost"`
	// BrightnessAdjust is added to every channel before clamping.
	BrightnessAdjust float64 `json:"brightnessAdjust"`
	// Saturation scales chroma around the pixel's luma. 1 is a no-op.
	Saturation float64 `json:"saturation"`
	// Invert flips every channel after the contrast curve.
	Invert bool `json:"invert"`
	// UseHistogram derives the thresholds from ColorDistribution.
	UseHistogram bool `json:"useHistogram"`
	// ColorDistribution is the target share, in percent, of black,
	// color1, color2 and color3. It is expected to sum to 100.
	ColorDistribution [4]float64 `json:"colorDistribution"`
	// TargetWidth resamples the source to this width, keeping the aspect
	// ratio. 0 keeps the source size.
	TargetWidth int `json:"targetWidth,omitempty"`
}

// DefaultOptions returns the defaults of a bare processing call.
func DefaultOptions() Options {
	return Options{
		DitherMethod:      FloydSteinberg,
		ColorThresholds:   [3]int{64, 128, 192},
		ContrastBoost:     1.5,
		BrightnessAdjust:  0,
		Saturation:        1.0,
		Invert:            false,
		UseHistogram:      true,
		ColorDistribution: [4]float64{40, 25, 20, 15},
	}
}

// DisplayOptions returns the defaults used when an image is shown through
// the site's image wrapper: Atkinson dithering with inversion, which gives
// bright dots on black.
func DisplayOptions() Options {
	o := DefaultOptions()
	o.DitherMethod = Atkinson
	o.Invert = true
	return o
}

// Option mutates Options.
type Option func(*Options)

// NewOptions applies opts on top of DefaultOptions.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	o.Apply(opts...)
	return o
}

// Apply applies opts in order.
func (o *Options) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// WithDitherMethod sets the dithering kernel.
func WithDitherMethod(m DitherMethod) Option {
	return func(o *Options) {
		o.DitherMethod = m
	}
}

// WithThresholds sets the fixed thresholds and disables histogram mode.
func WithThresholds(t1, t2, t3 int) Option {
	return func(o *Options) {
		o.ColorThresholds = [3]int{t1, t2, t3}
		o.UseHistogram = false
	}
}

// WithDistribution sets the histogram targets and enables histogram mode.
func WithDistribution(black, c1, c2, c3 float64) Option {
	return func(o *Options) {
		o.ColorDistribution = [4]float64{black, c1, c2, c3}
		o.UseHistogram = true
	}
}

// WithContrast sets the contrast multiplier.
func WithContrast(boost float64) Option {
	return func(o *Options) {
		o.ContrastBoost = boost
	}
}

// WithBrightness sets the brightness offset.
func WithBrightness(offset float64) Option {
	return func(o *Options) {
		o.BrightnessAdjust = offset
	}
}

// WithSaturation sets the saturation multiplier.
func WithSaturation(s float64) Option {
	return func(o *Options) {
		o.Saturation = s
	}
}

// WithInvert toggles inversion.
func WithInvert(invert bool) Option {
	return func(o *Options) {
		o.Invert = invert
	}
}

// WithTargetWidth sets the resample width; 0 disables resampling.
func WithTargetWidth(width int) Option {
	return func(o *Options) {
		o.TargetWidth = width
	}
}

// ParseOptions decodes JSON over base, so fields missing from data keep
// their value in base.
func ParseOptions(data []byte, base Options) (Options, error) {
	o := base
	if err := json.Unmarshal(data, &o); err != nil {
		return base, fmt.Errorf("error unmarshalling options: %w", err)
	}
	return o, nil
}

// LoadOptions reads a JSON options file and merges it over base.
func LoadOptions(path string, base Options) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("error reading options: %w", err)
	}
	return ParseOptions(data, base)
}
