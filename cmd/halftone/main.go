package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/wbrown/halftone"
	"github.com/wbrown/halftone/imageutil"
	"github.com/wbrown/halftone/imageutil/cvcodec"
)

func main() {
	inputFile := flag.String("input", "",
		"Path or URL of the input image (required)")
	outputFile := flag.String("output", "halftone.png",
		"Path to save the processed image (png, jpg, or gif)")
	paletteName := flag.String("palette", "classic",
		"Palette: an embedded name ("+strings.Join(halftone.PaletteNames(), ", ")+
			"), a JSON file, three hex colors \"#c1,#c2,#c3\", "+
			"or auto / auto-kmeans to derive one from the image")
	configFile := flag.String("config", "",
		"JSON options file merged over the defaults")
	display := flag.Bool("display", false,
		"Start from the display defaults (atkinson, inverted) instead of the plain defaults")
	dither := flag.String("dither", "",
		"Dither method: floyd-steinberg, atkinson, or ordered")
	contrast := flag.Float64("contrast", 1.5, "Contrast multiplier")
	brightness := flag.Float64("brightness", 0, "Brightness offset added to each channel")
	saturation := flag.Float64("saturation", 1.0, "Saturation multiplier")
	invert := flag.Bool("invert", false, "Invert the image after the contrast curve")
	histogram := flag.Bool("histogram", true, "Derive thresholds from the image histogram")
	thresholds := flag.String("thresholds", "64,128,192",
		"Fixed thresholds used when -histogram=false")
	distribution := flag.String("distribution", "40,25,20,15",
		"Target percentages of black, color1, color2, color3 for -histogram")
	width := flag.Int("width", 0, "Resample to this width before processing (0 keeps the size)")
	resample := flag.String("resample", "linear",
		"Resampling filter for -width: linear, catmull-rom, or nearest")
	debugPanel := flag.Bool("debug", false, "Append the statistics panel to the output image")
	dataURL := flag.Bool("datauri", false, "Print the result as a PNG data URL to stdout")
	useOpenCV := flag.Bool("opencv", false, "Decode, resize, and encode through OpenCV")
	timeout := flag.Duration("timeout", 30*time.Second, "Timeout for loading the input")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()

	if *inputFile == "" {
		fmt.Println("Please provide the image using the -input flag")
		flag.PrintDefaults()
		os.Exit(2)
	}

	base := halftone.DefaultOptions()
	if *display {
		base = halftone.DisplayOptions()
	}
	if *configFile != "" {
		var err error
		base, err = halftone.LoadOptions(*configFile, base)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not load options")
		}
	}
	opts, err := applyFlags(base, flagValues{
		dither:       *dither,
		contrast:     *contrast,
		brightness:   *brightness,
		saturation:   *saturation,
		invert:       *invert,
		histogram:    *histogram,
		thresholds:   *thresholds,
		distribution: *distribution,
		width:        *width,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid flags")
	}

	interp, err := imageutil.ParseInterpolation(*resample)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid flags")
	}
	loader := imageutil.NewLoader()
	var resizer halftone.Resizer = imageutil.ScaleResizer{Interpolation: interp}
	var encoder imageutil.Encoder = imageutil.StdCodec{Format: imageutil.FormatFromPath(*outputFile)}
	if *useOpenCV {
		loader = imageutil.NewLoader(imageutil.WithDecoder(cvcodec.Codec{}))
		resizer = cvcodec.Resizer{Interpolation: gocv.InterpolationArea}
		encoder = cvcodec.Codec{Ext: cvExt(*outputFile)}
	}
	proc := halftone.NewProcessor(
		halftone.WithLogger(logger),
		halftone.WithLoader(loader),
		halftone.WithResizer(resizer),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelLoad := context.WithTimeout(ctx, *timeout)
	defer cancelLoad()

	var result *halftone.Result
	switch *paletteName {
	case "auto", "auto-kmeans":
		img, err := proc.Load(ctx, *inputFile)
		if err != nil {
			logger.Fatal().Err(err).Str("input", *inputFile).Msg("could not load image")
		}
		method := halftone.PaletteDominant
		if *paletteName == "auto-kmeans" {
			method = halftone.PaletteKMeans
		}
		pal, err := halftone.ExtractPalette(img, method)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not derive a palette")
		}
		logger.Info().Str("palette", pal.String()).Msg("derived palette")
		result, err = proc.ProcessImage(img, pal, opts)
		if err != nil {
			logger.Fatal().Err(err).Msg("processing failed")
		}
		writeResult(logger, result, pal, *outputFile, encoder, *debugPanel, *dataURL)
	default:
		pal, err := resolvePalette(*paletteName)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not load palette")
		}
		result, err = proc.Process(ctx, *inputFile, pal, opts)
		if err != nil {
			logger.Fatal().Err(err).Str("input", *inputFile).Msg("processing failed")
		}
		writeResult(logger, result, pal, *outputFile, encoder, *debugPanel, *dataURL)
	}

	fmt.Fprintln(os.Stderr, result.Stats)
}

// resolvePalette accepts an embedded name, a JSON file, or "c1,c2,c3".
func resolvePalette(name string) (halftone.Palette, error) {
	if strings.Count(name, ",") == 2 {
		return halftone.ParsePalette(name)
	}
	return halftone.LoadPalette(name)
}

func writeResult(
	logger zerolog.Logger,
	result *halftone.Result,
	pal halftone.Palette,
	path string,
	enc imageutil.Encoder,
	withPanel, asDataURL bool,
) {
	if asDataURL {
		url, err := result.DataURL()
		if err != nil {
			logger.Fatal().Err(err).Msg("could not encode data URL")
		}
		fmt.Println(url)
		return
	}

	var err error
	if withPanel {
		legend, lerr := halftone.RenderLegend(result.Stats, pal)
		if lerr != nil {
			logger.Fatal().Err(lerr).Msg("could not render statistics panel")
		}
		err = imageutil.SaveImageWith(halftone.ComposeLegend(result.Image, legend), path, enc)
	} else {
		err = imageutil.SaveImageWith(result.Image, path, enc)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("output", path).Msg("could not write output")
	}
	logger.Info().Str("output", path).Msg("output written")
}

func cvExt(path string) gocv.FileExt {
	switch imageutil.FormatFromPath(path) {
	case imageutil.FormatJPEG:
		return gocv.JPEGFileExt
	default:
		return gocv.PNGFileExt
	}
}

type flagValues struct {
	dither                           string
	contrast, brightness, saturation float64
	invert, histogram                bool
	thresholds, distribution         string
	width                            int
}

// applyFlags overrides base with every flag given on the command line, so
// that -config and -display keep their values for flags left unset.
func applyFlags(base halftone.Options, v flagValues) (halftone.Options, error) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	opts := base
	var err error
	if set["dither"] {
		if opts.DitherMethod, err = halftone.ParseDitherMethod(v.dither); err != nil {
			return base, err
		}
	}
	if set["contrast"] {
		opts.ContrastBoost = v.contrast
	}
	if set["brightness"] {
		opts.BrightnessAdjust = v.brightness
	}
	if set["saturation"] {
		opts.Saturation = v.saturation
	}
	if set["invert"] {
		opts.Invert = v.invert
	}
	if set["histogram"] {
		opts.UseHistogram = v.histogram
	}
	if set["thresholds"] {
		t, err := parseInts(v.thresholds, 3)
		if err != nil {
			return base, fmt.Errorf("-thresholds: %w", err)
		}
		opts.ColorThresholds = [3]int{t[0], t[1], t[2]}
	}
	if set["distribution"] {
		d, err := parseFloats(v.distribution, 4)
		if err != nil {
			return base, fmt.Errorf("-distribution: %w", err)
		}
		opts.ColorDistribution = [4]float64{d[0], d[1], d[2], d[3]}
	}
	if set["width"] {
		opts.TargetWidth = v.width
	}
	return opts, nil
}

func parseInts(s string, n int) ([]int, error) {
	fs, err := parseFloats(s, n)
	if err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i, f := range fs {
		out[i] = int(f)
	}
	return out, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated values, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}
