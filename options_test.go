package halftone

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	o := DefaultOptions()
	if o.DitherMethod != FloydSteinberg {
		t.Errorf("Expected floyd-steinberg, got %s", o.DitherMethod)
	}
	if o.ColorThresholds != [3]int{64, 128, 192} {
		t.Errorf("Expected thresholds [64 128 192], got %v", o.ColorThresholds)
	}
	if o.ContrastBoost != 1.5 {
		t.Errorf("Expected contrast 1.5, got %f", o.ContrastBoost)
	}
	if o.BrightnessAdjust != 0 || o.Saturation != 1.0 {
		t.Errorf("Expected neutral tone, got brightness=%f saturation=%f",
			o.BrightnessAdjust, o.Saturation)
	}
	if o.Invert {
		t.Error("Default options should not invert")
	}
	if !o.UseHistogram {
		t.Error("Default options should use the histogram")
	}
	if o.ColorDistribution != [4]float64{40, 25, 20, 15} {
		t.Errorf("Expected distribution [40 25 20 15], got %v", o.ColorDistribution)
	}
}

func TestDisplayOptions(t *testing.T) {
	t.Parallel()

	o := DisplayOptions()
	if o.DitherMethod != Atkinson {
		t.Errorf("Expected atkinson, got %s", o.DitherMethod)
	}
	if !o.Invert {
		t.Error("Display options should invert")
	}
	// Everything else matches the plain defaults.
	o.DitherMethod = FloydSteinberg
	o.Invert = false
	if o != DefaultOptions() {
		t.Errorf("Display options differ beyond method and invert: %+v", o)
	}
}

func TestFunctionalOptions(t *testing.T) {
	t.Parallel()

	o := NewOptions(
		WithDitherMethod(Ordered),
		WithThresholds(10, 20, 30),
		WithContrast(2),
		WithBrightness(-10),
		WithSaturation(0.5),
		WithInvert(true),
		WithTargetWidth(320),
	)
	if o.DitherMethod != Ordered {
		t.Errorf("Expected ordered, got %s", o.DitherMethod)
	}
	if o.ColorThresholds != [3]int{10, 20, 30} {
		t.Errorf("Expected [10 20 30], got %v", o.ColorThresholds)
	}
	if o.UseHistogram {
		t.Error("WithThresholds should disable the histogram")
	}
	if o.ContrastBoost != 2 || o.BrightnessAdjust != -10 || o.Saturation != 0.5 {
		t.Errorf("Tone options not applied: %+v", o)
	}
	if !o.Invert || o.TargetWidth != 320 {
		t.Errorf("Invert/TargetWidth not applied: %+v", o)
	}

	o.Apply(WithDistribution(25, 25, 25, 25))
	if !o.UseHistogram {
		t.Error("WithDistribution should enable the histogram")
	}
	if o.ColorDistribution != [4]float64{25, 25, 25, 25} {
		t.Errorf("Expected even distribution, got %v", o.ColorDistribution)
	}
}

func TestParseOptionsMergesOverBase(t *testing.T) {
	t.Parallel()

	o, err := ParseOptions([]byte(`{"ditherMethod":"ordered","contrastBoost":1.0}`), DisplayOptions())
	if err != nil {
		t.Fatalf("ParseOptions failed: %v", err)
	}
	if o.DitherMethod != Ordered || o.ContrastBoost != 1.0 {
		t.Errorf("Fields from JSON not applied: %+v", o)
	}
	if !o.Invert {
		t.Error("Invert should keep its base value")
	}
	if o.ColorDistribution != [4]float64{40, 25, 20, 15} {
		t.Errorf("Distribution should keep its base value, got %v", o.ColorDistribution)
	}

	base := DefaultOptions()
	got, err := ParseOptions([]byte(`{not json`), base)
	if err == nil {
		t.Error("Expected error for malformed JSON")
	}
	if got != base {
		t.Error("Malformed JSON should return the base unchanged")
	}
}

func TestLoadOptions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "opts.json")
	data := `{"useHistogram":false,"colorThresholds":[50,100,150],"targetWidth":64}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	o, err := LoadOptions(path, DefaultOptions())
	if err != nil {
		t.Fatalf("LoadOptions failed: %v", err)
	}
	if o.UseHistogram || o.ColorThresholds != [3]int{50, 100, 150} || o.TargetWidth != 64 {
		t.Errorf("Options file not applied: %+v", o)
	}

	if _, err := LoadOptions(filepath.Join(t.TempDir(), "missing.json"), DefaultOptions()); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestParseDitherMethod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    DitherMethod
		wantErr bool
	}{
		{"floyd-steinberg", FloydSteinberg, false},
		{"Atkinson", Atkinson, false},
		{" ORDERED ", Ordered, false},
		{"bayer", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDitherMethod(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDitherMethod(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDitherMethod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
