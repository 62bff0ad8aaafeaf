package halftone

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	legendWidth    = 240
	legendPadding  = 12
	legendLine     = 18
	legendFontSize = 12.0
	legendSwatch   = 12
	// LegendGap is the space ComposeLegend leaves between image and panel.
	LegendGap = 16
)

var (
	legendTextColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	legendLabelColor = color.NRGBA{R: 156, G: 163, B: 175, A: 255}
	legendEdgeColor  = color.NRGBA{R: 75, G: 85, B: 99, A: 255}
)

var (
	monoOnce sync.Once
	monoFont *truetype.Font
	monoErr  error
)

func legendFont() (*truetype.Font, error) {
	monoOnce.Do(func() {
		monoFont, monoErr = freetype.ParseFont(gomono.TTF)
	})
	return monoFont, monoErr
}

// legendRow is one line of the debug panel. A row with a swatch draws a
// filled square before the text.
type legendRow struct {
	text   string
	color  color.Color
	swatch *color.NRGBA
}

func legendRows(stats Stats, pal Palette) []legendRow {
	colors := pal.Colors()
	accent := colors[1]
	rows := []legendRow{
		{text: "DEBUG INFO", color: accent},
		{},
		{text: "Thresholds:", color: legendLabelColor},
	}
	for i, t := range stats.Thresholds {
		rows = append(rows, legendRow{
			text:  fmt.Sprintf("T%d: %d", i+1, t),
			color: legendTextColor,
		})
	}
	rows = append(rows, legendRow{}, legendRow{text: "Color Distribution:", color: legendLabelColor})
	for i, name := range levelNames {
		c := colors[i]
		rows = append(rows, legendRow{
			text:   fmt.Sprintf("%s: %.1f%%", name, stats.ColorPercentages[i]),
			color:  legendTextColor,
			swatch: &c,
		})
	}
	rows = append(rows,
		legendRow{},
		legendRow{text: "Total Pixels:", color: legendLabelColor},
		legendRow{text: groupThousands(stats.TotalPixels), color: legendTextColor},
	)
	return rows
}

// RenderLegend draws the statistics panel: the three thresholds, a swatch
// and share for each level, and the pixel total, on a black background.
func RenderLegend(stats Stats, pal Palette) (*image.RGBA, error) {
	ttf, err := legendFont()
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	rows := legendRows(stats, pal)
	height := legendPadding*2 + len(rows)*legendLine
	dst := image.NewRGBA(image.Rect(0, 0, legendWidth, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(legendFontSize)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)
	ctx.SetHinting(font.HintingFull)

	ascent := int(ctx.PointToFixed(legendFontSize) >> 6)
	for i, row := range rows {
		if row.text == "" {
			continue
		}
		top := legendPadding + i*legendLine
		x := legendPadding
		if row.swatch != nil {
			drawSwatch(dst, x, top+(legendLine-legendSwatch)/2-2, *row.swatch)
			x += legendSwatch + 8
		}
		ctx.SetSrc(image.NewUniform(row.color))
		if _, err := ctx.DrawString(row.text, freetype.Pt(x, top+ascent-2)); err != nil {
			return nil, fmt.Errorf("failed to draw legend text: %w", err)
		}
	}
	return dst, nil
}

// drawSwatch fills a square with c inside a one pixel gray border, so a
// black swatch stays visible on the black panel.
func drawSwatch(dst draw.Image, x, y int, c color.NRGBA) {
	outer := image.Rect(x, y, x+legendSwatch, y+legendSwatch)
	draw.Draw(dst, outer, image.NewUniform(legendEdgeColor), image.Point{}, draw.Src)
	draw.Draw(dst, outer.Inset(1), image.NewUniform(c), image.Point{}, draw.Src)
}

// ComposeLegend places legend to the right of img, LegendGap pixels apart,
// top-aligned on a black canvas.
func ComposeLegend(img, legend image.Image) *image.RGBA {
	ib, lb := img.Bounds(), legend.Bounds()
	width := ib.Dx() + LegendGap + lb.Dx()
	height := max(ib.Dy(), lb.Dy())

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(0, 0, ib.Dx(), ib.Dy()), img, ib.Min, draw.Over)
	legendAt := image.Rect(ib.Dx()+LegendGap, 0, width, lb.Dy())
	draw.Draw(dst, legendAt, legend, lb.Min, draw.Src)
	return dst
}

// groupThousands formats n with comma separators.
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
