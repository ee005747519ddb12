// Package chart renders the summary bar charts embedded into exports.
package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Bar is one labeled value.
type Bar struct {
	Label string
	Value float64
}

var (
	background = color.RGBA{255, 255, 255, 255}
	barFill    = color.RGBA{135, 206, 235, 255} // sky blue
	axisGray   = color.RGBA{120, 120, 120, 255}
	textBlack  = color.RGBA{20, 20, 20, 255}
)

const (
	marginLeft   = 56
	marginRight  = 16
	marginTop    = 36
	marginBottom = 48
	barGap       = 14
	minBarWidth  = 28
	plotHeight   = 240
)

// Render draws a vertical bar chart as a PNG. Bars are drawn in the order
// given; callers sort beforehand when they want a ranking.
func Render(title string, bars []Bar) ([]byte, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("render chart %q: no bars", title)
	}
	barWidth := minBarWidth
	if w := 9 * longestLabel(bars); w > barWidth {
		barWidth = w
	}
	width := marginLeft + marginRight + len(bars)*(barWidth+barGap)
	height := marginTop + plotHeight + marginBottom
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	maxVal := 0.0
	for _, b := range bars {
		if b.Value > maxVal {
			maxVal = b.Value
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	baseline := marginTop + plotHeight
	// Axes.
	fillRect(img, marginLeft-1, marginTop, marginLeft, baseline, axisGray)
	fillRect(img, marginLeft-1, baseline, width-marginRight, baseline+1, axisGray)

	for i, b := range bars {
		x0 := marginLeft + barGap/2 + i*(barWidth+barGap)
		h := int(math.Round(float64(plotHeight) * b.Value / maxVal))
		fillRect(img, x0, baseline-h, x0+barWidth, baseline, barFill)
		drawText(img, x0, baseline+14, b.Label)
		drawText(img, x0, baseline-h-4, fmt.Sprintf("%.1f", b.Value))
	}
	drawText(img, marginLeft, marginTop-12, title)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode chart %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

func longestLabel(bars []Bar) int {
	n := 0
	for _, b := range bars {
		if len(b.Label) > n {
			n = len(b.Label)
		}
	}
	return n
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	draw.Draw(img, image.Rect(x0, y0, x1, y1), &image.Uniform{c}, image.Point{}, draw.Src)
}

func drawText(img *image.RGBA, x, y int, s string) {
	d := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{textBlack},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
