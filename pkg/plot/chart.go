// Package plot draws light curves as images.
package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/intothevoid/lightcurve/pkg/lightcurve"
)

// Default vertical range in percent of the baseline. It widens when the
// data leaves it.
const (
	DefaultYMin = 50.0
	DefaultYMax = 110.0
)

var (
	black = drawing.Color{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	grey  = drawing.Color{R: 0x90, G: 0x90, B: 0x90, A: 0xff}

	channelColors = []drawing.Color{
		{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
		{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
		{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	}
	channelNames = []string{"Red", "Green", "Blue"}
)

// Render draws the filled part of the curve with a dashed 100% reference
// line. The x axis spans the whole run so the plot fills up as samples
// arrive.
func Render(c lightcurve.Curve, width, height int) (image.Image, error) {
	xmax := c.Duration
	if xmax <= 0 {
		xmax = 1
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Baseline",
			XValues: []float64{0, xmax},
			YValues: []float64{100, 100},
			Style: chart.Style{
				StrokeColor:     grey,
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
		},
	}

	ymin, ymax := DefaultYMin, DefaultYMax
	for i, values := range c.Values {
		n := min(c.Filled, len(values), len(c.Time))
		if n == 0 {
			continue
		}
		for _, v := range values[:n] {
			ymin = math.Min(ymin, math.Floor(v-5))
			ymax = math.Max(ymax, math.Ceil(v+5))
		}

		s := chart.ContinuousSeries{
			XValues: c.Time[:n],
			YValues: values[:n],
		}
		if c.Color && i < len(channelColors) {
			s.Name = channelNames[i]
			s.Style = chart.Style{StrokeColor: channelColors[i], StrokeWidth: 2}
		} else {
			s.Name = "Light"
			s.Style = chart.Style{StrokeColor: black, StrokeWidth: 1, DotColor: black, DotWidth: 3}
		}
		series = append(series, s)
	}

	ch := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Time [s]",
			Range: &chart.ContinuousRange{Min: 0, Max: xmax},
		},
		YAxis: chart.YAxis{
			Name:  "Light [%]",
			Range: &chart.ContinuousRange{Min: ymin, Max: ymax},
		},
		Series: series,
	}
	if c.Color {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("plot: render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("plot: decode chart: %w", err)
	}
	return img, nil
}

// Blank returns a plain image shown when a chart cannot be drawn
func Blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := color.RGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return img
}
