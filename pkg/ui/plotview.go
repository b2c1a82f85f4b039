package ui

import (
	"fmt"

	"fyne.io/fyne/v2"

	"github.com/intothevoid/lightcurve/pkg/lightcurve"
	"github.com/intothevoid/lightcurve/pkg/plot"
)

// PlotView renders light curves into a VideoDisplay
type PlotView struct {
	*VideoDisplay

	width, height int
}

// NewPlotView creates a plot area drawing charts of width x height pixels
func NewPlotView(width, height int) *PlotView {
	p := &PlotView{
		VideoDisplay: NewVideoDisplay(fyne.NewSize(float32(width)/2, float32(height)/2)),
		width:        width,
		height:       height,
	}
	p.image.Image = plot.Blank(width, height)
	return p
}

// Render implements [lightcurve.Renderer]. On failure a blank plot is shown
// and the error returned.
func (p *PlotView) Render(c lightcurve.Curve) error {
	img, err := plot.Render(c, p.width, p.height)
	if err != nil {
		p.UpdateFrame(plot.Blank(p.width, p.height))
		return err
	}
	p.UpdateFrame(plot.Caption(img, progressText(c)))
	return nil
}

// Reset shows an empty plot
func (p *PlotView) Reset() {
	p.UpdateFrame(plot.Blank(p.width, p.height))
}

func progressText(c lightcurve.Curve) string {
	n := len(c.Time)
	if n == 0 {
		return ""
	}
	if c.Filled >= n {
		return fmt.Sprintf("complete: %d samples", n)
	}
	return fmt.Sprintf("%d / %d", c.Filled, n)
}
