package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/intothevoid/lightcurve/pkg/lightcurve"
)

// ControlPanel holds the run inputs and the Start/Stop/Clear/Quit buttons.
// Its methods must be called on the UI goroutine.
type ControlPanel struct {
	widget.BaseWidget

	seconds     *widget.Entry
	fps         *widget.Entry
	radius      *widget.Slider
	radiusLabel *widget.Label
	color       *widget.Check
	start       *widget.Button
	stop        *widget.Button
	clear       *widget.Button
	quit        *widget.Button
	status      *widget.Label

	root *fyne.Container

	// OnStart receives the parameters read from the inputs
	OnStart func(lightcurve.Params)
	OnStop  func()
	OnClear func()
	OnQuit  func()
	// OnPreviewChanged fires when an input that affects the live preview
	// changes outside a run
	OnPreviewChanged func(radius int, color bool, fps float64)
}

// NewControlPanel creates the panel seeded with defaults. The radius slider
// spans 0..maxRadius.
func NewControlPanel(defaults lightcurve.Params, maxRadius int) *ControlPanel {
	c := &ControlPanel{}
	c.ExtendBaseWidget(c)

	c.seconds = widget.NewEntry()
	c.seconds.SetText(strconv.Itoa(int(defaults.Duration.Seconds())))

	c.fps = widget.NewEntry()
	c.fps.SetText(strconv.FormatFloat(defaults.Rate, 'f', -1, 64))
	c.fps.OnChanged = func(string) { c.previewChanged() }

	c.radiusLabel = widget.NewLabel("")
	c.radius = widget.NewSlider(0, float64(maxRadius))
	c.radius.Step = 1
	c.radius.SetValue(float64(defaults.Radius))
	c.radius.OnChanged = func(v float64) {
		c.radiusLabel.SetText(fmt.Sprintf("%d px", int(v)))
		c.previewChanged()
	}
	c.radiusLabel.SetText(fmt.Sprintf("%d px", defaults.Radius))

	c.color = widget.NewCheck("Colors", func(bool) { c.previewChanged() })
	c.color.SetChecked(defaults.Color)

	c.status = widget.NewLabel("Ready")

	c.start = widget.NewButton("Start", c.tapStart)
	c.stop = widget.NewButton("Stop", func() {
		if c.OnStop != nil {
			c.OnStop()
		}
	})
	c.clear = widget.NewButton("Clear", func() {
		if c.OnClear != nil {
			c.OnClear()
		}
	})
	c.quit = widget.NewButton("Quit", func() {
		if c.OnQuit != nil {
			c.OnQuit()
		}
	})

	form := container.New(layout.NewFormLayout(),
		widget.NewLabel("Seconds"), c.seconds,
		widget.NewLabel("FPS"), c.fps,
		widget.NewLabel("Radius"), container.NewBorder(nil, nil, nil, c.radiusLabel, c.radius),
	)
	buttons := container.NewGridWithColumns(4, c.start, c.stop, c.clear, c.quit)
	c.root = container.NewVBox(form, c.color, buttons, c.status)

	c.SetIdle()
	return c
}

func (c *ControlPanel) tapStart() {
	p, err := c.Params()
	if err != nil {
		c.SetStatus(err.Error())
		return
	}
	if c.OnStart != nil {
		c.OnStart(p)
	}
}

func (c *ControlPanel) previewChanged() {
	if c.OnPreviewChanged == nil || c.radius == nil || c.color == nil {
		return
	}
	fps, err := strconv.ParseFloat(strings.TrimSpace(c.fps.Text), 64)
	if err != nil || fps <= 0 {
		return
	}
	c.OnPreviewChanged(int(c.radius.Value), c.color.Checked, fps)
}

// Params reads the inputs into run parameters
func (c *ControlPanel) Params() (lightcurve.Params, error) {
	return ParseParams(c.seconds.Text, c.fps.Text, c.radius.Value, c.color.Checked)
}

// longest duration a time.Duration can hold
var maxSeconds = time.Duration(math.MaxInt64).Seconds()

// ParseParams converts raw input values into validated run parameters
func ParseParams(seconds, fps string, radius float64, color bool) (lightcurve.Params, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(seconds), 64)
	if err != nil || math.IsNaN(secs) {
		return lightcurve.Params{}, fmt.Errorf("seconds: %q is not a number", seconds)
	}
	if secs > maxSeconds {
		return lightcurve.Params{}, fmt.Errorf("%w: %q seconds is too long", lightcurve.ErrInvalidParams, seconds)
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(fps), 64)
	if err != nil {
		return lightcurve.Params{}, fmt.Errorf("fps: %q is not a number", fps)
	}
	p := lightcurve.Params{
		Duration: time.Duration(secs * float64(time.Second)),
		Rate:     rate,
		Radius:   int(math.Round(radius)),
		Color:    color,
	}
	if err := p.Validate(); err != nil {
		return lightcurve.Params{}, err
	}
	return p, nil
}

func (c *ControlPanel) setInputsEnabled(enabled bool) {
	for _, w := range []fyne.Disableable{c.seconds, c.fps, c.radius, c.color} {
		if enabled {
			w.Enable()
		} else {
			w.Disable()
		}
	}
}

// SetIdle enables the inputs and Start
func (c *ControlPanel) SetIdle() {
	c.setInputsEnabled(true)
	c.start.Enable()
	c.stop.Disable()
	c.clear.Disable()
	c.SetStatus("Ready")
}

// SetRunning locks the inputs while a run is in progress
func (c *ControlPanel) SetRunning() {
	c.setInputsEnabled(false)
	c.start.Disable()
	c.stop.Enable()
	c.clear.Disable()
}

// SetFinished leaves the inputs locked and offers Clear
func (c *ControlPanel) SetFinished(status string) {
	c.setInputsEnabled(false)
	c.start.Disable()
	c.stop.Disable()
	c.clear.Enable()
	c.SetStatus(status)
}

// SetCountdown shows the time left in the run
func (c *ControlPanel) SetCountdown(left time.Duration) {
	c.SetStatus(fmt.Sprintf("%.0f s left", math.Ceil(left.Seconds())))
}

// SetStatus shows a one-line message below the buttons
func (c *ControlPanel) SetStatus(text string) {
	c.status.SetText(text)
}

// CreateRenderer implements [fyne.Widget].
func (c *ControlPanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.root)
}
