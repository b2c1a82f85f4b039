package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"github.com/intothevoid/lightcurve/internal/config"
	"github.com/intothevoid/lightcurve/internal/log"
	"github.com/intothevoid/lightcurve/pkg/camera"
	"github.com/intothevoid/lightcurve/pkg/lightcurve"
	"github.com/intothevoid/lightcurve/pkg/simulator"
	"github.com/intothevoid/lightcurve/pkg/ui"
	"github.com/intothevoid/lightcurve/pkg/vision"
)

// frameSource is a camera the app owns for its whole lifetime
type frameSource interface {
	Frame() (image.Image, error)
	Close()
}

// aperture is the mask used by the live preview between runs
type aperture struct {
	mu     sync.Mutex
	radius int
	color  bool
}

func (a *aperture) set(radius int, color bool) {
	a.mu.Lock()
	a.radius, a.color = radius, color
	a.mu.Unlock()
}

func (a *aperture) get() (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.radius, a.color
}

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	device := flag.Int("device", -1, "camera device id (overrides config)")
	synthetic := flag.Bool("synthetic", false, "use a simulated star instead of a webcam")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *device >= 0 {
		cfg.Camera.Device = *device
	}
	if *synthetic {
		cfg.Camera.Synthetic = true
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	log.Init(cfg.Log.Level)

	// 1. Initialize the Camera
	src, width, height, err := openSource(cfg.Camera)
	if err != nil {
		log.Error("could not open camera", "device", cfg.Camera.Device, "err", err)
		os.Exit(1)
	}
	defer src.Close()
	log.Info("camera ready", "device", cfg.Camera.Device, "synthetic", cfg.Camera.Synthetic, "width", width, "height", height)

	// 2. Setup the Fyne UI App
	myApp := app.New()
	window := myApp.NewWindow("LightCurve Demo")

	// 3. Create display widgets
	preview := ui.NewVideoDisplay(fyne.NewSize(320, 240)) // Masked camera feed
	plotView := ui.NewPlotView(900, 520)                 // Light curve
	controls := ui.NewControlPanel(cfg.Run.Params(), min(width, height)/2)

	ap := &aperture{radius: cfg.Run.Radius, color: cfg.Run.Color}

	var runner *lightcurve.Runner
	runner = lightcurve.NewRunner(src, plotView, lightcurve.NewTickerTimer(),
		lightcurve.WithLogger(log.With("component", "runner")),
		lightcurve.WithPreview(func(f *vision.Frame) {
			preview.UpdateFrame(f.Image())
		}),
		lightcurve.WithProgress(func(tick, n int) {
			left := runner.Remaining()
			fyne.Do(func() { controls.SetCountdown(left) })
		}),
		lightcurve.WithOnComplete(func(c lightcurve.Curve) {
			fyne.Do(func() { controls.SetFinished(fmt.Sprintf("Complete: %d samples", c.Filled)) })
		}),
		lightcurve.WithOnError(func(err error) {
			fyne.Do(func() { controls.SetStatus(err.Error()) })
		}),
	)

	// 4. The preview loop keeps the masked feed live between runs. During a
	// run the runner feeds the preview from the frames it samples.
	previewTimer := lightcurve.NewTickerTimer()
	previewTick := func() {
		if runner.State() == lightcurve.Running {
			return
		}
		img, err := src.Frame()
		if err != nil {
			log.Debug("preview frame skipped", "err", err)
			return
		}
		radius, color := ap.get()
		preview.UpdateFrame(vision.Mask(img, radius, color).Image())
	}
	previewRate := cfg.Run.FPS
	previewTimer.Start(lightcurve.Params{Rate: previewRate}.Period(), previewTick)

	controls.OnPreviewChanged = func(radius int, color bool, fps float64) {
		ap.set(radius, color)
		if fps != previewRate {
			previewRate = fps
			previewTimer.Start(lightcurve.Params{Rate: fps}.Period(), previewTick)
		}
	}
	controls.OnStart = func(p lightcurve.Params) {
		if err := runner.Start(p); err != nil {
			controls.SetStatus(err.Error())
			return
		}
		controls.SetRunning()
		controls.SetCountdown(p.Duration)
	}
	controls.OnStop = func() {
		runner.Stop()
		controls.SetFinished("Stopped")
	}
	controls.OnClear = func() {
		runner.Clear()
		plotView.Reset()
		controls.SetIdle()
	}
	controls.OnQuit = func() {
		myApp.Quit()
	}

	// 5. Layout and Run
	left := container.NewVBox(preview, controls)
	mainLayout := container.NewHSplit(left, plotView)
	mainLayout.Offset = 0.35

	window.SetContent(mainLayout)
	window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	window.ShowAndRun()

	runner.Clear()
	previewTimer.Stop()
	log.Info("shutting down")
}

// openSource opens the configured camera and reports its frame size
func openSource(cfg config.CameraConfig) (frameSource, int, int, error) {
	if cfg.Synthetic {
		s := simulator.NewSource()
		if cfg.Width > 0 && cfg.Height > 0 {
			s.Width, s.Height = cfg.Width, cfg.Height
			s.Radius = min(cfg.Width, cfg.Height) / 4
		}
		return s, s.Width, s.Height, nil
	}

	stream, err := camera.NewVideoStream(cfg.Device, cfg.Width, cfg.Height)
	if err != nil {
		return nil, 0, 0, err
	}
	w, h := stream.Size()
	return stream, w, h, nil
}
