package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"lineclamp/internal/config"
	"lineclamp/pkg/clamp"
	"lineclamp/pkg/resource"
	"lineclamp/pkg/text"
)

func main() {
	width := flag.Float64("w", 800, "viewport width in pixels")
	height := flag.Float64("h", 600, "viewport height in pixels")
	selector := flag.String("s", "p", "CSS selector of the elements to clamp")
	target := flag.String("n", "", `line count, "auto", or a height such as 40px (default from profile)`)
	configPath := flag.String("config", "", "YAML profile")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: clampview [flags] <file|url>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	src := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profile: %v\n", err)
		os.Exit(1)
	}
	log, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	opts, err := cfg.Clamp.Merge(clamp.Config{Clamp: *target}).Options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// the native path finishes in a single frame, which defeats the viewer
	opts.PreferNativeClamp = false
	opts.Pacing = clamp.Pacing{Mode: clamp.PacingFrame, Interval: clamp.DefaultInterval}

	page, err := resource.Load(context.Background(), resource.NewFetcher(src), src, resource.PageOptions{
		Width:   *width,
		Height:  *height,
		Metrics: text.NewFontMetrics(cfg.Fonts),
		Log:     log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", src, err)
		os.Exit(1)
	}
	targets := page.QueryAll(*selector)
	if len(targets) == 0 {
		fmt.Fprintf(os.Stderr, "No element matches %q\n", *selector)
		os.Exit(1)
	}

	a := app.New()
	w := a.NewWindow("clampview: " + src)
	w.Resize(fyne.NewSize(float32(*width), float32(*height)+80))

	view := canvas.NewImageFromImage(page.Render().Image())
	view.FillMode = canvas.ImageFillOriginal
	status := widget.NewLabel(fmt.Sprintf("%d element(s) selected, press Clamp", len(targets)))

	repaint := func() {
		view.Image = page.Render().Image()
		view.Refresh()
	}

	frames := &frameQueue{}
	clamper := page.Clamper()
	clamper.SetFrameSource(frames)

	var button *widget.Button
	button = widget.NewButton("Clamp", func() {
		button.Disable()
		started := time.Now()
		runOpts := opts
		runOpts.OnComplete = afterAll(len(targets), func(lines int, heightPx float64) {
			status.SetText(fmt.Sprintf("done in %s: %d line(s), %.0fpx",
				time.Since(started).Round(time.Millisecond), lines, heightPx))
			button.Enable()
		})
		for _, el := range targets {
			if _, err := clamper.Start(context.Background(), el, runOpts); err != nil {
				status.SetText("Error: " + err.Error())
				button.Enable()
				return
			}
		}
		repaint()
	})

	go func() {
		ticker := time.NewTicker(clamp.DefaultInterval)
		defer ticker.Stop()
		for range ticker.C {
			fns := frames.take()
			if len(fns) == 0 {
				continue
			}
			fyne.Do(func() {
				for _, f := range fns {
					f()
				}
				repaint()
			})
		}
	}()

	top := container.NewHBox(button, status)
	w.SetContent(container.NewBorder(top, nil, nil, nil, view))
	w.ShowAndRun()
}
