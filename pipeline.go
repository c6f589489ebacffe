package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"coolerdash/config"
	"coolerdash/coolercontrol"
	"coolerdash/display"
	"coolerdash/sensors"

	"github.com/dustin/go-humanize"
)

// pipeline ties one refresh tick together: sample the sensors, decide via
// the change gate whether the panel content moved, render the PNG, and push
// it to the LCD. Upload and sampling are injected so tests can run the whole
// path against fakes.
type pipeline struct {
	cfg      *config.Config
	gate     *display.Gate
	composer *display.Composer
	sample   func() sensors.Snapshot
	upload   func(ctx context.Context, imagePath string) error
	logger   *log.Logger

	renders       uint64
	skipped       uint64
	uploads       uint64
	uploadErrors  uint64
	uploadedBytes uint64
}

// Purpose: Run one sample/render/upload cycle.
// Key aspects: Skips rendering when temperatures moved less than the
// tolerance; sends every rendered image UploadRepeatCount times regardless
// of individual outcomes.
// Upstream: main refresh loop.
// Downstream: display.Gate, display.Composer, session upload.
func (p *pipeline) Tick(ctx context.Context) error {
	snap := p.sample()
	if !p.gate.ShouldUpdate(snap, p.cfg.Cache.ChangeToleranceTemp) {
		p.skipped++
		return nil
	}
	if err := p.composer.Render(snap); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	p.renders++
	return p.push(ctx, p.cfg.Paths.ImagePath)
}

// Purpose: Send an image to the LCD the configured number of times.
// Key aspects: Every attempt is made even when an earlier one failed; the
// first error is reported after all attempts ran.
// Upstream: Tick and the shutdown image send.
// Downstream: session upload.
func (p *pipeline) push(ctx context.Context, imagePath string) error {
	var imageSize uint64
	if info, err := os.Stat(imagePath); err == nil {
		imageSize = uint64(info.Size())
	}
	var firstErr error
	for i := 0; i < coolercontrol.UploadRepeatCount; i++ {
		if err := p.upload(ctx, imagePath); err != nil {
			p.uploadErrors++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		p.uploads++
		p.uploadedBytes += imageSize
	}
	return firstErr
}

// Purpose: Replace the dashboard with the static shutdown image.
// Key aspects: A missing shutdown image is not an error; the LCD just keeps
// the last frame.
// Upstream: main shutdown path.
// Downstream: push.
func (p *pipeline) SendShutdownImage(ctx context.Context) error {
	path := p.cfg.Paths.ShutdownImage
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		p.logger.Printf("Shutdown image %s not found, leaving last frame on LCD", path)
		return nil
	}
	return p.push(ctx, path)
}

// Stats summarizes pipeline activity for the periodic status line.
func (p *pipeline) Stats() string {
	last := p.gate.Last()
	return fmt.Sprintf("cpu=%.1f°C gpu=%.1f°C coolant=%.1f°C renders=%d skipped=%d uploads=%d upload_errors=%d sent=%s",
		last.CPUTemp, last.GPUTemp, last.CoolantTemp,
		p.renders, p.skipped, p.uploads, p.uploadErrors, humanize.Bytes(p.uploadedBytes))
}
