package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/df07/go-mesh-pathtracer/pkg/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// RenderFrame renders a fixed number of progressive frames and saves the result
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	s, err := loadScene(ctx)
	if err != nil {
		return err
	}

	p, err := renderer.NewProgressive(s, ctx.Int("width"), ctx.Int("height"), progressiveConfig(ctx), logger)
	if err != nil {
		return err
	}
	defer p.Close()

	spp := ctx.Int("spp")
	if spp < 1 {
		return fmt.Errorf("spp must be at least 1, got %d", spp)
	}

	// Interrupt stops after the current frame and keeps what was rendered
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	frames, errs := p.RenderProgressive(sigCtx, cameraParams(ctx), spp)

	var history []renderer.FrameStats
	for frame := range frames {
		history = append(history, frame.Stats)
		if frame.Frame%10 == 0 || frame.IsLast {
			logger.Infof("frame %d/%d (%v)", frame.Frame, spp, frame.Stats.Duration)
		}
	}
	if err := <-errs; err != nil {
		logger.Warningf("rendering stopped early: %v", err)
	}

	if len(history) == 0 {
		return fmt.Errorf("no frames rendered")
	}

	out := ctx.String("out")
	if err := saveImage(p, out); err != nil {
		return err
	}

	displayFrameStats(history, time.Since(start))
	logger.Infof("average luminance %.3f", renderer.CalculateAverageLuminance(p.Image()))
	logger.Noticef("saved %d samples per pixel to %s", p.SampleCount(), out)
	return nil
}

// displayFrameStats summarizes the first frames and the totals
func displayFrameStats(history []renderer.FrameStats, total time.Duration) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frame", "Stride", "Rows", "Pixels", "Rays/s", "Render time"})

	var rays int
	for i, stat := range history {
		rays += stat.Rays
		// Every coarse frame, then a sample of the rest
		if stat.Stride == 1 && i != len(history)-1 && (stat.Frame%25) != 0 {
			continue
		}
		table.Append([]string{
			fmt.Sprintf("%d", stat.Frame),
			fmt.Sprintf("%d", stat.Stride),
			fmt.Sprintf("%d", stat.Rows),
			fmt.Sprintf("%d", stat.PixelsSampled),
			fmt.Sprintf("%.0f", stat.RaysPerSecond()),
			stat.Duration.String(),
		})
	}

	raysPerSecond := 0.0
	if total > 0 {
		raysPerSecond = float64(rays) / total.Seconds()
	}
	table.SetFooter([]string{"", "", "", "TOTAL", fmt.Sprintf("%.0f", raysPerSecond), total.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
