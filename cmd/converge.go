package cmd

import (
	"bytes"
	"fmt"
	"math"

	"github.com/df07/go-mesh-pathtracer/pkg/renderer"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// convergencePoint is the mean per-channel display variance across runs at
// a sample count
type convergencePoint struct {
	Samples  int
	Variance float64
}

// Converge renders the scene several times with distinct seeds and plots how
// the spread between runs shrinks with the sample count
func Converge(ctx *cli.Context) error {
	setupLogging(ctx)

	runs := ctx.Int("runs")
	maxSPP := ctx.Int("spp")
	if runs < 2 {
		return fmt.Errorf("need at least 2 runs to measure variance, got %d", runs)
	}
	if maxSPP < 1 {
		return fmt.Errorf("spp must be at least 1, got %d", maxSPP)
	}

	s, err := loadScene(ctx)
	if err != nil {
		return err
	}

	checkpoints := sampleCheckpoints(maxSPP)
	config := progressiveConfig(ctx)
	snapshots, err := renderRuns(s, ctx.Int("width"), ctx.Int("height"), config, cameraParams(ctx), runs, checkpoints)
	if err != nil {
		return err
	}

	points := make([]convergencePoint, len(checkpoints))
	for i, spp := range checkpoints {
		points[i] = convergencePoint{Samples: spp, Variance: displayVariance(snapshots[i])}
	}

	displayConvergence(points)

	out := ctx.String("out")
	if err := plotConvergence(points, out); err != nil {
		return err
	}
	logger.Noticef("convergence plot written to %s", out)
	return nil
}

// sampleCheckpoints returns 1, 2, 4, ... up to and including maxSPP
func sampleCheckpoints(maxSPP int) []int {
	var checkpoints []int
	for spp := 1; spp < maxSPP; spp *= 2 {
		checkpoints = append(checkpoints, spp)
	}
	return append(checkpoints, maxSPP)
}

// renderRuns returns snapshots[checkpoint][run] copies of the display buffer
func renderRuns(s *scene.Scene, width, height int, config renderer.ProgressiveConfig, params renderer.CameraParams, runs int, checkpoints []int) ([][][]byte, error) {
	snapshots := make([][][]byte, len(checkpoints))
	baseSeed := config.Seed

	for run := 0; run < runs; run++ {
		config.Seed = baseSeed + uint32(run)*7919
		p, err := renderer.NewProgressive(s, width, height, config, logger)
		if err != nil {
			return nil, err
		}

		next := 0
		for next < len(checkpoints) {
			p.RenderFrame(params)
			if p.SampleCount() == checkpoints[next] {
				snapshots[next] = append(snapshots[next], bytes.Clone(p.Display()))
				next++
			}
		}
		p.Close()
		logger.Infof("run %d/%d done", run+1, runs)
	}
	return snapshots, nil
}

// displayVariance is the per-channel sample variance across buffers,
// averaged over all channels
func displayVariance(buffers [][]byte) float64 {
	if len(buffers) < 2 || len(buffers[0]) == 0 {
		return 0
	}

	n := float64(len(buffers))
	total := 0.0
	for i := range buffers[0] {
		sum, sumSq := 0.0, 0.0
		for _, buf := range buffers {
			v := float64(buf[i])
			sum += v
			sumSq += v * v
		}
		mean := sum / n
		total += math.Max(sumSq/n-mean*mean, 0) * n / (n - 1)
	}
	return total / float64(len(buffers[0]))
}

func displayConvergence(points []convergencePoint) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Samples", "Variance", "Std dev"})
	for _, pt := range points {
		table.Append([]string{
			fmt.Sprintf("%d", pt.Samples),
			fmt.Sprintf("%.3f", pt.Variance),
			fmt.Sprintf("%.3f", math.Sqrt(pt.Variance)),
		})
	}
	table.Render()
	logger.Noticef("convergence\n%s", buf.String())
}

// plotConvergence draws variance against samples on log-log axes
func plotConvergence(points []convergencePoint, filename string) error {
	p := plot.New()
	p.Title.Text = "Display variance between runs"
	p.X.Label.Text = "Samples per pixel"
	p.Y.Label.Text = "Variance (8-bit)"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, 0, len(points))
	for _, pt := range points {
		// Log axes cannot show zero
		if pt.Variance <= 0 {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(pt.Samples), Y: pt.Variance})
	}
	if len(xys) > 0 {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

		line, scatter, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("failed to build plot: %w", err)
		}
		p.Add(line, scatter)
		p.Legend.Add("variance", line, scatter)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
