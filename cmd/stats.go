package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/df07/go-mesh-pathtracer/pkg/geometry"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// SceneStats builds the scene and reports its BVH
func SceneStats(ctx *cli.Context) error {
	setupLogging(ctx)

	start := time.Now()
	s, err := loadScene(ctx)
	if err != nil {
		return err
	}
	displaySceneStats(s, s.BVH.Stats(), time.Since(start))
	return nil
}

func displaySceneStats(s *scene.Scene, stats geometry.BVHStats, buildTime time.Duration) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Statistic", "Value"})
	table.AppendBulk([][]string{
		{"Vertices", fmt.Sprintf("%d", len(s.Vertices))},
		{"Triangles", fmt.Sprintf("%d", s.TriangleCount())},
		{"Textures", fmt.Sprintf("%d", len(s.Textures))},
		{"BVH nodes", fmt.Sprintf("%d", stats.TotalNodes)},
		{"BVH leaves", fmt.Sprintf("%d", stats.LeafNodes)},
		{"Max depth", fmt.Sprintf("%d", stats.MaxDepth)},
		{"Avg leaf depth", fmt.Sprintf("%.2f", stats.AvgDepth)},
		{"Load + build time", buildTime.String()},
	})
	if s.BVH.HasRoot() {
		bounds := s.BVH.Bounds()
		table.Append([]string{"Bounds", fmt.Sprintf("%.3v - %.3v", bounds.Min, bounds.Max)})
	}

	table.Render()
	logger.Noticef("scene statistics\n%s", buf.String())
}

// ListScenes prints the built-in scenes
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Name", "Scene", "Description"})
	for _, info := range scene.ListBuiltinScenes() {
		table.Append([]string{info.Name, info.DisplayName, info.Description})
	}
	table.Render()
	logger.Noticef("built-in scenes\n%s", buf.String())
	return nil
}
