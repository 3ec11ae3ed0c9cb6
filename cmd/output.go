package cmd

import (
	"bufio"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-mesh-pathtracer/pkg/renderer"
)

// saveImage writes the display buffer as a P3 PPM or a PNG, chosen by extension
func saveImage(p *renderer.Progressive, filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".ppm" && ext != ".png" {
		return fmt.Errorf("unsupported output format %q (use .ppm or .png)", filepath.Ext(filename))
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if ext == ".ppm" {
		err = renderer.WritePPM(w, p.Width(), p.Height(), p.Display())
	} else {
		err = png.Encode(w, p.Image())
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
