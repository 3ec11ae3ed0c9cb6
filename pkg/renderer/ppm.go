package renderer

import (
	"bufio"
	"fmt"
	"io"
)

// WritePPM writes a row-major RGB buffer as a plain (P3) portable pixmap
func WritePPM(w io.Writer, width, height int, rgb []byte) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%dx%d: %w", width, height, ErrInvalidResolution)
	}
	if len(rgb) < width*height*3 {
		return fmt.Errorf("buffer holds %d bytes, need %d", len(rgb), width*height*3)
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			if _, err := fmt.Fprintf(bw, "%d %d %d ", rgb[i], rgb[i+1], rgb[i+2]); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
