package loaders

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-mesh-pathtracer/pkg/material"
)

// LoadImage decodes a PNG, JPEG, BMP, TIFF or WebP file
func LoadImage(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Format is detected from the file header
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}
	return img, nil
}

// LoadTexture decodes an image file into a linear-space texture
func LoadTexture(filename string) (*material.Texture, error) {
	img, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	return material.NewTextureFromImage(img), nil
}

// LoadTextures decodes texture files concurrently, at most workers at a time
// (unbounded when workers <= 0). The result is parallel to filenames; the
// first failure cancels the remaining loads.
func LoadTextures(ctx context.Context, filenames []string, workers int) ([]*material.Texture, error) {
	textures := make([]*material.Texture, len(filenames))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, name := range filenames {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tex, err := LoadTexture(name)
			if err != nil {
				return err
			}
			textures[i] = tex
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return textures, nil
}
