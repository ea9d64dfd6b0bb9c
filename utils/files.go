package utils

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	mp "github.com/setanarut/memoryposter"
)

func ReadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", path, err)
	}
	return img, nil
}

// SaveImage writes img to filename; the format follows the extension.
func SaveImage(img image.Image, filename string) error {
	if err := imaging.Save(img, filename); err != nil {
		return fmt.Errorf("save image %s: %w", filename, err)
	}
	return nil
}

// SaveStages writes every layer snapshot to dir as NN_name.png.
func SaveStages(stages []mp.Stage, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, s := range stages {
		if err := SaveImage(s.Image, filepath.Join(dir, fmt.Sprintf("%02d_%s.png", i, s.Name))); err != nil {
			return err
		}
	}
	return nil
}

// SavePalette writes a strip of tileSize squares, one per color.
func SavePalette(p mp.Palette, tileSize int, filename string) error {
	if len(p) == 0 {
		return errors.New("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}
	strip := imaging.New(tileSize*len(p), tileSize, color.NRGBA{A: 255})
	for i, c := range p {
		r, g, b := c.Clamped().RGB255()
		tile := imaging.New(tileSize, tileSize, color.NRGBA{R: r, G: g, B: b, A: 255})
		strip = imaging.Paste(strip, tile, image.Pt(i*tileSize, 0))
	}
	return SaveImage(strip, filename)
}
