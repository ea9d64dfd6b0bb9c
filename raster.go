package memoryposter

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Blurs wider than this run on a downscaled copy; imaging.Blur is a direct
// convolution and its cost grows with sigma.
const maxDirectSigma = 6.0

// gaussianBlur blurs img with standard deviation sigma (pixels).
func gaussianBlur(img image.Image, sigma float64) *image.NRGBA {
	if sigma <= 0 {
		return imaging.Clone(img)
	}
	if sigma <= maxDirectSigma {
		return imaging.Blur(img, sigma)
	}
	b := img.Bounds()
	f := sigma / maxDirectSigma
	w := max(1, int(float64(b.Dx())/f+0.5))
	h := max(1, int(float64(b.Dy())/f+0.5))
	small := imaging.Resize(img, w, h, imaging.Box)
	small = imaging.Blur(small, sigma*float64(w)/float64(b.Dx()))
	return imaging.Resize(small, b.Dx(), b.Dy(), imaging.Linear)
}

// blend returns a*(1-alpha) + b*alpha for two opaque images of equal size.
func blend(a, b image.Image, alpha float64) *image.NRGBA {
	return imaging.Overlay(a, b, image.Point{}, alpha)
}

// composite draws overlay onto base using the overlay's own alpha.
func composite(base, overlay image.Image) *image.NRGBA {
	return imaging.Overlay(base, overlay, image.Point{}, 1)
}

// flat returns an opaque w*h image filled with c.
func flat(w, h int, c color.NRGBA) *image.NRGBA {
	c.A = 255
	return imaging.New(w, h, c)
}

// brighten multiplies every channel by f, clamped to [0,255].
func brighten(img image.Image, f float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.R = clampChannel(float64(c.R) * f)
		c.G = clampChannel(float64(c.G) * f)
		c.B = clampChannel(float64(c.B) * f)
		return c
	})
}

// kappa places cubic Bezier control points for a quarter ellipse.
const kappa = 0.5522847498

// fillEllipse paints an anti-aliased ellipse centered at (cx, cy) over dst.
func fillEllipse(dst *image.RGBA, cx, cy, rx, ry float64, c color.NRGBA) {
	r := image.Rect(int(cx-rx)-1, int(cy-ry)-1, int(cx+rx)+2, int(cy+ry)+2).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = draw.Over
	x, y := float32(cx)-float32(r.Min.X), float32(cy)-float32(r.Min.Y)
	a, b := float32(rx), float32(ry)
	ka, kb := float32(kappa)*a, float32(kappa)*b
	z.MoveTo(x+a, y)
	z.CubeTo(x+a, y+kb, x+ka, y+b, x, y+b)
	z.CubeTo(x-ka, y+b, x-a, y+kb, x-a, y)
	z.CubeTo(x-a, y-kb, x-ka, y-b, x, y-b)
	z.CubeTo(x+ka, y-b, x+a, y-kb, x+a, y)
	z.ClosePath()
	z.Draw(dst, r, image.NewUniform(c), image.Point{})
}

// fillRect paints an anti-aliased axis-aligned rectangle over dst.
func fillRect(dst *image.RGBA, x0, y0, x1, y1 float64, c color.NRGBA) {
	r := image.Rect(int(x0)-1, int(y0)-1, int(x1)+2, int(y1)+2).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = draw.Over
	ox, oy := float32(r.Min.X), float32(r.Min.Y)
	z.MoveTo(float32(x0)-ox, float32(y0)-oy)
	z.LineTo(float32(x1)-ox, float32(y0)-oy)
	z.LineTo(float32(x1)-ox, float32(y1)-oy)
	z.LineTo(float32(x0)-ox, float32(y1)-oy)
	z.ClosePath()
	z.Draw(dst, r, image.NewUniform(c), image.Point{})
}

func clampChannel(v float64) uint8 {
	if v >= 255 {
		return 255
	}
	if v <= 0 {
		return 0
	}
	return uint8(v)
}
