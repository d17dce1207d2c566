package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

var (
	iconMu    sync.Mutex
	iconCache = map[string]*image.RGBA{}
)

// renderIcon builds an SVG in memory, rasterizes it and caches the result.
// The build function draws into an already started w×h canvas.
func renderIcon(key string, w, h int, build func(*svg.SVG)) *image.RGBA {
	iconMu.Lock()
	defer iconMu.Unlock()

	cacheKey := fmt.Sprintf("%s_%d_%d", key, w, h)
	if img, ok := iconCache[cacheKey]; ok {
		return img
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(w, h)
	build(canvas)
	canvas.End()

	icon, err := oksvg.ReadIconStream(bytes.NewReader(buf.Bytes()))
	if err != nil {
		// A generation bug must not take rendering down; draw nothing.
		log.Printf("render: icon %s svg parse error: %v", key, err)
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		iconCache[cacheKey] = img
		return img
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	iconCache[cacheKey] = img
	return img
}

// lockIcon is the splash logo: a padlock body with shackle.
func lockIcon(w, h int) *image.RGBA {
	return renderIcon("lock", w, h, func(c *svg.SVG) {
		bodyW := w * 3 / 4
		bodyH := h / 2
		bodyX := (w - bodyW) / 2
		bodyY := h - bodyH - h/10
		c.Roundrect(bodyX, bodyY, bodyW, bodyH, 4, 4, "fill:#00ff00")
		c.Circle(w/2, bodyY, w/4, "fill:none;stroke:#00ff00;stroke-width:6")
		c.Circle(w/2, bodyY+bodyH/2, 5, "fill:#000000")
	})
}

// cameraIcon marks the unavailable-camera placeholder.
func cameraIcon(w, h int) *image.RGBA {
	return renderIcon("camera", w, h, func(c *svg.SVG) {
		c.Roundrect(0, h/5, w, h*3/5, 3, 3, "fill:#808080")
		c.Circle(w/2, h/2, h/5, "fill:#202020")
	})
}

// blitImage alpha-composites src onto dst at (x0, y0), clipping to dst
// bounds.
func blitImage(dst *image.RGBA, src *image.RGBA, x0, y0 int) {
	if dst == nil || src == nil {
		return
	}
	b := src.Bounds()
	target := image.Rect(x0, y0, x0+b.Dx(), y0+b.Dy())
	draw.Draw(dst, target.Intersect(dst.Bounds()), src, b.Min, draw.Over)
}

// scaleNearest resizes src to w×h with nearest-neighbor sampling. Used for
// QR and camera frames where smoothing would hurt legibility.
func scaleNearest(src image.Image, w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 {
		return out
	}
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return out
	}
	for y := 0; y < h; y++ {
		sy := sb.Min.Y + y*sb.Dy()/h
		for x := 0; x < w; x++ {
			sx := sb.Min.X + x*sb.Dx()/w
			r, g, b, a := src.At(sx, sy).RGBA()
			out.SetRGBA(x, y, color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)})
		}
	}
	return out
}
