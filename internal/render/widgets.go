package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/llgcode/draw2d/draw2dimg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/mankin3n/cryptowallet-ST7789/internal/nav"
)

//---------------- Drawing primitives ----------------

// drawText draws a string onto an *image.RGBA at (x,y) using the specified
// font face and color. posY is the top of the text area, not the baseline.
func drawText(img *image.RGBA, text string, posX, posY int, face font.Face, clr color.Color, center bool) (finishX, finishY int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: face,
	}

	metrics := face.Metrics()

	x := posX
	if center {
		textWidth := d.MeasureString(text).Round()
		x = posX - textWidth/2
	}
	y := posY + metrics.Ascent.Round()

	d.Dot = fixed.P(x, y)
	d.DrawString(text)

	textWidth := d.MeasureString(text).Round()
	textHeight := metrics.Ascent.Round() + metrics.Descent.Round()

	return x + textWidth, posY + textHeight
}

// measureText returns the pixel width of text in the given face.
func measureText(text string, face font.Face) int {
	d := &font.Drawer{Face: face}
	return d.MeasureString(text).Round()
}

// drawWrappedText word-wraps text into maxWidth and returns the total
// height drawn. Lines that still exceed maxWidth as a single word are drawn
// as-is; the canvas clips them.
func drawWrappedText(img *image.RGBA, text string, x, y, maxWidth int, face font.Face, clr color.Color) int {
	if maxWidth <= 0 {
		drawText(img, text, x, y, face, clr, false)
		metrics := face.Metrics()
		return metrics.Ascent.Round() + metrics.Descent.Round()
	}

	var lines []string
	var current []string
	for _, word := range strings.Fields(text) {
		test := strings.Join(append(current, word), " ")
		if measureText(test, face) <= maxWidth {
			current = append(current, word)
			continue
		}
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
		}
		current = []string{word}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}

	const lineHeight = 18
	for i, line := range lines {
		drawText(img, line, x, y+i*lineHeight, face, clr, false)
	}
	return len(lines) * lineHeight
}

func drawRect(img *image.RGBA, x0, y0, width, height int, c color.Color) {
	r, g, b, a := c.RGBA()
	col := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}

	bounds := img.Bounds()
	for x := x0; x < x0+width; x++ {
		for y := y0; y < y0+height; y++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			img.SetRGBA(x, y, col)
		}
	}
}

func drawRectOutline(img *image.RGBA, x0, y0, width, height int, c color.Color) {
	drawRect(img, x0, y0, width, 1, c)
	drawRect(img, x0, y0+height-1, width, 1, c)
	drawRect(img, x0, y0, 1, height, c)
	drawRect(img, x0+width-1, y0, 1, height, c)
}

// drawRoundedRect fills a rounded rectangle using draw2d, for dialog and
// button chrome.
func drawRoundedRect(img *image.RGBA, x, y, w, h, r float64, fill color.Color) {
	gc := draw2dimg.NewGraphicContext(img)
	gc.SetFillColor(fill)
	gc.MoveTo(x+r, y)
	gc.LineTo(x+w-r, y)
	gc.ArcTo(x+w-r, y+r, r, r, -math.Pi/2, math.Pi/2)
	gc.LineTo(x+w, y+h-r)
	gc.ArcTo(x+w-r, y+h-r, r, r, 0, math.Pi/2)
	gc.LineTo(x+r, y+h)
	gc.ArcTo(x+r, y+h-r, r, r, math.Pi/2, math.Pi/2)
	gc.LineTo(x, y+r)
	gc.ArcTo(x+r, y+r, r, r, math.Pi, math.Pi/2)
	gc.Close()
	gc.Fill()
}

func fillCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= radius*radius {
				px, py := cx+x, cy+y
				if image.Pt(px, py).In(img.Bounds()) {
					img.SetRGBA(px, py, c)
				}
			}
		}
	}
}

func clearFrame(frame *image.RGBA, bg color.RGBA) {
	for i := 0; i < len(frame.Pix); i += 4 {
		frame.Pix[i] = bg.R
		frame.Pix[i+1] = bg.G
		frame.Pix[i+2] = bg.B
		frame.Pix[i+3] = 255
	}
}

//---------------- Composite widgets ----------------

func drawHeader(img *image.RGBA, th *Theme, title string) {
	drawRect(img, 0, 0, nav.CanvasWidth, nav.HeaderHeight, th.DarkGray)
	drawRectOutline(img, 0, 0, nav.CanvasWidth, nav.HeaderHeight, th.LightGray)
	drawText(img, title, marginSide, marginTop+3, th.Header, th.White, false)
}

func drawStatusBar(img *image.RGBA, th *Theme, hint string) {
	y0 := nav.CanvasHeight - nav.StatusBarHeight
	drawRect(img, 0, y0, nav.CanvasWidth, nav.StatusBarHeight, th.DarkGray)
	drawRectOutline(img, 0, y0, nav.CanvasWidth, nav.StatusBarHeight, th.LightGray)
	if hint != "" {
		drawText(img, hint, marginSide, y0+8, th.Hint, th.Gray, false)
	}
}

func drawMenuItem(img *image.RGBA, th *Theme, text string, y int, selected bool) {
	const itemHeight = 30
	width := nav.CanvasWidth - 2*marginSide

	if selected {
		drawRect(img, marginSide, y, width, itemHeight, th.DarkGreen)
		drawText(img, ">", marginSide+5, y+7, th.Menu, th.Green, false)
	}
	drawText(img, text, marginSide+25, y+7, th.Menu, th.White, false)
}

func drawButton(img *image.RGBA, th *Theme, text string, x, y int, selected bool) {
	const padding = 10
	textWidth := measureText(text, th.Body)
	metrics := th.Body.Metrics()
	textHeight := metrics.Ascent.Round() + metrics.Descent.Round()

	w := textWidth + 2*padding
	h := textHeight + 2*padding

	bg := th.DarkGray
	fg := th.White
	if selected {
		bg = th.Green
		fg = th.Black
	}
	drawRoundedRect(img, float64(x), float64(y), float64(w), float64(h), 4, bg)
	drawRectOutline(img, x, y, w, h, th.LightGray)
	drawText(img, text, x+padding, y+padding, th.Body, fg, false)
}

func drawSlider(img *image.RGBA, th *Theme, value, minVal, maxVal, x, y, width int) {
	const height = 20

	drawRect(img, x, y, width, height, th.DarkGray)
	drawRectOutline(img, x, y, width, height, th.LightGray)

	// Guard the divide; a degenerate range draws an empty track.
	if maxVal > minVal {
		v := value
		if v < minVal {
			v = minVal
		}
		if v > maxVal {
			v = maxVal
		}
		fillWidth := (v - minVal) * width / (maxVal - minVal)
		drawRect(img, x, y, fillWidth, height, th.Green)
	}

	drawText(img, fmt.Sprintf("%d", value), x+width+10, y+2, th.Body, th.White, false)
}

func drawProgressBar(img *image.RGBA, th *Theme, progress float64, x, y, width int) {
	const height = 20

	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	drawRect(img, x, y, width, height, th.DarkGray)
	drawRectOutline(img, x, y, width, height, th.LightGray)
	drawRect(img, x, y, int(float64(width)*progress), height, th.Cyan)
	drawText(img, fmt.Sprintf("%d%%", int(progress*100)), x+width/2-15, y+2, th.Body, th.White, false)
}

// drawSpinner draws the segment ring for the given frame. frameCount comes
// from the animation table; the frame index is wrapped again here so an
// out-of-range value cannot index past the ring.
func drawSpinner(img *image.RGBA, cx, cy, frame, frameCount int) {
	const radius = 20

	if frameCount <= 0 {
		frameCount = nav.SpinnerAnimation.FrameCount
	}
	frame = ((frame % frameCount) + frameCount) % frameCount

	segments := frameCount
	for i := 0; i < segments; i++ {
		angle := float64(i)*2*math.Pi/float64(segments) + float64(frame)*2*math.Pi/float64(segments)
		shade := 255 - i*200/segments
		if shade < 30 {
			shade = 30
		}
		sx := cx + int(radius*math.Cos(angle))
		sy := cy + int(radius*math.Sin(angle))
		fillCircle(img, sx, sy, 3, color.RGBA{uint8(shade), uint8(shade), uint8(shade), 255})
	}
}

const (
	marginSide = 10
	marginTop  = 5
)
