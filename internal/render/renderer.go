package render

import (
	"fmt"
	"image"

	"github.com/mankin3n/cryptowallet-ST7789/internal/nav"
)

// QREncoder is the QR collaborator surface the renderer consumes. Encode
// must be deterministic for identical input.
type QREncoder interface {
	Encode(data string, size int) (image.Image, error)
}

// CameraFeed supplies preview frames. Frame returns the latest frame and
// whether one is available; Available reports whether hardware exists at
// all. The camera preview page is the one page whose output follows the
// live feed rather than the state snapshot alone.
type CameraFeed interface {
	Available() bool
	Frame() (*image.RGBA, bool)
}

type pageFunc func(r *Renderer, fb *image.RGBA, st nav.State) error

// Renderer composes a page and a state snapshot into a fixed 320×240
// canvas. It never mutates navigation state, and treats every state-derived
// value as untrusted: lengths, offsets and indices are clamped before use.
type Renderer struct {
	theme  *Theme
	qr     QREncoder
	camera CameraFeed
	pages  map[nav.Page]pageFunc
}

// NewRenderer validates the theme and builds the page dispatch table. Every
// page must have a renderer; a missing mapping is a construction error.
func NewRenderer(theme *Theme, qr QREncoder, camera CameraFeed) (*Renderer, error) {
	if err := theme.validate(); err != nil {
		return nil, err
	}
	if qr == nil {
		return nil, fmt.Errorf("render: nil QR encoder")
	}

	r := &Renderer{theme: theme, qr: qr, camera: camera}
	r.pages = map[nav.Page]pageFunc{
		nav.PageSplash:             (*Renderer).renderSplash,
		nav.PageHome:               (*Renderer).renderHome,
		nav.PageVerifySignature:    (*Renderer).renderVerifySignature,
		nav.PageGenerateQR:         (*Renderer).renderGenerateQR,
		nav.PageViewAddress:        (*Renderer).renderViewAddress,
		nav.PageCameraPreview:      (*Renderer).renderCameraPreview,
		nav.PageSettings:           (*Renderer).renderSettings,
		nav.PageSettingsBrightness: (*Renderer).renderBrightness,
		nav.PageSettingsTimeout:    (*Renderer).renderTimeout,
		nav.PageSettingsLanguage:   (*Renderer).renderLanguage,
		nav.PageSettingsReset:      (*Renderer).renderReset,
		nav.PageAbout:              (*Renderer).renderAbout,
		nav.PageLoading:            (*Renderer).renderLoading,
		nav.PageError:              (*Renderer).renderError,
	}
	for _, p := range nav.Pages() {
		if _, ok := r.pages[p]; !ok {
			return nil, fmt.Errorf("render: no renderer mapped for page %s", p)
		}
	}
	return r, nil
}

// Render produces the frame for the snapshot's current page. On failure the
// error identifies the cause and no partially drawn canvas is returned; the
// caller substitutes ErrorCanvas.
func (r *Renderer) Render(st nav.State) (*image.RGBA, error) {
	page, ok := r.pages[st.CurrentPage]
	if !ok {
		return nil, fmt.Errorf("render: unknown page %d", int(st.CurrentPage))
	}

	fb := image.NewRGBA(image.Rect(0, 0, nav.CanvasWidth, nav.CanvasHeight))
	clearFrame(fb, r.theme.Black)

	if err := page(r, fb, st); err != nil {
		return nil, fmt.Errorf("render: page %s: %w", st.CurrentPage, err)
	}
	return fb, nil
}

// Theme exposes the renderer's theme for the error fallback path.
func (r *Renderer) Theme() *Theme { return r.theme }

// ErrorCanvas is the designated fallback frame used when Render itself
// fails. It depends on nothing that can fail.
func ErrorCanvas(th *Theme, code string) *image.RGBA {
	fb := image.NewRGBA(image.Rect(0, 0, nav.CanvasWidth, nav.CanvasHeight))
	if th == nil {
		th = DefaultTheme()
	}
	clearFrame(fb, th.Black)
	drawRect(fb, 0, 0, nav.CanvasWidth, nav.HeaderHeight, th.Red)
	drawText(fb, "! RENDER ERROR", marginSide, marginTop+3, th.Header, th.Black, false)
	drawText(fb, "The display pipeline failed.", marginSide, nav.HeaderHeight+20, th.Body, th.White, false)
	if code != "" {
		code = capString(code, 40)
		drawText(fb, "Code: "+code, marginSide, nav.HeaderHeight+45, th.Hint, th.Gray, false)
	}
	return fb
}

// capString bounds collaborator-sourced strings before slicing for display.
func capString(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
