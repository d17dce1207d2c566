package nav

import "time"

// Page is the closed set of screens. Pages are static; nothing creates or
// destroys them at runtime.
type Page int

const (
	PageSplash Page = iota
	PageHome
	PageVerifySignature
	PageGenerateQR
	PageViewAddress
	PageCameraPreview
	PageSettings
	PageSettingsBrightness
	PageSettingsTimeout
	PageSettingsLanguage
	PageSettingsReset
	PageAbout
	PageLoading
	PageError

	pageCount // sentinel, keep last
)

func (p Page) String() string {
	switch p {
	case PageSplash:
		return "SPLASH"
	case PageHome:
		return "HOME"
	case PageVerifySignature:
		return "VERIFY_SIGNATURE"
	case PageGenerateQR:
		return "GENERATE_QR"
	case PageViewAddress:
		return "VIEW_ADDRESS"
	case PageCameraPreview:
		return "CAMERA_PREVIEW"
	case PageSettings:
		return "SETTINGS"
	case PageSettingsBrightness:
		return "BRIGHTNESS_SETTING"
	case PageSettingsTimeout:
		return "TIMEOUT_SETTING"
	case PageSettingsLanguage:
		return "LANGUAGE_SETTING"
	case PageSettingsReset:
		return "RESET_SETTING"
	case PageAbout:
		return "ABOUT"
	case PageLoading:
		return "LOADING"
	case PageError:
		return "ERROR"
	default:
		return "INVALID"
	}
}

// Valid reports whether p is a member of the page set.
func (p Page) Valid() bool { return p >= 0 && p < pageCount }

// Pages returns every page, for exhaustiveness checks.
func Pages() []Page {
	all := make([]Page, 0, pageCount)
	for p := Page(0); p < pageCount; p++ {
		all = append(all, p)
	}
	return all
}

// Display layout shared between navigation clamping and rendering.
const (
	CanvasWidth  = 320
	CanvasHeight = 240

	HeaderHeight    = 30
	StatusBarHeight = 30
	// ViewportHeight is the scrollable content area between header and
	// status bar.
	ViewportHeight = CanvasHeight - HeaderHeight - StatusBarHeight

	ScrollStep = 20
)

// HomeMenuItems and SettingsMenuItems are the fixed menu orders; the Press
// handlers and the renderer both index into them.
var (
	HomeMenuItems = []string{
		"Verify Signature",
		"Generate QR Code",
		"View Address",
		"Settings",
		"About",
	}
	SettingsMenuItems = []string{
		"Display Brightness",
		"Screen Timeout",
		"Language",
		"Reset to Defaults",
	}
)

// ItemCount returns the number of selectable items on a page. Pages without
// a selectable list report 0 and pin menuIndex at 0.
func (p Page) ItemCount() int {
	switch p {
	case PageHome:
		return len(HomeMenuItems)
	case PageSettings:
		return len(SettingsMenuItems)
	case PageSettingsLanguage:
		return len(Languages)
	case PageSettingsReset, PageError:
		return 2 // YES/NO, Retry/Back
	default:
		return 0
	}
}

// ContentHeight is the rendered content height, used to clamp scrolling.
// Non-scrollable pages report the viewport height (max scroll 0).
func (p Page) ContentHeight() int {
	switch p {
	case PageVerifySignature:
		return 220
	case PageViewAddress:
		return 300
	case PageAbout:
		return 260
	default:
		return ViewportHeight
	}
}

// MaxScroll returns the largest valid scrollOffset for the page.
func (p Page) MaxScroll() int {
	max := p.ContentHeight() - ViewportHeight
	if max < 0 {
		return 0
	}
	return max
}

// Animation describes a frame table for an animated page. FrameCount comes
// from the actual table, never a hardcoded constant at the call sites.
type Animation struct {
	FrameCount int
	Interval   time.Duration
}

// SpinnerAnimation is the stock 8-segment spinner at 200ms per frame.
var SpinnerAnimation = Animation{FrameCount: 8, Interval: 200 * time.Millisecond}

// defaultAnimations maps animated pages to their frame tables. Pages not in
// the map do not animate.
func defaultAnimations() map[Page]Animation {
	return map[Page]Animation{
		PageSplash:  SpinnerAnimation,
		PageLoading: SpinnerAnimation,
	}
}
