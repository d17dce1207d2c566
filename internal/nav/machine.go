package nav

import (
	"fmt"
	"log"
	"time"

	"github.com/mankin3n/cryptowallet-ST7789/internal/input"
)

// SplashDuration is how long the splash page shows before auto-transition
// to home. Any input on splash also triggers the transition immediately.
const SplashDuration = 2 * time.Second

// ErrUnmappedPage is returned when dispatch hits a page with no handler.
// This is a programming error surfaced immediately, never silently
// defaulted.
var ErrUnmappedPage = fmt.Errorf("nav: no handler mapped for page")

// Defaults are the values restored by the reset dialog.
type Defaults struct {
	Brightness     int
	TimeoutSeconds int
	Language       string
}

// TickResult reports what Advance did on this tick.
type TickResult struct {
	// EnteredIdle is true exactly once per idle period, when the idle
	// timeout first expires.
	EnteredIdle bool
	// Woke is true when input ended an idle period since the last tick.
	Woke bool
}

type handlerFunc func(m *Machine, dir input.Direction)

// ScanFunc captures the current camera frame and attempts to decode a
// signature QR from it. ok is false when no frame is available or no code
// was found.
type ScanFunc func() (data string, valid bool, ok bool)

// Machine is the single authority that mutates State. All methods must be
// called from one goroutine (the frame scheduler); input producers hand
// events over through the translator queue, never directly.
type Machine struct {
	state    *State
	handlers map[Page]handlerFunc
	anims    map[Page]Animation
	defaults Defaults
	scan     ScanFunc

	startedAt   time.Time
	lastAnimAt  time.Time
	splashDone  bool
	idle        bool
	wokeSince   bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithAnimations overrides the page animation tables. Used by tests to
// exercise frame tables shorter or longer than the stock spinner.
func WithAnimations(anims map[Page]Animation) Option {
	return func(m *Machine) { m.anims = anims }
}

// WithScanner wires the camera capture path used by Press on the camera
// preview page. Without it, capture reports scanning as disabled.
func WithScanner(fn ScanFunc) Option {
	return func(m *Machine) { m.scan = fn }
}

// NewMachine builds the machine and its page handler table. Every page must
// have a handler; a missing mapping is reported as a construction error so
// an unmapped page can never be reached at runtime.
func NewMachine(defaults Defaults, now time.Time, opts ...Option) (*Machine, error) {
	m := &Machine{
		state:      NewState(defaults.Brightness, defaults.TimeoutSeconds, defaults.Language, now),
		anims:      defaultAnimations(),
		defaults:   defaults,
		startedAt:  now,
		lastAnimAt: now,
	}
	m.handlers = map[Page]handlerFunc{
		PageSplash:             (*Machine).handleSplash,
		PageHome:               (*Machine).handleHome,
		PageVerifySignature:    (*Machine).handleVerifySignature,
		PageGenerateQR:         (*Machine).handleGenerateQR,
		PageViewAddress:        (*Machine).handleScrollOnly,
		PageCameraPreview:      (*Machine).handleCameraPreview,
		PageSettings:           (*Machine).handleSettings,
		PageSettingsBrightness: (*Machine).handleBrightness,
		PageSettingsTimeout:    (*Machine).handleTimeout,
		PageSettingsLanguage:   (*Machine).handleLanguage,
		PageSettingsReset:      (*Machine).handleReset,
		PageAbout:              (*Machine).handleScrollOnly,
		PageLoading:            (*Machine).handleBackOnly,
		PageError:              (*Machine).handleError,
	}
	for _, p := range Pages() {
		if _, ok := m.handlers[p]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnmappedPage, p)
		}
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// State returns the live state record for the owning goroutine.
func (m *Machine) State() *State { return m.state }

// Snapshot returns a render-safe copy of the state.
func (m *Machine) Snapshot() State { return m.state.Snapshot() }

// Handle applies one navigation event. Dispatch is by the explicit page
// table; a page without a mapping fails fast with ErrUnmappedPage.
func (m *Machine) Handle(ev input.Event) error {
	m.state.LastInputAt = ev.At
	if m.idle {
		m.idle = false
		m.wokeSince = true
		log.Println("nav: input received, leaving idle")
		// The waking input only wakes the display, it is not applied as
		// navigation.
		return nil
	}

	h, ok := m.handlers[m.state.CurrentPage]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnmappedPage, m.state.CurrentPage)
	}

	// Any input on splash skips the remaining splash time.
	if m.state.CurrentPage == PageSplash {
		m.finishSplash()
		return nil
	}

	h(m, ev.Dir)
	m.state.sanitize()
	return nil
}

// Advance runs the time-driven sub-processes: splash auto-transition,
// animation ticking and idle detection. Called once per scheduler tick.
func (m *Machine) Advance(now time.Time) TickResult {
	var res TickResult

	if m.state.CurrentPage == PageSplash && !m.splashDone && now.Sub(m.startedAt) >= SplashDuration {
		m.finishSplash()
	}

	m.advanceSpinner(now)

	if res.Woke = m.wokeSince; m.wokeSince {
		m.wokeSince = false
	}

	timeout := time.Duration(m.state.TimeoutSeconds) * time.Second
	if !m.idle && now.Sub(m.state.LastInputAt) > timeout {
		m.idle = true
		res.EnteredIdle = true
		log.Printf("nav: idle after %ds without input", m.state.TimeoutSeconds)
	}
	return res
}

// Idle reports whether the machine is in the power-saving state.
func (m *Machine) Idle() bool { return m.idle }

// SetError puts the machine on the error page with a diagnostic code. Used
// by the scheduler to convert rendering and display failures.
func (m *Machine) SetError(message, code string) {
	m.state.ErrorMessage = message
	m.state.ErrorCode = code
	if m.state.CurrentPage != PageError {
		m.navigateTo(PageError, true)
	}
	m.state.sanitize()
}

// SetAddress stores a collaborator-provided address for display.
func (m *Machine) SetAddress(addr string) {
	m.state.BitcoinAddress = addr
	m.state.sanitize()
}

// SetSignature stores collaborator-provided signature data for display.
func (m *Machine) SetSignature(data string, valid bool) {
	m.state.SignatureData = data
	m.state.SignatureValid = valid
	m.state.sanitize()
}

// advanceSpinner increments the frame counter for the current page's
// animation, wrapping modulo the actual frame table length.
func (m *Machine) advanceSpinner(now time.Time) {
	anim, ok := m.anims[m.state.CurrentPage]
	if !ok || anim.FrameCount <= 0 {
		return
	}
	if now.Sub(m.lastAnimAt) < anim.Interval {
		return
	}
	m.lastAnimAt = now
	m.state.SpinnerFrame = (m.state.SpinnerFrame + 1) % anim.FrameCount
}

func (m *Machine) finishSplash() {
	if m.splashDone {
		return
	}
	m.splashDone = true
	m.navigateTo(PageHome, false)
	log.Println("nav: splash finished, showing home")
}

// navigateTo switches pages. push records the page being left for back
// navigation; menu index, scroll and the animation frame always reset on
// entry so the new page's frame table starts from a known position.
func (m *Machine) navigateTo(page Page, push bool) {
	if push && m.state.CurrentPage != PageSplash {
		m.state.push(m.state.CurrentPage)
	}
	m.state.CurrentPage = page
	m.state.MenuIndex = 0
	m.state.ScrollOffset = 0
	m.state.SpinnerFrame = 0
	m.state.sanitize()
	log.Printf("nav: -> %s (stack depth %d)", page, m.state.StackDepth())
}

// goBack pops the stack; an empty stack navigates home.
func (m *Machine) goBack() {
	if prev, ok := m.state.pop(); ok {
		m.navigateTo(prev, false)
		return
	}
	m.navigateTo(PageHome, false)
}

//---------------- Page handlers ----------------

func (m *Machine) handleSplash(input.Direction) {
	// Unreachable: Handle short-circuits splash input to finishSplash.
}

func (m *Machine) handleHome(dir input.Direction) {
	n := PageHome.ItemCount()
	switch dir {
	case input.DirUp:
		m.state.MenuIndex = (m.state.MenuIndex - 1 + n) % n
	case input.DirDown:
		m.state.MenuIndex = (m.state.MenuIndex + 1) % n
	case input.DirLeft:
		m.goBack()
	case input.DirRight, input.DirPress:
		targets := []Page{
			PageVerifySignature,
			PageGenerateQR,
			PageViewAddress,
			PageSettings,
			PageAbout,
		}
		if m.state.MenuIndex >= 0 && m.state.MenuIndex < len(targets) {
			m.navigateTo(targets[m.state.MenuIndex], true)
		}
	}
}

func (m *Machine) handleVerifySignature(dir input.Direction) {
	switch dir {
	case input.DirLeft:
		m.goBack()
	case input.DirUp:
		m.state.ScrollOffset -= ScrollStep
	case input.DirDown:
		m.state.ScrollOffset += ScrollStep
	case input.DirPress:
		// Scan a signature QR with the camera. Any outcome from a
		// previous capture attempt is stale now.
		m.state.ScanStatus = ""
		m.navigateTo(PageCameraPreview, true)
	}
}

func (m *Machine) handleGenerateQR(dir input.Direction) {
	switch dir {
	case input.DirLeft:
		m.goBack()
	case input.DirUp:
		m.state.ZoomLevel += ZoomStep
	case input.DirDown:
		m.state.ZoomLevel -= ZoomStep
	}
}

// handleScrollOnly serves the read-only scrollable pages (About, View
// Address).
func (m *Machine) handleScrollOnly(dir input.Direction) {
	switch dir {
	case input.DirLeft:
		m.goBack()
	case input.DirUp:
		m.state.ScrollOffset -= ScrollStep
	case input.DirDown:
		m.state.ScrollOffset += ScrollStep
	}
}

func (m *Machine) handleCameraPreview(dir input.Direction) {
	switch dir {
	case input.DirLeft:
		m.goBack()
	case input.DirPress:
		m.captureScan()
		m.goBack()
	}
}

// captureScan runs one capture attempt and records the outcome where the
// verify page will show it.
func (m *Machine) captureScan() {
	if m.scan == nil {
		m.state.ScanStatus = "Scanning disabled"
		return
	}
	data, valid, ok := m.scan()
	if !ok {
		m.state.ScanStatus = "No code found"
		log.Println("nav: capture found no QR code")
		return
	}
	m.state.SignatureData = data
	m.state.SignatureValid = valid
	m.state.ScanStatus = ""
	log.Printf("nav: scanned signature (%d chars, valid=%t)", len(data), valid)
}

func (m *Machine) handleSettings(dir input.Direction) {
	n := PageSettings.ItemCount()
	switch dir {
	case input.DirUp:
		m.state.MenuIndex = (m.state.MenuIndex - 1 + n) % n
	case input.DirDown:
		m.state.MenuIndex = (m.state.MenuIndex + 1) % n
	case input.DirLeft:
		m.goBack()
	case input.DirRight, input.DirPress:
		targets := []Page{
			PageSettingsBrightness,
			PageSettingsTimeout,
			PageSettingsLanguage,
			PageSettingsReset,
		}
		if m.state.MenuIndex >= 0 && m.state.MenuIndex < len(targets) {
			m.navigateTo(targets[m.state.MenuIndex], true)
		}
	}
}

func (m *Machine) handleBrightness(dir input.Direction) {
	switch dir {
	case input.DirUp, input.DirRight:
		m.state.Brightness = clamp(m.state.Brightness+BrightnessStep, BrightnessMin, BrightnessMax)
	case input.DirDown:
		m.state.Brightness = clamp(m.state.Brightness-BrightnessStep, BrightnessMin, BrightnessMax)
	case input.DirLeft:
		m.goBack()
	case input.DirPress:
		m.goBack()
	}
}

func (m *Machine) handleTimeout(dir input.Direction) {
	switch dir {
	case input.DirUp, input.DirRight:
		m.state.TimeoutSeconds = clamp(m.state.TimeoutSeconds+TimeoutStep, TimeoutMin, TimeoutMax)
	case input.DirDown:
		m.state.TimeoutSeconds = clamp(m.state.TimeoutSeconds-TimeoutStep, TimeoutMin, TimeoutMax)
	case input.DirLeft:
		m.goBack()
	case input.DirPress:
		m.goBack()
	}
}

func (m *Machine) handleLanguage(dir input.Direction) {
	// Validate before indexing; a corrupt stored value maps to index 0
	// instead of panicking.
	idx := LanguageIndex(m.state.Language)
	if !LanguageValid(m.state.Language) {
		log.Printf("nav: language %q not in set, using default", m.state.Language)
	}
	n := len(Languages)
	switch dir {
	case input.DirUp:
		m.state.Language = Languages[(idx-1+n)%n]
	case input.DirDown:
		m.state.Language = Languages[(idx+1)%n]
	case input.DirLeft, input.DirPress:
		m.goBack()
	}
}

func (m *Machine) handleReset(dir input.Direction) {
	switch dir {
	case input.DirUp, input.DirDown:
		m.state.MenuIndex = 1 - m.state.MenuIndex // toggle YES/NO
	case input.DirLeft:
		m.goBack()
	case input.DirPress:
		if m.state.MenuIndex == 0 { // YES
			m.state.Brightness = m.defaults.Brightness
			m.state.TimeoutSeconds = m.defaults.TimeoutSeconds
			m.state.Language = m.defaults.Language
			log.Println("nav: settings reset to defaults")
		}
		m.goBack()
	}
}

func (m *Machine) handleBackOnly(dir input.Direction) {
	if dir == input.DirLeft {
		m.goBack()
	}
}

func (m *Machine) handleError(dir input.Direction) {
	switch dir {
	case input.DirUp, input.DirDown:
		m.state.MenuIndex = 1 - m.state.MenuIndex // toggle Retry/Back
	case input.DirLeft:
		m.goBack()
	case input.DirPress:
		if m.state.MenuIndex == 0 { // Retry clears the error first
			m.state.ErrorMessage = ""
			m.state.ErrorCode = ""
		}
		m.goBack()
	}
}
