package nav

import (
	"log"
	"time"
)

// Value ranges for settings. Settings pages clamp on every mutation, not
// only at the UI edges, so no code path can persist an out-of-range value.
const (
	BrightnessMin  = 0
	BrightnessMax  = 100
	BrightnessStep = 5

	TimeoutMin  = 30
	TimeoutMax  = 600
	TimeoutStep = 30

	ZoomMin  = 80
	ZoomMax  = 160
	ZoomStep = 10

	// MaxStackDepth bounds back-navigation history. Pushing past the limit
	// discards the oldest entry.
	MaxStackDepth = 16

	// MaxDisplayString caps collaborator-sourced strings (addresses, error
	// text) before they are sliced for display.
	MaxDisplayString = 128
)

// Languages is the closed language set. Index 0 is the default used to
// correct a corrupt value.
var Languages = []string{"en", "fi"}

// LanguageValid reports membership in the closed set.
func LanguageValid(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// LanguageIndex returns the index of lang, or 0 when the value is not a
// member of the set. Callers must never index Languages with an unvalidated
// value.
func LanguageIndex(lang string) int {
	for i, l := range Languages {
		if l == lang {
			return i
		}
	}
	return 0
}

// State is the single long-lived UI state record. It is created once at
// startup and mutated only by the Machine on the scheduler goroutine;
// everyone else works from Snapshot copies.
type State struct {
	CurrentPage Page
	PageStack   []Page

	MenuIndex    int
	ScrollOffset int
	ZoomLevel    int
	SpinnerFrame int

	Brightness     int
	TimeoutSeconds int
	Language       string

	LastInputAt time.Time

	BitcoinAddress string
	SignatureData  string
	SignatureValid bool
	// ScanStatus reports the outcome of the last camera capture attempt
	// ("No code found", "Scanning disabled"); empty after a successful
	// scan or before the first attempt.
	ScanStatus string

	ErrorMessage   string
	ErrorCode      string
	LoadingMessage string
}

// NewState returns the startup state on the splash page.
func NewState(brightness, timeoutSeconds int, language string, now time.Time) *State {
	s := &State{
		CurrentPage:    PageSplash,
		PageStack:      make([]Page, 0, MaxStackDepth),
		ZoomLevel:      100,
		Brightness:     brightness,
		TimeoutSeconds: timeoutSeconds,
		Language:       language,
		LastInputAt:    now,
		LoadingMessage: "Loading...",
	}
	s.sanitize()
	return s
}

// Snapshot returns a copy safe to hand to the renderer. The stack is the
// only reference field and is cloned.
func (s *State) Snapshot() State {
	cp := *s
	cp.PageStack = append([]Page(nil), s.PageStack...)
	return cp
}

// StackDepth returns the back-navigation history depth.
func (s *State) StackDepth() int { return len(s.PageStack) }

// push records the page being left. Depth is bounded; overflow drops the
// oldest entry.
func (s *State) push(p Page) {
	if len(s.PageStack) >= MaxStackDepth {
		log.Printf("nav: page stack full, dropping oldest entry %s", s.PageStack[0])
		s.PageStack = s.PageStack[1:]
	}
	s.PageStack = append(s.PageStack, p)
}

// pop removes and returns the most recent entry.
func (s *State) pop() (Page, bool) {
	if len(s.PageStack) == 0 {
		return 0, false
	}
	p := s.PageStack[len(s.PageStack)-1]
	s.PageStack = s.PageStack[:len(s.PageStack)-1]
	return p, true
}

// sanitize corrects any out-of-range field to a valid value, logging each
// correction. It runs after every mutation; rendering still re-checks
// because it is the last line of defense against stale state.
func (s *State) sanitize() {
	if !s.CurrentPage.Valid() {
		log.Printf("nav: invalid current page %d corrected to HOME", int(s.CurrentPage))
		s.CurrentPage = PageHome
	}

	if n := s.CurrentPage.ItemCount(); n > 0 {
		if s.MenuIndex < 0 || s.MenuIndex >= n {
			log.Printf("nav: menu index %d out of range on %s, reset to 0", s.MenuIndex, s.CurrentPage)
			s.MenuIndex = 0
		}
	} else if s.MenuIndex != 0 {
		s.MenuIndex = 0
	}

	if max := s.CurrentPage.MaxScroll(); s.ScrollOffset < 0 {
		s.ScrollOffset = 0
	} else if s.ScrollOffset > max {
		s.ScrollOffset = max
	}

	s.ZoomLevel = clamp(s.ZoomLevel, ZoomMin, ZoomMax)
	s.Brightness = clamp(s.Brightness, BrightnessMin, BrightnessMax)
	s.TimeoutSeconds = clamp(s.TimeoutSeconds, TimeoutMin, TimeoutMax)

	if !LanguageValid(s.Language) {
		log.Printf("nav: unrecognized language %q corrected to %q", s.Language, Languages[0])
		s.Language = Languages[0]
	}

	if len(s.BitcoinAddress) > MaxDisplayString {
		s.BitcoinAddress = s.BitcoinAddress[:MaxDisplayString]
	}
	if len(s.ErrorMessage) > MaxDisplayString {
		s.ErrorMessage = s.ErrorMessage[:MaxDisplayString]
	}
	if len(s.ErrorCode) > MaxDisplayString {
		s.ErrorCode = s.ErrorCode[:MaxDisplayString]
	}
	if len(s.SignatureData) > MaxDisplayString {
		s.SignatureData = s.SignatureData[:MaxDisplayString]
	}
	if len(s.ScanStatus) > MaxDisplayString {
		s.ScanStatus = s.ScanStatus[:MaxDisplayString]
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
