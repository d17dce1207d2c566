package nav

import (
	"testing"
	"time"

	"github.com/mankin3n/cryptowallet-ST7789/internal/input"
)

func testDefaults() Defaults {
	return Defaults{Brightness: 80, TimeoutSeconds: 120, Language: "en"}
}

func newTestMachine(t *testing.T, opts ...Option) (*Machine, time.Time) {
	t.Helper()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	m, err := NewMachine(testDefaults(), now, opts...)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	return m, now
}

// send drives the machine past the splash and applies the directions in
// order.
func send(t *testing.T, m *Machine, now time.Time, dirs ...input.Direction) time.Time {
	t.Helper()
	now = now.Add(SplashDuration)
	m.Advance(now)
	for _, d := range dirs {
		now = now.Add(200 * time.Millisecond)
		if err := m.Handle(input.Event{Dir: d, At: now}); err != nil {
			t.Fatalf("Handle(%s): %v", d, err)
		}
	}
	return now
}

func TestSplashAutoAdvance(t *testing.T) {
	m, now := newTestMachine(t)

	if got := m.Snapshot().CurrentPage; got != PageSplash {
		t.Fatalf("initial page = %s; want %s", got, PageSplash)
	}

	m.Advance(now.Add(SplashDuration - time.Millisecond))
	if got := m.Snapshot().CurrentPage; got != PageSplash {
		t.Errorf("page before timeout = %s; want %s", got, PageSplash)
	}

	m.Advance(now.Add(SplashDuration))
	if got := m.Snapshot().CurrentPage; got != PageHome {
		t.Errorf("page after timeout = %s; want %s", got, PageHome)
	}
}

func TestSplashSkipsOnInput(t *testing.T) {
	m, now := newTestMachine(t)

	if err := m.Handle(input.Event{Dir: input.DirPress, At: now.Add(time.Millisecond)}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	st := m.Snapshot()
	if st.CurrentPage != PageHome {
		t.Errorf("page = %s; want %s", st.CurrentPage, PageHome)
	}
	if len(st.PageStack) != 0 {
		t.Errorf("stack depth = %d; want 0 (splash never pushed)", len(st.PageStack))
	}
}

func TestHomeMenuWraps(t *testing.T) {
	tests := []struct {
		name string
		dirs []input.Direction
		want int
	}{
		{"up from first wraps to last", []input.Direction{input.DirUp}, 4},
		{"down walks forward", []input.Direction{input.DirDown, input.DirDown}, 2},
		{"down past last wraps to first", []input.Direction{input.DirUp, input.DirDown}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, now := newTestMachine(t)
			send(t, m, now, tt.dirs...)
			if got := m.Snapshot().MenuIndex; got != tt.want {
				t.Errorf("MenuIndex = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestHomeSelectionTargets(t *testing.T) {
	tests := []struct {
		downs int
		want  Page
	}{
		{0, PageVerifySignature},
		{1, PageGenerateQR},
		{2, PageViewAddress},
		{3, PageSettings},
		{4, PageAbout},
	}

	for _, tt := range tests {
		m, now := newTestMachine(t)
		dirs := make([]input.Direction, 0, tt.downs+1)
		for i := 0; i < tt.downs; i++ {
			dirs = append(dirs, input.DirDown)
		}
		dirs = append(dirs, input.DirPress)
		send(t, m, now, dirs...)

		st := m.Snapshot()
		if st.CurrentPage != tt.want {
			t.Errorf("after %d downs + press: page = %s; want %s", tt.downs, st.CurrentPage, tt.want)
		}
		if len(st.PageStack) != 1 || st.PageStack[0] != PageHome {
			t.Errorf("after %d downs + press: stack = %v; want [HOME]", tt.downs, st.PageStack)
		}
	}
}

func TestLeftOnHomeWithEmptyStackStaysHome(t *testing.T) {
	m, now := newTestMachine(t)
	send(t, m, now, input.DirLeft)

	st := m.Snapshot()
	if st.CurrentPage != PageHome {
		t.Errorf("page = %s; want %s", st.CurrentPage, PageHome)
	}
	if len(st.PageStack) != 0 {
		t.Errorf("stack depth = %d; want 0", len(st.PageStack))
	}
}

func TestBrightnessRoundTrip(t *testing.T) {
	m, now := newTestMachine(t)

	// Home -> Settings (4th item) -> Brightness (1st item), bump once,
	// back out.
	now = send(t, m, now,
		input.DirDown, input.DirDown, input.DirDown, input.DirPress,
		input.DirPress,
	)
	if got := m.Snapshot().CurrentPage; got != PageSettingsBrightness {
		t.Fatalf("page = %s; want %s", got, PageSettingsBrightness)
	}

	for _, d := range []input.Direction{input.DirUp, input.DirLeft} {
		now = now.Add(200 * time.Millisecond)
		if err := m.Handle(input.Event{Dir: d, At: now}); err != nil {
			t.Fatalf("Handle(%s): %v", d, err)
		}
	}

	st := m.Snapshot()
	if st.Brightness != 85 {
		t.Errorf("Brightness = %d; want 85", st.Brightness)
	}
	if st.CurrentPage != PageSettings {
		t.Errorf("page = %s; want %s", st.CurrentPage, PageSettings)
	}
	if len(st.PageStack) != 1 || st.PageStack[0] != PageHome {
		t.Errorf("stack = %v; want [HOME]", st.PageStack)
	}
}

func TestBrightnessClampsAtBounds(t *testing.T) {
	m, now := newTestMachine(t)
	now = send(t, m, now,
		input.DirDown, input.DirDown, input.DirDown, input.DirPress,
		input.DirPress,
	)

	// 80 -> 100 takes four steps; keep pressing past the top.
	for i := 0; i < 10; i++ {
		now = now.Add(200 * time.Millisecond)
		m.Handle(input.Event{Dir: input.DirUp, At: now})
	}
	if got := m.Snapshot().Brightness; got != BrightnessMax {
		t.Errorf("Brightness = %d; want %d", got, BrightnessMax)
	}

	for i := 0; i < 30; i++ {
		now = now.Add(200 * time.Millisecond)
		m.Handle(input.Event{Dir: input.DirDown, At: now})
	}
	if got := m.Snapshot().Brightness; got != BrightnessMin {
		t.Errorf("Brightness = %d; want %d", got, BrightnessMin)
	}
}

func TestTimeoutClampsAtBounds(t *testing.T) {
	m, now := newTestMachine(t)
	now = send(t, m, now,
		input.DirDown, input.DirDown, input.DirDown, input.DirPress,
		input.DirDown, input.DirPress,
	)
	if got := m.Snapshot().CurrentPage; got != PageSettingsTimeout {
		t.Fatalf("page = %s; want %s", got, PageSettingsTimeout)
	}

	for i := 0; i < 25; i++ {
		now = now.Add(200 * time.Millisecond)
		m.Handle(input.Event{Dir: input.DirUp, At: now})
	}
	if got := m.Snapshot().TimeoutSeconds; got != TimeoutMax {
		t.Errorf("TimeoutSeconds = %d; want %d", got, TimeoutMax)
	}

	for i := 0; i < 25; i++ {
		now = now.Add(200 * time.Millisecond)
		m.Handle(input.Event{Dir: input.DirDown, At: now})
	}
	if got := m.Snapshot().TimeoutSeconds; got != TimeoutMin {
		t.Errorf("TimeoutSeconds = %d; want %d", got, TimeoutMin)
	}
}

func TestZoomClampsAtBounds(t *testing.T) {
	m, now := newTestMachine(t)
	now = send(t, m, now, input.DirDown, input.DirPress)
	if got := m.Snapshot().CurrentPage; got != PageGenerateQR {
		t.Fatalf("page = %s; want %s", got, PageGenerateQR)
	}

	for i := 0; i < 15; i++ {
		now = now.Add(200 * time.Millisecond)
		m.Handle(input.Event{Dir: input.DirUp, At: now})
	}
	if got := m.Snapshot().ZoomLevel; got != ZoomMax {
		t.Errorf("ZoomLevel = %d; want %d", got, ZoomMax)
	}

	for i := 0; i < 15; i++ {
		now = now.Add(200 * time.Millisecond)
		m.Handle(input.Event{Dir: input.DirDown, At: now})
	}
	if got := m.Snapshot().ZoomLevel; got != ZoomMin {
		t.Errorf("ZoomLevel = %d; want %d", got, ZoomMin)
	}
}

func TestVerifySignaturePressOpensCameraPreview(t *testing.T) {
	m, now := newTestMachine(t)
	send(t, m, now, input.DirPress, input.DirPress)

	st := m.Snapshot()
	if st.CurrentPage != PageCameraPreview {
		t.Fatalf("page = %s; want %s", st.CurrentPage, PageCameraPreview)
	}
	want := []Page{PageHome, PageVerifySignature}
	if len(st.PageStack) != len(want) {
		t.Fatalf("stack = %v; want %v", st.PageStack, want)
	}
	for i := range want {
		if st.PageStack[i] != want[i] {
			t.Fatalf("stack = %v; want %v", st.PageStack, want)
		}
	}
}

func TestScrollClampsToContentHeight(t *testing.T) {
	m, now := newTestMachine(t)
	now = send(t, m, now, input.DirDown, input.DirDown, input.DirPress)
	if got := m.Snapshot().CurrentPage; got != PageViewAddress {
		t.Fatalf("page = %s; want %s", got, PageViewAddress)
	}

	maxScroll := PageViewAddress.MaxScroll()

	for i := 0; i < 30; i++ {
		now = now.Add(200 * time.Millisecond)
		m.Handle(input.Event{Dir: input.DirDown, At: now})
	}
	if got := m.Snapshot().ScrollOffset; got != maxScroll {
		t.Errorf("ScrollOffset = %d; want %d", got, maxScroll)
	}

	for i := 0; i < 30; i++ {
		now = now.Add(200 * time.Millisecond)
		m.Handle(input.Event{Dir: input.DirUp, At: now})
	}
	if got := m.Snapshot().ScrollOffset; got != 0 {
		t.Errorf("ScrollOffset = %d; want 0", got)
	}
}

func TestMenuIndexResetsOnEntry(t *testing.T) {
	m, now := newTestMachine(t)
	now = send(t, m, now,
		input.DirDown, input.DirDown, input.DirDown, input.DirPress,
		input.DirDown,
	)
	if got := m.Snapshot().MenuIndex; got != 1 {
		t.Fatalf("settings MenuIndex = %d; want 1", got)
	}

	// Leave and re-enter; the cursor must be back on the first item.
	for _, d := range []input.Direction{input.DirLeft, input.DirDown, input.DirDown, input.DirDown, input.DirPress} {
		now = now.Add(200 * time.Millisecond)
		m.Handle(input.Event{Dir: d, At: now})
	}

	st := m.Snapshot()
	if st.CurrentPage != PageSettings {
		t.Fatalf("page = %s; want %s", st.CurrentPage, PageSettings)
	}
	if st.MenuIndex != 0 {
		t.Errorf("MenuIndex after re-entry = %d; want 0", st.MenuIndex)
	}
}

func TestLanguageCycles(t *testing.T) {
	m, now := newTestMachine(t)
	now = send(t, m, now,
		input.DirDown, input.DirDown, input.DirDown, input.DirPress,
		input.DirDown, input.DirDown, input.DirPress,
	)
	if got := m.Snapshot().CurrentPage; got != PageSettingsLanguage {
		t.Fatalf("page = %s; want %s", got, PageSettingsLanguage)
	}

	now = now.Add(200 * time.Millisecond)
	m.Handle(input.Event{Dir: input.DirDown, At: now})
	if got := m.Snapshot().Language; got != "fi" {
		t.Errorf("Language = %q; want %q", got, "fi")
	}

	now = now.Add(200 * time.Millisecond)
	m.Handle(input.Event{Dir: input.DirDown, At: now})
	if got := m.Snapshot().Language; got != "en" {
		t.Errorf("Language after full cycle = %q; want %q", got, "en")
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	m, now := newTestMachine(t)

	// Change brightness first so the reset has something to undo.
	now = send(t, m, now,
		input.DirDown, input.DirDown, input.DirDown, input.DirPress,
		input.DirPress, input.DirUp, input.DirUp, input.DirLeft,
	)
	if got := m.Snapshot().Brightness; got != 90 {
		t.Fatalf("Brightness = %d; want 90", got)
	}

	// Settings -> Reset, confirm YES (the default selection).
	for _, d := range []input.Direction{input.DirUp, input.DirPress, input.DirPress} {
		now = now.Add(200 * time.Millisecond)
		m.Handle(input.Event{Dir: d, At: now})
	}

	st := m.Snapshot()
	if st.Brightness != 80 {
		t.Errorf("Brightness after reset = %d; want 80", st.Brightness)
	}
	if st.TimeoutSeconds != 120 {
		t.Errorf("TimeoutSeconds after reset = %d; want 120", st.TimeoutSeconds)
	}
	if st.Language != "en" {
		t.Errorf("Language after reset = %q; want %q", st.Language, "en")
	}
	if st.CurrentPage != PageSettings {
		t.Errorf("page after reset = %s; want %s", st.CurrentPage, PageSettings)
	}
}

func TestResetNoLeavesSettingsIntact(t *testing.T) {
	m, now := newTestMachine(t)
	now = send(t, m, now,
		input.DirDown, input.DirDown, input.DirDown, input.DirPress,
		input.DirPress, input.DirUp, input.DirLeft,
		input.DirUp, input.DirPress,
	)
	if got := m.Snapshot().CurrentPage; got != PageSettingsReset {
		t.Fatalf("page = %s; want %s", got, PageSettingsReset)
	}

	// Toggle to NO, confirm.
	for _, d := range []input.Direction{input.DirDown, input.DirPress} {
		now = now.Add(200 * time.Millisecond)
		m.Handle(input.Event{Dir: d, At: now})
	}

	if got := m.Snapshot().Brightness; got != 85 {
		t.Errorf("Brightness = %d; want 85 (NO must not reset)", got)
	}
}

func TestErrorRetryClearsError(t *testing.T) {
	m, now := newTestMachine(t)
	now = send(t, m, now)

	m.SetError("Display write failed", "DISPLAY")
	st := m.Snapshot()
	if st.CurrentPage != PageError {
		t.Fatalf("page = %s; want %s", st.CurrentPage, PageError)
	}

	now = now.Add(200 * time.Millisecond)
	m.Handle(input.Event{Dir: input.DirPress, At: now})

	st = m.Snapshot()
	if st.ErrorMessage != "" || st.ErrorCode != "" {
		t.Errorf("error not cleared: message=%q code=%q", st.ErrorMessage, st.ErrorCode)
	}
	if st.CurrentPage != PageHome {
		t.Errorf("page = %s; want %s", st.CurrentPage, PageHome)
	}
}

func TestIdleWakeConsumesInput(t *testing.T) {
	m, now := newTestMachine(t)
	now = send(t, m, now, input.DirDown)
	if got := m.Snapshot().MenuIndex; got != 1 {
		t.Fatalf("MenuIndex = %d; want 1", got)
	}

	idleAt := now.Add(121 * time.Second)
	res := m.Advance(idleAt)
	if !res.EnteredIdle {
		t.Fatal("expected EnteredIdle after timeout")
	}
	if res2 := m.Advance(idleAt.Add(time.Second)); res2.EnteredIdle {
		t.Error("EnteredIdle reported twice for one idle period")
	}

	// The waking press must not trigger navigation.
	wake := idleAt.Add(2 * time.Second)
	m.Handle(input.Event{Dir: input.DirPress, At: wake})
	st := m.Snapshot()
	if st.CurrentPage != PageHome || st.MenuIndex != 1 {
		t.Errorf("wake input navigated: page=%s index=%d", st.CurrentPage, st.MenuIndex)
	}

	res = m.Advance(wake.Add(33 * time.Millisecond))
	if !res.Woke {
		t.Error("expected Woke on the tick after wake input")
	}
	if m.Idle() {
		t.Error("machine still idle after wake")
	}
}

func TestSpinnerWrapsForAnyFrameTable(t *testing.T) {
	for _, frames := range []int{1, 3, 8, 12} {
		anims := map[Page]Animation{
			PageSplash: {FrameCount: frames, Interval: 100 * time.Millisecond},
		}
		m, now := newTestMachine(t, WithAnimations(anims))

		seen := make(map[int]bool)
		for i := 0; i < frames*3; i++ {
			now = now.Add(100 * time.Millisecond)
			m.Advance(now)
			f := m.Snapshot().SpinnerFrame
			if f < 0 || f >= frames {
				t.Fatalf("frames=%d: SpinnerFrame %d out of range", frames, f)
			}
			seen[f] = true
			if m.Snapshot().CurrentPage != PageSplash {
				break
			}
		}
		if frames > 1 && len(seen) < 2 {
			t.Errorf("frames=%d: spinner never advanced", frames)
		}
	}
}

func TestStackDepthBounded(t *testing.T) {
	s := NewState(80, 120, "en", time.Time{})
	for i := 0; i < MaxStackDepth+10; i++ {
		s.push(PageSettings)
	}
	if got := s.StackDepth(); got != MaxStackDepth {
		t.Errorf("StackDepth = %d; want %d", got, MaxStackDepth)
	}
}

func TestSanitizeCorrectsCorruptFields(t *testing.T) {
	s := NewState(80, 120, "en", time.Time{})
	s.CurrentPage = Page(99)
	s.MenuIndex = 42
	s.ScrollOffset = -5
	s.ZoomLevel = 9999
	s.Brightness = -1
	s.TimeoutSeconds = 10_000
	s.Language = "xx"
	s.sanitize()

	if s.CurrentPage != PageHome {
		t.Errorf("CurrentPage = %s; want %s", s.CurrentPage, PageHome)
	}
	if s.MenuIndex != 0 {
		t.Errorf("MenuIndex = %d; want 0", s.MenuIndex)
	}
	if s.ScrollOffset != 0 {
		t.Errorf("ScrollOffset = %d; want 0", s.ScrollOffset)
	}
	if s.ZoomLevel != ZoomMax {
		t.Errorf("ZoomLevel = %d; want %d", s.ZoomLevel, ZoomMax)
	}
	if s.Brightness != BrightnessMin {
		t.Errorf("Brightness = %d; want %d", s.Brightness, BrightnessMin)
	}
	if s.TimeoutSeconds != TimeoutMax {
		t.Errorf("TimeoutSeconds = %d; want %d", s.TimeoutSeconds, TimeoutMax)
	}
	if s.Language != "en" {
		t.Errorf("Language = %q; want %q", s.Language, "en")
	}
}

func TestLongStringsCapped(t *testing.T) {
	m, now := newTestMachine(t)
	send(t, m, now)

	long := make([]byte, 4096)
	for i := range long {
		long[i] = 'a'
	}
	m.SetAddress(string(long))
	m.SetError(string(long), string(long))

	st := m.Snapshot()
	if len(st.BitcoinAddress) != MaxDisplayString {
		t.Errorf("address length = %d; want %d", len(st.BitcoinAddress), MaxDisplayString)
	}
	if len(st.ErrorMessage) != MaxDisplayString {
		t.Errorf("error message length = %d; want %d", len(st.ErrorMessage), MaxDisplayString)
	}
}

// TestDeterministicReplay feeds the same event sequence into two machines
// and expects identical snapshots. Navigation must not depend on anything
// but state and input.
func TestDeterministicReplay(t *testing.T) {
	script := []input.Direction{
		input.DirDown, input.DirPress, input.DirDown, input.DirDown,
		input.DirUp, input.DirLeft, input.DirDown, input.DirDown,
		input.DirDown, input.DirPress, input.DirPress, input.DirUp,
		input.DirLeft, input.DirLeft, input.DirLeft,
	}

	run := func() State {
		m, now := newTestMachine(t)
		send(t, m, now, script...)
		return m.Snapshot()
	}

	a, b := run(), run()
	if a.CurrentPage != b.CurrentPage || a.MenuIndex != b.MenuIndex ||
		a.ScrollOffset != b.ScrollOffset || a.Brightness != b.Brightness ||
		a.TimeoutSeconds != b.TimeoutSeconds || a.Language != b.Language ||
		len(a.PageStack) != len(b.PageStack) {
		t.Errorf("replay diverged:\n a=%+v\n b=%+v", a, b)
	}
}

func TestEveryPageHasHandler(t *testing.T) {
	m, _ := newTestMachine(t)
	for _, p := range Pages() {
		if _, ok := m.handlers[p]; !ok {
			t.Errorf("page %s has no handler", p)
		}
	}
}

func TestCameraPreviewCaptureScansSignature(t *testing.T) {
	m, now := newTestMachine(t, WithScanner(func() (string, bool, bool) {
		return "deadbeefcafe", true, true
	}))
	send(t, m, now, input.DirPress, input.DirPress, input.DirPress)

	st := m.Snapshot()
	if st.CurrentPage != PageVerifySignature {
		t.Fatalf("page = %s; want %s", st.CurrentPage, PageVerifySignature)
	}
	if st.SignatureData != "deadbeefcafe" {
		t.Errorf("SignatureData = %q; want the scanned payload", st.SignatureData)
	}
	if !st.SignatureValid {
		t.Error("SignatureValid = false after a valid scan")
	}
	if st.ScanStatus != "" {
		t.Errorf("ScanStatus = %q; want empty after a successful scan", st.ScanStatus)
	}
}

func TestCameraPreviewCaptureNoCode(t *testing.T) {
	m, now := newTestMachine(t, WithScanner(func() (string, bool, bool) {
		return "", false, false
	}))
	m.SetSignature("previous", true)
	send(t, m, now, input.DirPress, input.DirPress, input.DirPress)

	st := m.Snapshot()
	if st.CurrentPage != PageVerifySignature {
		t.Fatalf("page = %s; want %s", st.CurrentPage, PageVerifySignature)
	}
	if st.ScanStatus != "No code found" {
		t.Errorf("ScanStatus = %q; want %q", st.ScanStatus, "No code found")
	}
	if st.SignatureData != "previous" || !st.SignatureValid {
		t.Error("failed capture must not touch the stored signature")
	}
}

func TestCameraPreviewCaptureWithoutScanner(t *testing.T) {
	m, now := newTestMachine(t)
	send(t, m, now, input.DirPress, input.DirPress, input.DirPress)

	st := m.Snapshot()
	if st.CurrentPage != PageVerifySignature {
		t.Fatalf("page = %s; want %s", st.CurrentPage, PageVerifySignature)
	}
	if st.ScanStatus != "Scanning disabled" {
		t.Errorf("ScanStatus = %q; want %q", st.ScanStatus, "Scanning disabled")
	}
}

func TestScanStatusClearsOnNextCaptureEntry(t *testing.T) {
	m, now := newTestMachine(t)
	// Enter verify, capture without a scanner, then head back into the
	// camera preview.
	now = send(t, m, now, input.DirPress, input.DirPress, input.DirPress)
	if got := m.Snapshot().ScanStatus; got == "" {
		t.Fatal("expected a capture outcome before re-entry")
	}
	now = now.Add(200 * time.Millisecond)
	if err := m.Handle(input.Event{Dir: input.DirPress, At: now}); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	st := m.Snapshot()
	if st.CurrentPage != PageCameraPreview {
		t.Fatalf("page = %s; want %s", st.CurrentPage, PageCameraPreview)
	}
	if st.ScanStatus != "" {
		t.Errorf("ScanStatus = %q; want empty on preview entry", st.ScanStatus)
	}
}

func TestSpinnerFrameResetsOnPageChange(t *testing.T) {
	anims := map[Page]Animation{
		PageHome:  {FrameCount: 12, Interval: 100 * time.Millisecond},
		PageAbout: {FrameCount: 8, Interval: 100 * time.Millisecond},
	}
	m, now := newTestMachine(t, WithAnimations(anims))
	now = send(t, m, now)

	for i := 0; i < 5; i++ {
		now = now.Add(150 * time.Millisecond)
		m.Advance(now)
	}
	if m.Snapshot().SpinnerFrame == 0 {
		t.Fatal("spinner never advanced on home")
	}

	// Enter About, whose frame table is shorter than the current frame
	// index could be.
	dirs := []input.Direction{input.DirDown, input.DirDown, input.DirDown, input.DirDown, input.DirPress}
	for _, d := range dirs {
		now = now.Add(200 * time.Millisecond)
		if err := m.Handle(input.Event{Dir: d, At: now}); err != nil {
			t.Fatalf("Handle(%s): %v", d, err)
		}
	}

	st := m.Snapshot()
	if st.CurrentPage != PageAbout {
		t.Fatalf("page = %s; want %s", st.CurrentPage, PageAbout)
	}
	if st.SpinnerFrame != 0 {
		t.Errorf("SpinnerFrame = %d after page change; want 0", st.SpinnerFrame)
	}
}
