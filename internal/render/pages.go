package render

import (
	"fmt"
	"image"

	"github.com/mankin3n/cryptowallet-ST7789/internal/nav"
)

// fallbackAddress is shown when no collaborator address has been loaded
// yet. Display only; nothing signs with it.
const fallbackAddress = "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"

func (r *Renderer) renderSplash(fb *image.RGBA, st nav.State) error {
	logo := lockIcon(48, 48)
	blitImage(fb, logo, (nav.CanvasWidth-48)/2, 24)

	drawText(fb, "CryptoWallet", nav.CanvasWidth/2, 84, r.theme.Header, r.theme.White, true)
	drawText(fb, "Initializing...", nav.CanvasWidth/2, 120, r.theme.Body, r.theme.Gray, true)
	drawSpinner(fb, nav.CanvasWidth/2, 170, st.SpinnerFrame, nav.SpinnerAnimation.FrameCount)
	return nil
}

func (r *Renderer) renderHome(fb *image.RGBA, st nav.State) error {
	drawHeader(fb, r.theme, "MAIN MENU")

	yStart := nav.HeaderHeight + 20
	const itemSpacing = 30
	for i, item := range nav.HomeMenuItems {
		drawMenuItem(fb, r.theme, item, yStart+i*itemSpacing, i == st.MenuIndex)
	}

	drawStatusBar(fb, r.theme, "^v Select  o Enter")
	return nil
}

func (r *Renderer) renderVerifySignature(fb *image.RGBA, st nav.State) error {
	drawHeader(fb, r.theme, "VERIFY SIGNATURE")

	y := nav.HeaderHeight + 10 - clampScroll(st)

	status := "Invalid"
	statusColor := r.theme.Red
	if st.SignatureValid {
		status = "Valid"
		statusColor = r.theme.Green
	}
	drawText(fb, "Status:", marginSide, y, r.theme.Body, r.theme.White, false)
	drawText(fb, status, marginSide+80, y, r.theme.Body, statusColor, false)
	y += 25

	if sig := capString(st.SignatureData, 64); sig != "" {
		drawText(fb, "Signature:", marginSide, y, r.theme.Body, r.theme.White, false)
		y += 20
		y += drawWrappedText(fb, sig, marginSide, y, nav.CanvasWidth-2*marginSide, r.theme.Hint, r.theme.Gray)
	} else {
		drawText(fb, "No signature loaded", marginSide, y, r.theme.Body, r.theme.Gray, false)
		y += 25
	}
	if scan := capString(st.ScanStatus, nav.MaxDisplayString); scan != "" {
		drawText(fb, scan, marginSide, y, r.theme.Body, r.theme.Yellow, false)
		y += 25
	}
	y += 10
	drawText(fb, "Press to scan with camera", marginSide, y, r.theme.Hint, r.theme.Gray, false)

	drawStatusBar(fb, r.theme, "< Back  ^v Scroll  o Scan")
	return nil
}

func (r *Renderer) renderGenerateQR(fb *image.RGBA, st nav.State) error {
	drawHeader(fb, r.theme, "QR CODE")

	data := capString(st.BitcoinAddress, nav.MaxDisplayString)
	if data == "" {
		data = fallbackAddress
	}

	// Zoom level is the rendered QR edge in pixels, already clamped by the
	// state machine; re-clamp because rendering trusts nothing.
	size := st.ZoomLevel
	if size < nav.ZoomMin {
		size = nav.ZoomMin
	}
	if size > nav.ZoomMax {
		size = nav.ZoomMax
	}

	qrImg, err := r.qr.Encode(data, size)
	if err != nil {
		return fmt.Errorf("qr encode: %w", err)
	}

	qrX := (nav.CanvasWidth - size) / 2
	qrY := nav.HeaderHeight + (nav.ViewportHeight-size)/2
	blitImage(fb, scaleNearest(qrImg, size, size), qrX, qrY)

	drawText(fb, fmt.Sprintf("Zoom: %d", st.ZoomLevel), nav.CanvasWidth-100, nav.HeaderHeight+10, r.theme.Hint, r.theme.Gray, false)
	drawStatusBar(fb, r.theme, "< Back  ^v Zoom")
	return nil
}

func (r *Renderer) renderViewAddress(fb *image.RGBA, st nav.State) error {
	drawHeader(fb, r.theme, "BITCOIN ADDRESS")

	y := nav.HeaderHeight + 10 - clampScroll(st)

	addr := capString(st.BitcoinAddress, nav.MaxDisplayString)
	if addr == "" {
		addr = fallbackAddress
	}

	drawText(fb, "Type: Native SegWit", marginSide, y, r.theme.Body, r.theme.White, false)
	y += 25
	drawText(fb, "Address:", marginSide, y, r.theme.Body, r.theme.White, false)
	y += 20
	y += drawWrappedText(fb, addr, marginSide, y, nav.CanvasWidth-2*marginSide, r.theme.Hint, r.theme.Cyan)
	y += 10

	qrImg, err := r.qr.Encode(addr, 100)
	if err != nil {
		return fmt.Errorf("qr encode: %w", err)
	}
	blitImage(fb, scaleNearest(qrImg, 100, 100), (nav.CanvasWidth-100)/2, y)

	drawStatusBar(fb, r.theme, "< Back  ^v Scroll")
	return nil
}

func (r *Renderer) renderCameraPreview(fb *image.RGBA, st nav.State) error {
	drawHeader(fb, r.theme, "CAMERA PREVIEW")

	switch {
	case r.camera == nil || !r.camera.Available():
		blitImage(fb, cameraIcon(64, 48), (nav.CanvasWidth-64)/2, nav.HeaderHeight+40)
		drawText(fb, "Camera unavailable", nav.CanvasWidth/2, nav.HeaderHeight+100, r.theme.Body, r.theme.Gray, true)
	default:
		frame, ok := r.camera.Frame()
		if !ok || frame == nil {
			drawText(fb, "No camera feed", nav.CanvasWidth/2, nav.CanvasHeight/2-10, r.theme.Body, r.theme.Gray, true)
			break
		}
		blitImage(fb, scaleNearest(frame, nav.CanvasWidth, nav.ViewportHeight), 0, nav.HeaderHeight)
	}

	drawStatusBar(fb, r.theme, "< Back  o Capture")
	return nil
}

func (r *Renderer) renderSettings(fb *image.RGBA, st nav.State) error {
	drawHeader(fb, r.theme, "SETTINGS")

	yStart := nav.HeaderHeight + 20
	const itemSpacing = 35
	for i, item := range nav.SettingsMenuItems {
		drawMenuItem(fb, r.theme, item, yStart+i*itemSpacing, i == st.MenuIndex)
	}

	drawStatusBar(fb, r.theme, "< Back  > Enter")
	return nil
}

func (r *Renderer) renderBrightness(fb *image.RGBA, st nav.State) error {
	drawHeader(fb, r.theme, "BRIGHTNESS")

	y := nav.HeaderHeight + 30
	drawText(fb, fmt.Sprintf("Current: %d%%", st.Brightness), marginSide, y, r.theme.Body, r.theme.White, false)
	y += 40
	drawSlider(fb, r.theme, st.Brightness, nav.BrightnessMin, nav.BrightnessMax, marginSide, y, 200)
	y += 40
	drawText(fb, "0%", marginSide, y, r.theme.Hint, r.theme.Gray, false)
	drawText(fb, "100%", nav.CanvasWidth-40, y, r.theme.Hint, r.theme.Gray, false)

	drawStatusBar(fb, r.theme, "^v Adjust  o Save")
	return nil
}

func (r *Renderer) renderTimeout(fb *image.RGBA, st nav.State) error {
	drawHeader(fb, r.theme, "SCREEN TIMEOUT")

	display := fmt.Sprintf("%d seconds", st.TimeoutSeconds)
	if st.TimeoutSeconds >= 60 {
		minutes := st.TimeoutSeconds / 60
		unit := "minutes"
		if minutes == 1 {
			unit = "minute"
		}
		display = fmt.Sprintf("%d %s", minutes, unit)
	}

	y := nav.HeaderHeight + 30
	drawText(fb, "Current: "+display, marginSide, y, r.theme.Body, r.theme.White, false)
	y += 40
	drawSlider(fb, r.theme, st.TimeoutSeconds, nav.TimeoutMin, nav.TimeoutMax, marginSide, y, 200)
	y += 40
	drawText(fb, "30s", marginSide, y, r.theme.Hint, r.theme.Gray, false)
	drawText(fb, "10m", nav.CanvasWidth-40, y, r.theme.Hint, r.theme.Gray, false)

	drawStatusBar(fb, r.theme, "^v Adjust  o Save")
	return nil
}

func (r *Renderer) renderLanguage(fb *image.RGBA, st nav.State) error {
	drawHeader(fb, r.theme, "LANGUAGE")

	names := map[string]string{
		"en": "English",
		"fi": "Suomi (Finnish)",
	}

	yStart := nav.HeaderHeight + 30
	const itemSpacing = 35
	for i, code := range nav.Languages {
		name, ok := names[code]
		if !ok {
			name = code
		}
		drawMenuItem(fb, r.theme, name, yStart+i*itemSpacing, code == st.Language)
	}

	drawStatusBar(fb, r.theme, "^v Select  o Apply")
	return nil
}

func (r *Renderer) renderReset(fb *image.RGBA, st nav.State) error {
	drawHeader(fb, r.theme, "RESET")

	const dialogWidth, dialogHeight = 260, 120
	dx := (nav.CanvasWidth - dialogWidth) / 2
	dy := nav.HeaderHeight + 30

	drawRoundedRect(fb, float64(dx), float64(dy), dialogWidth, dialogHeight, 6, r.theme.DarkGray)
	drawRectOutline(fb, dx, dy, dialogWidth, dialogHeight, r.theme.LightGray)

	drawText(fb, "Reset to defaults?", dx+dialogWidth/2, dy+16, r.theme.Body, r.theme.Orange, true)
	drawText(fb, "All settings will be lost", dx+dialogWidth/2, dy+44, r.theme.Hint, r.theme.Gray, true)

	buttonY := dy + 72
	drawButton(fb, r.theme, "YES", dx+40, buttonY, st.MenuIndex == 0)
	drawButton(fb, r.theme, "NO", dx+160, buttonY, st.MenuIndex == 1)

	drawStatusBar(fb, r.theme, "^v Select  o Confirm")
	return nil
}

func (r *Renderer) renderAbout(fb *image.RGBA, st nav.State) error {
	drawHeader(fb, r.theme, "ABOUT")

	y := nav.HeaderHeight + 10 - clampScroll(st)

	lines := []struct {
		label string
		value string
		dim   bool
	}{
		{"Device:", "CryptoWallet", false},
		{"Version:", "1.0.0", false},
		{"", "", false},
		{"Hardware:", "", false},
		{"- Display:", "ST7789 320x240", true},
		{"- Camera:", "RPi Cam v2/v3", true},
		{"- Input:", "HW-504 Joystick", true},
		{"- CPU:", "Raspberry Pi 4B", true},
		{"", "", false},
		{"Language:", st.Language, false},
	}

	for _, line := range lines {
		if line.label != "" {
			face := r.theme.Body
			clr := r.theme.White
			if line.dim {
				face = r.theme.Hint
				clr = r.theme.Gray
			}
			drawText(fb, line.label+" "+line.value, marginSide, y, face, clr, false)
		}
		y += 18
	}

	drawStatusBar(fb, r.theme, "< Back  ^v Scroll")
	return nil
}

func (r *Renderer) renderLoading(fb *image.RGBA, st nav.State) error {
	drawHeader(fb, r.theme, "PROCESSING...")

	msg := capString(st.LoadingMessage, 40)
	if msg == "" {
		msg = "Loading..."
	}
	drawText(fb, msg, nav.CanvasWidth/2, 80, r.theme.Body, r.theme.White, true)
	drawSpinner(fb, nav.CanvasWidth/2, 130, st.SpinnerFrame, nav.SpinnerAnimation.FrameCount)
	return nil
}

func (r *Renderer) renderError(fb *image.RGBA, st nav.State) error {
	drawHeader(fb, r.theme, "ERROR")

	y := nav.HeaderHeight + 20

	msg := capString(st.ErrorMessage, nav.MaxDisplayString)
	if msg == "" {
		msg = "An error occurred"
	}
	y += drawWrappedText(fb, msg, marginSide, y, nav.CanvasWidth-2*marginSide, r.theme.Body, r.theme.Red) + 10

	if code := capString(st.ErrorCode, 40); code != "" {
		drawText(fb, "Code: "+code, marginSide, y, r.theme.Hint, r.theme.Gray, false)
	}

	buttonY := nav.CanvasHeight - nav.StatusBarHeight - 50
	drawButton(fb, r.theme, "Retry", 50, buttonY, st.MenuIndex == 0)
	drawButton(fb, r.theme, "Back", 170, buttonY, st.MenuIndex == 1)

	drawStatusBar(fb, r.theme, "^v Select  o Execute")
	return nil
}

// clampScroll bounds the snapshot's scroll offset against the page's
// content height. The state machine maintains this invariant, but the
// renderer is the last line of defense against stale snapshots.
func clampScroll(st nav.State) int {
	off := st.ScrollOffset
	if off < 0 {
		return 0
	}
	if max := st.CurrentPage.MaxScroll(); off > max {
		return max
	}
	return off
}
