package render

import (
	"fmt"
	"image/color"
	"log"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// Font sizes in points, matching the original device layout.
const (
	fontSizeHeader = 20
	fontSizeMenu   = 16
	fontSizeBody   = 14
	fontSizeStatus = 11
	fontSizeHint   = 10
)

// Theme bundles the palette and font faces used by every page renderer. A
// Theme is immutable after construction.
type Theme struct {
	Black     color.RGBA
	White     color.RGBA
	Green     color.RGBA
	DarkGreen color.RGBA
	Red       color.RGBA
	Orange    color.RGBA
	Cyan      color.RGBA
	Yellow    color.RGBA
	Gray      color.RGBA
	DarkGray  color.RGBA
	LightGray color.RGBA

	Header font.Face
	Menu   font.Face
	Body   font.Face
	Status font.Face
	Hint   font.Face
}

func palette() Theme {
	return Theme{
		Black:     color.RGBA{0, 0, 0, 255},
		White:     color.RGBA{255, 255, 255, 255},
		Green:     color.RGBA{0, 255, 0, 255},
		DarkGreen: color.RGBA{0, 128, 0, 255},
		Red:       color.RGBA{255, 0, 0, 255},
		Orange:    color.RGBA{255, 165, 0, 255},
		Cyan:      color.RGBA{0, 255, 255, 255},
		Yellow:    color.RGBA{255, 255, 0, 255},
		Gray:      color.RGBA{128, 128, 128, 255},
		DarkGray:  color.RGBA{32, 32, 32, 255},
		LightGray: color.RGBA{192, 192, 192, 255},
	}
}

// DefaultTheme returns the palette with the built-in bitmap font on every
// face. It needs no files and renders deterministically, which is what the
// tests use.
func DefaultTheme() *Theme {
	t := palette()
	face := basicfont.Face7x13
	t.Header = face
	t.Menu = face
	t.Body = face
	t.Status = face
	t.Hint = face
	return &t
}

// LoadTheme builds a theme from a TTF file. A missing file degrades to the
// built-in bitmap font with a log line; a file that exists but fails to
// parse is an error.
func LoadTheme(fontPath string) (*Theme, error) {
	if fontPath == "" {
		return DefaultTheme(), nil
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		log.Printf("theme: font %s not readable (%v), using built-in font", fontPath, err)
		return DefaultTheme(), nil
	}
	ttf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("theme: parsing font %s: %w", fontPath, err)
	}

	t := palette()
	for _, f := range []struct {
		dst  *font.Face
		size float64
	}{
		{&t.Header, fontSizeHeader},
		{&t.Menu, fontSizeMenu},
		{&t.Body, fontSizeBody},
		{&t.Status, fontSizeStatus},
		{&t.Hint, fontSizeHint},
	} {
		face, err := opentype.NewFace(ttf, &opentype.FaceOptions{
			Size:    f.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("theme: building %gpt face: %w", f.size, err)
		}
		*f.dst = face
	}
	return &t, nil
}

// validate reports why a theme is unusable for rendering. The renderer
// refuses a malformed theme instead of producing a partially drawn canvas.
func (t *Theme) validate() error {
	if t == nil {
		return fmt.Errorf("theme: nil theme")
	}
	for name, f := range map[string]font.Face{
		"header": t.Header,
		"menu":   t.Menu,
		"body":   t.Body,
		"status": t.Status,
		"hint":   t.Hint,
	} {
		if f == nil {
			return fmt.Errorf("theme: missing %s font face", name)
		}
	}
	return nil
}
