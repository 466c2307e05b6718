// internal/ui/fonts.go
package ui

import (
	"fmt"

	"soppro-game/internal/config"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Fonts — шрифты интерфейса.
type Fonts struct {
	Title   font.Face
	Regular font.Face
}

// LoadFonts загружает встроенный Go Regular в двух размерах.
func LoadFonts() (*Fonts, error) {
	tt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	title, err := opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    config.TitleFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("title face: %w", err)
	}
	regular, err := opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    config.RegularFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("regular face: %w", err)
	}
	return &Fonts{Title: title, Regular: regular}, nil
}
