// internal/ui/button.go
package ui

import (
	"image"
	"image/color"

	"soppro-game/internal/config"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

// Button представляет кликабельную кнопку в UI.
type Button struct {
	Rect     image.Rectangle
	Text     string
	Disabled bool
	fontFace font.Face
}

// NewButton создает новую кнопку.
func NewButton(rect image.Rectangle, label string, face font.Face) *Button {
	return &Button{Rect: rect, Text: label, fontFace: face}
}

// Clicked — была ли кнопка нажата в этом кадре.
func (b *Button) Clicked() bool {
	if b.Disabled || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	x, y := ebiten.CursorPosition()
	return image.Pt(x, y).In(b.Rect)
}

func (b *Button) hovered() bool {
	x, y := ebiten.CursorPosition()
	return image.Pt(x, y).In(b.Rect)
}

// Draw отрисовывает кнопку.
func (b *Button) Draw(screen *ebiten.Image) {
	var bg color.Color = config.AccentColor
	switch {
	case b.Disabled:
		bg = config.DisabledColor
	case b.hovered():
		bg = config.AccentHover
	}
	x, y := float32(b.Rect.Min.X), float32(b.Rect.Min.Y)
	w, h := float32(b.Rect.Dx()), float32(b.Rect.Dy())
	vector.DrawFilledRect(screen, x, y, w, h, bg, true)
	vector.StrokeRect(screen, x, y, w, h, 2, config.PanelBorder, true)

	textBounds := text.BoundString(b.fontFace, b.Text)
	textX := b.Rect.Min.X + (b.Rect.Dx()-textBounds.Dx())/2
	textY := b.Rect.Min.Y + (b.Rect.Dy()-textBounds.Dy())/2 - textBounds.Min.Y
	text.Draw(screen, b.Text, b.fontFace, textX, textY, config.TextLightColor)
}
