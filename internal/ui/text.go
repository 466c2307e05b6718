// internal/ui/text.go
package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
)

// DrawCentered рисует строку по центру относительно centerX, с базовой линией на y.
func DrawCentered(screen *ebiten.Image, s string, face font.Face, centerX, y int, clr color.Color) {
	bounds := text.BoundString(face, s)
	text.Draw(screen, s, face, centerX-bounds.Dx()/2, y, clr)
}

// DrawText рисует строку слева направо.
func DrawText(screen *ebiten.Image, s string, face font.Face, x, y int, clr color.Color) {
	text.Draw(screen, s, face, x, y, clr)
}
