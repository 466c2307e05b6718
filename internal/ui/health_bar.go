// internal/ui/health_bar.go
package ui

import (
	"fmt"
	"image/color"

	"soppro-game/internal/config"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

// DrawHealthBar рисует полосу здоровья и подпись "hp / maxHp HP" под ней.
func DrawHealthBar(screen *ebiten.Image, face font.Face, x, y, width int, hp, maxHp int, fill color.Color) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(width), config.HealthBarHeight, config.HealthBgColor, true)
	if maxHp > 0 && hp > 0 {
		ratio := float32(hp) / float32(maxHp)
		if ratio > 1 {
			ratio = 1
		}
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(width)*ratio, config.HealthBarHeight, fill, true)
	}
	vector.StrokeRect(screen, float32(x), float32(y), float32(width), config.HealthBarHeight, 1, config.TextDimColor, true)
	DrawCentered(screen, fmt.Sprintf("%d / %d HP", hp, maxHp), face, x+width/2, y+config.HealthBarHeight+18, config.TextLightColor)
}
