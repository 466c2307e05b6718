// internal/ui/overlay.go
package ui

import (
	"image"
	"image/color"

	"soppro-game/internal/config"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

// DrawToast рисует всплывающее сообщение вверху экрана.
func DrawToast(screen *ebiten.Image, face font.Face, msg string) {
	if msg == "" {
		return
	}
	w := config.ScreenWidth / 2
	x := (config.ScreenWidth - w) / 2
	y := 12
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), config.ToastHeight, config.ToastColor, true)
	DrawCentered(screen, msg, face, config.ScreenWidth/2, y+config.ToastHeight/2+6, config.TextLightColor)
}

// NoticeBar — строка сообщения внизу экрана с кнопкой закрытия.
type NoticeBar struct {
	Close *Button
	face  font.Face
}

func NewNoticeBar(face font.Face) *NoticeBar {
	closeRect := image.Rect(config.ScreenWidth-120, config.ScreenHeight-52, config.ScreenWidth-20, config.ScreenHeight-16)
	return &NoticeBar{Close: NewButton(closeRect, "OK", face), face: face}
}

// Draw рисует сообщение; blocking затемняет весь экран.
func (n *NoticeBar) Draw(screen *ebiten.Image, msg string, blocking bool, clr color.Color) {
	if msg == "" {
		return
	}
	if blocking {
		vector.DrawFilledRect(screen, 0, 0, config.ScreenWidth, config.ScreenHeight, color.RGBA{0, 0, 0, 160}, false)
	}
	y := float32(config.ScreenHeight - 64)
	vector.DrawFilledRect(screen, 0, y, config.ScreenWidth, 64, config.PanelColor, true)
	vector.StrokeRect(screen, 0, y, config.ScreenWidth, 64, 2, clr, true)
	DrawText(screen, msg, n.face, 20, config.ScreenHeight-28, clr)
	n.Close.Draw(screen)
}
