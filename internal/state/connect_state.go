// internal/state/connect_state.go
package state

import (
	"image"

	"soppro-game/internal/config"
	"soppro-game/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
)

// ConnectState — стартовый экран без подключенного кошелька.
type ConnectState struct {
	deps    Deps
	connect *ui.Button
}

func NewConnectState(deps Deps) *ConnectState {
	x := (config.ScreenWidth - config.ButtonWidth) / 2
	y := config.ScreenHeight / 2
	rect := image.Rect(x, y, x+config.ButtonWidth, y+config.ButtonHeight)
	return &ConnectState{deps: deps, connect: ui.NewButton(rect, "Connect Wallet", deps.Fonts.Regular)}
}

func (c *ConnectState) Enter() {}

func (c *ConnectState) Update(deltaTime float64) {
	if c.connect.Clicked() {
		c.deps.Intents.OnConnect()
	}
}

func (c *ConnectState) Draw(screen *ebiten.Image) {
	drawHeader(screen, c.deps, "Soppro Game")
	ui.DrawCentered(screen, "Team up to protect the Metaverse!", c.deps.Fonts.Regular, config.ScreenWidth/2, config.SubHeaderY, config.TextDimColor)
	c.connect.Draw(screen)
}

func (c *ConnectState) Exit() {}
