// internal/state/screens.go
package state

import (
	"fmt"
	"image/color"

	"soppro-game/internal/config"
	"soppro-game/internal/contract"
	"soppro-game/internal/store"
	"soppro-game/internal/ui"

	"github.com/ethereum/go-ethereum/common"
	"github.com/hajimehoshi/ebiten/v2"
)

// Intents — действия пользователя, которые экраны передают сессии.
type Intents interface {
	OnConnect()
	OnMintCharacter(index int)
	OnAttack()
	OnDismissNotice()
}

// Deps — общее окружение экранов.
type Deps struct {
	Store     *store.Store
	Intents   Intents
	Fonts     *ui.Fonts
	Portraits *ui.Portraits
}

func shortAddress(a common.Address) string {
	hex := a.Hex()
	return hex[:6] + "..." + hex[len(hex)-4:]
}

func drawHeader(screen *ebiten.Image, d Deps, title string) {
	screen.Fill(config.BackgroundColor)
	ui.DrawCentered(screen, title, d.Fonts.Title, config.ScreenWidth/2, config.HeaderY, config.TextLightColor)
	if acc, ok := d.Store.Account(); ok {
		ui.DrawText(screen, "Wallet: "+shortAddress(acc)+"  (C to copy)", d.Fonts.Regular, 16, 24, config.TextDimColor)
	}
}

// drawCharacterCard рисует портрет, имя, полосу здоровья и урон.
func drawCharacterCard(screen *ebiten.Image, d Deps, ch contract.Character, x, y int, fill color.Color) {
	portraitX := x + (config.CardWidth-config.PortraitSize)/2
	d.Portraits.Draw(screen, ch.ImageURI, portraitX, y+16, config.PortraitSize)
	nameY := y + 16 + config.PortraitSize + 28
	ui.DrawCentered(screen, ch.Name, d.Fonts.Regular, x+config.CardWidth/2, nameY, config.TextLightColor)
	barY := nameY + 12
	ui.DrawHealthBar(screen, d.Fonts.Regular, x+16, barY, config.CardWidth-32, ch.Hp, ch.MaxHp, fill)
	dmgY := barY + config.HealthBarHeight + 42
	ui.DrawCentered(screen, fmt.Sprintf("Attack Damage: %d", ch.AttackDamage), d.Fonts.Regular, x+config.CardWidth/2, dmgY, config.TextDimColor)
}
