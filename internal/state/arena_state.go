// internal/state/arena_state.go
package state

import (
	"image"
	"image/color"

	"soppro-game/internal/config"
	"soppro-game/internal/contract"
	"soppro-game/internal/event"
	"soppro-game/internal/store"
	"soppro-game/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Длительность вспышки при уроне боссу, в секундах.
const hitFlashDuration = 0.4

// ArenaState — бой с боссом.
type ArenaState struct {
	deps     Deps
	attack   *ui.Button
	listener *event.FuncListener
	bossHp   int
	flash    float64
}

func NewArenaState(deps Deps) *ArenaState {
	x := (config.ScreenWidth - config.ButtonWidth) / 2
	y := config.ScreenHeight - 160
	rect := image.Rect(x, y, x+config.ButtonWidth, y+config.ButtonHeight)
	a := &ArenaState{deps: deps, attack: ui.NewButton(rect, "", deps.Fonts.Regular)}
	a.listener = event.NewListener(a.onBossChanged)
	return a
}

func (a *ArenaState) Enter() {
	a.bossHp, a.flash = -1, 0
	if boss := a.deps.Store.Boss(); boss != nil {
		a.bossHp = boss.Hp
	}
	a.deps.Store.Dispatcher().Subscribe(event.BossChanged, a.listener)
}

// onBossChanged зажигает вспышку, когда HP босса падает.
func (a *ArenaState) onBossChanged(e event.Event) {
	boss, ok := e.Data.(*contract.Boss)
	if !ok || boss == nil {
		return
	}
	if a.bossHp >= 0 && boss.Hp < a.bossHp {
		a.flash = hitFlashDuration
	}
	a.bossHp = boss.Hp
}

func (a *ArenaState) Update(deltaTime float64) {
	if a.flash > 0 {
		a.flash -= deltaTime
	}
	snap := a.deps.Store.Snapshot()
	a.attack.Disabled = snap.Boss == nil || snap.Attack == store.AttackAttacking
	a.attack.Text = "Attack"
	if snap.Boss != nil {
		a.attack.Text = "Attack " + snap.Boss.Name
	}
	if a.attack.Clicked() {
		a.deps.Intents.OnAttack()
	}
}

func (a *ArenaState) Draw(screen *ebiten.Image) {
	drawHeader(screen, a.deps, "Arena")
	snap := a.deps.Store.Snapshot()
	y := config.SubHeaderY + 20

	if snap.Boss != nil {
		x := config.ScreenWidth/4 - config.CardWidth/2
		ui.DrawCentered(screen, "Boss", a.deps.Fonts.Regular, x+config.CardWidth/2, y, config.TextDimColor)
		drawCharacterCard(screen, a.deps, *snap.Boss, x, y+8, config.BossHealthColor)
		if a.flash > 0 {
			alpha := uint8(160 * a.flash / hitFlashDuration)
			vector.DrawFilledRect(screen, float32(x), float32(y+8), config.CardWidth, config.CardHeight, color.RGBA{alpha, 0, 0, alpha}, false)
		}
	} else {
		ui.DrawCentered(screen, "Summoning the boss...", a.deps.Fonts.Regular, config.ScreenWidth/4, config.ScreenHeight/2-80, config.TextDimColor)
	}
	if snap.Character != nil {
		x := 3*config.ScreenWidth/4 - config.CardWidth/2
		ui.DrawCentered(screen, "Your Character", a.deps.Fonts.Regular, x+config.CardWidth/2, y, config.TextDimColor)
		drawCharacterCard(screen, a.deps, *snap.Character, x, y+8, config.HealthColor)
	}

	if snap.Attack == store.AttackAttacking && snap.Boss != nil {
		ui.DrawCentered(screen, "Attacking "+snap.Boss.Name+"...", a.deps.Fonts.Regular, config.ScreenWidth/2, config.ScreenHeight-180, config.AccentHover)
	}
	a.attack.Draw(screen)
}

func (a *ArenaState) Exit() {
	a.deps.Store.Dispatcher().Unsubscribe(event.BossChanged, a.listener)
}
