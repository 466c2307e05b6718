// internal/state/loading_state.go
package state

import (
	"strings"

	"soppro-game/internal/config"
	"soppro-game/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
)

// LoadingState — экран ожидания чтения с контракта.
type LoadingState struct {
	deps    Deps
	elapsed float64
}

func NewLoadingState(deps Deps) *LoadingState {
	return &LoadingState{deps: deps}
}

func (l *LoadingState) Enter() {
	l.elapsed = 0
}

func (l *LoadingState) Update(deltaTime float64) {
	l.elapsed += deltaTime
}

func (l *LoadingState) Draw(screen *ebiten.Image) {
	drawHeader(screen, l.deps, "Soppro Game")
	dots := strings.Repeat(".", int(l.elapsed*2)%4)
	ui.DrawCentered(screen, "Loading"+dots, l.deps.Fonts.Title, config.ScreenWidth/2, config.ScreenHeight/2, config.TextDimColor)
}

func (l *LoadingState) Exit() {}
