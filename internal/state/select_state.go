// internal/state/select_state.go
package state

import (
	"fmt"
	"image"

	"soppro-game/internal/config"
	"soppro-game/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
)

// SelectState — выбор и минт персонажа из шаблонов контракта.
type SelectState struct {
	deps    Deps
	buttons []*ui.Button
}

func NewSelectState(deps Deps) *SelectState {
	return &SelectState{deps: deps}
}

func (s *SelectState) Enter() {
	s.buttons = nil
}

// cardOrigin раскладывает карточки в строку по центру экрана.
func cardOrigin(i, n int) (int, int) {
	total := n*config.CardWidth + (n-1)*config.CardSpacing
	x := (config.ScreenWidth-total)/2 + i*(config.CardWidth+config.CardSpacing)
	return x, config.SubHeaderY + 40
}

func (s *SelectState) layout(n int) {
	if len(s.buttons) == n {
		return
	}
	s.buttons = make([]*ui.Button, n)
	for i := range n {
		x, y := cardOrigin(i, n)
		top := y + config.CardHeight + 60
		rect := image.Rect(x+20, top, x+config.CardWidth-20, top+config.ButtonHeight)
		s.buttons[i] = ui.NewButton(rect, "", s.deps.Fonts.Regular)
	}
}

func (s *SelectState) Update(deltaTime float64) {
	snap := s.deps.Store.Snapshot()
	s.layout(len(snap.Roster))
	for i, b := range s.buttons {
		b.Disabled = snap.Minting
		b.Text = fmt.Sprintf("Mint %s", snap.Roster[i].Name)
		if snap.Minting && snap.MintingIndex == i {
			b.Text = "Minting..."
		}
		if b.Clicked() {
			s.deps.Intents.OnMintCharacter(i)
			return
		}
	}
}

func (s *SelectState) Draw(screen *ebiten.Image) {
	drawHeader(screen, s.deps, "Mint Your Hero. Choose wisely.")
	snap := s.deps.Store.Snapshot()
	if len(snap.Roster) == 0 {
		ui.DrawCentered(screen, "Fetching characters...", s.deps.Fonts.Regular, config.ScreenWidth/2, config.ScreenHeight/2, config.TextDimColor)
		return
	}
	for i, ch := range snap.Roster {
		x, y := cardOrigin(i, len(snap.Roster))
		drawCharacterCard(screen, s.deps, ch, x, y, config.HealthColor)
	}
	for _, b := range s.buttons {
		b.Draw(screen)
	}
}

func (s *SelectState) Exit() {}
