// internal/state/router.go
package state

import (
	"log"

	"soppro-game/internal/config"
	"soppro-game/internal/store"
	"soppro-game/internal/ui"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Router переключает состояния машины по экрану, который выбирает хранилище,
// и рисует поверх них тост и сообщения.
type Router struct {
	sm      *StateMachine
	deps    Deps
	current store.Screen
	notice  *ui.NoticeBar
}

func NewRouter(sm *StateMachine, deps Deps) *Router {
	return &Router{sm: sm, deps: deps, notice: ui.NewNoticeBar(deps.Fonts.Regular)}
}

func (r *Router) build(screen store.Screen) State {
	switch screen {
	case store.ScreenLoading:
		return NewLoadingState(r.deps)
	case store.ScreenSelect:
		return NewSelectState(r.deps)
	case store.ScreenArena:
		return NewArenaState(r.deps)
	default:
		return NewConnectState(r.deps)
	}
}

func (r *Router) Update(deltaTime float64) {
	if screen := r.deps.Store.Screen(); r.sm.Current() == nil || screen != r.current {
		log.Printf("Screen: %s", screen)
		r.sm.SetState(r.build(screen))
		r.current = screen
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if acc, ok := r.deps.Store.Account(); ok {
			if err := clipboard.WriteAll(acc.Hex()); err != nil {
				log.Printf("WARNING: copy address: %v", err)
			}
		}
	}

	n := r.deps.Store.Notice()
	if n.Kind != store.NoticeNone {
		if r.notice.Close.Clicked() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			r.deps.Intents.OnDismissNotice()
			return
		}
		if n.Kind == store.NoticeBlocking {
			return
		}
	}
	r.sm.Update(deltaTime)
}

func (r *Router) Draw(screen *ebiten.Image) {
	r.sm.Draw(screen)
	snap := r.deps.Store.Snapshot()
	ui.DrawToast(screen, r.deps.Fonts.Regular, snap.Toast.Text)
	if snap.Notice.Kind != store.NoticeNone {
		clr := config.NoticeColor
		if snap.Notice.Kind == store.NoticeInfo {
			clr = config.TextDimColor
		}
		r.notice.Draw(screen, snap.Notice.Text, snap.Notice.Kind == store.NoticeBlocking, clr)
	}
}
