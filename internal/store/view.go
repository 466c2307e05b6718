// internal/store/view.go
package store

// Screen — экран, который нужно показать.
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenConnect
	ScreenSelect
	ScreenArena
)

func (s Screen) String() string {
	switch s {
	case ScreenLoading:
		return "loading"
	case ScreenConnect:
		return "connect"
	case ScreenSelect:
		return "select"
	case ScreenArena:
		return "arena"
	}
	return "unknown"
}

// SelectScreen выбирает экран. Загрузка важнее всего, затем нужен аккаунт,
// затем персонаж.
func SelectScreen(loading, hasAccount, hasCharacter bool) Screen {
	switch {
	case loading:
		return ScreenLoading
	case !hasAccount:
		return ScreenConnect
	case !hasCharacter:
		return ScreenSelect
	default:
		return ScreenArena
	}
}
