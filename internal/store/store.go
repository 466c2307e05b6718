// internal/store/store.go
package store

import (
	"time"

	"soppro-game/internal/contract"
	"soppro-game/internal/event"

	"github.com/ethereum/go-ethereum/common"
)

// AttackState — стадия атаки на арене.
type AttackState string

const (
	AttackIdle      AttackState = ""
	AttackAttacking AttackState = "attacking"
	AttackHit       AttackState = "hit"
)

// NoticeKind — вид сообщения.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeInfo
	NoticeError
	// NoticeBlocking — показывается поверх экрана, пока его не закроют.
	NoticeBlocking
)

// Notice — сообщение пользователю.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Toast — всплывающее сообщение с временем жизни.
type Toast struct {
	Text  string
	Until time.Time
}

// Snapshot — копия состояния для отрисовки.
type Snapshot struct {
	Account      common.Address
	HasAccount   bool
	Character    *contract.Character
	Boss         *contract.Boss
	Roster       []contract.Character
	Loading      bool
	Minting      bool
	MintingIndex int
	Attack       AttackState
	Notice       Notice
	Toast        Toast
}

// Screen возвращает экран для этого снимка.
func (s Snapshot) Screen() Screen {
	return SelectScreen(s.Loading, s.HasAccount, s.Character != nil)
}

// Store — модель представления. Меняется только из цикла Update, каждое
// изменение публикуется через диспетчер.
type Store struct {
	dispatcher *event.Dispatcher
	state      Snapshot
}

// New создаёт пустое хранилище.
func New(dispatcher *event.Dispatcher) *Store {
	return &Store{dispatcher: dispatcher}
}

// Dispatcher возвращает диспетчер изменений.
func (s *Store) Dispatcher() *event.Dispatcher {
	return s.dispatcher
}

// Snapshot возвращает текущее состояние.
func (s *Store) Snapshot() Snapshot {
	snap := s.state
	snap.Roster = append([]contract.Character(nil), s.state.Roster...)
	return snap
}

// Screen возвращает текущий экран.
func (s *Store) Screen() Screen {
	return s.state.Screen()
}

func (s *Store) Account() (common.Address, bool) {
	return s.state.Account, s.state.HasAccount
}

func (s *Store) Character() *contract.Character {
	return s.state.Character
}

func (s *Store) Boss() *contract.Boss {
	return s.state.Boss
}

func (s *Store) Roster() []contract.Character {
	return s.state.Roster
}

func (s *Store) Loading() bool {
	return s.state.Loading
}

func (s *Store) Minting() bool {
	return s.state.Minting
}

func (s *Store) Attack() AttackState {
	return s.state.Attack
}

func (s *Store) Notice() Notice {
	return s.state.Notice
}

// SetAccount запоминает аккаунт. При смене аккаунта персонаж, босс и
// список шаблонов сбрасываются: они принадлежали прежнему аккаунту.
func (s *Store) SetAccount(account common.Address) {
	if s.state.HasAccount && s.state.Account == account {
		return
	}
	s.state.Account = account
	s.state.HasAccount = true
	s.resetAccountData()
	s.dispatch(event.AccountChanged, account)
}

// ClearAccount забывает аккаунт (отключение кошелька).
func (s *Store) ClearAccount() {
	if !s.state.HasAccount {
		return
	}
	s.state.Account = common.Address{}
	s.state.HasAccount = false
	s.resetAccountData()
	s.dispatch(event.AccountChanged, nil)
}

func (s *Store) resetAccountData() {
	s.state.Character = nil
	s.state.Boss = nil
	s.state.Roster = nil
	s.state.Minting = false
	s.state.Attack = AttackIdle
	s.state.Toast = Toast{}
}

// SetCharacter заменяет персонажа целиком (nil — персонажа нет).
func (s *Store) SetCharacter(ch *contract.Character) {
	if ch != nil {
		fresh := *ch
		ch = &fresh
	}
	s.state.Character = ch
	s.dispatch(event.CharacterChanged, ch)
}

// SetBoss заменяет босса целиком.
func (s *Store) SetBoss(boss *contract.Boss) {
	if boss != nil {
		fresh := *boss
		boss = &fresh
	}
	s.state.Boss = boss
	s.dispatch(event.BossChanged, boss)
}

// SetRoster запоминает список шаблонов для минта.
func (s *Store) SetRoster(roster []contract.Character) {
	s.state.Roster = append([]contract.Character(nil), roster...)
	s.dispatch(event.RosterLoaded, len(roster))
}

// ApplyAttacked меняет только HP босса и персонажа, остальные поля остаются.
func (s *Store) ApplyAttacked(newBossHp, newPlayerHp int) {
	if s.state.Boss != nil {
		boss := *s.state.Boss
		boss.Hp = newBossHp
		s.state.Boss = &boss
		s.dispatch(event.BossChanged, s.state.Boss)
	}
	if s.state.Character != nil {
		ch := *s.state.Character
		ch.Hp = newPlayerHp
		s.state.Character = &ch
		s.dispatch(event.CharacterChanged, s.state.Character)
	}
}

func (s *Store) SetLoading(loading bool) {
	if s.state.Loading == loading {
		return
	}
	s.state.Loading = loading
	s.dispatch(event.LoadingChanged, loading)
}

// SetMinting отмечает минт шаблона index как идущий (или завершённый).
func (s *Store) SetMinting(minting bool, index int) {
	s.state.Minting = minting
	s.state.MintingIndex = index
	s.dispatch(event.ActivityChanged, minting)
}

func (s *Store) SetAttack(state AttackState) {
	s.state.Attack = state
	s.dispatch(event.ActivityChanged, state)
}

// SetNotice показывает сообщение. Пустой Notice скрывает текущее.
func (s *Store) SetNotice(n Notice) {
	s.state.Notice = n
	s.dispatch(event.NoticeRaised, n)
}

// DismissNotice скрывает сообщение.
func (s *Store) DismissNotice() {
	s.SetNotice(Notice{})
}

// ShowToast показывает всплывающее сообщение до момента until.
func (s *Store) ShowToast(text string, until time.Time) {
	s.state.Toast = Toast{Text: text, Until: until}
}

// ExpireToast убирает сообщение, если его время прошло.
func (s *Store) ExpireToast(now time.Time) {
	if s.state.Toast.Text != "" && !now.Before(s.state.Toast.Until) {
		s.state.Toast = Toast{}
	}
}

func (s *Store) dispatch(t event.EventType, data interface{}) {
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(event.Event{Type: t, Data: data})
	}
}
