// internal/app/session.go
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"soppro-game/internal/contract"
	"soppro-game/internal/store"
	"soppro-game/internal/wallet"

	"github.com/ethereum/go-ethereum/common"
)

// Options — настройки сессии.
type Options struct {
	ToastDuration time.Duration
	// AccountPoll — период опроса eth_accounts; 0 отключает опрос.
	AccountPoll time.Duration
	Now         func() time.Time
}

// Session связывает кошелёк, контракт и хранилище. Все изменения
// хранилища выполняются в Update; сетевые вызовы идут в горутинах и
// возвращают результат через почтовый ящик.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc

	gateway Gateway
	bind    Binder
	store   *store.Store
	opts    Options

	mu      sync.Mutex
	mailbox []func()
	wg      sync.WaitGroup

	// Поля ниже трогаются только из Update.
	binding    Binding
	generation uint64
	subs       map[string]Unsubscriber
	// resubscribed — события, подписку на которые уже восстанавливали
	// для текущей привязки.
	resubscribed map[string]bool
	rosterFailed bool
	screen       store.Screen
	entered      bool
}

// NewSession создаёт сессию.
func NewSession(gateway Gateway, bind Binder, st *store.Store, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ctx:     ctx,
		cancel:  cancel,
		gateway: gateway,
		bind:    bind,
		store:   st,
		opts:    opts,
		subs:    make(map[string]Unsubscriber),

		resubscribed: make(map[string]bool),
	}
}

// Store возвращает хранилище сессии.
func (s *Session) Store() *store.Store {
	return s.store
}

// Start проверяет кошелёк и уже авторизованный аккаунт.
func (s *Session) Start() {
	if !s.gateway.DetectProvider() {
		log.Println("Wallet provider must be configured (SOPPRO_RPC_URL)")
		return
	}
	log.Println("Wallet provider detected")

	gen := s.generation
	s.goAsync(func(ctx context.Context) {
		acc, ok, err := s.gateway.AuthorizedAccount(ctx)
		s.post(gen, func() {
			if err != nil {
				log.Printf("Authorised account check failed: %v", err)
				return
			}
			if ok {
				s.switchAccount(acc)
			}
		})
	})

	if s.opts.AccountPoll > 0 {
		s.goAsync(s.pollAccounts)
	}
}

// Close снимает подписки, закрывает привязку и ждёт фоновые вызовы.
func (s *Session) Close() {
	s.unbind()
	s.cancel()
	s.wg.Wait()
}

// Update выполняет накопленные результаты и синхронизирует подписки
// текущего экрана. Вызывается из игрового цикла.
func (s *Session) Update() {
	s.mu.Lock()
	pending := s.mailbox
	s.mailbox = nil
	s.mu.Unlock()

	for _, fn := range pending {
		fn()
	}

	s.store.ExpireToast(s.opts.Now())
	s.syncScreen()
}

// OnConnect — пользователь нажал «Connect Wallet».
func (s *Session) OnConnect() {
	if !s.gateway.DetectProvider() {
		s.store.SetNotice(store.Notice{Kind: store.NoticeBlocking, Text: "Please install a wallet provider"})
		return
	}
	gen := s.generation
	s.goAsync(func(ctx context.Context) {
		acc, err := s.gateway.RequestConnection(ctx)
		s.post(gen, func() {
			switch {
			case err == nil:
				s.switchAccount(acc)
			case errors.Is(err, wallet.ErrUserRejected):
				log.Printf("Connection rejected: %v", err)
				s.store.SetNotice(store.Notice{Kind: store.NoticeInfo, Text: "Connection request was rejected"})
			case errors.Is(err, wallet.ErrProviderUnavailable):
				s.store.SetNotice(store.Notice{Kind: store.NoticeBlocking, Text: "Please install a wallet provider"})
			default:
				log.Printf("Connect failed: %v", err)
				s.store.SetNotice(store.Notice{Kind: store.NoticeError, Text: "Could not connect to the wallet"})
			}
		})
	})
}

// OnAccountChanged — кошелёк сообщил о смене аккаунта (ok=false — отключение).
func (s *Session) OnAccountChanged(acc common.Address, ok bool) {
	if !ok {
		s.disconnect()
		return
	}
	s.switchAccount(acc)
}

// OnMintCharacter — пользователь выбрал шаблон index.
func (s *Session) OnMintCharacter(index int) {
	if s.binding == nil || s.store.Minting() {
		return
	}
	if index < 0 || index >= len(s.store.Roster()) {
		log.Printf("Mint ignored: index %d out of roster range", index)
		return
	}
	s.store.SetMinting(true, index)
	binding, gen := s.binding, s.generation
	s.goAsync(func(ctx context.Context) {
		err := s.submitAndWait(ctx, func() (Pending, error) { return binding.MintCharacter(ctx, index) })
		s.post(gen, func() {
			s.store.SetMinting(false, index)
			if err != nil {
				log.Printf("Mint character %d failed: %v", index, err)
				s.store.SetNotice(writeNotice("Minting", err))
				return
			}
			log.Printf("Character %d minted", index)
			if _, live := s.subs[contract.EventCharacterMinted]; !live {
				s.rereadCharacter()
			}
		})
	})
}

// OnAttack — пользователь нажал «Attack».
func (s *Session) OnAttack() {
	if s.binding == nil || s.store.Attack() == store.AttackAttacking || s.store.Boss() == nil {
		return
	}
	s.store.SetAttack(store.AttackAttacking)
	binding, gen := s.binding, s.generation
	s.goAsync(func(ctx context.Context) {
		err := s.submitAndWait(ctx, func() (Pending, error) { return binding.AttackBoss(ctx) })
		s.post(gen, func() {
			if err != nil {
				log.Printf("Attack boss failed: %v", err)
				s.store.SetAttack(store.AttackIdle)
				s.store.SetNotice(writeNotice("Attack", err))
				return
			}
			s.store.SetAttack(store.AttackHit)
			if _, live := s.subs[contract.EventAttacked]; !live {
				s.refreshArena()
			}
			if boss, ch := s.store.Boss(), s.store.Character(); boss != nil && ch != nil {
				s.store.ShowToast(fmt.Sprintf("%s was hit for %d!", boss.Name, ch.AttackDamage), s.opts.Now().Add(s.opts.ToastDuration))
			}
		})
	})
}

// OnDismissNotice — пользователь закрыл сообщение.
func (s *Session) OnDismissNotice() {
	s.store.DismissNotice()
	if s.rosterFailed && s.binding != nil && s.entered && s.screen == store.ScreenSelect {
		s.loadRoster()
	}
}

func (s *Session) submitAndWait(ctx context.Context, submit func() (Pending, error)) error {
	tx, err := submit()
	if err != nil {
		return err
	}
	_, err = tx.Wait(ctx)
	return err
}

func writeNotice(action string, err error) store.Notice {
	switch {
	case errors.Is(err, contract.ErrConfirmTimeout):
		return store.Notice{Kind: store.NoticeError, Text: action + " is taking too long, try again"}
	case errors.Is(err, contract.ErrTransactionReverted):
		return store.Notice{Kind: store.NoticeError, Text: action + " was reverted by the contract"}
	case errors.Is(err, wallet.ErrUserRejected):
		return store.Notice{Kind: store.NoticeInfo, Text: action + " was cancelled in the wallet"}
	default:
		return store.Notice{Kind: store.NoticeError, Text: action + " failed, try again"}
	}
}

// switchAccount перепривязывает контракт: сначала снимаются все подписки
// старой привязки, затем она закрывается, и только потом создаётся новая.
func (s *Session) switchAccount(acc common.Address) {
	if current, ok := s.store.Account(); ok && current == acc && s.binding != nil {
		return
	}
	s.unbind()
	s.store.SetAccount(acc)

	binding, err := s.bind(s.ctx, acc)
	if err != nil {
		log.Printf("Bind contract for %s failed: %v", acc.Hex(), err)
		s.store.SetNotice(store.Notice{Kind: store.NoticeError, Text: "Could not reach the game contract"})
		return
	}
	s.binding = binding
	s.loadCharacter()
}

func (s *Session) disconnect() {
	if _, ok := s.store.Account(); !ok {
		return
	}
	log.Println("Wallet disconnected")
	s.unbind()
	s.store.ClearAccount()
	s.store.SetLoading(false)
}

func (s *Session) unbind() {
	for name, sub := range s.subs {
		sub.Unsubscribe()
		delete(s.subs, name)
	}
	if s.binding != nil {
		s.binding.Close()
		s.binding = nil
	}
	clear(s.resubscribed)
	s.rosterFailed = false
	// Всё, что ещё летит от старой привязки, будет отброшено.
	s.generation++
	s.entered = false
}

func (s *Session) loadCharacter() {
	s.store.SetLoading(true)
	binding, gen := s.binding, s.generation
	s.goAsync(func(ctx context.Context) {
		ch, err := binding.HasCharacter(ctx)
		s.post(gen, func() {
			s.store.SetLoading(false)
			s.applyCharacterRead(ch, err)
		})
	})
}

func (s *Session) applyCharacterRead(ch contract.Character, err error) {
	switch {
	case err == nil:
		s.store.SetCharacter(&ch)
	case errors.Is(err, contract.ErrNoCharacterFound):
		log.Println("No character for this account")
		s.store.SetCharacter(nil)
		s.store.SetNotice(store.Notice{Kind: store.NoticeInfo, Text: "No character exists yet, pick one to mint"})
	default:
		log.Printf("Read character failed: %v", err)
		s.store.SetCharacter(nil)
		s.store.SetNotice(store.Notice{Kind: store.NoticeError, Text: "Could not load your character"})
	}
}

// syncScreen держит подписки в соответствии с экраном: на выборе нужен
// CharacterMinted, на арене — Attacked.
func (s *Session) syncScreen() {
	screen := s.store.Screen()
	if s.entered && screen == s.screen {
		return
	}
	if s.entered {
		s.leaveScreen(s.screen)
	}
	s.screen = screen
	s.entered = true
	if s.binding == nil {
		return
	}
	switch screen {
	case store.ScreenSelect:
		s.enterSelect()
	case store.ScreenArena:
		s.enterArena()
	}
}

func (s *Session) leaveScreen(screen store.Screen) {
	switch screen {
	case store.ScreenSelect:
		s.unsubscribe(contract.EventCharacterMinted)
	case store.ScreenArena:
		s.unsubscribe(contract.EventAttacked)
	}
}

func (s *Session) enterSelect() {
	s.loadRoster()
	s.subscribe(contract.EventCharacterMinted, s.generation)
}

// loadRoster читает шаблоны. После неудачи чтение повторяется, когда
// пользователь закрывает сообщение об ошибке.
func (s *Session) loadRoster() {
	s.rosterFailed = false
	binding, gen := s.binding, s.generation
	s.goAsync(func(ctx context.Context) {
		roster, err := binding.DefaultCharacters(ctx)
		s.post(gen, func() {
			if err != nil {
				log.Printf("Read default characters failed: %v", err)
				s.rosterFailed = true
				s.store.SetNotice(store.Notice{Kind: store.NoticeError, Text: "Could not load characters, press OK to retry"})
				return
			}
			s.store.SetRoster(roster)
		})
	})
}

func (s *Session) enterArena() {
	s.loadBoss()
	s.subscribe(contract.EventAttacked, s.generation)
}

func (s *Session) loadBoss() {
	binding, gen := s.binding, s.generation
	s.goAsync(func(ctx context.Context) {
		boss, err := binding.BossLevel1(ctx)
		s.post(gen, func() {
			if err != nil {
				log.Printf("Read boss failed: %v", err)
				s.store.SetNotice(store.Notice{Kind: store.NoticeError, Text: "Could not load the boss"})
				return
			}
			s.store.SetBoss(&boss)
		})
	})
}

// refreshArena заменяет событие Attacked, когда подписки на него нет.
// Неудачное чтение персонажа оставляет прежнее значение.
func (s *Session) refreshArena() {
	s.loadBoss()
	binding, gen := s.binding, s.generation
	s.goAsync(func(ctx context.Context) {
		ch, err := binding.HasCharacter(ctx)
		s.post(gen, func() {
			if err != nil {
				log.Printf("Refresh character failed: %v", err)
				return
			}
			s.store.SetCharacter(&ch)
		})
	})
}

func (s *Session) applyFor(name string) func(contract.Event) {
	switch name {
	case contract.EventCharacterMinted:
		return s.onCharacterMinted
	case contract.EventAttacked:
		return s.onAttacked
	}
	return nil
}

func (s *Session) subscribe(name string, gen uint64) {
	if _, ok := s.subs[name]; ok {
		return
	}
	apply := s.applyFor(name)
	sub, err := s.binding.Subscribe(s.ctx, name, func(ev contract.Event) {
		s.post(gen, func() { apply(ev) })
	})
	if err != nil {
		log.Printf("Subscribe %s failed: %v", name, err)
		s.store.SetNotice(store.Notice{Kind: store.NoticeInfo, Text: "Live updates are unavailable, the view refreshes after your own actions"})
		return
	}
	s.subs[name] = sub
	s.watch(name, gen, sub)
}

// watch сообщает в ящик, когда подписка завершилась.
func (s *Session) watch(name string, gen uint64, sub Unsubscriber) {
	s.goAsync(func(ctx context.Context) {
		select {
		case <-sub.Done():
		case <-ctx.Done():
			return
		}
		s.post(gen, func() { s.onSubscriptionEnded(name, gen, sub) })
	})
}

// onSubscriptionEnded восстанавливает оборвавшуюся подписку один раз на
// привязку; снятые через unsubscribe подписки в s.subs уже не числятся.
func (s *Session) onSubscriptionEnded(name string, gen uint64, sub Unsubscriber) {
	if current, ok := s.subs[name]; !ok || current != sub {
		return
	}
	delete(s.subs, name)
	sub.Unsubscribe()
	log.Printf("Subscription %s lost: %v", name, sub.Err())

	if s.resubscribed[name] {
		s.store.SetNotice(store.Notice{Kind: store.NoticeInfo, Text: "Live updates are unavailable, the view refreshes after your own actions"})
		return
	}
	s.resubscribed[name] = true
	s.subscribe(name, gen)
}

func (s *Session) unsubscribe(name string) {
	if sub, ok := s.subs[name]; ok {
		sub.Unsubscribe()
		delete(s.subs, name)
	}
}

// onCharacterMinted перечитывает персонажа: в событии нет его характеристик.
func (s *Session) onCharacterMinted(ev contract.Event) {
	minted, ok := ev.(contract.CharacterMinted)
	if !ok || s.binding == nil {
		return
	}
	if acc, _ := s.store.Account(); minted.Sender != acc {
		return
	}
	log.Printf("CharacterMinted: token %d, template %d", minted.TokenID, minted.CharIndex)
	s.rereadCharacter()
}

func (s *Session) rereadCharacter() {
	binding, gen := s.binding, s.generation
	s.goAsync(func(ctx context.Context) {
		ch, err := binding.HasCharacter(ctx)
		s.post(gen, func() { s.applyCharacterRead(ch, err) })
	})
}

// onAttacked патчит только HP, полный ответ уже в событии.
func (s *Session) onAttacked(ev contract.Event) {
	attacked, ok := ev.(contract.Attacked)
	if !ok {
		return
	}
	s.store.ApplyAttacked(attacked.NewBossHp, attacked.NewPlayerHp)
}

func (s *Session) pollAccounts(ctx context.Context) {
	ticker := time.NewTicker(s.opts.AccountPoll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			acc, ok, err := s.gateway.AuthorizedAccount(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("Account poll failed: %v", err)
				}
				continue
			}
			s.postAlways(func() {
				current, has := s.store.Account()
				if has == ok && current == acc {
					return
				}
				s.OnAccountChanged(acc, ok)
			})
		}
	}
}

func (s *Session) goAsync(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}

// post кладёт результат в ящик; при смене привязки он будет отброшен.
func (s *Session) post(gen uint64, fn func()) {
	s.postAlways(func() {
		if gen != s.generation {
			return
		}
		fn()
	})
}

func (s *Session) postAlways(fn func()) {
	s.mu.Lock()
	s.mailbox = append(s.mailbox, fn)
	s.mu.Unlock()
}
