// internal/contract/events.go
package contract

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
)

// Event — событие контракта с уже нормализованными числами.
type Event interface {
	EventName() string
}

// CharacterMinted — новый персонаж создан.
type CharacterMinted struct {
	Sender    common.Address
	TokenID   int
	CharIndex int
}

func (CharacterMinted) EventName() string { return EventCharacterMinted }

// Attacked — атака обработана, в событии новые HP босса и игрока.
type Attacked struct {
	NewBossHp   int
	NewPlayerHp int
}

func (Attacked) EventName() string { return EventAttacked }

// Handler вызывается из горутины подписки. Handler не должен вызывать
// Unsubscribe своей же подписки.
type Handler func(Event)

type rawCharacterMinted struct {
	Sender    common.Address
	TokenId   *big.Int
	CharIndex *big.Int
}

type rawAttacked struct {
	NewBossHp   *big.Int
	NewPlayerHp *big.Int
}

// Subscription — активная подписка на событие. После возврата из
// Unsubscribe обработчик больше не вызывается.
type Subscription struct {
	name   string
	client *Client
	sub    event.Subscription
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once
	closed atomic.Bool
	// err пишется до закрытия done.
	err error
}

// Subscribe подписывает handler на событие name.
func (c *Client) Subscribe(ctx context.Context, name string, handler Handler) (*Subscription, error) {
	if _, ok := c.abi.Events[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, name)
	}
	logs, sub, err := c.contract.WatchLogs(&bind.WatchOpts{Context: ctx}, name)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", name, err)
	}

	s := &Subscription{
		name:   name,
		client: c,
		sub:    sub,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if err := c.track(s); err != nil {
		sub.Unsubscribe()
		return nil, err
	}
	go s.loop(logs, handler)
	log.Printf("Subscribed to %s for %s", name, c.account.Hex())
	return s, nil
}

// Name возвращает имя события.
func (s *Subscription) Name() string {
	return s.name
}

// Done закрывается, когда подписка завершилась: через Unsubscribe или из-за
// обрыва со стороны узла.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err возвращает причину обрыва. Для живой подписки и после Unsubscribe — nil.
func (s *Subscription) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Unsubscribe останавливает подписку и ждёт завершения её горутины.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.quit)
		s.sub.Unsubscribe()
		<-s.done
		s.client.forget(s)
		log.Printf("Unsubscribed from %s for %s", s.name, s.client.account.Hex())
	})
}

func (s *Subscription) loop(logs <-chan types.Log, handler Handler) {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case err, ok := <-s.sub.Err():
			if s.closed.Load() {
				return
			}
			if !ok || err == nil {
				err = ErrSubscriptionLost
			} else {
				err = fmt.Errorf("%w: %w", ErrSubscriptionLost, err)
			}
			log.Printf("Subscription %s ended: %v", s.name, err)
			s.err = err
			return
		case l := <-logs:
			if l.Removed {
				continue
			}
			ev, err := s.client.decode(s.name, l)
			if err != nil {
				log.Printf("Dropping %s log %s: %v", s.name, l.TxHash.Hex(), err)
				continue
			}
			if s.closed.Load() {
				return
			}
			handler(ev)
		}
	}
}

func (c *Client) decode(name string, l types.Log) (Event, error) {
	switch name {
	case EventCharacterMinted:
		var raw rawCharacterMinted
		if err := c.contract.UnpackLog(&raw, name, l); err != nil {
			return nil, err
		}
		tokenID, err := toInt("tokenId", raw.TokenId)
		if err != nil {
			return nil, err
		}
		charIndex, err := toInt("charIndex", raw.CharIndex)
		if err != nil {
			return nil, err
		}
		return CharacterMinted{Sender: raw.Sender, TokenID: tokenID, CharIndex: charIndex}, nil
	case EventAttacked:
		var raw rawAttacked
		if err := c.contract.UnpackLog(&raw, name, l); err != nil {
			return nil, err
		}
		bossHp, err := toInt("newBossHp", raw.NewBossHp)
		if err != nil {
			return nil, err
		}
		playerHp, err := toInt("newPlayerHp", raw.NewPlayerHp)
		if err != nil {
			return nil, err
		}
		return Attacked{NewBossHp: bossHp, NewPlayerHp: playerHp}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, name)
}
