// internal/contract/client.go
package contract

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Backend — всё, что клиенту нужно от узла. *ethclient.Client подходит как есть.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Options — параметры привязки клиента.
type Options struct {
	Address        common.Address
	ReadTimeout    time.Duration
	ConfirmTimeout time.Duration
}

// Signer выдаёт bind.SignerFn для одной записи; ctx — контекст этой записи.
type Signer func(ctx context.Context) bind.SignerFn

// StaticSigner оборачивает готовый SignerFn, которому контекст не нужен.
func StaticSigner(fn bind.SignerFn) Signer {
	return func(context.Context) bind.SignerFn { return fn }
}

// Client — клиент игрового контракта, привязанный к одному аккаунту.
// При смене аккаунта создаётся новый Client, старый закрывается.
type Client struct {
	account  common.Address
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
	backend  Backend
	signer   Signer
	opts     Options
	tracer   trace.Tracer

	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

// Bind привязывает контракт по адресу opts.Address к аккаунту account.
func Bind(backend Backend, account common.Address, signer Signer, opts Options) (*Client, error) {
	parsed, err := ABI()
	if err != nil {
		return nil, err
	}
	if opts.Address == (common.Address{}) {
		return nil, fmt.Errorf("contract address is not set")
	}
	log.Printf("Binding contract %s for %s", opts.Address.Hex(), account.Hex())
	return &Client{
		account:  account,
		address:  opts.Address,
		abi:      parsed,
		contract: bind.NewBoundContract(opts.Address, parsed, backend, backend, backend),
		backend:  backend,
		signer:   signer,
		opts:     opts,
		tracer:   otel.Tracer("soppro-game/internal/contract"),
		subs:     make(map[*Subscription]struct{}),
	}, nil
}

// Account возвращает аккаунт, к которому привязан клиент.
func (c *Client) Account() common.Address {
	return c.account
}

// HasCharacter читает персонажа текущего аккаунта.
// Пустая запись возвращается как ErrNoCharacterFound.
func (c *Client) HasCharacter(ctx context.Context) (Character, error) {
	out, err := c.call(ctx, MethodHasCharacter)
	if err != nil {
		return Character{}, err
	}
	raw := *abi.ConvertType(out[0], new(RawCharacter)).(*RawCharacter)
	if raw.Name == "" {
		return Character{}, ErrNoCharacterFound
	}
	return Normalize(raw)
}

// DefaultCharacters читает список шаблонов для минта. Индекс в списке —
// аргумент MintCharacter.
func (c *Client) DefaultCharacters(ctx context.Context) ([]Character, error) {
	out, err := c.call(ctx, MethodGetDefaultCharacters)
	if err != nil {
		return nil, err
	}
	raws := *abi.ConvertType(out[0], new([]RawCharacter)).(*[]RawCharacter)
	roster := make([]Character, 0, len(raws))
	for _, raw := range raws {
		ch, err := Normalize(raw)
		if err != nil {
			return nil, err
		}
		roster = append(roster, ch)
	}
	return roster, nil
}

// BossLevel1 читает босса первого уровня.
func (c *Client) BossLevel1(ctx context.Context) (Boss, error) {
	out, err := c.call(ctx, MethodGetBossLevel1)
	if err != nil {
		return Boss{}, err
	}
	raw := *abi.ConvertType(out[0], new(RawCharacter)).(*RawCharacter)
	return Normalize(raw)
}

// MintCharacter отправляет транзакцию минта шаблона с индексом index.
func (c *Client) MintCharacter(ctx context.Context, index int) (*Tx, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: negative character index %d", ErrSubmissionRejected, index)
	}
	return c.transact(ctx, MethodMintCharacter, big.NewInt(int64(index)))
}

// AttackBoss отправляет транзакцию атаки босса.
func (c *Client) AttackBoss(ctx context.Context) (*Tx, error) {
	return c.transact(ctx, MethodAttackBoss)
}

func (c *Client) call(ctx context.Context, method string) ([]interface{}, error) {
	ctx, span := c.tracer.Start(ctx, "contract.read",
		trace.WithAttributes(
			attribute.String("contract.method", method),
			attribute.String("contract.account", c.account.Hex()),
		))
	defer span.End()

	if c.opts.ReadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.ReadTimeout)
		defer cancel()
	}

	var out []interface{}
	err := c.contract.Call(&bind.CallOpts{Context: ctx, From: c.account}, &out, method)
	if err == nil && len(out) == 0 {
		err = fmt.Errorf("empty result")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, method, err)
	}
	return out, nil
}

func (c *Client) transact(ctx context.Context, method string, args ...interface{}) (*Tx, error) {
	ctx, span := c.tracer.Start(ctx, "contract.write",
		trace.WithAttributes(
			attribute.String("contract.method", method),
			attribute.String("contract.account", c.account.Hex()),
		))
	defer span.End()

	opts := &bind.TransactOpts{
		From:    c.account,
		Context: ctx,
	}
	if c.signer != nil {
		opts.Signer = c.signer(ctx)
	}
	tx, err := c.contract.Transact(opts, method, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %s: %w", ErrSubmissionRejected, method, err)
	}
	span.SetAttributes(attribute.String("tx.hash", tx.Hash().Hex()))
	log.Printf("Submitted %s: %s", method, tx.Hash().Hex())
	return &Tx{
		method:  method,
		tx:      tx,
		backend: c.backend,
		timeout: c.opts.ConfirmTimeout,
	}, nil
}

// Close отписывает все ещё активные подписки клиента. Повторный вызов безопасен.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	subs := make([]*Subscription, 0, len(c.subs))
	for s := range c.subs {
		subs = append(subs, s)
	}
	c.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
	log.Printf("Contract client for %s closed (%d subscriptions released)", c.account.Hex(), len(subs))
}

func (c *Client) track(s *Subscription) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	c.subs[s] = struct{}{}
	return nil
}

func (c *Client) forget(s *Subscription) {
	c.mu.Lock()
	delete(c.subs, s)
	c.mu.Unlock()
}

// Subscriptions возвращает число активных подписок.
func (c *Client) Subscriptions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}
