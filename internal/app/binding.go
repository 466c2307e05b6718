// internal/app/binding.go
package app

import (
	"context"
	"math/big"

	"soppro-game/internal/contract"
	"soppro-game/internal/wallet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Gateway — то, что сессии нужно от кошелька.
type Gateway interface {
	DetectProvider() bool
	AuthorizedAccount(ctx context.Context) (common.Address, bool, error)
	RequestConnection(ctx context.Context) (common.Address, error)
}

// Pending — отправленная транзакция.
type Pending interface {
	Wait(ctx context.Context) (*types.Receipt, error)
}

// Unsubscriber — подписка на событие контракта. Done закрывается, когда
// подписка завершилась; Err отличает обрыв от Unsubscribe.
type Unsubscriber interface {
	Unsubscribe()
	Done() <-chan struct{}
	Err() error
}

// Binding — клиент контракта, привязанный к одному аккаунту.
type Binding interface {
	Account() common.Address
	HasCharacter(ctx context.Context) (contract.Character, error)
	DefaultCharacters(ctx context.Context) ([]contract.Character, error)
	BossLevel1(ctx context.Context) (contract.Boss, error)
	MintCharacter(ctx context.Context, index int) (Pending, error)
	AttackBoss(ctx context.Context) (Pending, error)
	Subscribe(ctx context.Context, name string, handler contract.Handler) (Unsubscriber, error)
	Close()
}

// Binder создаёт новую привязку для аккаунта.
type Binder func(ctx context.Context, account common.Address) (Binding, error)

type boundClient struct {
	*contract.Client
}

func (b boundClient) MintCharacter(ctx context.Context, index int) (Pending, error) {
	tx, err := b.Client.MintCharacter(ctx, index)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (b boundClient) AttackBoss(ctx context.Context) (Pending, error) {
	tx, err := b.Client.AttackBoss(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (b boundClient) Subscribe(ctx context.Context, name string, handler contract.Handler) (Unsubscriber, error) {
	sub, err := b.Client.Subscribe(ctx, name, handler)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ContractBinder привязывает настоящий клиент контракта; транзакции
// подписывает кошелёк.
func ContractBinder(backend contract.Backend, gw *wallet.Gateway, chainID *big.Int, opts contract.Options) Binder {
	return func(ctx context.Context, account common.Address) (Binding, error) {
		client, err := contract.Bind(backend, account, gw.Signer(account, chainID), opts)
		if err != nil {
			return nil, err
		}
		return boundClient{Client: client}, nil
	}
}
