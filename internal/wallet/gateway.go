// internal/wallet/gateway.go
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
)

// Provider — JSON-RPC провайдер кошелька. *rpc.Client подходит как есть.
type Provider interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// Gateway — шлюз к кошельку пользователя.
type Gateway struct {
	provider Provider
}

// NewGateway создаёт шлюз. provider может быть nil: кошелёк не найден.
func NewGateway(provider Provider) *Gateway {
	return &Gateway{provider: provider}
}

// DetectProvider сообщает, есть ли провайдер. Отсутствие — не ошибка.
func (g *Gateway) DetectProvider() bool {
	return g.provider != nil
}

// AuthorizedAccount возвращает первый уже авторизованный аккаунт без запроса
// к пользователю. Пустой список — нормальный результат (false, nil).
func (g *Gateway) AuthorizedAccount(ctx context.Context) (common.Address, bool, error) {
	if !g.DetectProvider() {
		return common.Address{}, false, ErrProviderUnavailable
	}
	var accounts []common.Address
	if err := g.provider.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return common.Address{}, false, fmt.Errorf("eth_accounts: %w", err)
	}
	if len(accounts) == 0 {
		log.Println("No authorised account found")
		return common.Address{}, false, nil
	}
	log.Printf("Authorised account: %s", accounts[0].Hex())
	return accounts[0], true, nil
}

// RequestConnection просит пользователя авторизовать аккаунт.
func (g *Gateway) RequestConnection(ctx context.Context) (common.Address, error) {
	if !g.DetectProvider() {
		return common.Address{}, ErrProviderUnavailable
	}
	var accounts []common.Address
	if err := g.provider.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		if isUserRejected(err) {
			return common.Address{}, fmt.Errorf("%w: %v", ErrUserRejected, err)
		}
		return common.Address{}, fmt.Errorf("eth_requestAccounts: %w", err)
	}
	if len(accounts) == 0 {
		return common.Address{}, ErrUserRejected
	}
	log.Printf("Connected: %s", accounts[0].Hex())
	return accounts[0], nil
}

func isUserRejected(err error) bool {
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr) && rpcErr.ErrorCode() == userRejectedCode
}
