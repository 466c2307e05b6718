// internal/contract/tx.go
package contract

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Tx — отправленная, но ещё не подтверждённая транзакция.
type Tx struct {
	method  string
	tx      *types.Transaction
	backend bind.DeployBackend
	timeout time.Duration
}

// Hash возвращает хеш транзакции.
func (t *Tx) Hash() common.Hash {
	return t.tx.Hash()
}

// Wait ждёт, пока транзакция попадёт в блок. Ожидание ограничено таймаутом
// подтверждения; по его истечении возвращается ErrConfirmTimeout.
func (t *Tx) Wait(ctx context.Context) (*types.Receipt, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	receipt, err := bind.WaitMined(ctx, t.backend, t.tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s %s", ErrConfirmTimeout, t.method, t.tx.Hash().Hex())
		}
		return nil, fmt.Errorf("wait %s: %w", t.method, err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, fmt.Errorf("%w: %s %s", ErrTransactionReverted, t.method, t.tx.Hash().Hex())
	}
	log.Printf("Confirmed %s: %s (block %v)", t.method, t.tx.Hash().Hex(), receipt.BlockNumber)
	return receipt, nil
}
