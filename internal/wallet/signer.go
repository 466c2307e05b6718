// internal/wallet/signer.go
package wallet

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

type signTxArgs struct {
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to,omitempty"`
	Gas                  hexutil.Uint64  `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
	Value                *hexutil.Big    `json:"value"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	Data                 hexutil.Bytes   `json:"data"`
	ChainID              *hexutil.Big    `json:"chainId,omitempty"`
}

type signTxResult struct {
	Raw hexutil.Bytes `json:"raw"`
}

// Signer подписывает транзакции через кошелёк (eth_signTransaction), ключи
// остаются у провайдера. ctx приходит от каждой записи отдельно.
func (g *Gateway) Signer(account common.Address, chainID *big.Int) func(ctx context.Context) bind.SignerFn {
	return func(ctx context.Context) bind.SignerFn {
		return g.signFn(ctx, account, chainID)
	}
}

func (g *Gateway) signFn(ctx context.Context, account common.Address, chainID *big.Int) bind.SignerFn {
	return func(addr common.Address, tx *types.Transaction) (*types.Transaction, error) {
		if addr != account {
			return nil, bind.ErrNotAuthorized
		}
		if !g.DetectProvider() {
			return nil, ErrProviderUnavailable
		}

		args := signTxArgs{
			From:    addr,
			To:      tx.To(),
			Gas:     hexutil.Uint64(tx.Gas()),
			Value:   (*hexutil.Big)(tx.Value()),
			Nonce:   hexutil.Uint64(tx.Nonce()),
			Data:    tx.Data(),
			ChainID: (*hexutil.Big)(chainID),
		}
		if tx.Type() == types.DynamicFeeTxType {
			args.MaxFeePerGas = (*hexutil.Big)(tx.GasFeeCap())
			args.MaxPriorityFeePerGas = (*hexutil.Big)(tx.GasTipCap())
		} else {
			args.GasPrice = (*hexutil.Big)(tx.GasPrice())
		}

		var res signTxResult
		if err := g.provider.CallContext(ctx, &res, "eth_signTransaction", args); err != nil {
			if isUserRejected(err) {
				return nil, fmt.Errorf("%w: %v", ErrUserRejected, err)
			}
			return nil, fmt.Errorf("eth_signTransaction: %w", err)
		}

		signed := new(types.Transaction)
		if err := signed.UnmarshalBinary(res.Raw); err != nil {
			return nil, fmt.Errorf("decode signed transaction: %w", err)
		}
		sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
		if err != nil {
			return nil, fmt.Errorf("recover signer: %w", err)
		}
		if sender != account {
			return nil, fmt.Errorf("wallet signed as %s, expected %s", sender.Hex(), account.Hex())
		}
		return signed, nil
	}
}
