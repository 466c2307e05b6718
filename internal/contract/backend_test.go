package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var testAddress = common.HexToAddress("0x15d8E00E625b618C65eB138F3d77d54d31555f9B")

// fakeBackend отвечает на вызовы заранее заданными значениями, упакованными
// по ABI, и раздаёт логи подписчикам.
type fakeBackend struct {
	mu  sync.Mutex
	abi abi.ABI

	// outputs[from][method] — значения для упаковки в ответ.
	outputs map[common.Address]map[string][]interface{}
	callErr error
	calls   map[string]int

	sendErr       error
	sent          []*types.Transaction
	mined         bool
	receiptStatus uint64

	subs []*fakeSub
}

func newFakeBackend() *fakeBackend {
	parsed, err := ABI()
	if err != nil {
		panic(err)
	}
	return &fakeBackend{
		abi:           parsed,
		outputs:       make(map[common.Address]map[string][]interface{}),
		calls:         make(map[string]int),
		mined:         true,
		receiptStatus: types.ReceiptStatusSuccessful,
	}
}

func (b *fakeBackend) setOutput(from common.Address, method string, values ...interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.outputs[from] == nil {
		b.outputs[from] = make(map[string][]interface{})
	}
	b.outputs[from][method] = values
}

func (b *fakeBackend) callCount(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

func (b *fakeBackend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x60, 0x80}, nil
}

func (b *fakeBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.callErr != nil {
		return nil, b.callErr
	}
	method, err := b.abi.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	b.calls[method.Name]++
	values, ok := b.outputs[call.From][method.Name]
	if !ok {
		return nil, fmt.Errorf("execution reverted: no output for %s", method.Name)
	}
	return method.Outputs.Pack(values...)
}

func (b *fakeBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1)}, nil
}

func (b *fakeBackend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return []byte{0x60, 0x80}, nil
}

func (b *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint64(len(b.sent)), nil
}

func (b *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (b *fakeBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (b *fakeBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return 100_000, nil
}

func (b *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return b.sendErr
	}
	b.sent = append(b.sent, tx)
	return nil
}

func (b *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.mined {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{
		Status:      b.receiptStatus,
		TxHash:      txHash,
		BlockNumber: big.NewInt(2),
	}, nil
}

func (b *fakeBackend) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (b *fakeBackend) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &fakeSub{ch: ch, errc: make(chan error, 1)}
	b.subs = append(b.subs, s)
	return s, nil
}

// emit отправляет лог события всем активным подпискам.
func (b *fakeBackend) emit(name string, values ...interface{}) error {
	ev, ok := b.abi.Events[name]
	if !ok {
		return errors.New("unknown event " + name)
	}
	data, err := ev.Inputs.NonIndexed().Pack(values...)
	if err != nil {
		return err
	}
	l := types.Log{
		Address: testAddress,
		Topics:  []common.Hash{ev.ID},
		Data:    data,
	}

	b.mu.Lock()
	subs := append([]*fakeSub(nil), b.subs...)
	b.mu.Unlock()
	for _, s := range subs {
		s.deliver(l)
	}
	return nil
}

func (b *fakeBackend) activeSubs() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, s := range b.subs {
		if !s.isClosed() {
			n++
		}
	}
	return n
}

type fakeSub struct {
	mu     sync.Mutex
	ch     chan<- types.Log
	errc   chan error
	closed bool
}

func (s *fakeSub) deliver(l types.Log) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- l:
	default:
	}
}

// fail обрывает подписку со стороны узла.
func (s *fakeSub) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.errc <- err
	}
}

func (s *fakeSub) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *fakeSub) Unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.errc)
	}
}

func (s *fakeSub) Err() <-chan error {
	return s.errc
}
