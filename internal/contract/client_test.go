package contract

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accountA = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	accountB = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func raw(name string, hp, maxHP, dmg int64) RawCharacter {
	return RawCharacter{
		Name:         name,
		ImageURI:     "ipfs://" + name,
		Hp:           big.NewInt(hp),
		MaxHP:        big.NewInt(maxHP),
		AttackDamage: big.NewInt(dmg),
	}
}

func bindTest(t *testing.T, b *fakeBackend, account common.Address) *Client {
	t.Helper()
	c, err := Bind(b, account, nil, Options{
		Address:        testAddress,
		ReadTimeout:    time.Second,
		ConfirmTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func keyedClient(t *testing.T, b *fakeBackend, confirm time.Duration) *Client {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	auth, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(1337))
	require.NoError(t, err)

	c, err := Bind(b, auth.From, StaticSigner(auth.Signer), Options{
		Address:        testAddress,
		ReadTimeout:    time.Second,
		ConfirmTimeout: confirm,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestBindRequiresAddress(t *testing.T) {
	_, err := Bind(newFakeBackend(), accountA, nil, Options{})
	assert.Error(t, err)
}

func TestHasCharacterReflectsBoundAccount(t *testing.T) {
	b := newFakeBackend()
	b.setOutput(accountA, MethodHasCharacter, raw("Knight", 80, 100, 10))
	b.setOutput(accountB, MethodHasCharacter, raw("Mage", 60, 60, 25))

	chA, err := bindTest(t, b, accountA).HasCharacter(context.Background())
	require.NoError(t, err)
	chB, err := bindTest(t, b, accountB).HasCharacter(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Character{Name: "Knight", ImageURI: "ipfs://Knight", Hp: 80, MaxHp: 100, AttackDamage: 10}, chA)
	assert.Equal(t, "Mage", chB.Name)
	assert.Equal(t, 25, chB.AttackDamage)
}

func TestHasCharacterEmptyRecord(t *testing.T) {
	b := newFakeBackend()
	b.setOutput(accountA, MethodHasCharacter, RawCharacter{Hp: big.NewInt(0), MaxHP: big.NewInt(0), AttackDamage: big.NewInt(0)})

	_, err := bindTest(t, b, accountA).HasCharacter(context.Background())
	assert.ErrorIs(t, err, ErrNoCharacterFound)
}

func TestReadFailureWrapsCause(t *testing.T) {
	b := newFakeBackend()
	cause := errors.New("dial tcp: connection refused")
	b.callErr = cause

	_, err := bindTest(t, b, accountA).BossLevel1(context.Background())
	require.ErrorIs(t, err, ErrReadFailed)
	assert.ErrorIs(t, err, cause)
}

func TestDefaultCharactersKeepsOrder(t *testing.T) {
	b := newFakeBackend()
	b.setOutput(accountA, MethodGetDefaultCharacters, []RawCharacter{
		raw("Knight", 100, 100, 10),
		raw("Mage", 60, 60, 25),
		raw("Rogue", 80, 80, 15),
	})

	roster, err := bindTest(t, b, accountA).DefaultCharacters(context.Background())
	require.NoError(t, err)
	require.Len(t, roster, 3)
	assert.Equal(t, "Knight", roster[0].Name)
	assert.Equal(t, "Mage", roster[1].Name)
	assert.Equal(t, "Rogue", roster[2].Name)
	assert.Equal(t, 80, roster[2].MaxHp)
}

func TestBossLevel1(t *testing.T) {
	b := newFakeBackend()
	b.setOutput(accountA, MethodGetBossLevel1, raw("Dragon", 500, 1000, 30))

	boss, err := bindTest(t, b, accountA).BossLevel1(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Boss{Name: "Dragon", ImageURI: "ipfs://Dragon", Hp: 500, MaxHp: 1000, AttackDamage: 30}, boss)
}

func TestAttackBossConfirmed(t *testing.T) {
	b := newFakeBackend()
	c := keyedClient(t, b, 2*time.Second)

	tx, err := c.AttackBoss(context.Background())
	require.NoError(t, err)
	require.Len(t, b.sent, 1)
	assert.Equal(t, b.sent[0].Hash(), tx.Hash())

	receipt, err := tx.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
}

func TestMintCharacterEncodesIndex(t *testing.T) {
	b := newFakeBackend()
	c := keyedClient(t, b, 2*time.Second)

	_, err := c.MintCharacter(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, b.sent, 1)

	method, err := b.abi.MethodById(b.sent[0].Data()[:4])
	require.NoError(t, err)
	assert.Equal(t, MethodMintCharacter, method.Name)
	args, err := method.Inputs.Unpack(b.sent[0].Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2), args[0])

	_, err = c.MintCharacter(context.Background(), -1)
	assert.ErrorIs(t, err, ErrSubmissionRejected)
}

func TestWriteFailures(t *testing.T) {
	t.Run("submission rejected", func(t *testing.T) {
		b := newFakeBackend()
		b.sendErr = errors.New("insufficient funds for gas")
		_, err := keyedClient(t, b, time.Second).AttackBoss(context.Background())
		assert.ErrorIs(t, err, ErrSubmissionRejected)
	})

	t.Run("no signer", func(t *testing.T) {
		_, err := bindTest(t, newFakeBackend(), accountA).AttackBoss(context.Background())
		assert.ErrorIs(t, err, ErrSubmissionRejected)
	})

	t.Run("reverted", func(t *testing.T) {
		b := newFakeBackend()
		b.receiptStatus = types.ReceiptStatusFailed
		tx, err := keyedClient(t, b, time.Second).AttackBoss(context.Background())
		require.NoError(t, err)
		_, err = tx.Wait(context.Background())
		assert.ErrorIs(t, err, ErrTransactionReverted)
	})

	t.Run("confirmation timeout", func(t *testing.T) {
		b := newFakeBackend()
		b.mined = false
		tx, err := keyedClient(t, b, 50*time.Millisecond).AttackBoss(context.Background())
		require.NoError(t, err)
		_, err = tx.Wait(context.Background())
		assert.ErrorIs(t, err, ErrConfirmTimeout)
	})
}

type ctxKey struct{}

func TestWriteSignsWithCallContext(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	auth, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(1337))
	require.NoError(t, err)

	var seen interface{}
	signer := func(ctx context.Context) bind.SignerFn {
		seen = ctx.Value(ctxKey{})
		return auth.Signer
	}
	c, err := Bind(newFakeBackend(), auth.From, signer, Options{Address: testAddress, ConfirmTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	ctx := context.WithValue(context.Background(), ctxKey{}, "attack")
	_, err = c.AttackBoss(ctx)
	require.NoError(t, err)
	assert.Equal(t, "attack", seen)
}
