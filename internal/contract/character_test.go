package contract

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	got, err := Normalize(RawCharacter{
		Name:         "Knight",
		ImageURI:     "x",
		Hp:           big.NewInt(100),
		MaxHP:        big.NewInt(100),
		AttackDamage: big.NewInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, Character{Name: "Knight", ImageURI: "x", Hp: 100, MaxHp: 100, AttackDamage: 10}, got)
}

func TestNormalizeNilIsZero(t *testing.T) {
	got, err := Normalize(RawCharacter{Name: "Ghost"})
	require.NoError(t, err)
	assert.Equal(t, Character{Name: "Ghost"}, got)
}

func TestNormalizeOverflow(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 80)
	_, err := Normalize(RawCharacter{Name: "Titan", Hp: huge, MaxHP: huge, AttackDamage: big.NewInt(1)})
	require.ErrorIs(t, err, ErrNumericOverflow)
	assert.Contains(t, err.Error(), "hp=")
}
