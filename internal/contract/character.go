// internal/contract/character.go
package contract

import (
	"fmt"
	"math/big"
)

// RawCharacter — запись персонажа в том виде, в каком её отдаёт контракт.
// Порядок и имена полей совпадают с кортежем CharacterAttributes.
type RawCharacter struct {
	Name         string
	ImageURI     string
	Hp           *big.Int
	MaxHP        *big.Int
	AttackDamage *big.Int
}

// Character — нормализованный персонаж для UI.
type Character struct {
	Name         string
	ImageURI     string
	Hp           int
	MaxHp        int
	AttackDamage int
}

// Boss имеет ту же форму, AttackDamage не используется.
type Boss = Character

// Normalize переводит числа контракта в int. Поле maxHP становится MaxHp.
func Normalize(raw RawCharacter) (Character, error) {
	hp, err := toInt("hp", raw.Hp)
	if err != nil {
		return Character{}, err
	}
	maxHp, err := toInt("maxHP", raw.MaxHP)
	if err != nil {
		return Character{}, err
	}
	attackDamage, err := toInt("attackDamage", raw.AttackDamage)
	if err != nil {
		return Character{}, err
	}
	return Character{
		Name:         raw.Name,
		ImageURI:     raw.ImageURI,
		Hp:           hp,
		MaxHp:        maxHp,
		AttackDamage: attackDamage,
	}, nil
}

func toInt(field string, v *big.Int) (int, error) {
	if v == nil {
		return 0, nil
	}
	if !v.IsInt64() {
		return 0, fmt.Errorf("%w: %s=%s", ErrNumericOverflow, field, v)
	}
	n := v.Int64()
	if int64(int(n)) != n {
		return 0, fmt.Errorf("%w: %s=%s", ErrNumericOverflow, field, v)
	}
	return int(n), nil
}
