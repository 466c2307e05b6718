// internal/contract/descriptor.go
package contract

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed soppro_game.abi.json
var descriptor []byte

// Имена методов и событий контракта
const (
	MethodHasCharacter         = "hasCharacter"
	MethodGetDefaultCharacters = "getDefaultCharacters"
	MethodGetBossLevel1        = "getBossLevel1"
	MethodMintCharacter        = "mintCharacter"
	MethodAttackBoss           = "attackBoss"

	EventCharacterMinted = "CharacterMinted"
	EventAttacked        = "Attacked"
)

var parsedABI = sync.OnceValues(func() (abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(descriptor))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse contract descriptor: %w", err)
	}
	return parsed, nil
})

// ABI возвращает разобранное описание интерфейса контракта.
func ABI() (abi.ABI, error) {
	return parsedABI()
}
