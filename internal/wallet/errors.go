// internal/wallet/errors.go
package wallet

import "errors"

var (
	// ErrProviderUnavailable — провайдер кошелька не найден.
	ErrProviderUnavailable = errors.New("wallet provider unavailable")
	// ErrUserRejected — пользователь отклонил запрос на подключение.
	ErrUserRejected = errors.New("user rejected the request")
)

// Код EIP-1193 "User Rejected Request".
const userRejectedCode = 4001
