// internal/config/env.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env — настройки клиента, читаемые из окружения.
type Env struct {
	// Эндпоинт провайдера кошелька (JSON-RPC: http, ws или ipc). Живые события
	// контракта требуют ws или ipc; по http клиент перечитывает состояние после
	// своих транзакций.
	RPCURL          string        `env:"SOPPRO_RPC_URL"`
	ContractAddress string        `env:"SOPPRO_CONTRACT_ADDRESS" envDefault:"0x15d8E00E625b618C65eB138F3d77d54d31555f9B"`
	ReadTimeout     time.Duration `env:"SOPPRO_READ_TIMEOUT" envDefault:"15s"`
	ConfirmTimeout  time.Duration `env:"SOPPRO_CONFIRM_TIMEOUT" envDefault:"3m"`
	ImageTimeout    time.Duration `env:"SOPPRO_IMAGE_TIMEOUT" envDefault:"10s"`
	ToastDuration   time.Duration `env:"SOPPRO_TOAST_DURATION" envDefault:"5s"`
	// Период опроса eth_accounts; 0 отключает опрос.
	AccountPoll  time.Duration `env:"SOPPRO_ACCOUNT_POLL" envDefault:"2s"`
	PprofAddr    string        `env:"SOPPRO_PPROF_ADDR"`
	OTelEndpoint string        `env:"SOPPRO_OTEL_ENDPOINT"`
	OTelEnabled  bool          `env:"SOPPRO_OTEL_ENABLED" envDefault:"true"`
}

// ParseEnv заполняет target из переменных окружения.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load читает Env и проверяет обязательные значения.
func Load() (Env, error) {
	var cfg Env
	if err := ParseEnv(&cfg); err != nil {
		return Env{}, err
	}
	if cfg.ConfirmTimeout <= 0 {
		return Env{}, fmt.Errorf("confirm timeout must be positive, got %s", cfg.ConfirmTimeout)
	}
	if cfg.ReadTimeout <= 0 {
		return Env{}, fmt.Errorf("read timeout must be positive, got %s", cfg.ReadTimeout)
	}
	return cfg, nil
}
