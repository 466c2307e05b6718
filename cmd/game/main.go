// cmd/game/main.go
package main

import (
	"context"
	"log"
	"math/big"
	"net/http"
	_ "net/http/pprof"
	"time"

	"soppro-game/internal/app"
	"soppro-game/internal/assets"
	"soppro-game/internal/config"
	"soppro-game/internal/contract"
	"soppro-game/internal/event"
	"soppro-game/internal/state"
	"soppro-game/internal/store"
	"soppro-game/internal/telemetry"
	"soppro-game/internal/ui"
	"soppro-game/internal/wallet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/hajimehoshi/ebiten/v2"
)

type AppGame struct {
	session        *app.Session
	router         *state.Router
	lastUpdateTime time.Time
}

func (a *AppGame) Update() error {
	now := time.Now()
	deltaTime := now.Sub(a.lastUpdateTime).Seconds()
	if deltaTime > config.MaxDeltaTime {
		deltaTime = config.MaxDeltaTime
	}
	a.lastUpdateTime = now
	a.session.Update()
	a.router.Update(deltaTime)
	return nil
}

func (a *AppGame) Draw(screen *ebiten.Image) {
	a.router.Draw(screen)
}

func (a *AppGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenWidth, config.ScreenHeight
}

// dialWallet подключается к провайдеру. Без SOPPRO_RPC_URL провайдера нет,
// и клиент работает только с экраном подключения.
func dialWallet(ctx context.Context, cfg config.Env) (*rpc.Client, *ethclient.Client, *big.Int) {
	if cfg.RPCURL == "" {
		return nil, nil, nil
	}
	dialCtx, cancel := context.WithTimeout(ctx, cfg.ReadTimeout)
	defer cancel()
	rpcClient, err := rpc.DialContext(dialCtx, cfg.RPCURL)
	if err != nil {
		log.Printf("WARNING: wallet provider %s unavailable: %v", cfg.RPCURL, err)
		return nil, nil, nil
	}
	eth := ethclient.NewClient(rpcClient)
	chainID, err := eth.ChainID(dialCtx)
	if err != nil {
		log.Printf("WARNING: chain id from %s: %v", cfg.RPCURL, err)
		rpcClient.Close()
		return nil, nil, nil
	}
	log.Printf("Connected to %s (chain %s)", cfg.RPCURL, chainID)
	return rpcClient, eth, chainID
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.PprofAddr != "" {
		go func() {
			log.Println(http.ListenAndServe(cfg.PprofAddr, nil))
		}()
	}

	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx, "soppro-game", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		log.Printf("WARNING: telemetry disabled: %v", err)
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("telemetry shutdown: %v", err)
			}
		}()
	}

	rpcClient, eth, chainID := dialWallet(ctx, cfg)
	var gateway *wallet.Gateway
	var binder app.Binder
	if rpcClient != nil {
		defer rpcClient.Close()
		gateway = wallet.NewGateway(rpcClient)
		binder = app.ContractBinder(eth, gateway, chainID, contract.Options{
			Address:        common.HexToAddress(cfg.ContractAddress),
			ReadTimeout:    cfg.ReadTimeout,
			ConfirmTimeout: cfg.ConfirmTimeout,
		})
	} else {
		gateway = wallet.NewGateway(nil)
	}

	st := store.New(event.NewDispatcher())
	session := app.NewSession(gateway, binder, st, app.Options{
		ToastDuration: cfg.ToastDuration,
		AccountPoll:   cfg.AccountPoll,
	})
	session.Start()
	defer session.Close()

	fonts, err := ui.LoadFonts()
	if err != nil {
		log.Fatal(err)
	}
	images := assets.NewImageCache(&http.Client{}, cfg.ImageTimeout)

	sm := state.NewStateMachine()
	router := state.NewRouter(sm, state.Deps{
		Store:     st,
		Intents:   session,
		Fonts:     fonts,
		Portraits: ui.NewPortraits(images),
	})
	game := &AppGame{
		session:        session,
		router:         router,
		lastUpdateTime: time.Now(),
	}
	ebiten.SetWindowSize(config.ScreenWidth, config.ScreenHeight)
	ebiten.SetWindowTitle("Soppro Game")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
