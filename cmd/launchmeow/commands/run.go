package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ttma1046/launchmeow/api"
	"github.com/ttma1046/launchmeow/chain/evm"
	"github.com/ttma1046/launchmeow/chain/solana"
	"github.com/ttma1046/launchmeow/config"
	"github.com/ttma1046/launchmeow/launcher"
	"github.com/ttma1046/launchmeow/messaging"
	"github.com/ttma1046/launchmeow/metadata"
	"github.com/ttma1046/launchmeow/social"
	"github.com/ttma1046/launchmeow/storage"
	"github.com/ttma1046/launchmeow/vanity"
)

// RunCmd starts the full pipeline: poller, launcher and API server.
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the launch pipeline",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := storage.Open(storage.DefaultConfig(cfg.DataDir))
		if err != nil {
			log.Fatalf("open storage: %v", err)
		}
		defer store.Close()

		messenger, err := connectMessenger(cfg.NATSURL)
		if err != nil {
			log.Fatalf("connect messaging: %v", err)
		}
		defer messenger.Close()

		launcherCfg, err := buildLauncherConfig(ctx, cfg, store, messenger)
		if err != nil {
			log.Fatalf("configure launcher: %v", err)
		}

		server := api.NewServer(store, messenger)
		go func() {
			if err := server.Start(cfg.APIPort); err != nil {
				log.Fatalf("api server: %v", err)
			}
		}()

		if cfg.SocialBearerToken != "" {
			poller := social.NewPoller(cfg.SocialAPIURL, cfg.SocialBearerToken,
				cfg.SocialQuery, cfg.PollInterval, messenger, store)
			go poller.Run(ctx)
		} else {
			log.Println("no SOCIAL_BEARER_TOKEN, social polling disabled (use POST /api/launch)")
		}

		log.Printf("launchmeow running, api on :%d", cfg.APIPort)
		if err := launcher.New(launcherCfg).Start(ctx); err != nil && err != context.Canceled {
			log.Fatalf("launcher: %v", err)
		}
	},
}

func connectMessenger(natsURL string) (*messaging.Messenger, error) {
	if natsURL == "" {
		log.Println("no NATS_URL, starting embedded server")
		return messaging.NewEmbeddedMessenger()
	}
	return messaging.NewMessenger(natsURL)
}

// buildLauncherConfig wires up whichever collaborators are configured.
func buildLauncherConfig(ctx context.Context, cfg config.Config, store storage.Store, messenger *messaging.Messenger) (launcher.Config, error) {
	out := launcher.Config{
		Store:         store,
		Messenger:     messenger,
		Suffix:        cfg.VanitySuffix,
		MaxIterations: cfg.VanityMaxIter,
		Workers:       cfg.VanityWorkers,
	}

	if cfg.PinataJWT != "" {
		out.Pinner = metadata.NewPinataClient(cfg.PinataJWT)
	} else {
		log.Println("no PINATA_JWT, metadata pinning disabled")
	}

	if cfg.EVMPrivateKey != "" && cfg.PortalAddress != "" && cfg.ImplementationAddress != "" {
		deployer, err := vanity.HexToAddress(cfg.PortalAddress)
		if err != nil {
			return out, fmt.Errorf("PORTAL_ADDRESS: %w", err)
		}
		impl, err := vanity.HexToAddress(cfg.ImplementationAddress)
		if err != nil {
			return out, fmt.Errorf("IMPLEMENTATION_ADDRESS: %w", err)
		}
		client, err := evm.Dial(ctx, cfg.EVMRPCURL, cfg.EVMPrivateKey, cfg.PortalAddress)
		if err != nil {
			return out, err
		}
		out.EVM = client
		out.Deployer = deployer
		out.Implementation = impl
	} else {
		log.Println("EVM credentials incomplete, evm launches disabled")
	}

	if cfg.SolanaPrivateKey != "" {
		client, err := solana.New(cfg.SolanaRPCURL, cfg.SolanaPrivateKey)
		if err != nil {
			return out, err
		}
		out.Solana = client
	} else {
		log.Println("no SOLANA_PRIVATE_KEY, solana launches disabled")
	}

	return out, nil
}
