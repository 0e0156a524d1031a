package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ttma1046/launchmeow/config"
	"github.com/ttma1046/launchmeow/core"
	"github.com/ttma1046/launchmeow/launcher"
	"github.com/ttma1046/launchmeow/storage"
)

var launchText string

// LaunchCmd runs a single launch from command-line text, without the social
// poller or the API server.
var LaunchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Launch one token from the given text",
	Run: func(cmd *cobra.Command, args []string) {
		if launchText == "" {
			fmt.Println("Error: --text is required")
			os.Exit(1)
		}

		cfg := config.Load()
		ctx := context.Background()

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

		post := core.Post{
			ID:        fmt.Sprintf("cli-%d", time.Now().UnixNano()),
			Author:    "cli",
			Text:      launchText,
			CreatedAt: time.Now().Unix(),
		}
		launch, err := launcher.New(launcherCfg).ProcessPost(ctx, post)
		if err != nil {
			log.Fatalf("launch failed: %v", err)
		}

		fmt.Printf("launch %s: %s (%s)\n", launch.ID, launch.Idea.Name, launch.Idea.Symbol)
		if launch.Predicted != "" {
			fmt.Printf("predicted address: %s\n", launch.Predicted)
		}
		for _, r := range launch.Results {
			if r.Error != "" {
				fmt.Printf("%s: failed: %s\n", r.Chain, r.Error)
				continue
			}
			fmt.Printf("%s: %s (tx %s)\n", r.Chain, r.Address, r.TxHash)
		}
	},
}

func init() {
	LaunchCmd.Flags().StringVar(&launchText, "text", "", "post text to derive the token from")
	LaunchCmd.MarkFlagRequired("text")
}
