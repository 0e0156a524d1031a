package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ttma1046/launchmeow/cmd/launchmeow/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "launchmeow",
		Short: "Meme-token launch pipeline",
		Long:  `launchmeow watches social posts, names tokens with an LLM, and launches them on two chains with vanity CREATE2 addresses.`,
	}

	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.VanityCmd)
	rootCmd.AddCommand(commands.LaunchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
