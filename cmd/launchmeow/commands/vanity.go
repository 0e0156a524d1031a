package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ttma1046/launchmeow/vanity"
)

var (
	vanityDeployer string
	vanityImpl     string
	vanitySuffix   string
	vanityMaxIter  uint64
	vanityWorkers  int
)

// VanityCmd runs a one-off salt search and prints the result.
var VanityCmd = &cobra.Command{
	Use:   "vanity",
	Short: "Search a CREATE2 salt for a vanity address",
	Run: func(cmd *cobra.Command, args []string) {
		deployer, err := vanity.HexToAddress(vanityDeployer)
		if err != nil {
			fmt.Printf("Error: invalid --deployer: %v\n", err)
			os.Exit(1)
		}
		impl, err := vanity.HexToAddress(vanityImpl)
		if err != nil {
			fmt.Printf("Error: invalid --implementation: %v\n", err)
			os.Exit(1)
		}

		start := time.Now()
		res, err := vanity.FindSalt(context.Background(), vanity.Params{
			Deployer:       deployer,
			Implementation: impl,
			Suffix:         vanitySuffix,
			MaxIterations:  vanityMaxIter,
			Workers:        vanityWorkers,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("address:    %s\n", res.Address.Hex())
		fmt.Printf("salt:       %s\n", res.Salt.Hex())
		fmt.Printf("iterations: %d (%.2fs)\n", res.Iterations, time.Since(start).Seconds())
	},
}

func init() {
	VanityCmd.Flags().StringVar(&vanityDeployer, "deployer", "", "portal contract address that performs the CREATE2")
	VanityCmd.Flags().StringVar(&vanityImpl, "implementation", "", "implementation contract cloned by the proxy")
	VanityCmd.Flags().StringVar(&vanitySuffix, "suffix", "8888", "hex suffix the address must end with")
	VanityCmd.Flags().Uint64Var(&vanityMaxIter, "max-iterations", 0, "iteration cap, 0 for default")
	VanityCmd.Flags().IntVar(&vanityWorkers, "workers", 0, "parallel workers, 0 for GOMAXPROCS")

	VanityCmd.MarkFlagRequired("deployer")
	VanityCmd.MarkFlagRequired("implementation")
}
