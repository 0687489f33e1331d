// cmd/wmsctl/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"wms-core/pkg/container"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:   "wmsctl",
		Short: "Operator CLI for the warehouse management core",
		Long: `wmsctl drives every operation the warehouse management core exposes:
receiving, picking, moving and adjusting stock, the order fulfillment
pipeline, cycle counts, purchase-order and RMA receiving, replenishment,
and wave/cluster picking.

Every subcommand opens its own container against the configured Postgres
and Redis, runs one operation, prints the result, and exits.`,
	}

	rootCmd.AddCommand(
		newInventoryCommand(),
		newCatalogCommand(),
		newLocationCommand(),
		newOrderCommand(),
		newCycleCountCommand(),
		newPurchaseOrderCommand(),
		newRMACommand(),
		newReplenishmentCommand(),
		newWaveCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// mustContainer builds the dependency graph or exits; every leaf command
// calls this first since wmsctl has no long-lived process to share one
// across invocations.
func mustContainer() *container.Container {
	c, err := container.NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize container: %v\n", err)
		os.Exit(1)
	}
	return c
}

// actorFlag returns nil for an empty --actor, matching the domain services'
// *string "who did this" convention.
func actorFlag(actor string) *string {
	if actor == "" {
		return nil
	}
	return &actor
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
