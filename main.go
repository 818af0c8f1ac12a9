// Command shop serves the catalog and orders API and manages its schema.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shop",
	Short: "Catalog and orders REST API",
	Long: `shop serves a REST API for categories, products, clients and orders.

Configuration is read from SHOP_* environment variables and an optional .env
file, for example:
  SHOP_DATABASE__DRIVER=postgres
  SHOP_DATABASE__DSN="host=localhost user=shop dbname=shop sslmode=disable"
  SHOP_SERVER__PORT=8080`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
