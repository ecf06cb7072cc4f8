package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cards",
	Short: "Market Cards - 시장 카드 API 서비스",
	Long: `Market Cards CLI

시장 지표를 모드별 카드로 계산해 제공하는 API 서비스.

Usage:
  go run ./cmd/cards [command]

Examples:
  go run ./cmd/cards api
  go run ./cmd/cards catalog list
  go run ./cmd/cards usage stats --days 7`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
