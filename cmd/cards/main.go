package main

import (
	"os"

	"github.com/wonny/marketcards/cmd/cards/commands"
)

// main is the entry point for the market cards CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/cards [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
