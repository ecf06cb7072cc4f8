package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/marketcards/internal/catalog"
	"github.com/wonny/marketcards/pkg/config"
	"github.com/wonny/marketcards/pkg/database"
	"github.com/wonny/marketcards/pkg/logger"
)

// catalogCmd represents the catalog command group
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "카드 카탈로그 관리",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "카탈로그의 모든 카드 조회",
	Long: `cards.catalog 테이블에 등록된 모든 카드를 조회합니다.
비활성 카드도 함께 표시됩니다.

Example:
  go run ./cmd/cards catalog list`,
	RunE: runCatalogList,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	gate := catalog.NewGate(catalog.NewRepository(db.Pool), cfg.Cards.CatalogTTL, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := gate.Load(ctx); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	defs := gate.Definitions()
	fmt.Printf("=== Card Catalog (%d cards) ===\n\n", len(defs))
	fmt.Printf("%-22s %-26s %-12s %-8s %s\n", "CARD_ID", "TITLE", "CATEGORY", "SYMBOL", "ACTIVE")
	for _, d := range defs {
		requiresSymbol := "-"
		if d.RequiresSymbol {
			requiresSymbol = "yes"
		}
		active := "yes"
		if !d.IsActive {
			active = "no"
		}
		fmt.Printf("%-22s %-26s %-12s %-8s %s\n", d.CardID, d.Title, d.Category, requiresSymbol, active)
	}

	return nil
}
