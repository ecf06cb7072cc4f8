package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/marketcards/internal/usage"
	"github.com/wonny/marketcards/pkg/config"
	"github.com/wonny/marketcards/pkg/database"
)

// usageCmd represents the usage command group
var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "사용 로그 조회 및 정리",
}

var usageStatsDays int

var usageStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "카드별 사용 통계 조회",
	Long: `cards.usage_log에서 카드별/결과별 요청 수를 집계합니다.

Example:
  go run ./cmd/cards usage stats --days 7`,
	RunE: runUsageStats,
}

var usagePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "보존 기간이 지난 사용 로그 삭제",
	RunE:  runUsagePurge,
}

func init() {
	rootCmd.AddCommand(usageCmd)
	usageCmd.AddCommand(usageStatsCmd)
	usageCmd.AddCommand(usagePurgeCmd)

	usageStatsCmd.Flags().IntVar(&usageStatsDays, "days", 7, "집계 기간 (일)")
}

func runUsageStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := usage.NewRepository(db.Pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	since := time.Now().UTC().AddDate(0, 0, -usageStatsDays)
	stats, err := repo.Stats(ctx, since)
	if err != nil {
		return fmt.Errorf("query usage stats: %w", err)
	}

	fmt.Printf("=== Usage Stats (last %d days) ===\n\n", usageStatsDays)
	if len(stats) == 0 {
		fmt.Println("No usage recorded in this period")
		return nil
	}

	fmt.Printf("%-22s %-12s %s\n", "CARD_ID", "OUTCOME", "COUNT")
	var total int64
	for _, s := range stats {
		fmt.Printf("%-22s %-12s %d\n", s.CardID, s.Outcome, s.Count)
		total += s.Count
	}
	fmt.Printf("\nTotal: %d requests\n", total)

	return nil
}

func runUsagePurge(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := usage.NewRepository(db.Pool)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -cfg.Cards.UsageRetentionDays)
	deleted, err := repo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge usage log: %w", err)
	}

	fmt.Printf("Deleted %d entries older than %s\n", deleted, cutoff.Format("2006-01-02"))
	return nil
}
