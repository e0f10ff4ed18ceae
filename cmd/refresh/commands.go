package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stock_portfolio/internal/app/di"
	quotehandler "stock_portfolio/internal/feature/quote/transport/handler"
	infradb "stock_portfolio/internal/platform/db"
	infraredis "stock_portfolio/internal/platform/redis"
)

// newRootCmd は保有銘柄を一括更新するコマンドを作成します。
// サブコマンドでキャッシュ削除と単一銘柄の確認ができます。
func newRootCmd() *cobra.Command {
	var timeout time.Duration

	root := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh every holding's quote snapshot once",
		Long: `refresh fetches the current quote of every stored holding concurrently and
persists the successful snapshots. Holdings whose fetch failed keep their previous values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runRefresh(ctx, cmd)
		},
	}
	root.SilenceUsage = true
	root.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall deadline")

	root.AddCommand(newPurgeCmd(&timeout))
	root.AddCommand(newInvalidateCmd(&timeout))
	root.AddCommand(newQuoteCmd(&timeout))
	return root
}

func newPurgeCmd(timeout *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-cache",
		Short: "Drop every cached daily series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), *timeout)
			defer cancel()

			rdb, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig())
			if err != nil {
				return err
			}
			if rdb == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "redis not configured; nothing to purge")
				return nil
			}
			defer func() { _ = rdb.Close() }()

			series := di.NewSeriesRepository(rdb, di.NewChartMarket(di.NewGateway()))
			if err := series.Purge(ctx); err != nil {
				return fmt.Errorf("purge: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "series cache purged")
			return nil
		},
	}
}

func newInvalidateCmd(timeout *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:     "invalidate CODE...",
		Short:   "Drop the cached daily series of the given codes",
		Example: `  refresh invalidate 7203 ^N225`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), *timeout)
			defer cancel()

			rdb, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig())
			if err != nil {
				return err
			}
			if rdb == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "redis not configured; nothing to invalidate")
				return nil
			}
			defer func() { _ = rdb.Close() }()

			series := di.NewSeriesRepository(rdb, di.NewChartMarket(di.NewGateway()))
			series.Invalidate(ctx, args...)
			fmt.Fprintf(cmd.OutOrStdout(), "invalidated %d series\n", len(args))
			return nil
		},
	}
}

func newQuoteCmd(timeout *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:     "quote CODE...",
		Short:   "Fetch and print quotes without touching the store",
		Example: `  refresh quote 7203 ^N225 USDJPY`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), *timeout)
			defer cancel()

			uc := di.NewApp(nil, nil).Quotes
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			for _, r := range uc.GetQuotes(ctx, args) {
				if r.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Symbol, r.Err)
					continue
				}
				if err := enc.Encode(quotehandler.ToQuoteItem(r.Quote)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func runRefresh(ctx context.Context, cmd *cobra.Command) error {
	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv())
	if err != nil {
		return err
	}

	report, err := di.NewApp(db, nil).Portfolio.RefreshAll(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "updated %d, failed %d\n", len(report.Updated), len(report.Failed))
	for _, code := range report.Failed {
		fmt.Fprintf(cmd.OutOrStdout(), "  kept previous values: %s\n", code)
	}
	return nil
}
