// expensebot-report prints spending reports for one user straight from the
// configured store. It is a read-only companion to the worker, meant for
// operators poking at the data without going through the bot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"expensebot/internal/analytics"
	"expensebot/internal/backend"
	"expensebot/internal/config"
	applog "expensebot/internal/log"
	"expensebot/internal/services"
	"expensebot/internal/storage"
)

func main() {
	_ = godotenv.Load()

	// Reports print to stdout; keep log noise on stderr and quiet.
	logger := applog.New(applog.Config{
		Component: applog.ComponentReport,
		Handler: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}),
	})
	applog.SetDefault(logger)

	var (
		userID = flag.Int64("user", 0, "user id to report on (required)")
		days   = flag.Int("days", 30, "summary window in days")
		limit  = flag.Int("recent", 5, "number of recent expenses to print")
	)
	flag.Parse()

	if *userID == 0 {
		fmt.Fprintln(os.Stderr, "usage: expensebot-report -user <id> [-days N] [-recent N]")
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	ctx := context.Background()

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateStore(ctx, backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		PostgresURL:  cfg.PostgresURL,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "initialize store:", err)
		os.Exit(1)
	}
	defer result.Cleanup()

	if err := report(ctx, result.Store, cfg.CurrencySymbol, *userID, *days, *limit); err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		os.Exit(1)
	}
}

func report(ctx context.Context, store storage.Store, currency string, userID int64, days, recentLimit int) error {
	summary, err := store.Summary(ctx, userID, days)
	if err != nil {
		return fmt.Errorf("load summary: %w", err)
	}

	fmt.Printf("Spending over the last %d days\n", days)
	if len(summary) == 0 {
		fmt.Println("  no expenses recorded")
	}
	for _, cs := range summary {
		fmt.Printf("  %-14s %s%s  (%d entries)\n", cs.Category, currency, cs.Total.StringFixed(2), cs.Count)
	}

	if trending, ok := analytics.TrendingCategory(summary); ok {
		fmt.Printf("Trending category: %s\n", trending)
	}
	if days > 0 {
		avg := analytics.DailyAverage(summary, days)
		fmt.Printf("Daily average: %s%s\n", currency, avg.StringFixed(2))
	}

	week, err := store.Summary(ctx, userID, 7)
	if err != nil {
		return fmt.Errorf("load weekly summary: %w", err)
	}
	projection := analytics.MonthlyProjection(week)
	fmt.Printf("Monthly projection: %s%s\n", currency, projection.StringFixed(2))

	svc := services.NewExpenseService(store, nil, nil)
	statuses, err := svc.BudgetStatuses(ctx, userID)
	if err != nil {
		return fmt.Errorf("evaluate budgets: %w", err)
	}
	if len(statuses) > 0 {
		fmt.Println("Budgets:")
		for _, st := range statuses {
			fmt.Printf("  %-8s %s%s of %s%s (%s%%, %s)\n",
				st.Period,
				currency, st.Spent.StringFixed(2),
				currency, st.Limit.StringFixed(2),
				st.Percent.Round(1), st.Severity)
		}
	}
	printAdvisory(ctx, store, userID)

	if recentLimit > 0 {
		recent, err := store.RecentExpenses(ctx, userID, recentLimit)
		if err != nil {
			return fmt.Errorf("load recent expenses: %w", err)
		}
		if len(recent) > 0 {
			fmt.Println("Recent expenses:")
			for _, rec := range recent {
				line := fmt.Sprintf("  %s  %-14s %s%s  %s",
					rec.Timestamp.Format("2006-01-02"),
					rec.Category,
					currency, rec.Amount.StringFixed(2),
					rec.Description)
				if rec.Payment != nil && rec.Payment.PaymentMethod != "" {
					line += fmt.Sprintf(" [%s]", rec.Payment.PaymentMethod)
				}
				fmt.Println(line)
			}
		}
	}

	return nil
}

func printAdvisory(ctx context.Context, store storage.Store, userID int64) {
	limits, err := store.BudgetLimits(ctx, userID)
	if err != nil || limits.Monthly == nil {
		return
	}
	month, err := store.TotalMonth(ctx, userID)
	if err != nil {
		return
	}
	if advisory, ok := analytics.Advisory(month, *limits.Monthly); ok {
		fmt.Println(advisory)
	}
}
