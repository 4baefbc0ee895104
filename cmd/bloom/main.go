package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/bloom-backend/internal/app"
	"github.com/yungbote/bloom-backend/internal/domain/pregnancy"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bloom",
		Short:         "Pregnancy companion backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newWeekCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(envFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before the environment")
	return cmd
}

func newWeekCmd() *cobra.Command {
	var due, today string
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the gestational week, size milestone and narrative for a due date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeek(cmd.OutOrStdout(), due, today, time.Now())
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&today, "today", "", "Evaluate as of this date instead of today (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func runWeek(w io.Writer, due, today string, now time.Time) error {
	dueDate, err := pregnancy.ParseDueDate(due)
	if err != nil {
		return err
	}
	asOf := now
	if today != "" {
		asOf, err = time.Parse(pregnancy.DateLayout, today)
		if err != nil {
			return fmt.Errorf("today %q: expected YYYY-MM-DD: %w", today, err)
		}
	}
	week := pregnancy.ComputeWeek(dueDate, asOf)
	m := pregnancy.LookupMilestone(week)
	fmt.Fprintf(w, "Week %d (trimester %d, %.0f%%)\n", week, pregnancy.Trimester(week), pregnancy.Progress(week))
	fmt.Fprintf(w, "Size: %s %s\n", m.Label, m.Glyph)
	fmt.Fprintln(w, pregnancy.Countdown(week))
	fmt.Fprintln(w, pregnancy.LookupNarrative(week))
	return nil
}
