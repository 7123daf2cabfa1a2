package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nextbus/internal/bot"
	"nextbus/internal/clock"
	"nextbus/internal/config"
	"nextbus/internal/metrics"
	"nextbus/internal/realtime"
	"nextbus/internal/render"
	"nextbus/internal/server"
	"nextbus/internal/transit"
)

var (
	monospace bool
	limit     int
)

var rootCmd = &cobra.Command{
	Use:           "nextbus",
	Short:         "Next departures from the nearest bus stop",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runQuery(cmd.Context(), func(ctx context.Context, a *app) ([]string, error) {
			return a.bot.NextBus(ctx, channel())
		})
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop <stop_id>",
	Short: "Next departures from a specific stop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd.Context(), func(ctx context.Context, a *app) ([]string, error) {
			return a.bot.NextBusAtStop(ctx, args[0], channel())
		})
	},
}

var stopsCmd = &cobra.Command{
	Use:   "stops",
	Short: "List stops near the configured coordinate",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runQuery(cmd.Context(), func(ctx context.Context, a *app) ([]string, error) {
			return a.bot.NearbyStops(ctx)
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the slash-command HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&monospace, "monospace", "m", false, "Wrap the departure table in a fenced code block")
	rootCmd.PersistentFlags().IntVarP(&limit, "limit", "l", 0, "Maximum departures to show (overrides NEXTBUS_LIMIT)")
	rootCmd.AddCommand(stopCmd, stopsCmd, serveCmd)
}

func channel() render.Channel {
	if monospace {
		return render.ChannelMonospace
	}
	return render.ChannelPlain
}

// app wires the pieces a single command invocation needs.
type app struct {
	cfg     *config.Config
	bot     *bot.Bot
	metrics *metrics.Metrics
	fetcher *realtime.Fetcher
	logger  *slog.Logger
}

func newApp(logger *slog.Logger) *app {
	cfg := config.Load()
	if limit > 0 {
		cfg.Limit = limit
	}

	m := metrics.New()
	client := transit.NewClient(cfg.BaseURL, m, logger)
	store := realtime.NewStore()

	var fetcher *realtime.Fetcher
	if cfg.GTFSRTFeedURL != "" {
		fetcher = realtime.NewFetcher(cfg.GTFSRTFeedURL, store, m, logger)
	}

	return &app{
		cfg:     cfg,
		bot:     bot.New(client, store, cfg, clock.RealClock{}, m, logger),
		metrics: m,
		fetcher: fetcher,
		logger:  logger,
	}
}

func runQuery(ctx context.Context, query func(context.Context, *app) ([]string, error)) error {
	a := newApp(newLogger())

	// One-shot invocations take a single snapshot of the realtime feed
	// instead of polling.
	if a.fetcher != nil {
		if err := a.fetcher.FetchOnce(ctx); err != nil {
			a.logger.Warn("realtime feed unavailable", "error", err)
		}
	}

	msgs, err := query(ctx, a)
	if err != nil {
		return errors.New(bot.UserMessage(err))
	}
	for i, m := range msgs {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(m)
	}
	return nil
}

func runServe(ctx context.Context) error {
	logger := newLogger()
	a := newApp(logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.fetcher != nil {
		go a.fetcher.Start(ctx)
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
		os.Exit(0)
	}()

	srv := server.New(a.cfg, a.bot, a.metrics, logger)
	return srv.ListenAndServe()
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
