package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/notifier"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/scheduler"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/server"
)

var (
	serveWithCron bool
	cronOnce      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (and optionally the batch scheduler)",
	Long: `Run the HTTP API on the configured address. With --cron the quant batch
and macro regime jobs run in the same process and Telegram commands are
answered when a bot is configured.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Run the quant batch and macro regime jobs on their schedule",
	Long: `Run the quant batch and macro regime jobs on their cron schedule. With
--once both jobs run immediately and the digest is printed.`,
	Args: cobra.NoArgs,
	RunE: runCron,
}

func init() {
	rootCmd.AddCommand(serveCmd, cronCmd)
	serveCmd.Flags().BoolVar(&serveWithCron, "cron", false, "Also run the batch scheduler")
	cronCmd.Flags().BoolVar(&cronOnce, "once", false, "Run both jobs now and exit")
}

func newScheduler(ctx context.Context, a *app) (*scheduler.Scheduler, *notifier.TelegramNotifier) {
	var tn *notifier.TelegramNotifier
	if a.cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.log)
	}
	sched := scheduler.NewScheduler(ctx, scheduler.Config{
		QuantCron:  a.cfg.Schedule.QuantCron,
		RegimeCron: a.cfg.Schedule.RegimeCron,
		Tickers:    a.cfg.Schedule.Tickers,
		SectorFor:  a.cfg.SectorFor,
		Workers:    a.cfg.Schedule.Workers,
	}, a.provider, a.builder, a.engine, a.store, tn, a.metrics, a.log)
	return sched, tn
}

// startScheduler registers and starts the jobs and Telegram polling.
func startScheduler(ctx context.Context, a *app) (*scheduler.Scheduler, error) {
	sched, tn := newScheduler(ctx, a)
	if err := sched.RegisterAll(); err != nil {
		return nil, fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		a.log.Info().Msg("telegram polling started")
	}
	return sched, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if serveWithCron {
		sched, err := startScheduler(ctx, a)
		if err != nil {
			return err
		}
		defer sched.Stop()
	}

	srv := server.New(server.Config{
		Addr:     a.cfg.Server.Addr,
		Scorer:   a.engine,
		Peers:    a.peers,
		Provider: a.provider,
		Store:    a.store,
		Metrics:  a.metrics,
		Log:      a.log,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutdown signal received, stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runCron(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if cronOnce {
		sched, _ := newScheduler(ctx, a)
		if _, err := sched.RunRegime(ctx); err != nil {
			a.log.Warn().Err(err).Msg("macro regime job failed")
		}
		run := sched.RunQuantBatch(ctx)
		fmt.Fprintln(os.Stdout, notifier.FormatDigest(run))
		if len(run.Records) == 0 && len(run.Failed) > 0 {
			return fmt.Errorf("all %d tickers failed", len(run.Failed))
		}
		return nil
	}

	sched, err := startScheduler(ctx, a)
	if err != nil {
		return err
	}
	defer sched.Stop()

	a.log.Info().Msg("scheduler running, press Ctrl+C to stop")
	<-ctx.Done()
	a.log.Info().Msg("shutdown signal received, stopping")
	return nil
}
