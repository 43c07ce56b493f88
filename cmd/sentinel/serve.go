package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"DrawSentinel/internal/logging"
	"DrawSentinel/internal/notifier"
	"DrawSentinel/internal/scheduler"
	"DrawSentinel/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard, scheduled refresh and Telegram bot",
	Long: `Starts the long-running service:
  - the web dashboard and JSON API on web.addr
  - cron jobs that refresh draws and re-learn weights
  - the Telegram bot, when bot_token and chat_id are configured

Set RUN_ON_START=true to run a refresh immediately.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Sender stays a nil interface when the bot is disabled.
	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn, err = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		if err != nil {
			return err
		}
		sender = tn
	} else {
		logging.Infof("telegram not configured, bot disabled")
	}

	sched := scheduler.NewScheduler(ctx, a.col, a.eng, a.wm, sender, a.rec, cfg.Strategy.BacktestWindow)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.LearnCron); err != nil {
		return err
	}

	if _, _, err := a.col.Collect(ctx); err != nil {
		logging.Warnf("initial load failed: %v", err)
	}

	srv := web.NewServer(a.col, a.eng, a.wm, a.rec, cfg.Strategy.BacktestWindow)
	if err := srv.Start(cfg.Web.Addr); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	if tn != nil {
		if err := tn.RegisterCommands(ctx); err != nil {
			logging.Warnf("register bot commands: %v", err)
		}
		go func() {
			if err := tn.StartPolling(ctx, sched.HandleCommand); err != nil {
				logging.Errorf("telegram polling: %v", err)
			}
		}()
	}

	if os.Getenv("RUN_ON_START") == "true" {
		logging.Infof("RUN_ON_START enabled, executing refresh now")
		go sched.RunRefreshNow()
	}

	logging.Infof("DrawSentinel is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	logging.Infof("shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logging.Warnf("web shutdown: %v", err)
	}
	logging.Infof("DrawSentinel stopped")
	return nil
}
