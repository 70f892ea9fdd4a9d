package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/minerx-cloud/minerx/config"
	"github.com/minerx-cloud/minerx/db"
	"github.com/minerx-cloud/minerx/internal/bot"
	"github.com/minerx-cloud/minerx/internal/repository"
	"github.com/minerx-cloud/minerx/internal/service"
	"github.com/minerx-cloud/minerx/utils"
)

func main() {
	logger := utils.InitLogger()
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		logger.Fatal("Failed to load config: ", err)
	}

	database, err := db.Open(cfg.DataDir, logger)
	if err != nil {
		logger.Fatal("Failed to open database: ", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := repository.NewBadgerStore(database)
	repo, err := repository.NewRepository(store, logger)
	if err != nil {
		logger.Fatal("Failed to create repository: ", err)
	}

	if err := db.Seed(ctx, repo, logger); err != nil {
		logger.Fatal("Failed to seed database: ", err)
	}

	var fetcher service.RateFetcher = service.NewDriftFetcher()
	if cfg.LiveRates {
		fetcher = service.NewTickerFetcher()
	}
	rates := service.NewRateService(fetcher, cfg.RateRefreshInterval(), logger)

	svc := service.NewService(repo, rates, &cfg, logger)
	if err := svc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatal("Failed to ensure admin account: ", err)
	}

	miner := service.NewMiner(svc, &cfg, logger)

	if err := rates.Start(ctx); err != nil {
		logger.Fatal("Failed to start rate refresher: ", err)
	}
	if err := miner.Start(ctx); err != nil {
		logger.Fatal("Failed to start mining engine: ", err)
	}
	defer func() {
		if err := miner.Stop(context.Background()); err != nil {
			logger.Errorf("failed to stop mining engine: %v", err)
		}
		if err := rates.Stop(context.Background()); err != nil {
			logger.Errorf("failed to stop rate refresher: %v", err)
		}
	}()

	if cfg.TelegramBotToken == "" {
		logger.Warn("TELEGRAM_BOT_TOKEN not set, running without the admin bot")
		<-ctx.Done()
		return
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logger.Fatal("Failed to create bot API: ", err)
	}

	adminBot := bot.NewBot(api, svc, logger, &cfg)
	adminBot.Start(ctx)
}
