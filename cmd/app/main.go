package main

import (
	"os"
	"os/signal"
	"syscall"

	"fortuna/internal/ai"
	"fortuna/internal/application"
	"fortuna/internal/delivery/telegram"
	"fortuna/internal/integration"
	"fortuna/internal/repository"
	"fortuna/internal/search"
	"fortuna/pkg/config"
	"fortuna/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Config{}
	if err := config.ReadEnvConfig(&cfg); err != nil {
		panic(err)
	}

	log := logger.NewLogger(&logger.Config{Level: cfg.LogLevel})

	repos, err := repository.NewRepository(cfg.LedgerPath)
	if err != nil {
		log.Error("failed to load ledger: %s", err.Error())
		return
	}
	log.Info("Ledger loaded from %s", cfg.LedgerPath)

	var sheetSvc *integration.SheetService
	if cfg.SheetsCredentialsFile != "" {
		sheetSvc, err = integration.NewSheetService(cfg.SheetsCredentialsFile)
		if err != nil {
			log.Error("failed to init sheets mirror: %s", err.Error())
			return
		}
		if cfg.SheetsSpreadsheetID != "" {
			sheetSvc.SetSpreadsheetID(cfg.SheetsSpreadsheetID)
		}
	}

	gemini := ai.NewGeminiProvider()
	searcher := search.NewDuckDuckGo()
	images := ai.NewImageProcessor()

	services := application.NewService(repos, gemini, searcher, images, sheetSvc, log)

	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.GeminiKey, services.Analyzer, log)
	if err != nil {
		log.Error("failed to init bot: %s", err.Error())
		return
	}

	go bot.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	bot.Stop()
	log.Info("Bot stopped")
}
