package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pairchat/auth"
	"pairchat/internal"
	"pairchat/repositories"
	"pairchat/runtime"
	"pairchat/runtime/workers"
	"pairchat/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pairchat terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the client lifecycle, and centralizes
// error reporting, so every defer (database close included) executes before exit.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Database (BadgerDB)
	options := badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(options)
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		if err := db.Close(); err != nil {
			logger.Error("Error closing BadgerDB", "err", err)
		}
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		url := fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort)
		logger.Info("Debug Badger inspector available", "url", url)
		internal.StartDebugServer(db, config.DebugPort, "/inspect", internal.DefaultMapper, nil)
	}

	// 3. Snapshot runtime under supervision
	registry := runtime.NewRegistry()
	broadcaster := runtime.NewBroadcaster(logger, registry, config.SinkTimeout)

	supervisor := workers.NewSupervisor(logger)
	supervisor.Add(broadcaster, workers.NewSelfStatsWorker(logger, config.StatsInterval))

	runCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go supervisor.Run(runCtx)
	defer supervisor.Stop()

	// 4. Services
	deliverCode := func(number, code string) {
		color.Yellow.Printf("\n[SMS to %s] Your pairchat code is %s\n\n", number, code)
	}
	provider := auth.NewLocalProvider(logger, config.CodeTTL, config.MaxCodeAttempts, deliverCode)
	session := services.NewSessionService(logger, provider, config.CountryPrefix, config.AuthTokenDuration)
	directory := services.NewDirectoryService(logger, repositories.NewUserRepository(db))
	chat := services.NewChatService(logger, repositories.NewChatRepository(db, logger), registry, broadcaster)

	// 5. Interactive client
	client := newTerminalClient(logger, session, directory, chat)
	if err := client.Run(runCtx); err != nil && runCtx.Err() == nil {
		return exitRuntime, err
	}

	logger.Info("Bye")
	return exitOK, nil
}
