package main

import (
	"context"
	"database/sql"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/MathieuSim0/EpiKodi/internal/config"
	"github.com/MathieuSim0/EpiKodi/internal/core"
	"github.com/MathieuSim0/EpiKodi/internal/database"
	"github.com/MathieuSim0/EpiKodi/internal/favorites"
	"github.com/MathieuSim0/EpiKodi/internal/handlers"
	"github.com/MathieuSim0/EpiKodi/internal/utils"
)

func main() {
	configPath := flag.String("config", "config.yml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := os.MkdirAll(cfg.App.DataPath, 0755); err != nil {
		log.Fatal("Failed to create data directory:", err)
	}

	// Initialize logger to write to both file and console
	logFile, err := os.OpenFile(filepath.Join(cfg.App.DataPath, "app.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	multiWriter := io.MultiWriter(os.Stdout, logFile)
	logger := utils.NewLogger(cfg.App.Debug, multiWriter)

	// Initialize the response cache database if enabled
	var db *sql.DB
	if cfg.Cache.Enabled {
		db, err = database.NewSQLite(cfg.Cache.Path)
		if err != nil {
			logger.Fatal("Failed to initialize database:", err)
		}
		defer db.Close()

		if err := database.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations:", err)
		}
	}

	// Load favorites
	store := favorites.NewStore(cfg.Favorites.Path)

	// Create manager
	manager := core.NewManager(cfg, db, store, logger)

	// Start web server
	server := handlers.NewServer(cfg, manager, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Server failed to start:", err)
		}
	}()

	manager.StartScheduler()

	if cfg.Favorites.Watch {
		if err := store.Watch(ctx); err != nil {
			logger.Error("Failed to watch favorites file:", err)
		}
	}

	logger.Info("EpiKodi started successfully on port", cfg.Server.Port)

	// Wait for interrupt
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Info("Shutting down...")
	manager.Stop()
	server.Stop(ctx)
}
