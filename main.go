package main

import (
	"github.com/wfunc/spades/config"
	"github.com/wfunc/spades/logger"
	"github.com/wfunc/spades/monitor"
	"github.com/wfunc/spades/persistence"
	"github.com/wfunc/spades/server"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Database
	db, err := persistence.NewGormPostgreSQL(
		cfg.Database.Postgres.Host,
		cfg.Database.Postgres.Port,
		cfg.Database.Postgres.User,
		cfg.Database.Postgres.Password,
		cfg.Database.Postgres.DBName,
	)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Log.Info("Database connection successful.")

	// Initialize Monitoring
	mon := monitor.NewMonitor("spades")
	mon.StartServer(cfg.Server.MonitorAddress)

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg, db, mon)

	// Start Server
	logger.Log.Infof("Starting Spades server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
