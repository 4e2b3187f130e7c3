package main

import (
	"context"

	"go.uber.org/zap"

	"localpm/internal/repository"
	"localpm/internal/seed"
	"localpm/pkg/config"
	"localpm/pkg/db"
	"localpm/pkg/logger"
)

func main() {
	// 1. Load config
	cfg, err := config.Load(config.GetConfigEnv(), "")
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger()
	defer log.Sync()

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init repositories
	projectRepo := repository.NewProjectRepository(dbConn, log)
	teamRepo := repository.NewTeamRepository(dbConn, log)
	ticketRepo := repository.NewTicketRepository(dbConn, log)

	// 4. Load demo data
	if err := seed.Run(context.Background(), projectRepo, teamRepo, ticketRepo, log); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	log.Info("demo data loaded")
}
