package main

import (
	"localpm/internal/handler"
	"localpm/internal/httpserver"
	"localpm/internal/repository"
	"localpm/pkg/config"
	"localpm/pkg/db"
	"localpm/pkg/logger"
	"localpm/pkg/mq"
	redisclient "localpm/pkg/redis"

	"go.uber.org/zap"
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

	// 3. Init Redis (optional, board cache only)
	rdb := redisclient.NewClient(cfg.Redis, log)
	if rdb != nil {
		defer rdb.Close()
	}

	// 4. Init RabbitMQ publisher. Events are fire and forget, so a broker
	// outage at startup degrades to running without events.
	var publisher handler.Publisher
	var mqStatus httpserver.MQStatus
	if cfg.MQ.URL != "" {
		p, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Warn("MQ publisher init failed, events disabled", zap.Error(err))
		} else {
			defer p.Close()
			publisher = p
			mqStatus = p
		}
	}

	// 5. Init repositories
	projectRepo := repository.NewProjectRepository(dbConn, log)
	teamRepo := repository.NewTeamRepository(dbConn, log)
	ticketRepo := repository.NewTicketRepository(dbConn, log)
	activityRepo := repository.NewActivityRepository(dbConn, log)

	// 6. Init handlers
	projectHandler := handler.NewProjectHandler(projectRepo, publisher, log)
	teamHandler := handler.NewTeamHandler(teamRepo, log)
	ticketHandler := handler.NewTicketHandler(ticketRepo, projectRepo, teamRepo, activityRepo, publisher, log)
	boardHandler := handler.NewBoardHandler(ticketRepo, rdb, log)

	// 7. Init router
	router := httpserver.NewRouter(projectHandler, teamHandler, ticketHandler, boardHandler, dbConn, mqStatus, log)

	// 8. Run server
	log.Info("Starting API server", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
