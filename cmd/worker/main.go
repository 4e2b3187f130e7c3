package main

import (
	"localpm/internal/mqhandler"
	"localpm/internal/repository"
	"localpm/pkg/config"
	"localpm/pkg/db"
	"localpm/pkg/logger"
	"localpm/pkg/mq"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(config.GetConfigEnv(), "")
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting activity worker...")

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Init repositories and handler
	activityRepo := repository.NewActivityRepository(dbConn, log)
	activityHandler := mqhandler.NewActivityHandler(activityRepo, log)

	// (1) Consumer for ticket events
	log.Info("Initializing ticket activity consumer", zap.String("queue", "activity.ticket.q"))
	ticketConsumer, err := mq.NewConsumer(cfg.MQ.URL, "activity.ticket.q", "ticket.*", log)
	if err != nil {
		log.Fatal("failed to init ticket consumer", zap.Error(err))
	}
	ticketConsumer.SetHandler(activityHandler.Handle)
	go func() {
		log.Info("Starting ticket activity consumer")
		if err := ticketConsumer.StartConsuming(); err != nil {
			log.Fatal("ticket consumer failed", zap.Error(err))
		}
	}()
	defer ticketConsumer.Close()

	// (2) Consumer for project events
	log.Info("Initializing project activity consumer", zap.String("queue", "activity.project.q"))
	projectConsumer, err := mq.NewConsumer(cfg.MQ.URL, "activity.project.q", "project.*", log)
	if err != nil {
		log.Fatal("failed to init project consumer", zap.Error(err))
	}
	projectConsumer.SetHandler(activityHandler.Handle)
	go func() {
		log.Info("Starting project activity consumer")
		if err := projectConsumer.StartConsuming(); err != nil {
			log.Fatal("project consumer failed", zap.Error(err))
		}
	}()
	defer projectConsumer.Close()

	log.Info("All consumers started, worker is ready to process messages")

	// Keep worker running
	select {}
}
