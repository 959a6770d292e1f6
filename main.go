package main

import (
	stdlog "log"

	"go.uber.org/zap"

	"statusgraph/broker"
	"statusgraph/config"
	"statusgraph/logger"
	"statusgraph/repository"
	"statusgraph/server"
	"statusgraph/service"
	"statusgraph/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Env); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	log := logger.Get()

	rdb, err := storage.Connect(storage.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}

	var events broker.EventPublisher = broker.NoopPublisher{}
	if cfg.AMQPURL != "" {
		eb, err := broker.NewEventBroker(cfg.AMQPURL)
		if err != nil {
			log.Fatal("failed to connect to broker", zap.Error(err))
		}
		defer eb.Close()
		events = eb
	}

	userRepo := repository.NewUserRepo(rdb)
	graphRepo := repository.NewGraphRepo(rdb)

	userService := service.NewUserService(userRepo)
	graphService := service.NewGraphService(userRepo, graphRepo, events)

	srv := server.NewServer(userService, graphService, log)
	if err := srv.Start(cfg.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
