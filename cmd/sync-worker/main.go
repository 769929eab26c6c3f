package main

import (
	"context"
	"os"
	"time"

	"tripledger/internal/amqp"
	"tripledger/internal/cli"
	appsync "tripledger/internal/sync"
	"tripledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))

	logger.Info("Starting sync-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	opener := cli.BuildSourceOpener(context.Background(), logger, cfg)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncer := appsync.NewSyncer(opener, repo)
	syncWorker := worker.NewSyncWorker(syncer, 10*time.Minute)

	// Closing the AMQP client on shutdown unblocks the consumer loop.
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		amqpClient.Close()
	})

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- amqpClient.ConsumeSyncRequests(ctx, func(msg *amqp.SyncRequestMessage) error {
			return syncWorker.HandleSyncRequest(ctx, msg)
		})
	}()

	select {
	case err := <-consumeErr:
		if ctx.Err() == nil {
			logger.Error("Message consumption failed", "error", err)
			repo.Close()
			amqpClient.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
