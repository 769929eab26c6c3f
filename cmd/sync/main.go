package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"tripledger/internal/cli"
	appsync "tripledger/internal/sync"
)

// One-shot sync runner for cron jobs and manual imports.
func main() {
	year := flag.String("year", strconv.Itoa(time.Now().Year()), "year to sync")
	month := flag.String("month", "", "month to sync (1-12); empty syncs the whole year")
	timeout := flag.Duration("timeout", 10*time.Minute, "sync timeout")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	opener := cli.BuildSourceOpener(ctx, logger, cfg)

	syncer := appsync.NewSyncer(opener, repo)
	report, err := syncer.Sync(ctx, *year, *month)
	if err != nil {
		logger.Error("Sync failed", "error", err, "year", *year, "month", *month)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Error("Encode report failed", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
