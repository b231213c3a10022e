package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"versement_export/internal/config"
	"versement_export/internal/handlers"
	refrepo "versement_export/internal/repository/refdata"
	"versement_export/internal/server"
)

func main() {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := config.Init(setupCtx)

	if err := cfg.S3.EnsureBuckets(setupCtx); err != nil {
		log.Fatalf("❌ Bucket setup failed: %v", err)
	}
	if err := cfg.CheckConnections(setupCtx); err != nil {
		log.Fatalf("❌ Connection check failed: %v", err)
	}
	fmt.Println("🟢 All connections OK")

	catalogues := refrepo.NewRepo(cfg.Postgres).Load(setupCtx)

	h := handlers.New(cfg.Postgres, cfg.Mongo, cfg.S3, catalogues)
	srv := server.NewServer(cfg.Port, h)

	if err := srv.Run(runCtx); err != nil {
		log.Fatal(err)
	}
}
