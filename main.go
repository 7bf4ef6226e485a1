package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/cppla/aiblog/config"
	"github.com/cppla/aiblog/models"
	"github.com/cppla/aiblog/routes"
	"github.com/cppla/aiblog/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDatabase(cfg, models.All()...)
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}

	rc, err := utils.NewRedisClient(ctx, cfg)
	if err != nil {
		utils.Sugar.Fatalf("redis init failed: %v", err)
	}
	if rc == nil {
		utils.Sugar.Info("redis disabled, caches are in process")
	} else {
		defer func() { _ = rc.Close() }()
	}

	r := routes.SetupRouter(cfg, db, rc)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(ctx, ":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
