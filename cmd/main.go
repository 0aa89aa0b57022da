package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/machinery-hub/catalog-api/internal/config"
	"github.com/machinery-hub/catalog-api/internal/db"
	"github.com/machinery-hub/catalog-api/internal/handlers"
	"github.com/machinery-hub/catalog-api/internal/logging"
	"github.com/machinery-hub/catalog-api/internal/server"
	"github.com/machinery-hub/catalog-api/internal/services"
	"github.com/machinery-hub/catalog-api/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.SlogLevel(), cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoDB, err := db.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoDB.Client().Disconnect(disconnectCtx); err != nil {
			logger.Warn("mongodb disconnect failed", "error", err)
		}
	}()
	if err := db.EnsureIndexes(ctx, mongoDB); err != nil {
		return err
	}

	images, err := storage.NewImageStore(ctx, storage.Options{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	}, logger)
	if err != nil {
		return err
	}

	users := db.NewUserRepository(mongoDB)
	machines := db.NewMachineRepository(mongoDB)
	types := db.NewMachineTypeRepository(mongoDB)
	regions := db.NewRegionRepository(mongoDB)

	hasher := services.PasswordHasher{Cost: cfg.BcryptCost}
	auth := services.NewAuthService(users, services.NewTokenCodec([]byte(cfg.JWTSecret), cfg.TokenTTL), hasher, logger)
	imageSvc := services.NewImageService(images, machines, cfg.MaxImageSize, logger)

	app := server.NewApp(server.Services{
		Auth:         auth,
		Users:        services.NewUserService(users, auth, hasher),
		Machines:     services.NewMachineService(machines, types, imageSvc),
		Images:       imageSvc,
		MachineTypes: services.NewMachineTypeService(types),
		Regions:      services.NewRegionService(regions),
	}, server.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		BodyLimit:      cfg.BodyLimit,
		SeedRoute:      cfg.EnableSeedRoute,
		SeedAccount: handlers.SeedAccount{
			Username: cfg.SeedAdmin.Username,
			Email:    cfg.SeedAdmin.Email,
			Password: cfg.SeedAdmin.Password,
		},
		Health: func(ctx context.Context) error {
			if err := db.Ping(ctx, mongoDB); err != nil {
				return err
			}
			return images.Ping(ctx)
		},
		AccessLog: os.Stdout,
	}, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Warn("shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "addr", cfg.Addr(), "env", cfg.AppEnv, "seed_route", cfg.EnableSeedRoute)
	return app.Listen(cfg.Addr())
}
