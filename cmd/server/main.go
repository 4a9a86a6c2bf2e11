// Command server runs the contacts API: user accounts with email
// verification and JWT auth, a per-user address book with cached listings,
// and avatar storage on an external image host.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contactsbook/contacts-api/internal/api"
	"github.com/contactsbook/contacts-api/internal/infrastructure/config"
	mongodb "github.com/contactsbook/contacts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/contactsbook/contacts-api/internal/infrastructure/db/redis"
	"github.com/contactsbook/contacts-api/internal/infrastructure/imagehost"
	"github.com/contactsbook/contacts-api/internal/infrastructure/mail"
	"github.com/contactsbook/contacts-api/internal/infrastructure/queue"
	"github.com/contactsbook/contacts-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- External collaborators ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}
	if err := mongodb.NewContactRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("contact indexes failed")
	}

	mailer, err := mail.NewMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mailer setup failed")
	}

	dispatcher := queue.NewDispatcher(0, mailer, log)
	dispatcher.Start(ctx)

	uploader, err := imagehost.NewUploader(imagehost.Config{
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("image host setup failed")
	}

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		DB:        db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		BaseURL:   cfg.BaseURL,
		Mail:      dispatcher,
		Uploader:  uploader,
		Logger:    log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
