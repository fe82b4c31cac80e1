package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"github.com/routineapp/routine-server/internal/api/http/handler"
	"github.com/routineapp/routine-server/internal/api/http/middleware"
	"github.com/routineapp/routine-server/internal/api/http/reqctx"
	"github.com/routineapp/routine-server/internal/api/http/router"
	httpServer "github.com/routineapp/routine-server/internal/api/http/server"
	"github.com/routineapp/routine-server/internal/config"
	"github.com/routineapp/routine-server/internal/hash"
	"github.com/routineapp/routine-server/internal/logger"
	"github.com/routineapp/routine-server/internal/mail"
	"github.com/routineapp/routine-server/internal/repository/postgres"
	"github.com/routineapp/routine-server/internal/service"
	"github.com/routineapp/routine-server/internal/session"
	storage "github.com/routineapp/routine-server/internal/storage/minio"
	"github.com/routineapp/routine-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	userRepo := postgres.NewUserRepository(db)
	habitRepo := postgres.NewHabitRepository(db)
	sessions := session.NewAuthority(redisClient, logger)

	codec := token.NewCodec(token.Config{
		Audience:           cfg.JWT.Audience,
		Issuer:             cfg.JWT.Issuer,
		AccessSecret:       cfg.JWT.AccessSecret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		VerificationSecret: cfg.JWT.VerificationSecret,
		ResetSecret:        cfg.JWT.ResetSecret,
		AccessTTL:          cfg.JWT.AccessTokenTTL,
		RefreshTTL:         cfg.JWT.RefreshTokenTTL,
		VerificationTTL:    cfg.JWT.VerificationTTL,
		ResetTTL:           cfg.JWT.ResetTTL,
	})
	hasher := hash.NewBcrypt(cfg.Bcrypt.Cost)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.BaseURL)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	mailer := mail.NewSMTP(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, logger)

	authService := service.NewAuth(userRepo, sessions, codec, hasher, service.AuthConfig{
		ServerBaseURL:   cfg.ServerBaseURL,
		FrontendBaseURL: cfg.FrontendBaseURL,
		RefreshTTL:      cfg.JWT.RefreshTokenTTL,
		VerificationTTL: cfg.JWT.VerificationTTL,
		ResetTTL:        cfg.JWT.ResetTTL,
	}, logger)
	userService := service.NewUser(userRepo, hasher, storageClient, logger)
	habitService := service.NewHabit(habitRepo, logger)

	contextManager := reqctx.NewManager()
	authHandler := handler.NewAuth(authService, habitService, mailer, contextManager, handler.CookieConfig{
		Secure:     cfg.HTTP.SecureCookies,
		AccessTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTTL: cfg.JWT.RefreshTokenTTL,
	}, logger)
	userHandler := handler.NewUser(userService, contextManager, logger)
	habitHandler := handler.NewHabit(habitService, contextManager, logger)

	dispatcher := middleware.NewDispatcher(codec, contextManager, logger)
	logging := middleware.NewLogging(logger)

	engine := router.New(authHandler, userHandler, habitHandler, dispatcher, logging)

	var certFile, keyFile string
	if cfg.HTTP.EnableHTTPS {
		certFile = cfg.HTTP.CertFileName
		keyFile = cfg.HTTP.PrivateKeyFileName
	}
	srv := httpServer.New(engine, fmt.Sprintf(":%s", cfg.HTTP.Port), certFile, keyFile)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "address", srv.Address())
		if err := srv.Start(); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
