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
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"

	httpctx "github.com/dtroode/filecms/internal/api/http/context"
	"github.com/dtroode/filecms/internal/api/http/router"
	httpServer "github.com/dtroode/filecms/internal/api/http/server"
	"github.com/dtroode/filecms/internal/api/http/views"
	"github.com/dtroode/filecms/internal/config"
	"github.com/dtroode/filecms/internal/credentials"
	"github.com/dtroode/filecms/internal/logger"
	"github.com/dtroode/filecms/internal/markdown"
	"github.com/dtroode/filecms/internal/model"
	"github.com/dtroode/filecms/internal/repository/postgres"
	"github.com/dtroode/filecms/internal/server"
	"github.com/dtroode/filecms/internal/service"
	"github.com/dtroode/filecms/internal/session"
	"github.com/dtroode/filecms/internal/storage/fs"
	storage "github.com/dtroode/filecms/internal/storage/minio"
	"github.com/dtroode/filecms/internal/token"
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

	documentStore, err := newDocumentStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize document storage", "error", err, "backend", cfg.Documents.Backend)
	}

	sessionStore, closeSessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize session storage", "error", err, "backend", cfg.Session.Backend)
	}
	defer closeSessions()

	credentialStore, err := credentials.NewStore(cfg.Credentials.File, credentials.BcryptVerifier{}, logger)
	if err != nil {
		logger.Fatal("failed to load credentials", "error", err, "path", cfg.Credentials.File)
	}

	var wg sync.WaitGroup

	if cfg.Credentials.Watch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := credentialStore.Watch(ctx); err != nil {
				logger.Error("credentials watcher stopped", "error", err)
			}
		}()
	}

	sessions := session.NewManager(sessionStore, token.NewJWT(cfg.Session.Secret), cfg.Session.TTL, logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		sessions.RunJanitor(ctx, cfg.Session.SweepInterval)
	}()

	renderer := markdown.NewGoldmarkRenderer(markdown.Options{UnsafeHTML: cfg.Markdown.UnsafeHTML})
	documentService := service.NewDocument(documentStore, renderer, logger)
	authService := service.NewAuth(credentialStore, logger)

	r := router.New(
		documentService,
		authService,
		sessions,
		httpctx.NewManager(),
		views.NewEngine(),
		views.Layout,
		router.Config{CookieName: cfg.Session.CookieName, SecureCookie: cfg.Session.SecureCookie},
		logger,
	)
	httpSrv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(httpSrv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpSrv.Address())
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

func newDocumentStore(ctx context.Context, cfg *config.Config) (model.DocumentStore, error) {
	if cfg.Documents.Backend != config.DocumentsBackendMinio {
		return fs.NewStore(cfg.Documents.Dir)
	}

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  miniocreds.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return storage.NewStore(ctx, minioClient, cfg.Storage.Bucket)
}

func newSessionStore(ctx context.Context, cfg *config.Config) (model.SessionStore, func(), error) {
	if cfg.Session.Backend != config.SessionBackendPostgres {
		return session.NewMemoryStore(), func() {}, nil
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewSessionRepository(db), func() { db.Close() }, nil
}
