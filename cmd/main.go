package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dtroode/contacts-server/internal/api/http/router"
	httpServer "github.com/dtroode/contacts-server/internal/api/http/server"
	"github.com/dtroode/contacts-server/internal/config"
	"github.com/dtroode/contacts-server/internal/logger"
	"github.com/dtroode/contacts-server/internal/model"
	"github.com/dtroode/contacts-server/internal/repository/postgres"
	"github.com/dtroode/contacts-server/internal/repository/sqlite"
	"github.com/dtroode/contacts-server/internal/server"
	"github.com/dtroode/contacts-server/internal/service"
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
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	store, closer, err := openStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err, "driver", cfg.Database.Driver)
	}
	defer closer.Close()

	contactService := service.NewContact(store, logger)

	r := router.New(contactService, logger, router.Options{
		Title:          "Contacts API",
		Version:        buildVersion,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadHeaderTimeout)

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// openStore opens the contact store selected by the config.
func openStore(ctx context.Context, cfg config.Database) (model.ContactStore, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewConnection(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewContactRepository(db), db, nil
	default:
		db, err := sqlite.NewConnection(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewContactRepository(db), db, nil
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
