package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arogyapath/internal/accounts"
	"arogyapath/internal/config"
	"arogyapath/internal/maps"
	"arogyapath/internal/nearby"
	"arogyapath/internal/storage"
	"arogyapath/internal/web"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	if err := store.InitSchema(context.Background()); err != nil {
		log.Fatalf("init schema: %v", err)
	}
	if count, err := store.CountUsers(context.Background()); err == nil {
		log.Printf("user store ready: %s (%d users)", cfg.DatabasePath, count)
	}

	overpassClient := &maps.OverpassClient{
		BaseURL: cfg.OverpassURL,
		Timeout: time.Duration(cfg.OverpassTimeoutSec) * time.Second,
	}
	resolver := &nearby.Resolver{Maps: overpassClient}
	accountService := &accounts.Service{Store: store, Cost: cfg.BcryptCost}

	mux := http.NewServeMux()
	web.NewServer(accountService, resolver).Routes(mux)

	server := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		// Leaves room for the upstream map query timeout.
		WriteTimeout: time.Duration(cfg.OverpassTimeoutSec)*time.Second + 10*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", cfg.ServerAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}
