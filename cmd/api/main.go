package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lumora.life/internal/auth"
	"lumora.life/internal/config"
	"lumora.life/internal/device"
	"lumora.life/internal/httpapi"
	"lumora.life/internal/mfa"
	"lumora.life/internal/obs"
	"lumora.life/internal/store/pg"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("LUMORA_PG_DSN is required")
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)

	storage, err := pg.Open(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	tokens, err := auth.NewTokenService(cfg.Issuer, cfg.AuthSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	devices, err := device.NewRegistry(storage)
	if err != nil {
		log.Fatalf("device registry: %v", err)
	}
	engine, err := mfa.NewEngine(storage, cfg.Issuer)
	if err != nil {
		log.Fatalf("mfa engine: %v", err)
	}

	api, err := httpapi.New(httpapi.Options{
		Tokens:             tokens,
		Users:              storage,
		Devices:            devices,
		MFA:                engine,
		ReadyProbe:         httpapi.ReadyProbe{DB: storage.DB()},
		Version:            version,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
		MaxBodyBytes:       cfg.MaxBodyBytes,
	})
	if err != nil {
		log.Fatalf("http api: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting lumora-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = storage.Close()
	log.Println("Stopped")
}
