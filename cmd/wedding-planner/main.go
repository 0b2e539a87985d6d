package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/B1shwas/Khumbaya-sub000/internal/config"
	"github.com/B1shwas/Khumbaya-sub000/internal/handler"
	"github.com/B1shwas/Khumbaya-sub000/internal/planner"
	"github.com/B1shwas/Khumbaya-sub000/internal/storage"
	"github.com/B1shwas/Khumbaya-sub000/internal/whatsapp"
)

func main() {
	fmt.Println("🎉 Wedding Planner")
	fmt.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(cfg.Level()).
		With().Timestamp().Logger()

	backend, err := openBackend(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := planner.New(backend, log, time.Now)
	if err := p.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load planner data")
	}

	var rsvpHandler *handler.RSVPHandler
	var whatsappService *whatsapp.Service
	if cfg.WhatsAppEnabled {
		whatsappService, err = whatsapp.NewService(ctx, &whatsapp.Config{DataDir: cfg.WhatsAppDataDir}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize WhatsApp service")
		}

		rsvpHandler = handler.NewRSVPHandler(whatsappService, p.Guests, &handler.Config{
			WeddingDate:     cfg.WeddingDate,
			WeddingLocation: cfg.WeddingLocation,
			BrideName:       cfg.BrideName,
			GroomName:       cfg.GroomName,
		}, log)
		whatsappService.SetMessageHandler(rsvpHandler.HandleMessage)

		fmt.Println("Connecting to WhatsApp...")
		if err := whatsappService.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to WhatsApp")
		}
		fmt.Println("\n✅ Connected to WhatsApp! Listening for RSVP replies.")
	} else {
		fmt.Println("WhatsApp delivery disabled, invitations are recorded locally.")
	}

	cli := &CLI{
		ctx:     ctx,
		planner: p,
		rsvp:    rsvpHandler,
		locale:  cfg.Language(),
		in:      os.Stdin,
		out:     os.Stdout,
	}
	go func() {
		cli.Run()
		stop()
	}()

	<-ctx.Done()

	fmt.Println("\n\nShutting down...")
	if whatsappService != nil {
		whatsappService.Disconnect()
	}

	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Save(saveCtx); err != nil {
		log.Error().Err(err).Msg("failed to save planner data")
	}
	if err := p.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close storage")
	}
	fmt.Println("Goodbye! 👋")
}

func openBackend(cfg *config.Config) (storage.Backend, error) {
	path := cfg.DataPath()
	if cfg.Backend != config.BackendSQLite {
		return storage.NewFileBackend(path), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	backend, err := storage.NewSQLiteBackend(path)
	if err != nil {
		return nil, err
	}
	return backend, nil
}
