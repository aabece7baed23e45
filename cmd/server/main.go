package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/config"
	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/server"
)

func main() {
	// Flags override environment and config file
	port := flag.String("port", "", "Server port")
	storagePath := flag.String("db", "", "Session database path")
	bridge := flag.String("bridge", "", "Browser bridge base URL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Invalid configuration, using defaults: %v", err)
		cfg = config.Default()
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *storagePath != "" {
		cfg.Storage.Path = *storagePath
	}
	if *bridge != "" {
		cfg.Browser.BridgeURL = *bridge
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Println("Shutting down gracefully...")
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		_ = srv.Close()
		log.Fatalf("Server error: %v", err)
	}
}
