package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cloud_drive_agent/internal/agent"
	"cloud_drive_agent/internal/pkg/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment as-is")
	}

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	a, err := agent.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build agent: %v", err)
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		a.Shutdown()
		os.Exit(0)
	}()

	if err := a.Run(); err != nil {
		log.Fatalf("Agent stopped: %v", err)
	}
}
