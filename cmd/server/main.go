package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"muster/internal/app"
	"muster/internal/handlers"
	"muster/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	logger.Setup(slog.LevelInfo)
	log := logger.New("main")

	application, err := app.New()
	if err != nil {
		log.Er("failed to initialize application", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Er("failed to close application", err)
		}
	}()

	server := fiber.New(fiber.Config{
		AppName: "muster",
	})

	server.Use(recover.New())
	server.Use(cors.New())

	server.Static("/", application.Config.PublicDir)

	if err := handlers.Router(server, application); err != nil {
		log.Er("failed to register routes", err)
		os.Exit(1)
	}

	go func() {
		address := fmt.Sprintf(":%d", application.Config.Port)
		log.Info("Server starting", "address", address)
		if err := server.Listen(address); err != nil {
			log.Er("server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	if err := server.Shutdown(); err != nil {
		log.Er("failed to shut down server", err)
	}
}
