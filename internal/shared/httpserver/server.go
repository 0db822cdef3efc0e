package httpserver

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/agribid/auction-engine/internal/shared/logger"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

type Server struct {
	app *fiber.App
}

func NewServer() *Server {
	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info("HTTP request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("remote_addr", c.IP()),
		)
		return err
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	return &Server{app: app}
}

// App exposes the underlying fiber app for route registration.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens on addr and shuts down cleanly on interrupt. onShutdown runs
// after the listener stops accepting, before Start returns.
func (s *Server) Start(addr string, shutdownTimeout time.Duration, onShutdown func()) error {
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt)
		<-quit

		log.Info("Shutting down HTTP server...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.app.ShutdownWithContext(ctx)
	}()

	log.Info("HTTP server started", zap.String("addr", addr))
	err := s.app.Listen(addr)
	if onShutdown != nil {
		onShutdown()
	}
	return err
}
