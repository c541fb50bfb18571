package server

import (
	"context"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go-rdpaudit/database"
)

// New prepares the fiber app exposing the run ledger.
func New(db *database.DB) *fiber.App {
	h := Handler{db: db}

	app := fiber.New()

	// Define routes
	app.Get("/health", h.HealthHandler)
	app.Get("/runs", h.RunsHandler)
	app.Get("/runs/:id/successes", h.SuccessesHandler)

	return app
}

// Start serves the ledger on addr until ctx is done.
func Start(ctx context.Context, db *database.DB, addr string) error {
	app := New(db)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			if err := app.Shutdown(); err != nil {
				logrus.Errorf("shutdown error: %v", err)
			}
		case <-done:
		}
	}()

	logrus.Infof("Results API listening on %s", addr)
	return app.Listen(addr)
}
