package server

import (
	"errors"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go-rdpaudit/database"
	"strconv"
)

// Handler defines an HTTP handler.
type Handler struct {
	db *database.DB // db defines the run ledger read by the handlers.
}

// HealthHandler defines the handler for the /health endpoint.
func (h *Handler) HealthHandler(ctx fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(HealthResponse{Status: "ok"})
}

// RunsHandler defines the handler for the /runs endpoint.
func (h *Handler) RunsHandler(ctx fiber.Ctx) error {
	runs, err := h.db.Runs()
	if err != nil {
		logrus.Errorf("failed to list runs: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(response{
			Error:   true,
			Message: "Unexpected internal error occurred.",
		})
	}
	return ctx.Status(fiber.StatusOK).JSON(RunsResponse{Runs: runs})
}

// SuccessesHandler defines the handler for the /runs/:id/successes endpoint.
func (h *Handler) SuccessesHandler(ctx fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(response{
			Error:   true,
			Message: "Invalid run id provided.",
		})
	}

	successes, err := h.db.Successes(uint(id))
	if errors.Is(err, database.ErrRunNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(response{
			Error:   true,
			Message: "Run not found.",
		})
	}
	if err != nil {
		logrus.Errorf("failed to list successes of run %d: %v", id, err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(response{
			Error:   true,
			Message: "Unexpected internal error occurred.",
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(SuccessesResponse{
		RunID:     uint(id),
		Successes: successes,
	})
}
