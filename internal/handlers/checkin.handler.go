package handlers

import (
	"errors"
	"path/filepath"

	"muster/internal/app"
	checkinController "muster/internal/controllers/checkin"
	"muster/internal/logger"
	. "muster/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CheckinHandler struct {
	Handler
	controller *checkinController.CheckinController
	publicDir  string
}

func NewCheckinHandler(app app.App, router fiber.Router) *CheckinHandler {
	log := logger.New("handlers").File("checkin_handler")
	return &CheckinHandler{
		controller: app.CheckinController,
		publicDir:  app.Config.PublicDir,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CheckinHandler) Register() {
	// GET serves the check-in page so QR links open the UI directly.
	h.router.Get("/checkin", h.page)
	h.router.Post("/checkin", h.checkIn)
}

func (h *CheckinHandler) page(c *fiber.Ctx) error {
	return c.SendFile(filepath.Join(h.publicDir, "checkin.html"))
}

func (h *CheckinHandler) checkIn(c *fiber.Ctx) error {
	log := h.log.Function("checkIn")

	var request CheckinRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse checkin request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid request body"})
	}

	notice, err := h.controller.CheckIn(c.Context(), request)
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid device or personnel"})
	case errors.Is(err, ErrTooSoon):
		return c.Status(fiber.StatusTooManyRequests).
			JSON(fiber.Map{"error": "You can only check in once per 18 hours"})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Checkin failed"})
	}

	return c.JSON(fiber.Map{"success": true, "checkin": notice})
}
