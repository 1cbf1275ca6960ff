package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"muster/internal/app"
	adminController "muster/internal/controllers/admin"
	checkinController "muster/internal/controllers/checkin"
	personnelController "muster/internal/controllers/personnel"
	"muster/internal/logger"
	. "muster/internal/models"
	"muster/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	admins    *adminController.AdminController
	personnel *personnelController.PersonnelController
	checkins  *checkinController.CheckinController
	sessions  *services.SessionService
	qrcodes   *services.QRCodeService
	exports   *services.ExportService
	publicDir string
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		admins:    app.AdminController,
		personnel: app.PersonnelController,
		checkins:  app.CheckinController,
		sessions:  app.SessionService,
		qrcodes:   app.QRCodeService,
		exports:   app.ExportService,
		publicDir: app.Config.PublicDir,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin")

	admin.Get("/", h.page)
	admin.Post("/login", h.login)
	admin.Post("/logout", h.logout)

	protected := admin.Use(h.middleware.RequireAdmin)
	protected.Post("/change-password", h.changePassword)
	protected.Get("/checkins", h.listCheckins)
	protected.Get("/download", h.download)
	protected.Get("/personnel", h.listPersonnel)
	protected.Post("/personnel", h.createPersonnel)
	protected.Delete("/personnel/:id", h.deletePersonnel)
	protected.Post("/personnel/:id/generate-token", h.generateToken)
	protected.Post("/personnel/:id/revoke-token", h.revokeToken)
	protected.Get("/qrcode/common", h.commonQRCode)
	protected.Get("/qrcode/:id", h.personnelQRCode)
}

// page serves the dashboard for a logged-in admin and the login page
// otherwise.
func (h *AdminHandler) page(c *fiber.Ctx) error {
	if _, ok := h.middleware.Session(c); ok {
		return c.SendFile(filepath.Join(h.publicDir, "admin.html"))
	}
	return c.SendFile(filepath.Join(h.publicDir, "admin_login.html"))
}

func (h *AdminHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var request LoginRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse login request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid request body"})
	}

	admin, err := h.admins.Login(c.Context(), request.Username, request.Password)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"error": "Invalid credentials"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Login failed"})
	}

	sessionID, err := h.sessions.Create(c.Context(), services.AdminSession{
		AdminID:  admin.ID,
		Username: admin.Username,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Login failed"})
	}

	h.middleware.SetSessionCookie(c, sessionID)
	return c.JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) logout(c *fiber.Ctx) error {
	h.middleware.ClearSession(c)
	return c.JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) changePassword(c *fiber.Ctx) error {
	log := h.log.Function("changePassword")

	var request ChangePasswordRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse change-password request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid request body"})
	}

	if request.Current == "" || request.Password == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Missing fields"})
	}

	session := c.Locals("admin").(services.AdminSession)
	err := h.admins.ChangePassword(c.Context(), session.AdminID, request.Current, request.Password)
	switch {
	case errors.Is(err, ErrWeakPassword):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"error": "Invalid current password"})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to change password"})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) listCheckins(c *fiber.Ctx) error {
	rows, err := h.checkins.History(c.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid date range"})
	}

	return c.JSON(rows)
}

func (h *AdminHandler) download(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Missing date query param"})
	}

	rows, err := h.checkins.DayReport(c.Context(), date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid date"})
	}

	var buf bytes.Buffer
	if err := h.exports.DailyReport(&buf, date, rows); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to render report"})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="checkins-%s.pdf"`, date))
	return c.Send(buf.Bytes())
}

func (h *AdminHandler) listPersonnel(c *fiber.Ctx) error {
	personnel, err := h.personnel.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to list personnel"})
	}

	rows := make([]fiber.Map, 0, len(personnel))
	for _, p := range personnel {
		rows = append(rows, fiber.Map{
			"id":         p.ID,
			"name":       p.DisplayName(),
			"first_name": p.FirstName,
			"last_name":  p.LastName,
			"rank":       p.Rank,
			"device_id":  p.DeviceToken,
			"is_active":  p.IsActive,
		})
	}

	return c.JSON(rows)
}

func (h *AdminHandler) createPersonnel(c *fiber.Ctx) error {
	log := h.log.Function("createPersonnel")

	var request CreatePersonnelRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse create request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid request body"})
	}

	personnel, grant, err := h.personnel.Create(c.Context(), request, h.baseURL(c))
	if err != nil {
		if errors.Is(err, ErrDuplicateToken) {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "Device ID already in use"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create personnel"})
	}

	response := fiber.Map{"success": true, "id": personnel.ID}
	if grant != nil {
		response["token"] = grant.Token
		response["registerUrl"] = grant.RegisterURL
		if file, err := h.qrcodes.WriteFile(grant.RegisterURL, services.RegistrationFileName(personnel.ID)); err == nil {
			response["file"] = file
		}
	}

	return c.JSON(response)
}

func (h *AdminHandler) deletePersonnel(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid personnel id"})
	}

	if err := h.personnel.Delete(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to delete personnel"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// generateToken issues or rotates a device token. A transient collision is
// surfaced for the admin to retry rather than looped internally.
func (h *AdminHandler) generateToken(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid personnel id"})
	}

	grant, err := h.personnel.IssueToken(c.Context(), id, h.baseURL(c))
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": "No such personnel"})
	case errors.Is(err, ErrTokenCollision):
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Token collision, retry"})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to generate token"})
	}

	response := fiber.Map{"token": grant.Token, "registerUrl": grant.RegisterURL}
	if file, err := h.qrcodes.WriteFile(grant.RegisterURL, services.RegistrationFileName(id)); err == nil {
		response["file"] = file
	}

	return c.JSON(response)
}

func (h *AdminHandler) revokeToken(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid personnel id"})
	}

	if err := h.personnel.RevokeToken(c.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(fiber.Map{"error": "No such personnel"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to revoke token"})
	}

	// The registration QR for the old token is now stale.
	h.qrcodes.RemoveFile(services.RegistrationFileName(id))

	return c.JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) commonQRCode(c *fiber.Ctx) error {
	url := h.baseURL(c) + "/checkin.html"
	file, err := h.qrcodes.WriteFile(url, "common")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "QR generation failed"})
	}

	return c.JSON(fiber.Map{"file": file, "url": url})
}

func (h *AdminHandler) personnelQRCode(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := strconv.Atoi(id); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid personnel id"})
	}

	url := h.baseURL(c) + "/checkin.html?id=" + id

	dataURL, err := h.qrcodes.DataURL(url)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "QR generation failed"})
	}

	response := fiber.Map{"qrcode": dataURL, "url": url}
	if file, err := h.qrcodes.WriteFile(url, id); err == nil {
		response["file"] = file
	}

	return c.JSON(response)
}

func (h *AdminHandler) baseURL(c *fiber.Ctx) string {
	return c.Protocol() + "://" + c.Hostname()
}
