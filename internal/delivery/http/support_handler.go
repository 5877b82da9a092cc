package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"galpe/internal/delivery/http/dto"
	"galpe/internal/domain"
	"galpe/internal/middleware"
	"galpe/internal/service"
)

// SupportHandler serves the self-service account recovery forms
type SupportHandler struct {
	accounts *service.AccountService
	sessions *middleware.SessionManager
}

// NewSupportHandler creates a new SupportHandler
func NewSupportHandler(accounts *service.AccountService, sessions *middleware.SessionManager) *SupportHandler {
	return &SupportHandler{
		accounts: accounts,
		sessions: sessions,
	}
}

// GET /support/reset-password
func (h *SupportHandler) HandleResetPassword(c echo.Context) error {
	return RenderPage(c, "reset-password", pageData(c, "Cambiar contraseña"))
}

// POST /support/reset-password
func (h *SupportHandler) HandleResetPasswordPost(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	res, err := h.accounts.ResetPassword(c.Request().Context(), middleware.GetSession(c), req.ToDomain())
	if err != nil {
		return err
	}
	if err := h.keepSession(c, res); err != nil {
		return err
	}

	data := pageData(c, "Cambiar contraseña")
	if res.OK() {
		data["Success"] = msgPasswordChanged
	} else {
		data["Error"] = reasonMessage(res.Reason)
		data["Email"] = req.Email
	}
	return RenderPage(c, "reset-password", data)
}

// GET /support/change-email
func (h *SupportHandler) HandleChangeEmail(c echo.Context) error {
	return RenderPage(c, "change-email", pageData(c, "Cambiar correo electrónico"))
}

// POST /support/change-email
func (h *SupportHandler) HandleChangeEmailPost(c echo.Context) error {
	var req dto.ChangeEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	res, err := h.accounts.ChangeEmail(c.Request().Context(), middleware.GetSession(c), req.ToDomain())
	if err != nil {
		return err
	}
	if err := h.keepSession(c, res); err != nil {
		return err
	}

	data := pageData(c, "Cambiar correo electrónico")
	if res.OK() {
		data["Success"] = msgEmailChanged
	} else {
		data["Error"] = reasonMessage(res.Reason)
		data["CurrentEmail"] = req.CurrentEmail
		data["NewEmail"] = req.NewEmail
	}
	return RenderPage(c, "change-email", data)
}

// keepSession re-issues the session cookie when the service refreshed the projection
func (h *SupportHandler) keepSession(c echo.Context, res domain.MutationResult) error {
	if res.Session == nil || res.Session == middleware.GetSession(c) {
		return nil
	}
	return h.sessions.SetSession(c, res.Session)
}
