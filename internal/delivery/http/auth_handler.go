package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"galpe/internal/delivery/http/dto"
	"galpe/internal/middleware"
	"galpe/internal/service"
)

// AuthHandler handles sign-in, registration and sign-out
type AuthHandler struct {
	accounts *service.AccountService
	sessions *middleware.SessionManager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts *service.AccountService, sessions *middleware.SessionManager) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
	}
}

// GET /login
func (h *AuthHandler) HandleLogin(c echo.Context) error {
	if middleware.GetSession(c) != nil {
		return c.Redirect(http.StatusFound, "/dashboard")
	}
	return RenderPage(c, "login", pageData(c, "Iniciar Sesión"))
}

// POST /login
func (h *AuthHandler) HandleLoginPost(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	res, err := h.accounts.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	if !res.OK() {
		data := pageData(c, "Iniciar Sesión")
		data["Error"] = reasonMessage(res.Reason)
		data["Email"] = req.Email
		return RenderPage(c, "login", data)
	}

	if err := h.sessions.SetSession(c, res.Session); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/dashboard")
}

// GET /register
func (h *AuthHandler) HandleRegister(c echo.Context) error {
	if middleware.GetSession(c) != nil {
		return c.Redirect(http.StatusFound, "/dashboard")
	}
	return RenderPage(c, "register", pageData(c, "Registrarse"))
}

// POST /register
func (h *AuthHandler) HandleRegisterPost(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	res, err := h.accounts.Register(c.Request().Context(), req.ToDomain())
	if err != nil {
		return err
	}

	if !res.OK() {
		data := pageData(c, "Registrarse")
		data["Error"] = reasonMessage(res.Reason)
		data["Name"] = req.Name
		data["Email"] = req.Email
		return RenderPage(c, "register", data)
	}

	if err := h.sessions.SetSession(c, res.Session); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/dashboard")
}

// POST /logout
func (h *AuthHandler) HandleLogout(c echo.Context) error {
	h.sessions.ClearSession(c)
	return c.Redirect(http.StatusFound, "/login")
}
