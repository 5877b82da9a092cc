package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "galpe/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	Sessions       *custommiddleware.SessionManager
	WebHandler     *WebHandler
	AuthHandler    *AuthHandler
	SupportHandler *SupportHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Browsers poll the favicon on every page
			return c.Request().URL.Path == "/favicon.ico"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(config.Sessions.LoadSession)

	// Public pages
	e.GET("/", config.WebHandler.HandleIndex)
	e.GET("/market", config.WebHandler.HandleMarket)
	e.GET("/support", config.WebHandler.HandleSupport)
	e.GET("/contact", config.WebHandler.HandleContact)
	e.POST("/support/contact", config.WebHandler.HandleContactPost)

	// Account recovery, available with or without a session
	support := e.Group("/support")
	{
		support.GET("/reset-password", config.SupportHandler.HandleResetPassword)
		support.POST("/reset-password", config.SupportHandler.HandleResetPasswordPost)
		support.GET("/change-email", config.SupportHandler.HandleChangeEmail)
		support.POST("/change-email", config.SupportHandler.HandleChangeEmailPost)
	}

	// Auth
	e.GET("/login", config.AuthHandler.HandleLogin)
	e.POST("/login", config.AuthHandler.HandleLoginPost)
	e.GET("/register", config.AuthHandler.HandleRegister)
	e.POST("/register", config.AuthHandler.HandleRegisterPost)
	e.POST("/logout", config.AuthHandler.HandleLogout)

	// Signed-in pages
	e.GET("/dashboard", config.WebHandler.HandleDashboard, custommiddleware.RequireAuth)
	e.GET("/trade/:symbol", config.WebHandler.HandleTrade, custommiddleware.RequireAuth)
	e.GET("/deposit", config.WebHandler.HandleDeposit, custommiddleware.RequireAuth)
}
