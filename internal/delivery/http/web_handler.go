package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"galpe/internal/domain"
	"galpe/internal/middleware"
	"galpe/internal/service"
)

// WebHandler serves the market and dashboard pages
type WebHandler struct {
	market *service.MarketSnapshotService
}

// NewWebHandler creates a new WebHandler
func NewWebHandler(market *service.MarketSnapshotService) *WebHandler {
	return &WebHandler{market: market}
}

// GET / - Home page with the coin list
func (h *WebHandler) HandleIndex(c echo.Context) error {
	coins, err := h.market.Coins(c.Request().Context())
	if err != nil {
		return err
	}

	data := pageData(c, "")
	data["Coins"] = coins
	return RenderPage(c, "index", data)
}

// GET /market - Coin list with top gainers and losers
func (h *WebHandler) HandleMarket(c echo.Context) error {
	coins, err := h.market.Coins(c.Request().Context())
	if err != nil {
		return err
	}

	gainers, losers := service.Movers(coins, service.DefaultMoversCount)

	data := pageData(c, "Mercado")
	data["Coins"] = coins
	data["Gainers"] = gainers
	data["Losers"] = losers
	return RenderPage(c, "market", data)
}

// GET /trade/:symbol - Trading page of one coin
func (h *WebHandler) HandleTrade(c echo.Context) error {
	coin, coins, err := h.market.FindBySymbol(c.Request().Context(), c.Param("symbol"))
	if errors.Is(err, domain.ErrCoinNotFound) {
		return c.Redirect(http.StatusFound, "/market")
	}
	if err != nil {
		return err
	}

	data := pageData(c, "")
	data["Title"] = coin.Name + " - Trading"
	data["Coin"] = coin
	data["Coins"] = coins
	return RenderPage(c, "trade", data)
}

// GET /dashboard - The signed-in user's assets joined with market data
func (h *WebHandler) HandleDashboard(c echo.Context) error {
	user := middleware.GetSession(c)

	coins, err := h.market.Coins(c.Request().Context())
	if err != nil {
		return err
	}

	data := pageData(c, "Panel")
	data["Portfolio"] = service.BuildPortfolio(user.Assets, coins)
	data["Coins"] = coins
	return RenderPage(c, "dashboard", data)
}

// GET /deposit
func (h *WebHandler) HandleDeposit(c echo.Context) error {
	return RenderPage(c, "deposit", pageData(c, "Depositar"))
}

// GET /support
func (h *WebHandler) HandleSupport(c echo.Context) error {
	return RenderPage(c, "support", pageData(c, "Soporte"))
}

// GET /contact
func (h *WebHandler) HandleContact(c echo.Context) error {
	data := pageData(c, "Soporte técnico")
	data["Sent"] = c.QueryParam("sent") == "true"
	return RenderPage(c, "contact", data)
}

// POST /support/contact - Messages are not stored, the form only acknowledges
func (h *WebHandler) HandleContactPost(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/contact?sent=true")
}
