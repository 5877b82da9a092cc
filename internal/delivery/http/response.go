package http

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"galpe/internal/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

// SiteName is appended to every page title
const SiteName = "Galpe Exchange"

// TemplateRenderer renders the embedded page templates for echo
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses the embedded templates
func NewTemplateRenderer() (*TemplateRenderer, error) {
	tmpl, err := template.New("pages").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{templates: tmpl}, nil
}

// Render implements echo.Renderer
func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

var templateFuncs = template.FuncMap{
	"fixed": func(d decimal.Decimal, places int32) string {
		return d.StringFixed(places)
	},
	"signed": func(d decimal.Decimal) string {
		if d.IsPositive() {
			return "+" + d.StringFixed(2)
		}
		return d.StringFixed(2)
	},
	"trend": func(d decimal.Decimal) string {
		switch {
		case d.IsPositive():
			return "up"
		case d.IsNegative():
			return "down"
		default:
			return "flat"
		}
	},
}

// pageData starts the template data of a page with its title and the signed-in user
func pageData(c echo.Context, title string) map[string]interface{} {
	if title == "" {
		title = SiteName
	} else {
		title = title + " - " + SiteName
	}
	return map[string]interface{}{
		"Title": title,
		"User":  middleware.GetSession(c),
	}
}

// RenderPage renders a full page with status 200
func RenderPage(c echo.Context, name string, data map[string]interface{}) error {
	return c.Render(http.StatusOK, name, data)
}

// NewErrorHandler returns an echo error handler that renders the error page
func NewErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Ocurrió un error inesperado. Por favor, intenta de nuevo."

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if code == http.StatusNotFound {
				message = "Página no encontrada"
			}
		}

		if code >= http.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Request().URL.Path,
			}).Error("Request failed")
		}

		data := pageData(c, "Error")
		data["Code"] = code
		data["Message"] = message

		if rerr := c.Render(code, "error", data); rerr != nil {
			log.WithError(rerr).Error("Failed to render error page")
			_ = c.String(code, message)
		}
	}
}
