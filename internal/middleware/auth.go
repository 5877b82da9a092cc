package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"galpe/internal/domain"
)

// SessionCookieName is the cookie holding the signed session token
const SessionCookieName = "session"

const sessionContextKey = "session"

// SessionClaims represents the JWT claims of a session token
type SessionClaims struct {
	User domain.SessionProjection `json:"user"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies the session cookie.
// The cookie carries the user's session projection, never a password.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
	}
}

// Issue signs a session token for the projection
func (m *SessionManager) Issue(p *domain.SessionProjection) (string, error) {
	if p == nil {
		return "", errors.New("no session projection to issue")
	}

	now := time.Now()
	claims := &SessionClaims{
		User: *p,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a session token and returns its projection
func (m *SessionManager) Parse(tokenString string) (*domain.SessionProjection, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session claims")
	}

	p := claims.User
	return &p, nil
}

// SetSession issues a token for p and stores it in the response cookie
func (m *SessionManager) SetSession(c echo.Context, p *domain.SessionProjection) error {
	token, err := m.Issue(p)
	if err != nil {
		return fmt.Errorf("failed to issue session: %w", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
	c.Set(sessionContextKey, p)
	return nil
}

// ClearSession deletes the session cookie
func (m *SessionManager) ClearSession(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		MaxAge:   -1,
	})
	c.Set(sessionContextKey, nil)
}

// LoadSession reads the session cookie, if any, into the request context.
// Invalid or expired cookies are cleared and the request continues anonymously.
func (m *SessionManager) LoadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		p, err := m.Parse(cookie.Value)
		if err != nil {
			m.ClearSession(c)
			return next(c)
		}

		c.Set(sessionContextKey, p)
		return next(c)
	}
}

// RequireAuth redirects anonymous requests to the login page
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if GetSession(c) == nil {
			return c.Redirect(http.StatusFound, "/login")
		}
		return next(c)
	}
}

// GetSession returns the session projection of the request, or nil
func GetSession(c echo.Context) *domain.SessionProjection {
	p, _ := c.Get(sessionContextKey).(*domain.SessionProjection)
	return p
}
