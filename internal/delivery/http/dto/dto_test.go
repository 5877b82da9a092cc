package dto

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galpe/internal/domain"
)

func bindForm(t *testing.T, form url.Values, dst interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c := echo.New().NewContext(req, httptest.NewRecorder())
	require.NoError(t, c.Bind(dst))
}

func TestResetPasswordRequest_BindAndConvert(t *testing.T) {
	var req ResetPasswordRequest
	bindForm(t, url.Values{
		"email":           {"a@x.com"},
		"newPassword":     {"abcdef"},
		"confirmPassword": {"abcdeg"},
	}, &req)

	assert.Equal(t, domain.ResetPasswordRequest{
		Email: "a@x.com", NewPassword: "abcdef", ConfirmPassword: "abcdeg",
	}, req.ToDomain())
}

func TestChangeEmailRequest_BindAndConvert(t *testing.T) {
	var req ChangeEmailRequest
	bindForm(t, url.Values{
		"currentEmail": {"a@x.com"},
		"newEmail":     {"c@x.com"},
		"password":     {"pw"},
	}, &req)

	assert.Equal(t, domain.ChangeEmailRequest{
		CurrentEmail: "a@x.com", NewEmail: "c@x.com", Password: "pw",
	}, req.ToDomain())
}

func TestRegisterRequest_BindAndConvert(t *testing.T) {
	var req RegisterRequest
	bindForm(t, url.Values{
		"name":            {"Bob"},
		"email":           {"bob@x.com"},
		"password":        {"hunter22"},
		"confirmPassword": {"hunter22"},
	}, &req)

	assert.Equal(t, domain.RegisterRequest{
		Name: "Bob", Email: "bob@x.com", Password: "hunter22", ConfirmPassword: "hunter22",
	}, req.ToDomain())
}

func TestLoginRequest_Bind(t *testing.T) {
	var req LoginRequest
	bindForm(t, url.Values{"email": {"a@x.com"}, "password": {"pw"}}, &req)

	assert.Equal(t, LoginRequest{Email: "a@x.com", Password: "pw"}, req)
}
