package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiber-storefront/internal/domain"
)

func TestWriteAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", domain.NewValidationError("email", "Please enter a valid email"), 400, "Please enter a valid email"},
		{"user error", fmt.Errorf("login: %w", &domain.UserError{Message: "Unidentified customer"}), 400, "Unidentified customer"},
		{"unauthorized", domain.ErrUnauthorized, 401, "Unauthorized"},
		{"not found", fmt.Errorf("page: %w", domain.ErrNotFound), 404, "Not found"},
		{"upstream", &domain.UpstreamStatusError{Service: "storefront", StatusCode: 503}, 503, GenericErrorMessage},
		{"transport", errors.New("dial tcp: connection refused"), 500, GenericErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteAppError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Email string `json:"email"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "a@b.co", v.Email)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nope":1}`))
	var ve *domain.ValidationError
	assert.ErrorAs(t, DecodeJSON(r, &v), &ve)
}

func TestCustomerSessionRoundTrip(t *testing.T) {
	SetSecret("test-secret")
	expires := time.Now().Add(time.Hour).Truncate(time.Second)

	signed, err := GenerateSessionJWT("customer-token", expires)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	r.AddCookie(&http.Cookie{Name: domain.CustomerSessionCookie, Value: signed})
	session, err := ExtractCustomerSession(r)
	require.NoError(t, err)
	assert.Equal(t, "customer-token", session.AccessToken)
	assert.True(t, expires.Equal(session.ExpiresAt))

	r = httptest.NewRequest(http.MethodGet, "/api/account", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	session, err = ExtractCustomerSession(r)
	require.NoError(t, err)
	assert.Equal(t, "customer-token", session.AccessToken)
}

func TestCustomerSessionRejectsBadTokens(t *testing.T) {
	SetSecret("test-secret")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := ExtractCustomerSession(r)
	assert.Error(t, err)

	expired, err := GenerateSessionJWT("customer-token", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: domain.CustomerSessionCookie, Value: expired})
	_, err = ExtractCustomerSession(r)
	assert.Error(t, err)

	signed, err := GenerateSessionJWT("customer-token", time.Now().Add(time.Hour))
	require.NoError(t, err)
	SetSecret("rotated")
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: domain.CustomerSessionCookie, Value: signed})
	_, err = ExtractCustomerSession(r)
	assert.Error(t, err)
}

func TestSetSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "", time.Time{}, true)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, domain.CustomerSessionCookie, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
}
