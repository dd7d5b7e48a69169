package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	resp "github.com/parleychat/parley/internal/lib/api/response"
)

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotZero(t, UserID(r))
		w.WriteHeader(http.StatusOK)
	})
}

func TestWithUser_ValidToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Generate(42)
	require.NoError(t, err)

	var seen int64
	handler := WithUser(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(42), seen)
}

func TestWithUser_MissingCookieGetsJSONEnvelope(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	handler := WithUser(tm)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body resp.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "not_authenticated", body.Error.Code)
	require.NotEmpty(t, body.Error.Message)
}

func TestWithUser_BadTokenGetsJSONEnvelope(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	handler := WithUser(tm)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "definitely.not.a-jwt"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body resp.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "not_authenticated", body.Error.Code)
}
