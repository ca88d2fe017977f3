package auth

import (
	"Shortly-Backend/internal/repository/memory"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAuthHandlers() (*AuthHandlers, *memory.MemStorage, *JWTService) {
	storage := memory.New()
	jwtService := newTestJWTService(time.Hour)
	return NewAuthHandlers(storage, jwtService, NewPasswordService(), zap.NewNop()), storage, jwtService
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	h, storage, _ := newTestAuthHandlers()

	rec := postJSON(t, h.Register, "/register", RegisterRequest{Email: "a@x.com", Password: "pw123"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "User registered successfully", resp.Message)

	// The stored hash never equals the plaintext password.
	user, err := storage.GetUserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", user.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h, _, _ := newTestAuthHandlers()

	rec := postJSON(t, h.Register, "/register", RegisterRequest{Email: "a@x.com", Password: "pw123"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h.Register, "/register", RegisterRequest{Email: "a@x.com", Password: "other"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
}

func TestRegister_NormalizesEmail(t *testing.T) {
	h, storage, _ := newTestAuthHandlers()

	rec := postJSON(t, h.Register, "/register", RegisterRequest{Email: "  A@X.com ", Password: "pw123"})
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := storage.GetUserByEmail(context.Background(), "a@x.com")
	assert.NoError(t, err)
}

func TestRegister_InvalidInput(t *testing.T) {
	h, _, _ := newTestAuthHandlers()

	rec := postJSON(t, h.Register, "/register", RegisterRequest{Email: "not-an-email", Password: "pw123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h.Register, "/register", RegisterRequest{Email: "a@x.com", Password: "pw"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	h, _, jwtService := newTestAuthHandlers()

	rec := postJSON(t, h.Register, "/register", RegisterRequest{Email: "a@x.com", Password: "pw123"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h.Login, "/login", LoginRequest{Email: "a@x.com", Password: "pw123"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "a@x.com", resp.User.Email)
	require.NotEmpty(t, resp.Token)

	// The token's embedded identity matches the registered user.
	claims, err := jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestLogin_UnknownUser(t *testing.T) {
	h, _, _ := newTestAuthHandlers()

	rec := postJSON(t, h.Login, "/login", LoginRequest{Email: "missing@x.com", Password: "pw123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}

func TestLogin_WrongPassword(t *testing.T) {
	h, _, _ := newTestAuthHandlers()

	rec := postJSON(t, h.Register, "/register", RegisterRequest{Email: "a@x.com", Password: "pw123"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h.Login, "/login", LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}
