package auth

import (
	"Shortly-Backend/internal/repository"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/asaskevich/govalidator"
	"go.uber.org/zap"
)

// AuthHandlers implements the /register and /login endpoints.
type AuthHandlers struct {
	storage         repository.Storage
	jwtService      *JWTService
	passwordService *PasswordService
	log             *zap.Logger
}

func NewAuthHandlers(storage repository.Storage, jwtService *JWTService, passwordService *PasswordService, log *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		storage:         storage,
		jwtService:      jwtService,
		passwordService: passwordService,
		log:             log,
	}
}

// RegisterRequest is the /register request body.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the /login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the /login success body.
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// UserInfo is the public projection of a user.
type UserInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// MessageResponse is the generic {message} body used for confirmations
// and errors.
type MessageResponse struct {
	Message string `json:"message"`
}

// Register creates a new account. Duplicate emails are rejected with 400
// to stay compatible with the web client's error handling.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid registration request", zap.Error(err))
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !govalidator.IsEmail(req.Email) {
		h.writeError(w, "Invalid email format", http.StatusBadRequest)
		return
	}

	if err := IsValidPassword(req.Password); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	hashedPassword, err := h.passwordService.HashPassword(req.Password)
	if err != nil {
		h.log.Error("failed to hash password", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	user, err := h.storage.CreateUser(r.Context(), req.Email, hashedPassword)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			h.writeError(w, "User already exists", http.StatusBadRequest)
			return
		}
		h.log.Error("failed to create user", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("user registered", zap.Int64("user_id", user.ID))
	h.writeJSON(w, MessageResponse{Message: "User registered successfully"}, http.StatusOK)
}

// Login verifies credentials and issues a session token.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid login request", zap.Error(err))
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.storage.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.log.Debug("login for unknown user")
			h.writeError(w, "User not found", http.StatusBadRequest)
			return
		}
		h.log.Error("failed to look up user", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.passwordService.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		h.log.Debug("invalid password", zap.Int64("user_id", user.ID))
		h.writeError(w, "Invalid credentials", http.StatusBadRequest)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.log.Error("failed to generate token", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := LoginResponse{
		Token: token,
		User: UserInfo{
			ID:    user.ID,
			Email: user.Email,
		},
	}

	h.log.Info("user logged in", zap.Int64("user_id", user.ID))
	h.writeJSON(w, response, http.StatusOK)
}

func (h *AuthHandlers) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}

func (h *AuthHandlers) writeError(w http.ResponseWriter, message string, statusCode int) {
	h.writeJSON(w, MessageResponse{Message: message}, statusCode)
}
