package http

import (
	"Shortly-Backend/internal/auth"
	"Shortly-Backend/internal/domain"
	"Shortly-Backend/internal/repository"
	"Shortly-Backend/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/asaskevich/govalidator"
	"go.uber.org/zap"
)

// LinksHandler implements the authenticated /shortUrls endpoints.
type LinksHandler struct {
	storage      repository.Storage
	urlShortener *service.URLShortenerService
	log          *zap.Logger
	baseURL      string
}

func NewLinksHandler(storage repository.Storage, urlShortener *service.URLShortenerService, log *zap.Logger, baseURL string) *LinksHandler {
	return &LinksHandler{
		storage:      storage,
		urlShortener: urlShortener,
		log:          log,
		baseURL:      baseURL,
	}
}

// CreateLinkRequest is the POST /shortUrls request body.
type CreateLinkRequest struct {
	FullURL    string `json:"fullUrl"`
	CustomSlug string `json:"customSlug,omitempty"`
}

// CreateLink shortens a URL for the authenticated caller. The owner is
// always the authenticated principal; a client-supplied owner is never
// trusted.
func (h *LinksHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, "No authentication token, access denied", http.StatusUnauthorized)
		return
	}

	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid create link request", zap.Error(err))
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	req.FullURL = strings.TrimSpace(req.FullURL)
	if req.FullURL == "" {
		h.writeError(w, "Full URL is required", http.StatusBadRequest)
		return
	}
	if !govalidator.IsURL(req.FullURL) {
		h.writeError(w, "Invalid URL", http.StatusBadRequest)
		return
	}

	link := &domain.Link{
		OriginalURL: req.FullURL,
		UserID:      userID,
	}

	var customAlias *string
	if slug := strings.TrimSpace(req.CustomSlug); slug != "" {
		customAlias = &slug
	}

	_, err := h.urlShortener.Shorten(r.Context(), link, customAlias)
	if err != nil {
		if errors.Is(err, repository.ErrAliasExists) {
			h.writeError(w, "Alias taken", http.StatusConflict)
			return
		}
		h.log.Error("failed to create link", zap.Error(err))
		h.writeError(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.log.Info("created link",
		zap.String("short_code", link.ShortCode),
		zap.Int64("user_id", userID))
	h.writeJSON(w, link, http.StatusOK)
}

// ListLinks returns every link owned by the authenticated caller.
func (h *LinksHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, "No authentication token, access denied", http.StatusUnauthorized)
		return
	}

	links, err := h.storage.ListUserLinks(r.Context(), userID)
	if err != nil {
		h.log.Error("failed to list links", zap.Int64("user_id", userID), zap.Error(err))
		h.writeError(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if links == nil {
		links = []*domain.Link{}
	}

	h.writeJSON(w, links, http.StatusOK)
}

func (h *LinksHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}

func (h *LinksHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	h.writeJSON(w, map[string]string{"message": message}, statusCode)
}
