package http

import (
	"Shortly-Backend/internal/auth"
	"Shortly-Backend/internal/repository"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const qrImageSize = 256

// QRHandler serves scannable PNGs of short links so the web client can
// show them without generating images itself.
type QRHandler struct {
	storage repository.Storage
	log     *zap.Logger
	baseURL string
}

func NewQRHandler(storage repository.Storage, log *zap.Logger, baseURL string) *QRHandler {
	return &QRHandler{
		storage: storage,
		log:     log,
		baseURL: baseURL,
	}
}

// ServeQR handles GET /shortUrls/{code}/qr. Only the link's owner may
// fetch its QR image.
func (h *QRHandler) ServeQR(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, "No authentication token, access denied", http.StatusUnauthorized)
		return
	}

	shortCode, ok := parseQRPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	link, err := h.storage.GetLink(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, repository.ErrAliasNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log.Error("failed to load link for QR", zap.String("short_code", shortCode), zap.Error(err))
		h.writeError(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if link.UserID != userID {
		h.writeError(w, "Forbidden", http.StatusForbidden)
		return
	}

	png, err := qrcode.Encode(h.baseURL+"/"+shortCode, qrcode.Medium, qrImageSize)
	if err != nil {
		h.log.Error("failed to encode QR", zap.String("short_code", shortCode), zap.Error(err))
		h.writeError(w, "Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := w.Write(png); err != nil {
		h.log.Error("failed to write QR response", zap.Error(err))
	}
}

// parseQRPath extracts the short code from /shortUrls/{code}/qr.
func parseQRPath(path string) (string, bool) {
	rest := strings.TrimPrefix(path, "/shortUrls/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "qr" {
		return "", false
	}
	return parts[0], true
}

func (h *QRHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
