package http

import (
	"Shortly-Backend/internal/repository"
	"Shortly-Backend/internal/service"
	"Shortly-Backend/pkg/useragent"
	"errors"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// RedirectHandler serves the public short-code resolution endpoint.
type RedirectHandler struct {
	resolver *service.Resolver
	uaParser *useragent.Parser
	log      *zap.Logger
}

func NewRedirectHandler(resolver *service.Resolver, uaParser *useragent.Parser, log *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		resolver: resolver,
		uaParser: uaParser,
		log:      log,
	}
}

// HandleRedirect resolves the short code in the path, counts the click
// and issues a 302 to the destination.
func (h *RedirectHandler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	shortCode := strings.TrimPrefix(r.URL.Path, "/")

	// Everything with a path separator or a reserved prefix belongs to
	// the API surface, not the redirect namespace.
	if shortCode == "" || strings.Contains(shortCode, "/") || isReservedPath(shortCode) {
		http.NotFound(w, r)
		return
	}

	destination, err := h.resolver.Resolve(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, repository.ErrAliasNotFound) {
			h.log.Debug("short code not found", zap.String("short_code", shortCode))
			http.NotFound(w, r)
			return
		}
		h.log.Error("failed to resolve short code", zap.String("short_code", shortCode), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	device := h.uaParser.Classify(r.UserAgent())
	h.log.Info("redirect",
		zap.String("short_code", shortCode),
		zap.String("destination", destination),
		zap.String("ip", extractIPAddress(r)),
		zap.String("device_type", device.DeviceType),
		zap.String("browser", device.Browser),
		zap.String("os", device.OS))

	http.Redirect(w, r, destination, http.StatusFound)
}

func isReservedPath(shortCode string) bool {
	reserved := []string{"register", "login", "shortUrls", "health", "ready"}
	for _, p := range reserved {
		if shortCode == p {
			return true
		}
	}
	return false
}

// extractIPAddress resolves the client IP, honoring proxy headers.
func extractIPAddress(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
