package http

import (
	"Shortly-Backend/internal/auth"
	"Shortly-Backend/internal/repository"
	"Shortly-Backend/internal/service"
	"Shortly-Backend/pkg/useragent"
	"net/http"

	"go.uber.org/zap"
)

// Server wires the HTTP handlers and middleware together.
type Server struct {
	authHandlers    *auth.AuthHandlers
	linksHandler    *LinksHandler
	redirectHandler *RedirectHandler
	qrHandler       *QRHandler
	healthHandler   *HealthHandler
	authMiddleware  *auth.Middleware
	log             *zap.Logger
}

func NewServer(
	storage repository.Storage,
	urlShortener *service.URLShortenerService,
	resolver *service.Resolver,
	jwtService *auth.JWTService,
	passwordService *auth.PasswordService,
	uaParser *useragent.Parser,
	log *zap.Logger,
	baseURL string,
) *Server {
	return &Server{
		authHandlers:    auth.NewAuthHandlers(storage, jwtService, passwordService, log),
		linksHandler:    NewLinksHandler(storage, urlShortener, log, baseURL),
		redirectHandler: NewRedirectHandler(resolver, uaParser, log),
		qrHandler:       NewQRHandler(storage, log, baseURL),
		healthHandler:   NewHealthHandler(storage, log),
		authMiddleware:  auth.NewMiddleware(jwtService, log),
		log:             log,
	}
}

// SetupRoutes builds the route table. The redirect catch-all must stay
// last so every non-reserved top-level path resolves as a short code.
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Probes (no auth)
	mux.HandleFunc("/health", s.healthHandler.Health)
	mux.HandleFunc("/ready", s.healthHandler.Ready)

	// Auth endpoints (no auth)
	mux.HandleFunc("/register", s.withCORS(requirePost(s.authHandlers.Register)))
	mux.HandleFunc("/login", s.withCORS(requirePost(s.authHandlers.Login)))

	// Link endpoints (authenticated)
	mux.HandleFunc("/shortUrls", s.withCORS(s.authMiddleware.RequireAuth(s.handleShortURLs)))
	mux.HandleFunc("/shortUrls/", s.withCORS(s.authMiddleware.RequireAuth(s.qrHandler.ServeQR)))

	// Redirect catch-all (no auth)
	mux.HandleFunc("/", s.redirectHandler.HandleRedirect)

	return requestLogger(s.log, mux)
}

// handleShortURLs dispatches /shortUrls by HTTP method.
func (s *Server) handleShortURLs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.linksHandler.CreateLink(w, r)
	case http.MethodGet:
		s.linksHandler.ListLinks(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func requirePost(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}

func (s *Server) withCORS(handler http.HandlerFunc) http.HandlerFunc {
	return s.authMiddleware.CORS(handler)
}
