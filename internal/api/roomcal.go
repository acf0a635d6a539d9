package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/npezzotti/go-roomcal/internal/config"
	"github.com/npezzotti/go-roomcal/internal/ratelimit"
	"github.com/npezzotti/go-roomcal/internal/service"
	"github.com/sirupsen/logrus"
)

type RoomCalApp struct {
	log             *logrus.Logger
	svc             service.Service
	limiter         ratelimit.Limiter
	srv             *http.Server
	signingKey      []byte
	sessionLifetime time.Duration
}

// NewRoomCalApp registers the API routes on mux. limiter may be nil to
// disable rate limiting.
func NewRoomCalApp(mux *http.ServeMux, logger *logrus.Logger, svc service.Service, limiter ratelimit.Limiter, cfg *config.Config) *RoomCalApp {
	s := &RoomCalApp{
		log:             logger,
		svc:             svc,
		limiter:         limiter,
		signingKey:      cfg.SigningKey,
		sessionLifetime: cfg.SessionLifetime,
	}
	if s.sessionLifetime <= 0 {
		s.sessionLifetime = config.DefaultSessionLifetime
	}

	mux.HandleFunc("GET /healthz", s.healthCheck)

	mux.HandleFunc("POST /api/auth/register", s.rateLimit("register", s.createAccount))
	mux.HandleFunc("POST /api/auth/login", s.rateLimit("login", s.login))
	mux.HandleFunc("GET /api/auth/session", s.authMiddleware(s.session))
	mux.HandleFunc("GET /api/auth/logout", s.authMiddleware(s.logout))

	mux.HandleFunc("GET /api/rooms", s.authMiddleware(s.listRooms))
	mux.HandleFunc("POST /api/rooms", s.authMiddleware(s.createRoom))
	mux.HandleFunc("POST /api/rooms/join", s.authMiddleware(s.joinRoom))
	mux.HandleFunc("GET /api/rooms/{code}", s.authMiddleware(s.getRoom))
	mux.HandleFunc("PATCH /api/rooms/{code}", s.authMiddleware(s.renameRoom))
	mux.HandleFunc("DELETE /api/rooms/{code}", s.authMiddleware(s.deleteRoom))
	mux.HandleFunc("GET /api/rooms/{code}/members", s.authMiddleware(s.listMembers))
	mux.HandleFunc("DELETE /api/rooms/{code}/members/{userId}", s.authMiddleware(s.removeMember))

	mux.HandleFunc("GET /api/rooms/{code}/events", s.authMiddleware(s.listEvents))
	mux.HandleFunc("POST /api/rooms/{code}/events", s.authMiddleware(s.createEvent))
	mux.HandleFunc("PUT /api/rooms/{code}/events/{eventId}", s.authMiddleware(s.updateEvent))
	mux.HandleFunc("DELETE /api/rooms/{code}/events/{eventId}", s.authMiddleware(s.deleteEvent))
	mux.HandleFunc("GET /api/rooms/{code}/calendar.ics", s.authMiddleware(s.exportCalendar))

	mux.HandleFunc("GET /api/events/{eventId}/comments", s.authMiddleware(s.listComments))
	mux.HandleFunc("POST /api/events/{eventId}/comments", s.authMiddleware(s.addComment))
	mux.HandleFunc("PUT /api/events/{eventId}/comments/{commentId}", s.authMiddleware(s.updateComment))
	mux.HandleFunc("DELETE /api/events/{eventId}/comments/{commentId}", s.authMiddleware(s.deleteComment))

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept", "Accept-Language"}),
		handlers.AllowCredentials(),
	)(mux)

	h = s.errorHandler(h)

	s.srv = &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *RoomCalApp) Start() error {
	s.log.Infof("starting server on %s", s.srv.Addr)
	return s.srv.ListenAndServe()
}

func (s *RoomCalApp) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
