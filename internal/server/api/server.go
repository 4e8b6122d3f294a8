// Package api serves the identity endpoints the session client talks to:
// login, logout, verify and a health probe.
//
//	srv := api.New(userService, logger, cfg.Production, version)
//	http.ListenAndServe(cfg.Addr, srv.Handler())
package api

import (
	"net/http"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/users"
	"github.com/go-chi/chi/v5"
)

// Server holds the handler dependencies. It is safe for concurrent use.
type Server struct {
	users      *users.Service
	logger     logging.Logger
	production bool
	version    string
}

func New(svc *users.Service, logger logging.Logger, production bool, version string) *Server {
	return &Server{
		users:      svc,
		logger:     logger,
		production: production,
		version:    version,
	}
}

// Handler builds the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Get(common.HealthPath, s.handleHealth)

	r.Post(common.LoginPath, s.handleLogin)
	r.Post(common.LogoutPath, s.handleLogout)
	r.Get(common.VerifyPath, s.handleVerify)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
