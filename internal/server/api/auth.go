package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/identity"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/users"
)

type userBody struct {
	ID       string        `json:"id"`
	Email    string        `json:"email"`
	Name     string        `json:"name"`
	Role     identity.Role `json:"role"`
	IsActive bool          `json:"isActive"`
}

type loginResponse struct {
	User  userBody `json:"user"`
	Token string   `json:"token"`
}

type verifyData struct {
	UserID string        `json:"userId"`
	Email  string        `json:"email"`
	Role   identity.Role `json:"role"`
	Name   string        `json:"name"`
}

type verifyResponse struct {
	Success bool       `json:"success"`
	Data    verifyData `json:"data"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req identity.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) || errors.Is(err, users.ErrInactive) {
			s.logger.Info(r.Context(), "login rejected", "email", req.Email, "reason", err.Error())
			writeMessage(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.setAuthCookie(w, token, int(s.users.TokenTTL().Seconds()))

	writeJSON(w, http.StatusOK, loginResponse{
		User: userBody{
			ID:       user.ID,
			Email:    user.Email,
			Name:     user.Name,
			Role:     user.Role,
			IsActive: user.IsActive,
		},
		Token: token,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.setAuthCookie(w, "", -1)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	token := requestToken(r)
	if token == "" {
		writeFailure(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := s.users.Verify(r.Context(), token)
	if err != nil {
		if isRejection(err) {
			writeFailure(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.logger.Error(r.Context(), "verify failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		Success: true,
		Data: verifyData{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role,
			Name:   user.Name,
		},
	})
}

// setAuthCookie writes the httpOnly auth cookie. A negative maxAge deletes it.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.production,
		SameSite: http.SameSiteLaxMode,
	})
}

// requestToken reads the bearer token, falling back to the auth cookie.
func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			if tok = strings.TrimSpace(tok); tok != "" {
				return tok
			}
		}
	}
	if c, err := r.Cookie(common.AuthCookieName); err == nil {
		return c.Value
	}
	return ""
}

func isRejection(err error) bool {
	return errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrTokenExpired) ||
		errors.Is(err, users.ErrUnknownUser) ||
		errors.Is(err, users.ErrInactive)
}
