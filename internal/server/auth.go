package server

import (
	"net/http"
	"strings"

	"github.com/MeMoElprince/QA-Game/internal/auth"
	"github.com/MeMoElprince/QA-Game/internal/db"
)

// authedHandler receives the verified claims of the calling user.
type authedHandler func(w http.ResponseWriter, r *http.Request, claims *auth.Claims)

func (s *Server) requireUser(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := s.bearerClaims(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing or invalid bearer token")
			return
		}
		next(w, r, claims)
	}
}

func (s *Server) requireAdmin(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := s.bearerClaims(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing or invalid bearer token")
			return
		}
		if claims.Role != db.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next(w, r, claims)
	}
}

func (s *Server) bearerClaims(r *http.Request) (*auth.Claims, bool) {
	header := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return nil, false
	}
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, false
	}
	return claims, true
}
