package server

import (
	"log"
	"net/http"

	"github.com/MeMoElprince/QA-Game/internal/auth"
	"github.com/MeMoElprince/QA-Game/internal/users"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name" validate:"required,max=64"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=32"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeValid(w, r, &req) {
		return
	}
	user, err := s.users.Register(users.RegisterInput{
		Email:       req.Email,
		Name:        req.Name,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	log.Printf("user registered user_id=%d", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeValid(w, r, &req) {
		return
	}
	token, user, err := s.users.Login(req.Email, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	user, err := s.users.ByID(claims.UserID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	page, limit := parsePagination(r, 20, 50)
	list, total, err := s.users.List(page, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(list, total, page, limit))
}
