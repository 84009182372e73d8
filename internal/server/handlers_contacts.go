package server

import (
	"net/http"

	"github.com/MeMoElprince/QA-Game/internal/auth"
	"github.com/MeMoElprince/QA-Game/internal/db"
)

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=64"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=4096"`
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeValid(w, r, &req) {
		return
	}
	contact := db.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	if err := s.db.Create(&contact).Error; err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	page, limit := parsePagination(r, 25, 50)
	var total int64
	if err := s.db.Model(&db.Contact{}).Count(&total).Error; err != nil {
		writeAppError(w, err)
		return
	}
	var contacts []db.Contact
	err := s.db.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&contacts).Error
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(contacts, total, page, limit))
}
