package server

import (
	"net/http"
	"strconv"

	"gorm.io/datatypes"

	"github.com/MeMoElprince/QA-Game/internal/auth"
	"github.com/MeMoElprince/QA-Game/internal/catalog"
)

type categoryRequest struct {
	Name             string `json:"name" validate:"required,max=64"`
	ParentCategoryID *uint  `json:"parentCategoryId"`
	ImageURL         string `json:"imageUrl" validate:"omitempty,url"`
}

type questionRequest struct {
	CategoryID uint           `json:"categoryId" validate:"required"`
	Score      int            `json:"score" validate:"required"`
	Text       string         `json:"text" validate:"required,max=1024"`
	Answer     string         `json:"answer" validate:"required,max=1024"`
	Media      datatypes.JSON `json:"media"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req categoryRequest
	if !decodeValid(w, r, &req) {
		return
	}
	category, err := s.catalog.CreateCategory(catalog.CategoryInput{
		Name:             req.Name,
		ParentCategoryID: req.ParentCategoryID,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r, 25, 50)
	categories, total, err := s.catalog.ListCategories(page, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(categories, total, page, limit))
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	category, err := s.catalog.CategoryByID(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if !decodeValid(w, r, &req) {
		return
	}
	category, err := s.catalog.UpdateCategory(id, catalog.CategoryInput{
		Name:             req.Name,
		ParentCategoryID: req.ParentCategoryID,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.catalog.DeleteCategory(id); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req questionRequest
	if !decodeValid(w, r, &req) {
		return
	}
	question, err := s.catalog.CreateQuestion(catalog.QuestionInput{
		CategoryID: req.CategoryID,
		Score:      req.Score,
		Text:       req.Text,
		Answer:     req.Answer,
		Media:      req.Media,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	page, limit := parsePagination(r, 20, 50)
	filter := catalog.QuestionFilter{Page: page, Limit: limit}
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		if value, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filter.CategoryID = uint(value)
		}
	}
	if raw := r.URL.Query().Get("score"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			filter.Score = value
		}
	}
	questions, total, err := s.catalog.ListQuestions(filter)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(questions, total, page, limit))
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	question, err := s.catalog.QuestionByID(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req questionRequest
	if !decodeValid(w, r, &req) {
		return
	}
	question, err := s.catalog.UpdateQuestion(id, catalog.QuestionInput{
		CategoryID: req.CategoryID,
		Score:      req.Score,
		Text:       req.Text,
		Answer:     req.Answer,
		Media:      req.Media,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.catalog.DeleteQuestion(id); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
