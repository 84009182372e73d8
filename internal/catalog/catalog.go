// Package catalog manages the question pool: categories and the questions
// tagged by category and point tier. Writes are admin operations; the game
// engine only ever reads from here through its store.
package catalog

import (
	"errors"
	"slices"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/MeMoElprince/QA-Game/internal/apperr"
	"github.com/MeMoElprince/QA-Game/internal/db"
)

type Service struct {
	db *gorm.DB
}

func New(conn *gorm.DB) *Service {
	return &Service{db: conn}
}

type CategoryInput struct {
	Name             string
	ParentCategoryID *uint
	ImageURL         string
}

func (s *Service) CreateCategory(in CategoryInput) (db.Category, error) {
	category := db.Category{
		Name:             in.Name,
		ParentCategoryID: in.ParentCategoryID,
		ImageURL:         in.ImageURL,
	}
	if err := s.db.Create(&category).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return db.Category{}, apperr.E(apperr.Conflict, "category name already exists")
		}
		return db.Category{}, err
	}
	return category, nil
}

func (s *Service) CategoryByID(id uint) (db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.Category{}, apperr.E(apperr.NotFound, "category not found")
		}
		return db.Category{}, err
	}
	return category, nil
}

func (s *Service) ListCategories(page, limit int) ([]db.Category, int64, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	var total int64
	if err := s.db.Model(&db.Category{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var categories []db.Category
	err := s.db.Order("id").Limit(limit).Offset((page - 1) * limit).Find(&categories).Error
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (s *Service) UpdateCategory(id uint, in CategoryInput) (db.Category, error) {
	category, err := s.CategoryByID(id)
	if err != nil {
		return db.Category{}, err
	}
	category.Name = in.Name
	category.ParentCategoryID = in.ParentCategoryID
	category.ImageURL = in.ImageURL
	if err := s.db.Save(&category).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return db.Category{}, apperr.E(apperr.Conflict, "category name already exists")
		}
		return db.Category{}, err
	}
	return category, nil
}

func (s *Service) DeleteCategory(id uint) error {
	if _, err := s.CategoryByID(id); err != nil {
		return err
	}
	return s.db.Delete(&db.Category{}, id).Error
}

type QuestionInput struct {
	CategoryID uint
	Score      int
	Text       string
	Answer     string
	Media      datatypes.JSON
}

func validTier(score int) bool {
	return slices.Contains(db.QuestionTiers, score)
}

func (s *Service) CreateQuestion(in QuestionInput) (db.Question, error) {
	if !validTier(in.Score) {
		return db.Question{}, apperr.E(apperr.Invalid, "score must be one of 200, 400 or 600")
	}
	if _, err := s.CategoryByID(in.CategoryID); err != nil {
		return db.Question{}, err
	}
	question := db.Question{
		CategoryID: in.CategoryID,
		Score:      in.Score,
		Text:       in.Text,
		Answer:     in.Answer,
		Media:      in.Media,
	}
	if err := s.db.Create(&question).Error; err != nil {
		return db.Question{}, err
	}
	return question, nil
}

type QuestionFilter struct {
	CategoryID uint
	Score      int
	Page       int
	Limit      int
}

func (s *Service) ListQuestions(f QuestionFilter) ([]db.Question, int64, error) {
	if f.Limit <= 0 || f.Limit > 50 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	query := s.db.Model(&db.Question{})
	if f.CategoryID != 0 {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	if f.Score != 0 {
		query = query.Where("score = ?", f.Score)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var questions []db.Question
	err := query.Preload("Category").
		Order("id").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

func (s *Service) QuestionByID(id uint) (db.Question, error) {
	var question db.Question
	if err := s.db.Preload("Category").First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.Question{}, apperr.E(apperr.NotFound, "question not found")
		}
		return db.Question{}, err
	}
	return question, nil
}

func (s *Service) UpdateQuestion(id uint, in QuestionInput) (db.Question, error) {
	if !validTier(in.Score) {
		return db.Question{}, apperr.E(apperr.Invalid, "score must be one of 200, 400 or 600")
	}
	question, err := s.QuestionByID(id)
	if err != nil {
		return db.Question{}, err
	}
	if in.CategoryID != question.CategoryID {
		if _, err := s.CategoryByID(in.CategoryID); err != nil {
			return db.Question{}, err
		}
	}
	question.CategoryID = in.CategoryID
	question.Score = in.Score
	question.Text = in.Text
	question.Answer = in.Answer
	question.Media = in.Media
	question.Category = nil
	if err := s.db.Save(&question).Error; err != nil {
		return db.Question{}, err
	}
	return question, nil
}

func (s *Service) DeleteQuestion(id uint) error {
	if _, err := s.QuestionByID(id); err != nil {
		return err
	}
	return s.db.Delete(&db.Question{}, id).Error
}
