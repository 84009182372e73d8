// Package users covers account registration, login and profile access.
package users

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MeMoElprince/QA-Game/internal/apperr"
	"github.com/MeMoElprince/QA-Game/internal/auth"
	"github.com/MeMoElprince/QA-Game/internal/db"
)

type Service struct {
	db     *gorm.DB
	tokens *auth.Tokens
}

func New(conn *gorm.DB, tokens *auth.Tokens) *Service {
	return &Service{db: conn, tokens: tokens}
}

type RegisterInput struct {
	Email       string
	Name        string
	Password    string
	PhoneNumber string
}

func (s *Service) Register(in RegisterInput) (db.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return db.User{}, err
	}
	user := db.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Name:         in.Name,
		PasswordHash: string(hash),
		PhoneNumber:  in.PhoneNumber,
		Role:         db.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return db.User{}, apperr.E(apperr.Conflict, "email already registered")
		}
		return db.User{}, err
	}
	return user, nil
}

// Login verifies credentials and returns a signed bearer token.
func (s *Service) Login(email, password string) (string, db.User, error) {
	var user db.User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", db.User{}, apperr.E(apperr.Unauthorized, "invalid credentials")
		}
		return "", db.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", db.User{}, apperr.E(apperr.Unauthorized, "invalid credentials")
	}
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", db.User{}, err
	}
	return token, user, nil
}

func (s *Service) ByID(id uint) (db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.User{}, apperr.E(apperr.NotFound, "user not found")
		}
		return db.User{}, err
	}
	return user, nil
}

func (s *Service) List(page, limit int) ([]db.User, int64, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	var total int64
	if err := s.db.Model(&db.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []db.User
	err := s.db.Order("id").Limit(limit).Offset((page - 1) * limit).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
