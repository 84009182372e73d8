// Package commerce sells game credits: packages, promo codes and orders.
package commerce

import (
	"errors"

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

type PackageInput struct {
	Name       string
	PriceCents int
	GameCount  int
	Active     bool
}

func (s *Service) CreatePackage(in PackageInput) (db.Package, error) {
	pack := db.Package{
		Name:       in.Name,
		PriceCents: in.PriceCents,
		GameCount:  in.GameCount,
		Active:     in.Active,
	}
	if err := s.db.Create(&pack).Error; err != nil {
		return db.Package{}, err
	}
	return pack, nil
}

func (s *Service) PackageByID(id uint) (db.Package, error) {
	var pack db.Package
	if err := s.db.First(&pack, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.Package{}, apperr.E(apperr.NotFound, "package not found")
		}
		return db.Package{}, err
	}
	return pack, nil
}

func (s *Service) ListPackages(page, limit int) ([]db.Package, int64, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	var total int64
	if err := s.db.Model(&db.Package{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var packs []db.Package
	err := s.db.Order("id").Limit(limit).Offset((page - 1) * limit).Find(&packs).Error
	if err != nil {
		return nil, 0, err
	}
	return packs, total, nil
}

func (s *Service) UpdatePackage(id uint, in PackageInput) (db.Package, error) {
	pack, err := s.PackageByID(id)
	if err != nil {
		return db.Package{}, err
	}
	pack.Name = in.Name
	pack.PriceCents = in.PriceCents
	pack.GameCount = in.GameCount
	pack.Active = in.Active
	if err := s.db.Save(&pack).Error; err != nil {
		return db.Package{}, err
	}
	return pack, nil
}

func (s *Service) DeletePackage(id uint) error {
	if _, err := s.PackageByID(id); err != nil {
		return err
	}
	return s.db.Delete(&db.Package{}, id).Error
}
