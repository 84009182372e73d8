package commerce

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/MeMoElprince/QA-Game/internal/apperr"
	"github.com/MeMoElprince/QA-Game/internal/db"
)

type PromoInput struct {
	Code                 string
	Discount             int
	DiscountUnit         string
	MaxAmountForDiscount int
	MaxUsage             int
	Active               bool
	StartDate            time.Time
	EndDate              time.Time
}

func (s *Service) CreatePromo(in PromoInput) (db.Promo, error) {
	if in.DiscountUnit != db.DiscountUnitPercentage && in.DiscountUnit != db.DiscountUnitMoney {
		return db.Promo{}, apperr.E(apperr.Invalid, "invalid discount unit")
	}
	promo := db.Promo{
		Code:                 in.Code,
		Discount:             in.Discount,
		DiscountUnit:         in.DiscountUnit,
		MaxAmountForDiscount: in.MaxAmountForDiscount,
		MaxUsage:             in.MaxUsage,
		Active:               in.Active,
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
	}
	if err := s.db.Create(&promo).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return db.Promo{}, apperr.E(apperr.Conflict, "promo code already exists")
		}
		return db.Promo{}, err
	}
	return promo, nil
}

func (s *Service) PromoByCode(code string) (db.Promo, error) {
	var promo db.Promo
	if err := s.db.Where("code = ?", code).First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.Promo{}, apperr.E(apperr.NotFound, "promo not found")
		}
		return db.Promo{}, err
	}
	return promo, nil
}

func (s *Service) ListPromos(page, limit int) ([]db.Promo, int64, error) {
	if limit <= 0 || limit > 50 {
		limit = 25
	}
	if page <= 0 {
		page = 1
	}
	var total int64
	if err := s.db.Model(&db.Promo{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var promos []db.Promo
	err := s.db.Order("id").Limit(limit).Offset((page - 1) * limit).Find(&promos).Error
	if err != nil {
		return nil, 0, err
	}
	return promos, total, nil
}

func (s *Service) UpdatePromo(code string, in PromoInput) (db.Promo, error) {
	promo, err := s.PromoByCode(code)
	if err != nil {
		return db.Promo{}, err
	}
	promo.Discount = in.Discount
	promo.DiscountUnit = in.DiscountUnit
	promo.MaxAmountForDiscount = in.MaxAmountForDiscount
	promo.MaxUsage = in.MaxUsage
	promo.Active = in.Active
	promo.StartDate = in.StartDate
	promo.EndDate = in.EndDate
	if err := s.db.Save(&promo).Error; err != nil {
		return db.Promo{}, err
	}
	return promo, nil
}

func (s *Service) DeletePromo(code string) error {
	promo, err := s.PromoByCode(code)
	if err != nil {
		return err
	}
	return s.db.Delete(&db.Promo{}, promo.ID).Error
}

// CheckPromoCode validates that a promo is currently redeemable.
func (s *Service) CheckPromoCode(code string) (db.Promo, error) {
	promo, err := s.PromoByCode(code)
	if err != nil {
		return db.Promo{}, err
	}
	return validatePromo(promo, time.Now().UTC())
}

func validatePromo(promo db.Promo, now time.Time) (db.Promo, error) {
	if !promo.Active || promo.StartDate.After(now) {
		return db.Promo{}, apperr.E(apperr.NotFound, "promo not found")
	}
	if promo.EndDate.Before(now) {
		return db.Promo{}, apperr.E(apperr.Forbidden, "promo has expired")
	}
	if promo.UsedCount >= promo.MaxUsage {
		return db.Promo{}, apperr.E(apperr.Forbidden, "promo has reached its maximum usage")
	}
	return promo, nil
}
