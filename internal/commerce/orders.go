package commerce

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MeMoElprince/QA-Game/internal/apperr"
	"github.com/MeMoElprince/QA-Game/internal/db"
)

type CheckoutInput struct {
	PackageID uint
	PromoCode string
}

// Checkout creates a pending order for a package. A zero-price order (a
// promo covering the full amount) is settled immediately.
func (s *Service) Checkout(userID uint, in CheckoutInput) (db.Order, error) {
	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.Order{}, apperr.E(apperr.NotFound, "user not found")
		}
		return db.Order{}, err
	}
	if user.PhoneNumber == "" {
		return db.Order{}, apperr.E(apperr.Invalid, "please complete your profile [phone] to checkout the package")
	}

	pack, err := s.PackageByID(in.PackageID)
	if err != nil {
		return db.Order{}, err
	}
	if !pack.Active {
		return db.Order{}, apperr.E(apperr.NotFound, "package not found")
	}

	total := pack.PriceCents
	final := total
	var promoID *uint
	if in.PromoCode != "" {
		promo, err := s.CheckPromoCode(in.PromoCode)
		if err != nil {
			return db.Order{}, err
		}
		final, err = ApplyDiscount(total, promo)
		if err != nil {
			return db.Order{}, err
		}
		promoID = &promo.ID
	}

	order := db.Order{
		Reference:       uuid.NewString(),
		UserID:          userID,
		PackageID:       pack.ID,
		PromoID:         promoID,
		TotalPriceCents: total,
		FinalPriceCents: final,
		Status:          db.OrderStatusPending,
	}
	if err := s.db.Create(&order).Error; err != nil {
		return db.Order{}, err
	}

	// Nothing left to pay: skip the payment leg entirely.
	if final == 0 {
		return s.MarkPaid(order.Reference)
	}
	return order, nil
}

// MarkPaid settles a pending order: the buyer is credited with the
// package's game count and the promo's usage counter advances. The
// status transition is guarded so a double callback settles only once.
func (s *Service) MarkPaid(reference string) (db.Order, error) {
	var order db.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reference = ?", reference).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.E(apperr.NotFound, "order not found")
			}
			return err
		}
		res := tx.Model(&db.Order{}).
			Where("id = ? AND status = ?", order.ID, db.OrderStatusPending).
			Update("status", db.OrderStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if order.Status == db.OrderStatusCompleted {
				return apperr.E(apperr.Conflict, "order is already paid")
			}
			return apperr.E(apperr.Conflict, "order is already settled")
		}
		order.Status = db.OrderStatusCompleted

		var pack db.Package
		if err := tx.First(&pack, order.PackageID).Error; err != nil {
			return err
		}
		err := tx.Model(&db.User{}).
			Where("id = ?", order.UserID).
			Update("owned_game_count", gorm.Expr("owned_game_count + ?", pack.GameCount)).Error
		if err != nil {
			return err
		}
		if order.PromoID != nil {
			err := tx.Model(&db.Promo{}).
				Where("id = ?", *order.PromoID).
				Update("used_count", gorm.Expr("used_count + 1")).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return db.Order{}, err
	}
	return order, nil
}

// MarkFailed cancels a pending order after a declined or abandoned payment.
func (s *Service) MarkFailed(reference string) (db.Order, error) {
	var order db.Order
	if err := s.db.Where("reference = ?", reference).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.Order{}, apperr.E(apperr.NotFound, "order not found")
		}
		return db.Order{}, err
	}
	res := s.db.Model(&db.Order{}).
		Where("id = ? AND status = ?", order.ID, db.OrderStatusPending).
		Update("status", db.OrderStatusCancelled)
	if res.Error != nil {
		return db.Order{}, res.Error
	}
	if res.RowsAffected == 0 {
		return db.Order{}, apperr.E(apperr.Conflict, "order is already settled")
	}
	order.Status = db.OrderStatusCancelled
	return order, nil
}

type OrderFilter struct {
	UserID uint
	Status string
	Page   int
	Limit  int
}

func (s *Service) ListOrders(f OrderFilter) ([]db.Order, int64, error) {
	if f.Limit <= 0 || f.Limit > 50 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	q := s.db.Model(&db.Order{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []db.Order
	err := q.Order("id DESC").Limit(f.Limit).Offset((f.Page - 1) * f.Limit).Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *Service) OrderByReference(reference string, userID uint, admin bool) (db.Order, error) {
	var order db.Order
	if err := s.db.Where("reference = ?", reference).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.Order{}, apperr.E(apperr.NotFound, "order not found")
		}
		return db.Order{}, err
	}
	if !admin && order.UserID != userID {
		return db.Order{}, apperr.E(apperr.NotFound, "order not found")
	}
	return order, nil
}
