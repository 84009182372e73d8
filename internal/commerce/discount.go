package commerce

import (
	"github.com/MeMoElprince/QA-Game/internal/apperr"
	"github.com/MeMoElprince/QA-Game/internal/db"
)

// ApplyDiscount computes the final price in cents after applying promo.
// The discount is capped by the promo's maxAmountForDiscount and the final
// price never drops below zero.
func ApplyDiscount(totalCents int, promo db.Promo) (int, error) {
	var cut int
	switch promo.DiscountUnit {
	case db.DiscountUnitPercentage:
		cut = totalCents * promo.Discount / 100
	case db.DiscountUnitMoney:
		cut = promo.Discount
	default:
		return 0, apperr.E(apperr.Invalid, "invalid discount unit")
	}
	if cut > promo.MaxAmountForDiscount {
		cut = promo.MaxAmountForDiscount
	}
	final := totalCents - cut
	if final < 0 {
		final = 0
	}
	return final, nil
}
