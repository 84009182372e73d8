package server

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MeMoElprince/QA-Game/internal/auth"
	"github.com/MeMoElprince/QA-Game/internal/commerce"
	"github.com/MeMoElprince/QA-Game/internal/db"
)

type packageRequest struct {
	Name       string `json:"name" validate:"required,max=64"`
	PriceCents int    `json:"priceCents" validate:"min=0"`
	GameCount  int    `json:"gameCount" validate:"required,min=1"`
	Active     bool   `json:"active"`
}

type promoRequest struct {
	Code                 string    `json:"code" validate:"required,max=32"`
	Discount             int       `json:"discount" validate:"required,min=1"`
	DiscountUnit         string    `json:"discountUnit" validate:"required,oneof=PERCENTAGE MONEY"`
	MaxAmountForDiscount int       `json:"maxAmountForDiscount" validate:"min=0"`
	MaxUsage             int       `json:"maxUsage" validate:"required,min=1"`
	Active               bool      `json:"active"`
	StartDate            time.Time `json:"startDate" validate:"required"`
	EndDate              time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
}

type checkoutRequest struct {
	PackageID uint   `json:"packageId" validate:"required"`
	PromoCode string `json:"promoCode" validate:"omitempty,max=32"`
}

func (s *Server) handleCreatePackage(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req packageRequest
	if !decodeValid(w, r, &req) {
		return
	}
	pack, err := s.commerce.CreatePackage(commerce.PackageInput{
		Name:       req.Name,
		PriceCents: req.PriceCents,
		GameCount:  req.GameCount,
		Active:     req.Active,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pack)
}

func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r, 20, 50)
	packs, total, err := s.commerce.ListPackages(page, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(packs, total, page, limit))
}

func (s *Server) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	pack, err := s.commerce.PackageByID(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pack)
}

func (s *Server) handleUpdatePackage(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req packageRequest
	if !decodeValid(w, r, &req) {
		return
	}
	pack, err := s.commerce.UpdatePackage(id, commerce.PackageInput{
		Name:       req.Name,
		PriceCents: req.PriceCents,
		GameCount:  req.GameCount,
		Active:     req.Active,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pack)
}

func (s *Server) handleDeletePackage(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.commerce.DeletePackage(id); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func promoInput(req promoRequest) commerce.PromoInput {
	return commerce.PromoInput{
		Code:                 strings.ToUpper(strings.TrimSpace(req.Code)),
		Discount:             req.Discount,
		DiscountUnit:         req.DiscountUnit,
		MaxAmountForDiscount: req.MaxAmountForDiscount,
		MaxUsage:             req.MaxUsage,
		Active:               req.Active,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
	}
}

func (s *Server) handleCreatePromo(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req promoRequest
	if !decodeValid(w, r, &req) {
		return
	}
	promo, err := s.commerce.CreatePromo(promoInput(req))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, promo)
}

func (s *Server) handleListPromos(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	page, limit := parsePagination(r, 25, 50)
	promos, total, err := s.commerce.ListPromos(page, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(promos, total, page, limit))
}

func (s *Server) handleUpdatePromo(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	code := r.PathValue("code")
	var req promoRequest
	if !decodeValid(w, r, &req) {
		return
	}
	promo, err := s.commerce.UpdatePromo(code, promoInput(req))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promo)
}

func (s *Server) handleDeletePromo(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	if err := s.commerce.DeletePromo(r.PathValue("code")); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCheckPromo(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	promo, err := s.commerce.CheckPromoCode(r.PathValue("code"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promo)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req checkoutRequest
	if !decodeValid(w, r, &req) {
		return
	}
	order, err := s.commerce.Checkout(claims.UserID, commerce.CheckoutInput{
		PackageID: req.PackageID,
		PromoCode: strings.ToUpper(strings.TrimSpace(req.PromoCode)),
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	log.Printf("order created reference=%s user_id=%d final_price_cents=%d",
		order.Reference, claims.UserID, order.FinalPriceCents)
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	page, limit := parsePagination(r, 20, 50)
	filter := commerce.OrderFilter{
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
		Page:   page,
		Limit:  limit,
	}
	if claims.Role == db.RoleAdmin {
		if raw := r.URL.Query().Get("userId"); raw != "" {
			if value, err := strconv.ParseUint(raw, 10, 32); err == nil {
				filter.UserID = uint(value)
			}
		}
	} else {
		filter.UserID = claims.UserID
	}
	orders, total, err := s.commerce.ListOrders(filter)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(orders, total, page, limit))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	reference := r.PathValue("reference")
	order, err := s.commerce.OrderByReference(reference, claims.UserID, claims.Role == db.RoleAdmin)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleMarkOrderPaid(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	order, err := s.commerce.MarkPaid(r.PathValue("reference"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	log.Printf("order settled reference=%s", order.Reference)
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleMarkOrderFailed(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	order, err := s.commerce.MarkFailed(r.PathValue("reference"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	log.Printf("order cancelled reference=%s", order.Reference)
	writeJSON(w, http.StatusOK, order)
}
