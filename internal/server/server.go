// Package server exposes the HTTP API: auth, game sessions, the question
// catalog, commerce and the contact form.
package server

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/MeMoElprince/QA-Game/internal/auth"
	"github.com/MeMoElprince/QA-Game/internal/catalog"
	"github.com/MeMoElprince/QA-Game/internal/commerce"
	"github.com/MeMoElprince/QA-Game/internal/config"
	"github.com/MeMoElprince/QA-Game/internal/game"
	"github.com/MeMoElprince/QA-Game/internal/users"
)

type Server struct {
	cfg      config.Config
	db       *gorm.DB
	tokens   *auth.Tokens
	engine   *game.Service
	users    *users.Service
	catalog  *catalog.Service
	commerce *commerce.Service
}

func New(cfg config.Config, conn *gorm.DB, tokens *auth.Tokens, engine *game.Service,
	usersSvc *users.Service, catalogSvc *catalog.Service, commerceSvc *commerce.Service) *Server {
	return &Server{
		cfg:      cfg,
		db:       conn,
		tokens:   tokens,
		engine:   engine,
		users:    usersSvc,
		catalog:  catalogSvc,
		commerce: commerceSvc,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/users", s.handleRegister)
	mux.HandleFunc("POST /api/users/login", s.handleLogin)
	mux.HandleFunc("GET /api/users/me", s.requireUser(s.handleMe))
	mux.HandleFunc("GET /api/users", s.requireAdmin(s.handleListUsers))

	mux.HandleFunc("POST /api/games", s.requireUser(s.handleCreateGame))
	mux.HandleFunc("POST /api/games/free/admin", s.requireAdmin(s.handleCreateFreeGame))
	mux.HandleFunc("GET /api/games", s.requireUser(s.handleListGames))
	mux.HandleFunc("PATCH /api/games/{gameID}/finish-game", s.requireUser(s.handleFinishGame))
	mux.HandleFunc("PUT /api/games/{gameID}/replay-game", s.requireUser(s.handleReplayGame))
	mux.HandleFunc("PATCH /api/games/{gameID}/game-questions/{gameQuestionID}", s.requireUser(s.handleMarkQuestionAnswered))
	mux.HandleFunc("GET /api/games/{gameID}/game-questions/{gameQuestionID}", s.requireUser(s.handleGetGameQuestion))
	mux.HandleFunc("PATCH /api/games/{gameID}/teams/{teamID}/score", s.requireUser(s.handleUpdateTeamScore))
	mux.HandleFunc("PATCH /api/games/{gameID}/teams/{teamID}/mark-helper-as-used", s.requireUser(s.handleMarkHelperUsed))
	mux.HandleFunc("PATCH /api/games/{gameID}/teams/{teamID}/game-questions/{gameQuestionID}/luck-wheel", s.requireUser(s.handleLuckWheel))
	mux.HandleFunc("PATCH /api/games/{count}/users/{userID}", s.requireAdmin(s.handleGrantCredits))

	mux.HandleFunc("POST /api/categories", s.requireAdmin(s.handleCreateCategory))
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("GET /api/categories/{id}", s.handleGetCategory)
	mux.HandleFunc("PATCH /api/categories/{id}", s.requireAdmin(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.requireAdmin(s.handleDeleteCategory))

	mux.HandleFunc("POST /api/questions", s.requireAdmin(s.handleCreateQuestion))
	mux.HandleFunc("GET /api/questions", s.requireAdmin(s.handleListQuestions))
	mux.HandleFunc("GET /api/questions/{id}", s.requireAdmin(s.handleGetQuestion))
	mux.HandleFunc("PATCH /api/questions/{id}", s.requireAdmin(s.handleUpdateQuestion))
	mux.HandleFunc("DELETE /api/questions/{id}", s.requireAdmin(s.handleDeleteQuestion))

	mux.HandleFunc("POST /api/packages", s.requireAdmin(s.handleCreatePackage))
	mux.HandleFunc("GET /api/packages", s.handleListPackages)
	mux.HandleFunc("GET /api/packages/{id}", s.handleGetPackage)
	mux.HandleFunc("PATCH /api/packages/{id}", s.requireAdmin(s.handleUpdatePackage))
	mux.HandleFunc("DELETE /api/packages/{id}", s.requireAdmin(s.handleDeletePackage))

	mux.HandleFunc("POST /api/promos", s.requireAdmin(s.handleCreatePromo))
	mux.HandleFunc("GET /api/promos", s.requireAdmin(s.handleListPromos))
	mux.HandleFunc("PATCH /api/promos/{code}", s.requireAdmin(s.handleUpdatePromo))
	mux.HandleFunc("DELETE /api/promos/{code}", s.requireAdmin(s.handleDeletePromo))
	mux.HandleFunc("GET /api/promos/{code}/check", s.requireUser(s.handleCheckPromo))

	mux.HandleFunc("POST /api/orders/checkout", s.requireUser(s.handleCheckout))
	mux.HandleFunc("GET /api/orders", s.requireUser(s.handleListOrders))
	mux.HandleFunc("GET /api/orders/{reference}", s.requireUser(s.handleGetOrder))
	mux.HandleFunc("PATCH /api/orders/{reference}/pay", s.requireAdmin(s.handleMarkOrderPaid))
	mux.HandleFunc("PATCH /api/orders/{reference}/fail", s.requireAdmin(s.handleMarkOrderFailed))

	mux.HandleFunc("POST /api/contacts", s.handleCreateContact)
	mux.HandleFunc("GET /api/contacts", s.requireAdmin(s.handleListContacts))

	return mux
}
