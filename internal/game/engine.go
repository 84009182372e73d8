// Package game implements the trivia match engine: provisioning matches
// from the question catalog, turn and scoring tracking, the one-shot team
// helpers and the randomized luck wheel.
package game

import (
	"github.com/MeMoElprince/QA-Game/internal/apperr"
	"github.com/MeMoElprince/QA-Game/internal/db"
)

// Service runs every game operation against a Store. Randomness comes from
// an injected RandomSource so tests can pin wheel draws and sampling.
type Service struct {
	store Store
	rng   RandomSource
}

func New(store Store, rng RandomSource) *Service {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Service{store: store, rng: rng}
}

// ownedGame loads a game and asserts the caller owns it. Every mutating
// operation starts here.
func ownedGame(tx Store, gameID, userID uint) (db.Game, error) {
	g, err := tx.GameByID(gameID)
	if err != nil {
		return db.Game{}, err
	}
	if g.UserID != userID {
		return db.Game{}, apperr.E(apperr.Forbidden, "you are not allowed to update this game")
	}
	return g, nil
}

func teamInGame(teams []db.Team, teamID uint) (db.Team, error) {
	for _, t := range teams {
		if t.ID == teamID {
			return t, nil
		}
	}
	return db.Team{}, apperr.E(apperr.InvalidState, "team not found in game")
}

// GameQuestion returns the full question behind a game assignment,
// regardless of its answered state. Owner-only.
func (s *Service) GameQuestion(userID, gameID, gameQuestionID uint) (*db.Question, error) {
	gq, err := s.store.GameQuestionByID(gameQuestionID)
	if err != nil || gq.GameID != gameID {
		return nil, apperr.E(apperr.InvalidState, "game or the question does not exist")
	}
	g, err := s.store.GameByID(gameID)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, apperr.E(apperr.Forbidden, "you are not allowed to access this game question")
	}
	q, err := s.store.QuestionByID(gq.QuestionID)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// List returns games visible to the caller. Non-admins only ever see their
// own games, whatever filter they pass.
func (s *Service) List(userID uint, isAdmin bool, f GameFilter) ([]db.Game, int64, error) {
	if !isAdmin {
		f.UserID = userID
	}
	if f.Limit <= 0 || f.Limit > 20 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	return s.store.ListGames(f)
}

// GrantCredits is the explicit credit grant operation; gameplay never
// increments ownedGameCount on its own.
func (s *Service) GrantCredits(userID uint, n int) (db.User, error) {
	if n <= 0 {
		return db.User{}, apperr.E(apperr.Invalid, "credit count must be positive")
	}
	if _, err := s.store.UserByID(userID); err != nil {
		return db.User{}, err
	}
	return s.store.AddGameCredits(userID, n)
}
