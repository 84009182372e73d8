package game

import (
	"github.com/MeMoElprince/QA-Game/internal/apperr"
	"github.com/MeMoElprince/QA-Game/internal/db"
)

// questionsPerTier questions are sampled for each of the game's categories
// at each point tier, so a provisioned category carries 6 questions.
const questionsPerTier = 2

type TeamSpec struct {
	Name        string
	PlayerCount int
}

type CreateGameInput struct {
	Name        string
	Teams       []TeamSpec
	CategoryIDs []uint
}

// Create provisions a paid game for userID: samples questions, creates the
// teams and joins, and spends one game credit, all in one atomic unit.
func (s *Service) Create(userID uint, in CreateGameInput) (*db.Game, error) {
	user, err := s.store.UserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.OwnedGameCount <= 0 {
		return nil, apperr.E(apperr.InsufficientResource, "you don't have any games left, buy one")
	}
	var created *db.Game
	err = s.store.Atomic(func(tx Store) error {
		spent, err := tx.SpendGameCredit(userID)
		if err != nil {
			return err
		}
		if !spent {
			return apperr.E(apperr.InsufficientResource, "you don't have any games left, buy one")
		}
		created, err = s.provision(tx, userID, in, 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateFree provisions a game for targetUserID without touching their
// credit balance. The admin path additionally excludes questions already
// served in any of the target user's games, so repeat grants stay fresh.
func (s *Service) CreateFree(targetUserID uint, in CreateGameInput) (*db.Game, error) {
	if _, err := s.store.UserByID(targetUserID); err != nil {
		return nil, err
	}
	var created *db.Game
	err := s.store.Atomic(func(tx Store) error {
		var err error
		created, err = s.provision(tx, targetUserID, in, targetUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Replay tears down an existing game's teams, categories and question
// assignments and provisions it again, bumping rePlayCount. Replay is free.
func (s *Service) Replay(userID, gameID uint, in CreateGameInput) (*db.Game, error) {
	existing, err := s.store.GameByID(gameID)
	if err != nil || existing.UserID != userID {
		// Not distinguished from a missing game so non-owners cannot
		// probe for existence.
		return nil, apperr.E(apperr.NotFound, "game not found or not owned by user")
	}
	err = s.store.Atomic(func(tx Store) error {
		if err := tx.DeleteGameSetup(gameID); err != nil {
			return err
		}
		if err := tx.ResetGameForReplay(gameID, in.Name); err != nil {
			return err
		}
		return s.provisionSetup(tx, gameID, in, userID)
	})
	if err != nil {
		return nil, err
	}
	replayed, err := s.store.GameByID(gameID)
	if err != nil {
		return nil, err
	}
	return &replayed, nil
}

// provision creates a fresh game row plus its full setup.
func (s *Service) provision(tx Store, ownerID uint, in CreateGameInput, excludeUserID uint) (*db.Game, error) {
	g := db.Game{
		Name:   in.Name,
		UserID: ownerID,
		Status: db.GameStatusPlaying,
	}
	if err := tx.CreateGame(&g); err != nil {
		return nil, err
	}
	if err := s.provisionSetup(tx, g.ID, in, excludeUserID); err != nil {
		return nil, err
	}
	return &g, nil
}

// provisionSetup creates teams, category joins and sampled question
// assignments for gameID. It assumes the game row already exists and has
// no setup rows.
func (s *Service) provisionSetup(tx Store, gameID uint, in CreateGameInput, excludeUserID uint) error {
	if len(in.Teams) != 2 {
		return apperr.E(apperr.Invalid, "a game needs exactly 2 teams")
	}

	categories, err := tx.CategoriesByIDs(in.CategoryIDs)
	if err != nil {
		return err
	}
	if len(categories) != len(in.CategoryIDs) {
		return apperr.E(apperr.NotFound, "there are %d categories that do not exist",
			len(in.CategoryIDs)-len(categories))
	}

	// Sample before writing anything question-related so an insufficient
	// pool aborts with no partial assignment rows.
	sampled := make(map[uint][]uint, len(categories))
	for _, category := range categories {
		for _, tier := range db.QuestionTiers {
			ids, err := tx.EligibleQuestionIDs(category.ID, tier, excludeUserID)
			if err != nil {
				return err
			}
			if len(ids) < questionsPerTier {
				return apperr.E(apperr.InsufficientResource,
					"category %s does not have enough questions for score %d", category.Name, tier)
			}
			sampled[category.ID] = append(sampled[category.ID], sampleIDs(s.rng, ids, questionsPerTier)...)
		}
	}

	teams := make([]db.Team, len(in.Teams))
	for i, team := range in.Teams {
		teams[i] = db.Team{
			GameID:      gameID,
			Name:        team.Name,
			TeamOrder:   i,
			PlayerCount: team.PlayerCount,
		}
	}
	if err := tx.CreateTeams(teams); err != nil {
		return err
	}

	joins := make([]db.GameCategory, len(categories))
	for i, category := range categories {
		joins[i] = db.GameCategory{GameID: gameID, CategoryID: category.ID}
	}
	if err := tx.CreateGameCategories(joins); err != nil {
		return err
	}

	var assignments []db.GameQuestion
	for _, join := range joins {
		for _, questionID := range sampled[join.CategoryID] {
			assignments = append(assignments, db.GameQuestion{
				GameID:         gameID,
				GameCategoryID: join.ID,
				QuestionID:     questionID,
			})
		}
	}
	return tx.CreateGameQuestions(assignments)
}
