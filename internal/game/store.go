package game

import (
	"github.com/MeMoElprince/QA-Game/internal/db"
)

// GameFilter narrows List results. A zero UserID matches any owner and is
// only honored for admin callers.
type GameFilter struct {
	Name   string
	Status string
	UserID uint
	Page   int
	Limit  int
}

// Store is the engine's persistence port. Lookup methods return an
// apperr.NotFound error when the record is missing. Claim methods embed
// their precondition in the write (check-then-set) and report whether the
// claim won, so concurrent calls cannot double-apply a one-shot action.
type Store interface {
	// Atomic runs fn against a transactional view of the store. Writes
	// made inside fn become visible to later reads within fn and are
	// rolled back entirely if fn returns an error.
	Atomic(fn func(tx Store) error) error

	UserByID(id uint) (db.User, error)
	// SpendGameCredit decrements ownedGameCount if it is positive and
	// reports whether the decrement happened.
	SpendGameCredit(userID uint) (bool, error)
	AddGameCredits(userID uint, n int) (db.User, error)

	CategoriesByIDs(ids []uint) ([]db.Category, error)
	// EligibleQuestionIDs lists question ids in (categoryID, score). When
	// excludeUserID is non-zero, questions already assigned to any of that
	// user's games are filtered out.
	EligibleQuestionIDs(categoryID uint, score int, excludeUserID uint) ([]uint, error)
	QuestionByID(id uint) (db.Question, error)

	CreateGame(g *db.Game) error
	GameByID(id uint) (db.Game, error)
	ListGames(f GameFilter) ([]db.Game, int64, error)
	SetGameStatus(gameID uint, status string) error
	IncrementPlayerTurn(gameID uint) error
	// ResetGameForReplay renames the game, bumps rePlayCount and sets the
	// status back to PLAYING.
	ResetGameForReplay(gameID uint, name string) error
	// DeleteGameSetup removes the game's teams, category joins and
	// question assignments, leaving the game row itself in place.
	DeleteGameSetup(gameID uint) error

	CreateTeams(teams []db.Team) error
	TeamsByGame(gameID uint) ([]db.Team, error)
	// SetTeamScore overwrites the score and reports whether the team
	// belongs to the game.
	SetTeamScore(teamID, gameID uint, score int) (bool, error)
	AddTeamScore(teamID uint, delta int) error
	// MarkHelpersUsed flips the requested helper flags to true. Flags are
	// monotonic; passing false leaves a flag untouched.
	MarkHelpersUsed(teamID uint, answerAgain, luckWheel, callFriend bool) (db.Team, error)
	// ClaimLuckWheel sets usedLuckWheel if it is currently false and
	// reports whether this call won the claim.
	ClaimLuckWheel(teamID, gameID uint) (bool, error)

	CreateGameCategories(rows []db.GameCategory) error
	CreateGameQuestions(rows []db.GameQuestion) error
	GameQuestionByID(id uint) (db.GameQuestion, error)
	// ClaimGameQuestion marks the question answered, recording teamID,
	// only if it is currently unanswered and belongs to the game.
	ClaimGameQuestion(gameQuestionID, gameID uint, teamID *uint) (bool, error)
}
