package game

import (
	"github.com/MeMoElprince/QA-Game/internal/apperr"
	"github.com/MeMoElprince/QA-Game/internal/db"
)

// WheelOutcome is one segment of the luck wheel.
type WheelOutcome string

const (
	// WheelLuckOver burns the spin with no effect.
	WheelLuckOver WheelOutcome = "LUCK_OVER"
	// WheelGift awards the named question's points to the spinning team
	// and marks the question answered.
	WheelGift WheelOutcome = "GIFT"
	// WheelDecreaseOpponent costs the opposing team a fixed penalty.
	WheelDecreaseOpponent WheelOutcome = "DECREASE_300_OPPONENT"
	// WheelGoogleSearch lets the team search the web; no state beyond the
	// spent spin.
	WheelGoogleSearch WheelOutcome = "GOOGLE_SEARCH"
)

// WheelOutcomes is the wheel as data. The spin draws uniformly over this
// slice, so adding a segment is one entry here plus a resolver below.
var WheelOutcomes = []WheelOutcome{
	WheelLuckOver,
	WheelGift,
	WheelDecreaseOpponent,
	WheelGoogleSearch,
}

const opponentPenalty = 300

type spin struct {
	gameID         uint
	teamID         uint
	gameQuestionID uint
	teams          []db.Team
}

// wheelResolvers applies the side effects of one outcome. The spent
// usedLuckWheel flag is claimed before the resolver runs.
var wheelResolvers = map[WheelOutcome]func(tx Store, sp spin) error{
	WheelLuckOver:         resolveFlagOnly,
	WheelGoogleSearch:     resolveFlagOnly,
	WheelGift:             resolveGift,
	WheelDecreaseOpponent: resolveDecreaseOpponent,
}

func resolveFlagOnly(Store, spin) error { return nil }

func resolveGift(tx Store, sp spin) error {
	gq, err := tx.GameQuestionByID(sp.gameQuestionID)
	if err != nil || gq.GameID != sp.gameID {
		return apperr.E(apperr.InvalidState, "game question not found or not in game")
	}
	question, err := tx.QuestionByID(gq.QuestionID)
	if err != nil {
		return err
	}
	if err := tx.AddTeamScore(sp.teamID, question.Score); err != nil {
		return err
	}
	// Answered is monotonic; if the question was already burned the claim
	// is a no-op rather than an error.
	_, err = tx.ClaimGameQuestion(sp.gameQuestionID, sp.gameID, nil)
	return err
}

func resolveDecreaseOpponent(tx Store, sp spin) error {
	var opponent *db.Team
	for i := range sp.teams {
		if sp.teams[i].ID != sp.teamID {
			opponent = &sp.teams[i]
			break
		}
	}
	if opponent == nil {
		// Structurally impossible with the two-team invariant.
		return apperr.E(apperr.InvalidState, "opponent team not found")
	}
	return tx.AddTeamScore(opponent.ID, -opponentPenalty)
}

// SpinLuckWheel draws one outcome uniformly from WheelOutcomes and applies
// it. The wheel is one-shot per team: the claim of usedLuckWheel and its
// precondition check are a single atomic write, so exactly one of two
// concurrent spins can succeed.
func (s *Service) SpinLuckWheel(userID, gameID, teamID, gameQuestionID uint) (WheelOutcome, error) {
	var outcome WheelOutcome
	err := s.store.Atomic(func(tx Store) error {
		if _, err := ownedGame(tx, gameID, userID); err != nil {
			return err
		}
		teams, err := tx.TeamsByGame(gameID)
		if err != nil {
			return err
		}
		team, err := teamInGame(teams, teamID)
		if err != nil {
			return err
		}
		if team.UsedLuckWheel {
			return apperr.E(apperr.Conflict, "luck wheel already used")
		}
		claimed, err := tx.ClaimLuckWheel(teamID, gameID)
		if err != nil {
			return err
		}
		if !claimed {
			return apperr.E(apperr.Conflict, "luck wheel already used")
		}
		outcome = WheelOutcomes[s.rng.IntN(len(WheelOutcomes))]
		resolve, ok := wheelResolvers[outcome]
		if !ok {
			return apperr.E(apperr.InvalidState, "luck wheel value not found, please try again")
		}
		return resolve(tx, spin{
			gameID:         gameID,
			teamID:         teamID,
			gameQuestionID: gameQuestionID,
			teams:          teams,
		})
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}
