package game

import (
	"github.com/MeMoElprince/QA-Game/internal/apperr"
	"github.com/MeMoElprince/QA-Game/internal/db"
)

// MarkQuestionAnswered records a turn: the question is burned, the turn
// counter advances, and when a team is named it earns the question's
// points. teamID nil means nobody answered. The unanswered check and the
// answered flip are one atomic claim, so a question can only ever be
// marked once.
func (s *Service) MarkQuestionAnswered(userID, gameID, gameQuestionID uint, teamID *uint) (*db.GameQuestion, error) {
	var result db.GameQuestion
	err := s.store.Atomic(func(tx Store) error {
		if _, err := ownedGame(tx, gameID, userID); err != nil {
			return err
		}
		gq, err := tx.GameQuestionByID(gameQuestionID)
		if err != nil || gq.GameID != gameID || gq.Answered {
			return apperr.E(apperr.InvalidState, "game question not found, solved or not in game")
		}
		claimed, err := tx.ClaimGameQuestion(gameQuestionID, gameID, teamID)
		if err != nil {
			return err
		}
		if !claimed {
			return apperr.E(apperr.InvalidState, "game question not found, solved or not in game")
		}
		if teamID != nil {
			teams, err := tx.TeamsByGame(gameID)
			if err != nil {
				return err
			}
			team, err := teamInGame(teams, *teamID)
			if err != nil {
				return err
			}
			question, err := tx.QuestionByID(gq.QuestionID)
			if err != nil {
				return err
			}
			if err := tx.AddTeamScore(team.ID, question.Score); err != nil {
				return err
			}
		}
		if err := tx.IncrementPlayerTurn(gameID); err != nil {
			return err
		}
		result = gq
		result.Answered = true
		result.TeamID = teamID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// FinishGame sets the game's status to FINISHED. Scoring calls arriving
// after the finish are not rejected here; callers are expected to stop
// issuing turns for a finished game.
func (s *Service) FinishGame(gameID, userID uint) (*db.Game, error) {
	g, err := ownedGame(s.store, gameID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetGameStatus(gameID, db.GameStatusFinished); err != nil {
		return nil, err
	}
	g.Status = db.GameStatusFinished
	return &g, nil
}

// UpdateTeamScore is the owner's manual score override. No floor or
// ceiling applies.
func (s *Service) UpdateTeamScore(gameID, teamID, userID uint, score int) (*db.Team, error) {
	var team db.Team
	err := s.store.Atomic(func(tx Store) error {
		if _, err := ownedGame(tx, gameID, userID); err != nil {
			return err
		}
		ok, err := tx.SetTeamScore(teamID, gameID, score)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.E(apperr.InvalidState, "team not found in game")
		}
		teams, err := tx.TeamsByGame(gameID)
		if err != nil {
			return err
		}
		team, err = teamInGame(teams, teamID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}
