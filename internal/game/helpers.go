package game

import (
	"github.com/MeMoElprince/QA-Game/internal/db"
)

// HelperFlags names the helpers to mark used. A false field leaves that
// helper untouched; the engine deliberately accepts any subset (mutual
// exclusivity between helpers is not enforced here).
type HelperFlags struct {
	UsedAnswerAgain bool
	UsedLuckWheel   bool
	UsedCallFriend  bool
}

// MarkHelperUsed flips the requested one-shot helper flags for a team.
// Flags are monotonic false -> true; re-marking a used helper is a no-op,
// not an error.
func (s *Service) MarkHelperUsed(userID, gameID, teamID uint, flags HelperFlags) (*db.Team, error) {
	var team db.Team
	err := s.store.Atomic(func(tx Store) error {
		if _, err := ownedGame(tx, gameID, userID); err != nil {
			return err
		}
		teams, err := tx.TeamsByGame(gameID)
		if err != nil {
			return err
		}
		if _, err := teamInGame(teams, teamID); err != nil {
			return err
		}
		team, err = tx.MarkHelpersUsed(teamID, flags.UsedAnswerAgain, flags.UsedLuckWheel, flags.UsedCallFriend)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}
