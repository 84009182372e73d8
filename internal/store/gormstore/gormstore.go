// Package gormstore implements the game engine's Store port on Postgres
// via GORM. Atomic maps to a database transaction; every claim is a
// guarded UPDATE whose WHERE clause carries the precondition, checked
// through RowsAffected, so check-then-set races resolve inside the store.
package gormstore

import (
	"errors"

	"gorm.io/gorm"

	"github.com/MeMoElprince/QA-Game/internal/apperr"
	"github.com/MeMoElprince/QA-Game/internal/db"
	"github.com/MeMoElprince/QA-Game/internal/game"
)

type Store struct {
	db *gorm.DB
}

func New(conn *gorm.DB) *Store {
	return &Store{db: conn}
}

var _ game.Store = (*Store)(nil)

func (s *Store) Atomic(fn func(tx game.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.E(apperr.NotFound, "%s not found", what)
	}
	return err
}

func (s *Store) UserByID(id uint) (db.User, error) {
	var u db.User
	if err := s.db.First(&u, id).Error; err != nil {
		return db.User{}, notFound(err, "user")
	}
	return u, nil
}

func (s *Store) SpendGameCredit(userID uint) (bool, error) {
	res := s.db.Model(&db.User{}).
		Where("id = ? AND owned_game_count > 0", userID).
		UpdateColumn("owned_game_count", gorm.Expr("owned_game_count - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) AddGameCredits(userID uint, n int) (db.User, error) {
	res := s.db.Model(&db.User{}).
		Where("id = ?", userID).
		UpdateColumn("owned_game_count", gorm.Expr("owned_game_count + ?", n))
	if res.Error != nil {
		return db.User{}, res.Error
	}
	if res.RowsAffected == 0 {
		return db.User{}, apperr.E(apperr.NotFound, "user not found")
	}
	return s.UserByID(userID)
}

func (s *Store) CategoriesByIDs(ids []uint) ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) EligibleQuestionIDs(categoryID uint, score int, excludeUserID uint) ([]uint, error) {
	query := s.db.Model(&db.Question{}).
		Where("category_id = ? AND score = ?", categoryID, score)
	if excludeUserID != 0 {
		served := s.db.Model(&db.GameQuestion{}).
			Select("game_questions.question_id").
			Joins("JOIN games ON games.id = game_questions.game_id").
			Where("games.user_id = ?", excludeUserID)
		query = query.Where("id NOT IN (?)", served)
	}
	var ids []uint
	if err := query.Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) QuestionByID(id uint) (db.Question, error) {
	var q db.Question
	if err := s.db.Preload("Category").First(&q, id).Error; err != nil {
		return db.Question{}, notFound(err, "question")
	}
	return q, nil
}

func (s *Store) CreateGame(g *db.Game) error {
	return s.db.Create(g).Error
}

func (s *Store) GameByID(id uint) (db.Game, error) {
	var g db.Game
	if err := s.db.First(&g, id).Error; err != nil {
		return db.Game{}, notFound(err, "game")
	}
	return g, nil
}

func (s *Store) ListGames(f game.GameFilter) ([]db.Game, int64, error) {
	query := s.db.Model(&db.Game{})
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Name != "" {
		query = query.Where("name ILIKE ?", "%"+f.Name+"%")
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var games []db.Game
	err := query.Preload("Teams").
		Order("id").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&games).Error
	if err != nil {
		return nil, 0, err
	}
	return games, total, nil
}

func (s *Store) SetGameStatus(gameID uint, status string) error {
	return s.db.Model(&db.Game{}).Where("id = ?", gameID).Update("status", status).Error
}

func (s *Store) IncrementPlayerTurn(gameID uint) error {
	return s.db.Model(&db.Game{}).
		Where("id = ?", gameID).
		UpdateColumn("player_turn", gorm.Expr("player_turn + 1")).Error
}

func (s *Store) ResetGameForReplay(gameID uint, name string) error {
	return s.db.Model(&db.Game{}).Where("id = ?", gameID).Updates(map[string]any{
		"name":          name,
		"re_play_count": gorm.Expr("re_play_count + 1"),
		"status":        db.GameStatusPlaying,
		"player_turn":   0,
	}).Error
}

func (s *Store) DeleteGameSetup(gameID uint) error {
	if err := s.db.Where("game_id = ?", gameID).Delete(&db.GameQuestion{}).Error; err != nil {
		return err
	}
	if err := s.db.Where("game_id = ?", gameID).Delete(&db.GameCategory{}).Error; err != nil {
		return err
	}
	return s.db.Where("game_id = ?", gameID).Delete(&db.Team{}).Error
}

func (s *Store) CreateTeams(teams []db.Team) error {
	return s.db.Create(&teams).Error
}

func (s *Store) TeamsByGame(gameID uint) ([]db.Team, error) {
	var teams []db.Team
	if err := s.db.Where("game_id = ?", gameID).Order("team_order").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (s *Store) SetTeamScore(teamID, gameID uint, score int) (bool, error) {
	res := s.db.Model(&db.Team{}).
		Where("id = ? AND game_id = ?", teamID, gameID).
		Update("score", score)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) AddTeamScore(teamID uint, delta int) error {
	res := s.db.Model(&db.Team{}).
		Where("id = ?", teamID).
		UpdateColumn("score", gorm.Expr("score + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.E(apperr.NotFound, "team not found")
	}
	return nil
}

func (s *Store) MarkHelpersUsed(teamID uint, answerAgain, luckWheel, callFriend bool) (db.Team, error) {
	updates := map[string]any{}
	if answerAgain {
		updates["used_answer_again"] = true
	}
	if luckWheel {
		updates["used_luck_wheel"] = true
	}
	if callFriend {
		updates["used_call_friend"] = true
	}
	if len(updates) > 0 {
		if err := s.db.Model(&db.Team{}).Where("id = ?", teamID).Updates(updates).Error; err != nil {
			return db.Team{}, err
		}
	}
	var team db.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		return db.Team{}, notFound(err, "team")
	}
	return team, nil
}

func (s *Store) ClaimLuckWheel(teamID, gameID uint) (bool, error) {
	res := s.db.Model(&db.Team{}).
		Where("id = ? AND game_id = ? AND used_luck_wheel = false", teamID, gameID).
		Update("used_luck_wheel", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) CreateGameCategories(rows []db.GameCategory) error {
	return s.db.Create(&rows).Error
}

func (s *Store) CreateGameQuestions(rows []db.GameQuestion) error {
	return s.db.Create(&rows).Error
}

func (s *Store) GameQuestionByID(id uint) (db.GameQuestion, error) {
	var gq db.GameQuestion
	if err := s.db.First(&gq, id).Error; err != nil {
		return db.GameQuestion{}, notFound(err, "game question")
	}
	return gq, nil
}

func (s *Store) ClaimGameQuestion(gameQuestionID, gameID uint, teamID *uint) (bool, error) {
	res := s.db.Model(&db.GameQuestion{}).
		Where("id = ? AND game_id = ? AND answered = false", gameQuestionID, gameID).
		Updates(map[string]any{"answered": true, "team_id": teamID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
