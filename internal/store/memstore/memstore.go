// Package memstore is an in-memory implementation of the game engine's
// Store port, backing the engine and handler tests. Atomic gives real
// rollback semantics without a database.
package memstore

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MeMoElprince/QA-Game/internal/apperr"
	"github.com/MeMoElprince/QA-Game/internal/db"
	"github.com/MeMoElprince/QA-Game/internal/game"
)

type state struct {
	nextID         uint
	users          map[uint]db.User
	categories     map[uint]db.Category
	questions      map[uint]db.Question
	games          map[uint]db.Game
	teams          map[uint]db.Team
	gameCategories map[uint]db.GameCategory
	gameQuestions  map[uint]db.GameQuestion
}

func newState() *state {
	return &state{
		users:          make(map[uint]db.User),
		categories:     make(map[uint]db.Category),
		questions:      make(map[uint]db.Question),
		games:          make(map[uint]db.Game),
		teams:          make(map[uint]db.Team),
		gameCategories: make(map[uint]db.GameCategory),
		gameQuestions:  make(map[uint]db.GameQuestion),
	}
}

func (st *state) clone() *state {
	dup := &state{
		nextID:         st.nextID,
		users:          make(map[uint]db.User, len(st.users)),
		categories:     make(map[uint]db.Category, len(st.categories)),
		questions:      make(map[uint]db.Question, len(st.questions)),
		games:          make(map[uint]db.Game, len(st.games)),
		teams:          make(map[uint]db.Team, len(st.teams)),
		gameCategories: make(map[uint]db.GameCategory, len(st.gameCategories)),
		gameQuestions:  make(map[uint]db.GameQuestion, len(st.gameQuestions)),
	}
	for k, v := range st.users {
		dup.users[k] = v
	}
	for k, v := range st.categories {
		dup.categories[k] = v
	}
	for k, v := range st.questions {
		dup.questions[k] = v
	}
	for k, v := range st.games {
		dup.games[k] = v
	}
	for k, v := range st.teams {
		dup.teams[k] = v
	}
	for k, v := range st.gameCategories {
		dup.gameCategories[k] = v
	}
	for k, v := range st.gameQuestions {
		dup.gameQuestions[k] = v
	}
	return dup
}

func (st *state) id() uint {
	st.nextID++
	return st.nextID
}

// Store is a mutex-guarded in-memory game.Store. Atomic clones the state
// and swaps it in only on success, so a failed operation leaves no partial
// writes behind.
type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: newState()}
}

var (
	_ game.Store = (*Store)(nil)
	_ game.Store = (*txStore)(nil)
)

func (s *Store) Atomic(fn func(tx game.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := s.st.clone()
	if err := fn(&txStore{st: clone}); err != nil {
		return err
	}
	s.st = clone
	return nil
}

// Fixture helpers; not part of the Store port.

func (s *Store) AddUser(u db.User) db.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.st.id()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	s.st.users[u.ID] = u
	return u
}

func (s *Store) AddCategory(c db.Category) db.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.st.id()
	s.st.categories[c.ID] = c
	return c
}

func (s *Store) AddQuestion(q db.Question) db.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = s.st.id()
	s.st.questions[q.ID] = q
	return q
}

// GameQuestionsByGame lists a game's question assignments, ordered by id.
func (s *Store) GameQuestionsByGame(gameID uint) []db.GameQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []db.GameQuestion
	for _, gq := range s.st.gameQuestions {
		if gq.GameID == gameID {
			rows = append(rows, gq)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

// Counts reports total row counts, used by tests to verify rollbacks leave
// no orphans.
func (s *Store) Counts() (games, teams, gameCategories, gameQuestions int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.games), len(s.st.teams), len(s.st.gameCategories), len(s.st.gameQuestions)
}

// Locked read/write passthroughs for the non-transactional port methods.

func (s *Store) UserByID(id uint) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).UserByID(id)
}

func (s *Store) SpendGameCredit(userID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).SpendGameCredit(userID)
}

func (s *Store) AddGameCredits(userID uint, n int) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).AddGameCredits(userID, n)
}

func (s *Store) CategoriesByIDs(ids []uint) ([]db.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).CategoriesByIDs(ids)
}

func (s *Store) EligibleQuestionIDs(categoryID uint, score int, excludeUserID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).EligibleQuestionIDs(categoryID, score, excludeUserID)
}

func (s *Store) QuestionByID(id uint) (db.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).QuestionByID(id)
}

func (s *Store) CreateGame(g *db.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).CreateGame(g)
}

func (s *Store) GameByID(id uint) (db.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).GameByID(id)
}

func (s *Store) ListGames(f game.GameFilter) ([]db.Game, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).ListGames(f)
}

func (s *Store) SetGameStatus(gameID uint, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).SetGameStatus(gameID, status)
}

func (s *Store) IncrementPlayerTurn(gameID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).IncrementPlayerTurn(gameID)
}

func (s *Store) ResetGameForReplay(gameID uint, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).ResetGameForReplay(gameID, name)
}

func (s *Store) DeleteGameSetup(gameID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).DeleteGameSetup(gameID)
}

func (s *Store) CreateTeams(teams []db.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).CreateTeams(teams)
}

func (s *Store) TeamsByGame(gameID uint) ([]db.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).TeamsByGame(gameID)
}

func (s *Store) SetTeamScore(teamID, gameID uint, score int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).SetTeamScore(teamID, gameID, score)
}

func (s *Store) AddTeamScore(teamID uint, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).AddTeamScore(teamID, delta)
}

func (s *Store) MarkHelpersUsed(teamID uint, answerAgain, luckWheel, callFriend bool) (db.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).MarkHelpersUsed(teamID, answerAgain, luckWheel, callFriend)
}

func (s *Store) ClaimLuckWheel(teamID, gameID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).ClaimLuckWheel(teamID, gameID)
}

func (s *Store) CreateGameCategories(rows []db.GameCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).CreateGameCategories(rows)
}

func (s *Store) CreateGameQuestions(rows []db.GameQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).CreateGameQuestions(rows)
}

func (s *Store) GameQuestionByID(id uint) (db.GameQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).GameQuestionByID(id)
}

func (s *Store) ClaimGameQuestion(gameQuestionID, gameID uint, teamID *uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{st: s.st}).ClaimGameQuestion(gameQuestionID, gameID, teamID)
}

// txStore operates on a state snapshot without locking; the parent Store
// holds the mutex for the whole Atomic call.
type txStore struct {
	st *state
}

func (t *txStore) Atomic(fn func(tx game.Store) error) error {
	return fn(t)
}

func (t *txStore) UserByID(id uint) (db.User, error) {
	u, ok := t.st.users[id]
	if !ok {
		return db.User{}, apperr.E(apperr.NotFound, "user not found")
	}
	return u, nil
}

func (t *txStore) SpendGameCredit(userID uint) (bool, error) {
	u, ok := t.st.users[userID]
	if !ok {
		return false, apperr.E(apperr.NotFound, "user not found")
	}
	if u.OwnedGameCount <= 0 {
		return false, nil
	}
	u.OwnedGameCount--
	u.UpdatedAt = time.Now().UTC()
	t.st.users[userID] = u
	return true, nil
}

func (t *txStore) AddGameCredits(userID uint, n int) (db.User, error) {
	u, ok := t.st.users[userID]
	if !ok {
		return db.User{}, apperr.E(apperr.NotFound, "user not found")
	}
	u.OwnedGameCount += n
	u.UpdatedAt = time.Now().UTC()
	t.st.users[userID] = u
	return u, nil
}

func (t *txStore) CategoriesByIDs(ids []uint) ([]db.Category, error) {
	var categories []db.Category
	for _, id := range ids {
		if c, ok := t.st.categories[id]; ok {
			categories = append(categories, c)
		}
	}
	return categories, nil
}

func (t *txStore) EligibleQuestionIDs(categoryID uint, score int, excludeUserID uint) ([]uint, error) {
	served := make(map[uint]bool)
	if excludeUserID != 0 {
		for _, gq := range t.st.gameQuestions {
			if g, ok := t.st.games[gq.GameID]; ok && g.UserID == excludeUserID {
				served[gq.QuestionID] = true
			}
		}
	}
	var ids []uint
	for _, q := range t.st.questions {
		if q.CategoryID == categoryID && q.Score == score && !served[q.ID] {
			ids = append(ids, q.ID)
		}
	}
	// Deterministic candidate order; the engine samples from it.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (t *txStore) QuestionByID(id uint) (db.Question, error) {
	q, ok := t.st.questions[id]
	if !ok {
		return db.Question{}, apperr.E(apperr.NotFound, "question not found")
	}
	if c, ok := t.st.categories[q.CategoryID]; ok {
		category := c
		q.Category = &category
	}
	return q, nil
}

func (t *txStore) CreateGame(g *db.Game) error {
	g.ID = t.st.id()
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	stored := *g
	stored.Teams = nil
	t.st.games[g.ID] = stored
	return nil
}

func (t *txStore) GameByID(id uint) (db.Game, error) {
	g, ok := t.st.games[id]
	if !ok {
		return db.Game{}, apperr.E(apperr.NotFound, "game not found")
	}
	return g, nil
}

func (t *txStore) ListGames(f game.GameFilter) ([]db.Game, int64, error) {
	var games []db.Game
	for _, g := range t.st.games {
		if f.UserID != 0 && g.UserID != f.UserID {
			continue
		}
		if f.Status != "" && g.Status != f.Status {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(f.Name)) {
			continue
		}
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	total := int64(len(games))
	start := (f.Page - 1) * f.Limit
	if start > len(games) {
		start = len(games)
	}
	end := start + f.Limit
	if f.Limit <= 0 || end > len(games) {
		end = len(games)
	}
	games = games[start:end]
	for i := range games {
		teams, _ := t.TeamsByGame(games[i].ID)
		games[i].Teams = teams
	}
	return games, total, nil
}

func (t *txStore) SetGameStatus(gameID uint, status string) error {
	g, ok := t.st.games[gameID]
	if !ok {
		return apperr.E(apperr.NotFound, "game not found")
	}
	g.Status = status
	g.UpdatedAt = time.Now().UTC()
	t.st.games[gameID] = g
	return nil
}

func (t *txStore) IncrementPlayerTurn(gameID uint) error {
	g, ok := t.st.games[gameID]
	if !ok {
		return apperr.E(apperr.NotFound, "game not found")
	}
	g.PlayerTurn++
	g.UpdatedAt = time.Now().UTC()
	t.st.games[gameID] = g
	return nil
}

func (t *txStore) ResetGameForReplay(gameID uint, name string) error {
	g, ok := t.st.games[gameID]
	if !ok {
		return apperr.E(apperr.NotFound, "game not found")
	}
	g.Name = name
	g.RePlayCount++
	g.Status = db.GameStatusPlaying
	g.PlayerTurn = 0
	g.UpdatedAt = time.Now().UTC()
	t.st.games[gameID] = g
	return nil
}

func (t *txStore) DeleteGameSetup(gameID uint) error {
	for id, team := range t.st.teams {
		if team.GameID == gameID {
			delete(t.st.teams, id)
		}
	}
	for id, gc := range t.st.gameCategories {
		if gc.GameID == gameID {
			delete(t.st.gameCategories, id)
		}
	}
	for id, gq := range t.st.gameQuestions {
		if gq.GameID == gameID {
			delete(t.st.gameQuestions, id)
		}
	}
	return nil
}

func (t *txStore) CreateTeams(teams []db.Team) error {
	now := time.Now().UTC()
	for i := range teams {
		teams[i].ID = t.st.id()
		teams[i].CreatedAt = now
		teams[i].UpdatedAt = now
		t.st.teams[teams[i].ID] = teams[i]
	}
	return nil
}

func (t *txStore) TeamsByGame(gameID uint) ([]db.Team, error) {
	var teams []db.Team
	for _, team := range t.st.teams {
		if team.GameID == gameID {
			teams = append(teams, team)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].TeamOrder < teams[j].TeamOrder })
	return teams, nil
}

func (t *txStore) SetTeamScore(teamID, gameID uint, score int) (bool, error) {
	team, ok := t.st.teams[teamID]
	if !ok || team.GameID != gameID {
		return false, nil
	}
	team.Score = score
	team.UpdatedAt = time.Now().UTC()
	t.st.teams[teamID] = team
	return true, nil
}

func (t *txStore) AddTeamScore(teamID uint, delta int) error {
	team, ok := t.st.teams[teamID]
	if !ok {
		return apperr.E(apperr.NotFound, "team not found")
	}
	team.Score += delta
	team.UpdatedAt = time.Now().UTC()
	t.st.teams[teamID] = team
	return nil
}

func (t *txStore) MarkHelpersUsed(teamID uint, answerAgain, luckWheel, callFriend bool) (db.Team, error) {
	team, ok := t.st.teams[teamID]
	if !ok {
		return db.Team{}, apperr.E(apperr.NotFound, "team not found")
	}
	team.UsedAnswerAgain = team.UsedAnswerAgain || answerAgain
	team.UsedLuckWheel = team.UsedLuckWheel || luckWheel
	team.UsedCallFriend = team.UsedCallFriend || callFriend
	team.UpdatedAt = time.Now().UTC()
	t.st.teams[teamID] = team
	return team, nil
}

func (t *txStore) ClaimLuckWheel(teamID, gameID uint) (bool, error) {
	team, ok := t.st.teams[teamID]
	if !ok || team.GameID != gameID || team.UsedLuckWheel {
		return false, nil
	}
	team.UsedLuckWheel = true
	team.UpdatedAt = time.Now().UTC()
	t.st.teams[teamID] = team
	return true, nil
}

func (t *txStore) CreateGameCategories(rows []db.GameCategory) error {
	for i := range rows {
		rows[i].ID = t.st.id()
		t.st.gameCategories[rows[i].ID] = rows[i]
	}
	return nil
}

func (t *txStore) CreateGameQuestions(rows []db.GameQuestion) error {
	for i := range rows {
		rows[i].ID = t.st.id()
		t.st.gameQuestions[rows[i].ID] = rows[i]
	}
	return nil
}

func (t *txStore) GameQuestionByID(id uint) (db.GameQuestion, error) {
	gq, ok := t.st.gameQuestions[id]
	if !ok {
		return db.GameQuestion{}, apperr.E(apperr.NotFound, "game question not found")
	}
	return gq, nil
}

func (t *txStore) ClaimGameQuestion(gameQuestionID, gameID uint, teamID *uint) (bool, error) {
	gq, ok := t.st.gameQuestions[gameQuestionID]
	if !ok || gq.GameID != gameID || gq.Answered {
		return false, nil
	}
	gq.Answered = true
	gq.TeamID = teamID
	t.st.gameQuestions[gameQuestionID] = gq
	return true, nil
}
