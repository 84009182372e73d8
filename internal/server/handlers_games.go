package server

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/MeMoElprince/QA-Game/internal/auth"
	"github.com/MeMoElprince/QA-Game/internal/db"
	"github.com/MeMoElprince/QA-Game/internal/game"
)

type teamRequest struct {
	Name        string `json:"name" validate:"required,max=64"`
	PlayerCount int    `json:"playerCount" validate:"min=0,max=32"`
}

type createGameRequest struct {
	Name        string        `json:"name" validate:"required,max=64"`
	Teams       []teamRequest `json:"teams" validate:"len=2,dive"`
	CategoryIDs []uint        `json:"categoryIds" validate:"len=6,unique,dive,min=1"`
}

type createFreeGameRequest struct {
	UserID uint `json:"userId" validate:"required"`
	createGameRequest
}

// teamScoreRequest carries the owner's manual override. No floor or
// ceiling: wheel penalties make negative scores legitimate.
type teamScoreRequest struct {
	Score int `json:"score"`
}

type markHelperRequest struct {
	UsedAnswerAgain bool `json:"usedAnswerAgain"`
	UsedLuckWheel   bool `json:"usedLuckWheel"`
	UsedCallFriend  bool `json:"usedCallFriend"`
}

func (in createGameRequest) toInput() game.CreateGameInput {
	teams := make([]game.TeamSpec, 0, len(in.Teams))
	for _, team := range in.Teams {
		teams = append(teams, game.TeamSpec{Name: team.Name, PlayerCount: team.PlayerCount})
	}
	return game.CreateGameInput{
		Name:        in.Name,
		Teams:       teams,
		CategoryIDs: in.CategoryIDs,
	}
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req createGameRequest
	if !decodeValid(w, r, &req) {
		return
	}
	created, err := s.engine.Create(claims.UserID, req.toInput())
	if err != nil {
		writeAppError(w, err)
		return
	}
	log.Printf("game created game_id=%d user_id=%d", created.ID, claims.UserID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleCreateFreeGame(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req createFreeGameRequest
	if !decodeValid(w, r, &req) {
		return
	}
	created, err := s.engine.CreateFree(req.UserID, req.toInput())
	if err != nil {
		writeAppError(w, err)
		return
	}
	log.Printf("free game created game_id=%d user_id=%d admin_id=%d", created.ID, req.UserID, claims.UserID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	page, limit := parsePagination(r, 10, 20)
	filter := game.GameFilter{
		Name:   strings.TrimSpace(r.URL.Query().Get("name")),
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
		Page:   page,
		Limit:  limit,
	}
	if raw := r.URL.Query().Get("userId"); raw != "" {
		if value, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filter.UserID = uint(value)
		}
	}
	games, total, err := s.engine.List(claims.UserID, claims.Role == db.RoleAdmin, filter)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(games, total, page, limit))
}

func (s *Server) handleFinishGame(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	gameID, ok := pathID(w, r, "gameID")
	if !ok {
		return
	}
	finished, err := s.engine.FinishGame(gameID, claims.UserID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, finished)
}

func (s *Server) handleReplayGame(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	gameID, ok := pathID(w, r, "gameID")
	if !ok {
		return
	}
	var req createGameRequest
	if !decodeValid(w, r, &req) {
		return
	}
	replayed, err := s.engine.Replay(claims.UserID, gameID, req.toInput())
	if err != nil {
		writeAppError(w, err)
		return
	}
	log.Printf("game replayed game_id=%d user_id=%d", gameID, claims.UserID)
	writeJSON(w, http.StatusOK, replayed)
}

func (s *Server) handleMarkQuestionAnswered(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	gameID, ok := pathID(w, r, "gameID")
	if !ok {
		return
	}
	gameQuestionID, ok := pathID(w, r, "gameQuestionID")
	if !ok {
		return
	}
	var teamID *uint
	if raw := r.URL.Query().Get("teamId"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || value == 0 {
			writeError(w, http.StatusBadRequest, "invalid teamId")
			return
		}
		id := uint(value)
		teamID = &id
	}
	answered, err := s.engine.MarkQuestionAnswered(claims.UserID, gameID, gameQuestionID, teamID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answered)
}

func (s *Server) handleGetGameQuestion(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	gameID, ok := pathID(w, r, "gameID")
	if !ok {
		return
	}
	gameQuestionID, ok := pathID(w, r, "gameQuestionID")
	if !ok {
		return
	}
	question, err := s.engine.GameQuestion(claims.UserID, gameID, gameQuestionID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (s *Server) handleUpdateTeamScore(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	gameID, ok := pathID(w, r, "gameID")
	if !ok {
		return
	}
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	var req teamScoreRequest
	if !decodeValid(w, r, &req) {
		return
	}
	team, err := s.engine.UpdateTeamScore(gameID, teamID, claims.UserID, req.Score)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) handleMarkHelperUsed(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	gameID, ok := pathID(w, r, "gameID")
	if !ok {
		return
	}
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	var req markHelperRequest
	if !decodeValid(w, r, &req) {
		return
	}
	team, err := s.engine.MarkHelperUsed(claims.UserID, gameID, teamID, game.HelperFlags{
		UsedAnswerAgain: req.UsedAnswerAgain,
		UsedLuckWheel:   req.UsedLuckWheel,
		UsedCallFriend:  req.UsedCallFriend,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) handleLuckWheel(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	gameID, ok := pathID(w, r, "gameID")
	if !ok {
		return
	}
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	gameQuestionID, ok := pathID(w, r, "gameQuestionID")
	if !ok {
		return
	}
	outcome, err := s.engine.SpinLuckWheel(claims.UserID, gameID, teamID, gameQuestionID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	log.Printf("luck wheel spun game_id=%d team_id=%d outcome=%s", gameID, teamID, outcome)
	writeJSON(w, http.StatusOK, map[string]string{"outcome": string(outcome)})
}

func (s *Server) handleGrantCredits(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	count, ok := pathID(w, r, "count")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	user, err := s.engine.GrantCredits(userID, int(count))
	if err != nil {
		writeAppError(w, err)
		return
	}
	log.Printf("game credits granted user_id=%d count=%d admin_id=%d", userID, count, claims.UserID)
	writeJSON(w, http.StatusOK, user)
}
