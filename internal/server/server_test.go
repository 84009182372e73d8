package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MeMoElprince/QA-Game/internal/auth"
	"github.com/MeMoElprince/QA-Game/internal/config"
	"github.com/MeMoElprince/QA-Game/internal/db"
	"github.com/MeMoElprince/QA-Game/internal/game"
	"github.com/MeMoElprince/QA-Game/internal/store/memstore"
)

type testEnv struct {
	handler     http.Handler
	store       *memstore.Store
	tokens      *auth.Tokens
	owner       db.User
	ownerToken  string
	admin       db.User
	adminToken  string
	categoryIDs []uint
}

// newTestEnv wires the handler over an in-memory engine store. Catalog,
// commerce and account routes need a database and are not exercised here.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memstore.New()
	owner := store.AddUser(db.User{
		Name:           "Owner",
		Email:          "owner@example.com",
		OwnedGameCount: 2,
	})
	admin := store.AddUser(db.User{
		Name:  "Admin",
		Email: "admin@example.com",
		Role:  db.RoleAdmin,
	})
	var categoryIDs []uint
	for i := 1; i <= 6; i++ {
		category := store.AddCategory(db.Category{Name: fmt.Sprintf("Category %d", i)})
		categoryIDs = append(categoryIDs, category.ID)
		for _, tier := range db.QuestionTiers {
			for j := 1; j <= 2; j++ {
				store.AddQuestion(db.Question{
					CategoryID: category.ID,
					Score:      tier,
					Text:       fmt.Sprintf("q%d-%d-%d", i, tier, j),
					Answer:     "a",
				})
			}
		}
	}

	tokens := auth.NewTokens("test-secret", time.Hour)
	ownerToken, err := tokens.Issue(owner.ID, owner.Role)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	adminToken, err := tokens.Issue(admin.ID, admin.Role)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	engine := game.New(store, game.NewSeededRNG(7))
	srv := New(config.Default(), nil, tokens, engine, nil, nil, nil)
	return &testEnv{
		handler:     srv.Handler(),
		store:       store,
		tokens:      tokens,
		owner:       owner,
		ownerToken:  ownerToken,
		admin:       admin,
		adminToken:  adminToken,
		categoryIDs: categoryIDs,
	}
}

func (env *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) createGameBody() map[string]any {
	return map[string]any{
		"name": "friday night",
		"teams": []map[string]any{
			{"name": "Red", "playerCount": 3},
			{"name": "Blue", "playerCount": 3},
		},
		"categoryIds": env.categoryIDs,
	}
}

func (env *testEnv) createGame(t *testing.T) db.Game {
	t.Helper()
	rec := env.request(t, http.MethodPost, "/api/games", env.ownerToken, env.createGameBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create game status = %d, body %s", rec.Code, rec.Body)
	}
	var created db.Game
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created game: %v", err)
	}
	return created
}

func TestRoutesRequireBearerToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/games", "", env.createGameBody())
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token status = %d, want 401", rec.Code)
	}
	rec = env.request(t, http.MethodPost, "/api/games", "not-a-token", env.createGameBody())
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d, want 401", rec.Code)
	}
}

func TestAdminRoutesRejectPlainUsers(t *testing.T) {
	env := newTestEnv(t)

	body := env.createGameBody()
	body["userId"] = env.owner.ID
	rec := env.request(t, http.MethodPost, "/api/games/free/admin", env.ownerToken, body)
	if rec.Code != http.StatusForbidden {
		t.Errorf("free game as user status = %d, want 403", rec.Code)
	}

	path := fmt.Sprintf("/api/games/3/users/%d", env.owner.ID)
	rec = env.request(t, http.MethodPatch, path, env.ownerToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("credit grant as user status = %d, want 403", rec.Code)
	}
}

func TestCreateGameEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	created := env.createGame(t)
	if created.Status != db.GameStatusPlaying {
		t.Errorf("status = %q, want %q", created.Status, db.GameStatusPlaying)
	}
	if got := len(env.store.GameQuestionsByGame(created.ID)); got != 36 {
		t.Errorf("provisioned questions = %d, want 36", got)
	}
	owner, _ := env.store.UserByID(env.owner.ID)
	if owner.OwnedGameCount != 1 {
		t.Errorf("ownedGameCount = %d, want 1 after spending a credit", owner.OwnedGameCount)
	}
}

func TestCreateGameValidation(t *testing.T) {
	env := newTestEnv(t)

	body := env.createGameBody()
	body["categoryIds"] = env.categoryIDs[:5]
	rec := env.request(t, http.MethodPost, "/api/games", env.ownerToken, body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("five categories status = %d, want 400", rec.Code)
	}

	body = env.createGameBody()
	body["teams"] = body["teams"].([]map[string]any)[:1]
	rec = env.request(t, http.MethodPost, "/api/games", env.ownerToken, body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("one team status = %d, want 400", rec.Code)
	}

	rec = env.request(t, http.MethodPost, "/api/games", env.ownerToken, map[string]any{"bogus": true})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field status = %d, want 400", rec.Code)
	}
}

func TestMarkQuestionAnsweredRoute(t *testing.T) {
	env := newTestEnv(t)
	created := env.createGame(t)
	teams, err := env.store.TeamsByGame(created.ID)
	if err != nil {
		t.Fatalf("TeamsByGame: %v", err)
	}
	gq := env.store.GameQuestionsByGame(created.ID)[0]

	path := fmt.Sprintf("/api/games/%d/game-questions/%d?teamId=%d", created.ID, gq.ID, teams[0].ID)
	rec := env.request(t, http.MethodPatch, path, env.ownerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark answered status = %d, body %s", rec.Code, rec.Body)
	}

	question, err := env.store.QuestionByID(gq.QuestionID)
	if err != nil {
		t.Fatalf("QuestionByID: %v", err)
	}
	after, _ := env.store.TeamsByGame(created.ID)
	if after[0].Score != question.Score {
		t.Errorf("team score = %d, want %d", after[0].Score, question.Score)
	}

	// Marking the same assignment again is a client error.
	rec = env.request(t, http.MethodPatch, path, env.ownerToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("double mark status = %d, want 400", rec.Code)
	}
}

func TestFinishAndReplayRoutes(t *testing.T) {
	env := newTestEnv(t)
	created := env.createGame(t)

	rec := env.request(t, http.MethodPatch, fmt.Sprintf("/api/games/%d/finish-game", created.ID), env.ownerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("finish status = %d, body %s", rec.Code, rec.Body)
	}
	current, _ := env.store.GameByID(created.ID)
	if current.Status != db.GameStatusFinished {
		t.Errorf("status = %q, want %q", current.Status, db.GameStatusFinished)
	}

	rec = env.request(t, http.MethodPut, fmt.Sprintf("/api/games/%d/replay-game", created.ID), env.ownerToken, env.createGameBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("replay status = %d, body %s", rec.Code, rec.Body)
	}
	current, _ = env.store.GameByID(created.ID)
	if current.Status != db.GameStatusPlaying || current.RePlayCount != 1 {
		t.Errorf("after replay status = %q rePlayCount = %d, want PLAYING and 1",
			current.Status, current.RePlayCount)
	}
}

func TestLuckWheelRoute(t *testing.T) {
	env := newTestEnv(t)
	created := env.createGame(t)
	teams, _ := env.store.TeamsByGame(created.ID)
	gq := env.store.GameQuestionsByGame(created.ID)[0]

	path := fmt.Sprintf("/api/games/%d/teams/%d/game-questions/%d/luck-wheel",
		created.ID, teams[0].ID, gq.ID)
	rec := env.request(t, http.MethodPatch, path, env.ownerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("spin status = %d, body %s", rec.Code, rec.Body)
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode spin response: %v", err)
	}
	valid := false
	for _, outcome := range game.WheelOutcomes {
		if payload["outcome"] == string(outcome) {
			valid = true
		}
	}
	if !valid {
		t.Errorf("outcome = %q, not on the wheel", payload["outcome"])
	}

	rec = env.request(t, http.MethodPatch, path, env.ownerToken, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("second spin status = %d, want 409", rec.Code)
	}
}

func TestUpdateTeamScoreRouteAllowsNegative(t *testing.T) {
	env := newTestEnv(t)
	created := env.createGame(t)
	teams, err := env.store.TeamsByGame(created.ID)
	if err != nil {
		t.Fatalf("TeamsByGame: %v", err)
	}

	path := fmt.Sprintf("/api/games/%d/teams/%d/score", created.ID, teams[0].ID)
	rec := env.request(t, http.MethodPatch, path, env.ownerToken, map[string]any{"score": -300})
	if rec.Code != http.StatusOK {
		t.Fatalf("negative override status = %d, body %s", rec.Code, rec.Body)
	}
	var team db.Team
	if err := json.Unmarshal(rec.Body.Bytes(), &team); err != nil {
		t.Fatalf("decode team: %v", err)
	}
	if team.Score != -300 {
		t.Errorf("score = %d, want -300", team.Score)
	}
	after, _ := env.store.TeamsByGame(created.ID)
	if after[0].Score != -300 {
		t.Errorf("stored score = %d, want -300", after[0].Score)
	}
}

func TestGrantCreditsRoute(t *testing.T) {
	env := newTestEnv(t)

	path := fmt.Sprintf("/api/games/3/users/%d", env.owner.ID)
	rec := env.request(t, http.MethodPatch, path, env.adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("grant status = %d, body %s", rec.Code, rec.Body)
	}
	owner, _ := env.store.UserByID(env.owner.ID)
	if owner.OwnedGameCount != 5 {
		t.Errorf("ownedGameCount = %d, want 5", owner.OwnedGameCount)
	}
}

func TestListGamesRoute(t *testing.T) {
	env := newTestEnv(t)
	created := env.createGame(t)

	rec := env.request(t, http.MethodGet, "/api/games", env.ownerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, body %s", rec.Code, rec.Body)
	}
	var payload struct {
		Items []db.Game `json:"items"`
		Total int64     `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if payload.Total != 1 || len(payload.Items) != 1 || payload.Items[0].ID != created.ID {
		t.Errorf("list = %d items total %d, want the one created game", len(payload.Items), payload.Total)
	}
}
