package game_test

import (
	"fmt"
	"testing"

	"github.com/MeMoElprince/QA-Game/internal/apperr"
	"github.com/MeMoElprince/QA-Game/internal/db"
	"github.com/MeMoElprince/QA-Game/internal/game"
	"github.com/MeMoElprince/QA-Game/internal/store/memstore"
)

// newFixture seeds a store with one user holding credits game credits and
// six categories carrying perTier questions at every point tier.
func newFixture(t *testing.T, credits, perTier int) (*memstore.Store, *game.Service, db.User, []uint) {
	t.Helper()
	store := memstore.New()
	user := store.AddUser(db.User{
		Name:           "Owner",
		Email:          "owner@example.com",
		OwnedGameCount: credits,
	})
	var categoryIDs []uint
	for i := 1; i <= 6; i++ {
		category := store.AddCategory(db.Category{Name: fmt.Sprintf("Category %d", i)})
		categoryIDs = append(categoryIDs, category.ID)
		for _, tier := range db.QuestionTiers {
			for j := 1; j <= perTier; j++ {
				store.AddQuestion(db.Question{
					CategoryID: category.ID,
					Score:      tier,
					Text:       fmt.Sprintf("category %d question %d for %d", i, j, tier),
					Answer:     "answer",
				})
			}
		}
	}
	svc := game.New(store, game.NewSeededRNG(1))
	return store, svc, user, categoryIDs
}

func twoTeams() []game.TeamSpec {
	return []game.TeamSpec{
		{Name: "Red", PlayerCount: 3},
		{Name: "Blue", PlayerCount: 3},
	}
}

func mustCreate(t *testing.T, svc *game.Service, userID uint, categoryIDs []uint) *db.Game {
	t.Helper()
	created, err := svc.Create(userID, game.CreateGameInput{
		Name:        "friday night",
		Teams:       twoTeams(),
		CategoryIDs: categoryIDs,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

func TestCreateGameProvisionsFullSetup(t *testing.T) {
	store, svc, user, categoryIDs := newFixture(t, 1, 2)

	created := mustCreate(t, svc, user.ID, categoryIDs)

	if created.Status != db.GameStatusPlaying {
		t.Errorf("status = %q, want %q", created.Status, db.GameStatusPlaying)
	}
	if created.PlayerTurn != 0 {
		t.Errorf("playerTurn = %d, want 0", created.PlayerTurn)
	}

	games, teams, gameCategories, gameQuestions := store.Counts()
	if games != 1 || teams != 2 || gameCategories != 6 || gameQuestions != 36 {
		t.Errorf("counts = (%d games, %d teams, %d categories, %d questions), want (1, 2, 6, 36)",
			games, teams, gameCategories, gameQuestions)
	}

	owner, err := store.UserByID(user.ID)
	if err != nil {
		t.Fatalf("UserByID: %v", err)
	}
	if owner.OwnedGameCount != 0 {
		t.Errorf("ownedGameCount = %d, want 0 after spending the credit", owner.OwnedGameCount)
	}

	// Every tier of every chosen category is represented exactly twice.
	perTier := map[uint]map[int]int{}
	for _, gq := range store.GameQuestionsByGame(created.ID) {
		question, err := store.QuestionByID(gq.QuestionID)
		if err != nil {
			t.Fatalf("QuestionByID: %v", err)
		}
		if perTier[question.CategoryID] == nil {
			perTier[question.CategoryID] = map[int]int{}
		}
		perTier[question.CategoryID][question.Score]++
		if gq.Answered {
			t.Errorf("question %d provisioned as answered", gq.ID)
		}
	}
	for _, categoryID := range categoryIDs {
		for _, tier := range db.QuestionTiers {
			if got := perTier[categoryID][tier]; got != 2 {
				t.Errorf("category %d tier %d has %d questions, want 2", categoryID, tier, got)
			}
		}
	}
}

func TestCreateGameWithoutCredits(t *testing.T) {
	store, svc, user, categoryIDs := newFixture(t, 0, 2)

	_, err := svc.Create(user.ID, game.CreateGameInput{
		Name:        "broke",
		Teams:       twoTeams(),
		CategoryIDs: categoryIDs,
	})
	if !apperr.Is(err, apperr.InsufficientResource) {
		t.Fatalf("err = %v, want InsufficientResource", err)
	}
	if games, _, _, _ := store.Counts(); games != 0 {
		t.Errorf("games = %d, want 0", games)
	}
}

func TestCreateGameUnknownCategoryLeavesNoOrphans(t *testing.T) {
	store, svc, user, categoryIDs := newFixture(t, 1, 2)
	categoryIDs[5] = 9999

	_, err := svc.Create(user.ID, game.CreateGameInput{
		Name:        "bad category",
		Teams:       twoTeams(),
		CategoryIDs: categoryIDs,
	})
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
	games, teams, gameCategories, gameQuestions := store.Counts()
	if games != 0 || teams != 0 || gameCategories != 0 || gameQuestions != 0 {
		t.Errorf("orphan rows after failed create: (%d, %d, %d, %d)",
			games, teams, gameCategories, gameQuestions)
	}
	owner, _ := store.UserByID(user.ID)
	if owner.OwnedGameCount != 1 {
		t.Errorf("ownedGameCount = %d, want credit restored to 1", owner.OwnedGameCount)
	}
}

func TestCreateGameInsufficientPoolLeavesNoOrphans(t *testing.T) {
	store, svc, user, categoryIDs := newFixture(t, 1, 2)
	// A seventh category with a single 200-point question only.
	thin := store.AddCategory(db.Category{Name: "Thin"})
	store.AddQuestion(db.Question{CategoryID: thin.ID, Score: 200, Text: "only one", Answer: "a"})

	ids := append([]uint{thin.ID}, categoryIDs[:5]...)
	_, err := svc.Create(user.ID, game.CreateGameInput{
		Name:        "thin pool",
		Teams:       twoTeams(),
		CategoryIDs: ids,
	})
	if !apperr.Is(err, apperr.InsufficientResource) {
		t.Fatalf("err = %v, want InsufficientResource", err)
	}
	games, teams, gameCategories, gameQuestions := store.Counts()
	if games != 0 || teams != 0 || gameCategories != 0 || gameQuestions != 0 {
		t.Errorf("orphan rows after failed create: (%d, %d, %d, %d)",
			games, teams, gameCategories, gameQuestions)
	}
}

func TestCreateGameRequiresTwoTeams(t *testing.T) {
	_, svc, user, categoryIDs := newFixture(t, 1, 2)

	_, err := svc.Create(user.ID, game.CreateGameInput{
		Name:        "solo",
		Teams:       []game.TeamSpec{{Name: "Lonely"}},
		CategoryIDs: categoryIDs,
	})
	if !apperr.Is(err, apperr.Invalid) {
		t.Fatalf("err = %v, want Invalid", err)
	}
}

func TestCreateFreeGameSkipsCreditsAndExcludesServed(t *testing.T) {
	store, svc, user, categoryIDs := newFixture(t, 1, 4)

	paid := mustCreate(t, svc, user.ID, categoryIDs)
	served := map[uint]bool{}
	for _, gq := range store.GameQuestionsByGame(paid.ID) {
		served[gq.QuestionID] = true
	}

	free, err := svc.CreateFree(user.ID, game.CreateGameInput{
		Name:        "granted",
		Teams:       twoTeams(),
		CategoryIDs: categoryIDs,
	})
	if err != nil {
		t.Fatalf("CreateFree: %v", err)
	}

	owner, _ := store.UserByID(user.ID)
	if owner.OwnedGameCount != 0 {
		t.Errorf("ownedGameCount = %d, want 0 (free game spends nothing)", owner.OwnedGameCount)
	}
	for _, gq := range store.GameQuestionsByGame(free.ID) {
		if served[gq.QuestionID] {
			t.Errorf("question %d reused despite exclusion", gq.QuestionID)
		}
	}
}

func TestCreateFreeGameUnknownUser(t *testing.T) {
	_, svc, _, categoryIDs := newFixture(t, 1, 2)

	_, err := svc.CreateFree(9999, game.CreateGameInput{
		Name:        "ghost",
		Teams:       twoTeams(),
		CategoryIDs: categoryIDs,
	})
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestReplayRebuildsSetup(t *testing.T) {
	store, svc, user, categoryIDs := newFixture(t, 1, 4)
	created := mustCreate(t, svc, user.ID, categoryIDs)

	// Burn a question and advance the turn so the reset is observable.
	gq := store.GameQuestionsByGame(created.ID)[0]
	if _, err := svc.MarkQuestionAnswered(user.ID, created.ID, gq.ID, nil); err != nil {
		t.Fatalf("MarkQuestionAnswered: %v", err)
	}

	replayed, err := svc.Replay(user.ID, created.ID, game.CreateGameInput{
		Name:        "round two",
		Teams:       twoTeams(),
		CategoryIDs: categoryIDs,
	})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	if replayed.RePlayCount != 1 {
		t.Errorf("rePlayCount = %d, want 1", replayed.RePlayCount)
	}
	if replayed.PlayerTurn != 0 {
		t.Errorf("playerTurn = %d, want 0 after replay", replayed.PlayerTurn)
	}
	if replayed.Status != db.GameStatusPlaying {
		t.Errorf("status = %q, want %q", replayed.Status, db.GameStatusPlaying)
	}
	if replayed.Name != "round two" {
		t.Errorf("name = %q, want %q", replayed.Name, "round two")
	}

	games, teams, gameCategories, gameQuestions := store.Counts()
	if games != 1 || teams != 2 || gameCategories != 6 || gameQuestions != 36 {
		t.Errorf("counts after replay = (%d, %d, %d, %d), want (1, 2, 6, 36)",
			games, teams, gameCategories, gameQuestions)
	}
	for _, gq := range store.GameQuestionsByGame(created.ID) {
		if gq.Answered {
			t.Errorf("question %d still answered after replay", gq.ID)
		}
	}
}

func TestReplayByNonOwnerChangesNothing(t *testing.T) {
	store, svc, user, categoryIDs := newFixture(t, 1, 2)
	created := mustCreate(t, svc, user.ID, categoryIDs)
	stranger := store.AddUser(db.User{Name: "Stranger", Email: "other@example.com"})

	_, err := svc.Replay(stranger.ID, created.ID, game.CreateGameInput{
		Name:        "hijack",
		Teams:       twoTeams(),
		CategoryIDs: categoryIDs,
	})
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
	current, err := store.GameByID(created.ID)
	if err != nil {
		t.Fatalf("GameByID: %v", err)
	}
	if current.Name != created.Name || current.RePlayCount != 0 {
		t.Errorf("game mutated by non-owner replay: %+v", current)
	}
}

func TestGrantCredits(t *testing.T) {
	store, svc, user, _ := newFixture(t, 0, 2)

	updated, err := svc.GrantCredits(user.ID, 3)
	if err != nil {
		t.Fatalf("GrantCredits: %v", err)
	}
	if updated.OwnedGameCount != 3 {
		t.Errorf("ownedGameCount = %d, want 3", updated.OwnedGameCount)
	}
	if _, err := svc.GrantCredits(user.ID, 0); !apperr.Is(err, apperr.Invalid) {
		t.Errorf("zero grant err = %v, want Invalid", err)
	}
	if _, err := svc.GrantCredits(9999, 1); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("unknown user err = %v, want NotFound", err)
	}
	if after, _ := store.UserByID(user.ID); after.OwnedGameCount != 3 {
		t.Errorf("ownedGameCount = %d, want 3 untouched by failed grants", after.OwnedGameCount)
	}
}
