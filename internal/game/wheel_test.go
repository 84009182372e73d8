package game_test

import (
	"slices"
	"sync"
	"testing"

	"github.com/MeMoElprince/QA-Game/internal/apperr"
	"github.com/MeMoElprince/QA-Game/internal/db"
	"github.com/MeMoElprince/QA-Game/internal/game"
	"github.com/MeMoElprince/QA-Game/internal/store/memstore"
)

// fixedSource pins every draw to one index so a test can force a wheel
// segment.
type fixedSource struct {
	n int
}

func (f fixedSource) IntN(n int) int { return f.n % n }

func wheelIndex(t *testing.T, outcome game.WheelOutcome) int {
	t.Helper()
	idx := slices.Index(game.WheelOutcomes, outcome)
	if idx < 0 {
		t.Fatalf("outcome %s not on the wheel", outcome)
	}
	return idx
}

// wheelFixture provisions a game, then returns a second engine over the
// same store whose draws always land on outcome.
func wheelFixture(t *testing.T, outcome game.WheelOutcome) (*memstore.Store, *game.Service, db.User, *db.Game, []db.Team) {
	t.Helper()
	store, svc, user, categoryIDs := newFixture(t, 1, 2)
	created := mustCreate(t, svc, user.ID, categoryIDs)
	teams, err := store.TeamsByGame(created.ID)
	if err != nil {
		t.Fatalf("TeamsByGame: %v", err)
	}
	rigged := game.New(store, fixedSource{n: wheelIndex(t, outcome)})
	return store, rigged, user, created, teams
}

func TestSpinLuckWheelLuckOver(t *testing.T) {
	store, svc, user, created, teams := wheelFixture(t, game.WheelLuckOver)
	gq := store.GameQuestionsByGame(created.ID)[0]

	outcome, err := svc.SpinLuckWheel(user.ID, created.ID, teams[0].ID, gq.ID)
	if err != nil {
		t.Fatalf("SpinLuckWheel: %v", err)
	}
	if outcome != game.WheelLuckOver {
		t.Fatalf("outcome = %s, want %s", outcome, game.WheelLuckOver)
	}

	after, _ := store.TeamsByGame(created.ID)
	if !after[0].UsedLuckWheel {
		t.Error("usedLuckWheel not claimed")
	}
	if after[0].Score != 0 || after[1].Score != 0 {
		t.Errorf("scores = (%d, %d), want untouched", after[0].Score, after[1].Score)
	}
}

func TestSpinLuckWheelGift(t *testing.T) {
	store, svc, user, created, teams := wheelFixture(t, game.WheelGift)
	gq := pickAssignment(t, store, created.ID, 400)

	outcome, err := svc.SpinLuckWheel(user.ID, created.ID, teams[0].ID, gq.ID)
	if err != nil {
		t.Fatalf("SpinLuckWheel: %v", err)
	}
	if outcome != game.WheelGift {
		t.Fatalf("outcome = %s, want %s", outcome, game.WheelGift)
	}

	after, _ := store.TeamsByGame(created.ID)
	if after[0].Score != 400 {
		t.Errorf("team score = %d, want the gifted 400", after[0].Score)
	}
	for _, row := range store.GameQuestionsByGame(created.ID) {
		if row.ID == gq.ID && !row.Answered {
			t.Error("gifted question not burned")
		}
	}
}

func TestSpinLuckWheelGiftOnBurnedQuestion(t *testing.T) {
	store, svc, user, created, teams := wheelFixture(t, game.WheelGift)
	gq := pickAssignment(t, store, created.ID, 200)
	if _, err := svc.MarkQuestionAnswered(user.ID, created.ID, gq.ID, nil); err != nil {
		t.Fatalf("MarkQuestionAnswered: %v", err)
	}

	// The gift still pays out; the already-answered claim is a no-op.
	if _, err := svc.SpinLuckWheel(user.ID, created.ID, teams[0].ID, gq.ID); err != nil {
		t.Fatalf("SpinLuckWheel: %v", err)
	}
	after, _ := store.TeamsByGame(created.ID)
	if after[0].Score != 200 {
		t.Errorf("team score = %d, want 200", after[0].Score)
	}
}

func TestSpinLuckWheelDecreaseOpponent(t *testing.T) {
	store, svc, user, created, teams := wheelFixture(t, game.WheelDecreaseOpponent)
	gq := store.GameQuestionsByGame(created.ID)[0]

	outcome, err := svc.SpinLuckWheel(user.ID, created.ID, teams[0].ID, gq.ID)
	if err != nil {
		t.Fatalf("SpinLuckWheel: %v", err)
	}
	if outcome != game.WheelDecreaseOpponent {
		t.Fatalf("outcome = %s, want %s", outcome, game.WheelDecreaseOpponent)
	}

	after, _ := store.TeamsByGame(created.ID)
	if after[1].Score != -300 {
		t.Errorf("opponent score = %d, want -300 (no floor)", after[1].Score)
	}
	if after[0].Score != 0 {
		t.Errorf("spinner score = %d, want 0", after[0].Score)
	}
}

func TestSpinLuckWheelIsOneShot(t *testing.T) {
	store, svc, user, created, teams := wheelFixture(t, game.WheelLuckOver)
	gq := store.GameQuestionsByGame(created.ID)[0]

	if _, err := svc.SpinLuckWheel(user.ID, created.ID, teams[0].ID, gq.ID); err != nil {
		t.Fatalf("first spin: %v", err)
	}
	_, err := svc.SpinLuckWheel(user.ID, created.ID, teams[0].ID, gq.ID)
	if !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("second spin err = %v, want Conflict", err)
	}

	// The other team's wheel is independent.
	if _, err := svc.SpinLuckWheel(user.ID, created.ID, teams[1].ID, gq.ID); err != nil {
		t.Errorf("opponent spin err = %v, want nil", err)
	}
}

func TestSpinLuckWheelConcurrentSpins(t *testing.T) {
	store, svc, user, created, teams := wheelFixture(t, game.WheelLuckOver)
	gq := store.GameQuestionsByGame(created.ID)[0]

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SpinLuckWheel(user.ID, created.ID, teams[0].ID, gq.ID)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case apperr.Is(err, apperr.Conflict):
			lost++
		default:
			t.Fatalf("unexpected err: %v", err)
		}
	}
	if won != 1 || lost != 1 {
		t.Errorf("won = %d lost = %d, want exactly one of each", won, lost)
	}
}

func TestSpinLuckWheelUnknownTeam(t *testing.T) {
	store, svc, user, created, _ := wheelFixture(t, game.WheelLuckOver)
	gq := store.GameQuestionsByGame(created.ID)[0]

	_, err := svc.SpinLuckWheel(user.ID, created.ID, 9999, gq.ID)
	if !apperr.Is(err, apperr.InvalidState) {
		t.Fatalf("err = %v, want InvalidState", err)
	}
}
