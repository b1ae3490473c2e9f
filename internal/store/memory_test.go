package store

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wordparty/server/internal/game"
)

func newTestGame(creator primitive.ObjectID) *game.Game {
	return &game.Game{
		ID:      primitive.NewObjectID(),
		Creator: creator,
		Players: []game.Player{},
		Answer:  "crate",
	}
}

func TestMemoryFindGame(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	creator := primitive.NewObjectID()
	player := primitive.NewObjectID()
	g := newTestGame(creator)
	if err := m.InsertGame(ctx, g); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
	if _, err := m.AppendPlayerIfEligible(ctx, g.ID, game.Player{ID: player, Name: "p1"}); err != nil {
		t.Fatalf("AppendPlayerIfEligible: %v", err)
	}

	tests := []struct {
		name    string
		find    func() (*game.Game, error)
		wantErr error
	}{
		{"by creator", func() (*game.Game, error) { return m.FindGameByCreator(ctx, g.ID, creator) }, nil},
		{"by creator with wrong id", func() (*game.Game, error) { return m.FindGameByCreator(ctx, g.ID, player) }, ErrNotFound},
		{"by player", func() (*game.Game, error) { return m.FindGameByPlayer(ctx, g.ID, player) }, nil},
		{"by player with creator id", func() (*game.Game, error) { return m.FindGameByPlayer(ctx, g.ID, creator) }, ErrNotFound},
		{"missing game", func() (*game.Game, error) { return m.FindGameByCreator(ctx, primitive.NewObjectID(), creator) }, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.find()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.ID != g.ID {
				t.Errorf("got game %v, want %v", got.ID, g.ID)
			}
		})
	}
}

func TestMemoryAppendPlayerIfEligible(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	creator := primitive.NewObjectID()
	player := primitive.NewObjectID()
	g := newTestGame(creator)
	if err := m.InsertGame(ctx, g); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}

	// The creator is never eligible to join their own game.
	res, err := m.AppendPlayerIfEligible(ctx, g.ID, game.Player{ID: creator, Name: "creator"})
	if err != nil {
		t.Fatalf("AppendPlayerIfEligible: %v", err)
	}
	if res.Matched || res.Applied {
		t.Errorf("creator registration: got %+v, want no match", res)
	}

	// First registration applies.
	res, err = m.AppendPlayerIfEligible(ctx, g.ID, game.Player{ID: player, Name: "p1"})
	if err != nil {
		t.Fatalf("AppendPlayerIfEligible: %v", err)
	}
	if !res.Matched || !res.Applied {
		t.Errorf("first registration: got %+v, want matched and applied", res)
	}

	// Second registration from the same id does not.
	res, err = m.AppendPlayerIfEligible(ctx, g.ID, game.Player{ID: player, Name: "p1"})
	if err != nil {
		t.Fatalf("AppendPlayerIfEligible: %v", err)
	}
	if res.Matched || res.Applied {
		t.Errorf("duplicate registration: got %+v, want no match", res)
	}

	// Missing game does not match.
	res, err = m.AppendPlayerIfEligible(ctx, primitive.NewObjectID(), game.Player{ID: player})
	if err != nil {
		t.Fatalf("AppendPlayerIfEligible: %v", err)
	}
	if res.Matched {
		t.Errorf("missing game: got %+v, want no match", res)
	}

	got, err := m.FindGameByPlayer(ctx, g.ID, player)
	if err != nil {
		t.Fatalf("FindGameByPlayer: %v", err)
	}
	if len(got.Players) != 1 {
		t.Errorf("got %d players, want 1", len(got.Players))
	}
}

func TestMemoryAppendGuess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	creator := primitive.NewObjectID()
	player := primitive.NewObjectID()
	g := newTestGame(creator)
	if err := m.InsertGame(ctx, g); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
	if _, err := m.AppendPlayerIfEligible(ctx, g.ID, game.Player{ID: player, Name: "p1"}); err != nil {
		t.Fatalf("AppendPlayerIfEligible: %v", err)
	}

	gu := game.Guess{Marks: []game.LetterMark{{Letter: "c", Result: game.Correct}}}
	res, err := m.AppendGuess(ctx, g.ID, player, gu)
	if err != nil {
		t.Fatalf("AppendGuess: %v", err)
	}
	if !res.Matched || !res.Applied {
		t.Errorf("registered player: got %+v, want matched and applied", res)
	}

	// Unregistered caller does not match.
	res, err = m.AppendGuess(ctx, g.ID, primitive.NewObjectID(), gu)
	if err != nil {
		t.Fatalf("AppendGuess: %v", err)
	}
	if res.Matched {
		t.Errorf("unregistered player: got %+v, want no match", res)
	}

	got, err := m.FindGameByPlayer(ctx, g.ID, player)
	if err != nil {
		t.Fatalf("FindGameByPlayer: %v", err)
	}
	if len(got.Players[0].Guesses) != 1 {
		t.Errorf("got %d guesses, want 1", len(got.Players[0].Guesses))
	}
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	u := User{ID: primitive.NewObjectID(), Name: "selene", Password: "hash"}
	if err := m.InsertUser(ctx, u); err != nil {
		t.Fatalf("InsertUser: %v", err)
	}
	if err := m.InsertUser(ctx, User{ID: primitive.NewObjectID(), Name: "selene"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate name: err = %v, want ErrDuplicate", err)
	}
	byID, err := m.FindUserByID(ctx, u.ID)
	if err != nil || byID.Name != u.Name {
		t.Errorf("FindUserByID = %+v, %v", byID, err)
	}
	byName, err := m.FindUserByName(ctx, "selene")
	if err != nil || byName.ID != u.ID {
		t.Errorf("FindUserByName = %+v, %v", byName, err)
	}
	if _, err := m.FindUserByID(ctx, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	creator := primitive.NewObjectID()
	player := primitive.NewObjectID()
	g := newTestGame(creator)
	if err := m.InsertGame(ctx, g); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
	if _, err := m.AppendPlayerIfEligible(ctx, g.ID, game.Player{ID: player, Name: "p1"}); err != nil {
		t.Fatalf("AppendPlayerIfEligible: %v", err)
	}
	got, err := m.FindGameByCreator(ctx, g.ID, creator)
	if err != nil {
		t.Fatalf("FindGameByCreator: %v", err)
	}
	got.Players[0].Name = "mutated"
	again, err := m.FindGameByCreator(ctx, g.ID, creator)
	if err != nil {
		t.Fatalf("FindGameByCreator: %v", err)
	}
	if again.Players[0].Name != "p1" {
		t.Error("stored game was mutated through a returned copy")
	}
}
