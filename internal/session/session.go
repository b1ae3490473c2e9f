// internal/session/session.go
//
// Session state machine: registration and guess submission expressed
// as conditional read/append operations against the store.
// Every operation returns one of a small set of outcomes:
//   - ErrNotFound: a precondition encoded in a storage filter was not
//     met (missing game, caller is the creator, caller not/already
//     registered). The causes are deliberately not distinguished;
//     doing so would cost an extra read per mutation.
//   - ErrConflict: a conditional append matched its document but did
//     not change it, interpreted as a race. Callers may retry.
//   - ErrInternal: the store reported an anomalous outcome.
//
// Play is a read-evaluate-append sequence, not a transaction: the
// evaluation runs against a snapshot that may be stale by the time the
// append lands. The append itself is the only atomic step, so two
// concurrent submissions from one player can both be accepted.

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wordparty/server/internal/game"
	"github.com/wordparty/server/internal/store"
)

var (
	// ErrNotFound covers every unmet game/player precondition.
	ErrNotFound = errors.New("session: game or player not found")
	// ErrConflict signals a detected race between read and append.
	ErrConflict = errors.New("session: conflicting update")
	// ErrInternal signals an anomalous storage outcome.
	ErrInternal = errors.New("session: internal error")
	// ErrInvalidGuess signals a guess whose length does not match the
	// answer.
	ErrInvalidGuess = errors.New("session: guess length does not match answer")
)

// CreateGameResult is returned from Create.
type CreateGameResult struct {
	GameID string `json:"gameId"`
}

// PlayerView is a player entry in the creator's management view.
type PlayerView struct {
	Name      string       `json:"name"`
	StartTime int64        `json:"startTime"`
	Guesses   []game.Guess `json:"guesses"`
}

// ManageGameView is the creator's view of a game.
type ManageGameView struct {
	StartTime int64        `json:"startTime"`
	Players   []PlayerView `json:"players"`
	Answer    string       `json:"answer"`
}

// GameStateView is a player's view of their own progress.
type GameStateView struct {
	GameOver bool                `json:"gameOver"`
	Guesses  [][]game.LetterMark `json:"guesses"`
}

// PlayResult is returned from a successful guess submission.
type PlayResult struct {
	GameOver bool              `json:"gameOver"`
	Guess    []game.LetterMark `json:"guess"`
}

// Service orchestrates game operations against a store. It holds no
// mutable state of its own; all shared state lives in the store.
type Service struct {
	store store.Store
}

// New creates a Service over st.
func New(st store.Store) *Service {
	return &Service{store: st}
}

// Create inserts a new game owned by creator with the given secret
// answer, kept exactly as provided.
func (s *Service) Create(ctx context.Context, creator primitive.ObjectID, answer string) (CreateGameResult, error) {
	g := game.Game{
		ID:        primitive.NewObjectID(),
		StartTime: time.Now().UnixMilli(),
		Creator:   creator,
		Players:   []game.Player{},
		Answer:    answer,
	}
	if err := s.store.InsertGame(ctx, &g); err != nil {
		return CreateGameResult{}, fmt.Errorf("creating game: %w", err)
	}
	return CreateGameResult{GameID: g.ID.Hex()}, nil
}

// Manage returns the creator-only view of a game: players, their
// guesses, and the answer.
func (s *Service) Manage(ctx context.Context, gameID, caller primitive.ObjectID) (ManageGameView, error) {
	g, err := s.store.FindGameByCreator(ctx, gameID, caller)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ManageGameView{}, ErrNotFound
		}
		return ManageGameView{}, fmt.Errorf("fetching game %v: %w", gameID, err)
	}
	players := make([]PlayerView, len(g.Players))
	for i, p := range g.Players {
		players[i] = PlayerView{Name: p.Name, StartTime: p.StartTime, Guesses: p.Guesses}
	}
	return ManageGameView{StartTime: g.StartTime, Players: players, Answer: g.Answer}, nil
}

// Register adds the caller as a player of the game. The eligibility
// filter (game exists, caller is not the creator, caller not already
// registered) is re-checked atomically at append time, so at most one
// of two concurrent registrations from the same account succeeds.
func (s *Service) Register(ctx context.Context, gameID, caller primitive.ObjectID) error {
	u, err := s.store.FindUserByID(ctx, caller)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("fetching user %v: %w", caller, err)
	}
	p := game.Player{
		ID:        u.ID,
		Name:      u.Name,
		StartTime: time.Now().UnixMilli(),
		Guesses:   []game.Guess{},
	}
	res, err := s.store.AppendPlayerIfEligible(ctx, gameID, p)
	if err != nil {
		return fmt.Errorf("registering player: %w", err)
	}
	switch {
	case res.Applied:
		return nil
	case !res.Matched:
		return ErrNotFound
	default:
		return ErrInternal
	}
}

// Play scores a guess against the game's answer and appends the scored
// guess to the caller's history. The returned result reports whether
// the caller's game is over after this guess.
func (s *Service) Play(ctx context.Context, gameID, caller primitive.ObjectID, guess string) (PlayResult, error) {
	g, err := s.store.FindGameByPlayer(ctx, gameID, caller)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return PlayResult{}, ErrNotFound
		}
		return PlayResult{}, fmt.Errorf("fetching game %v: %w", gameID, err)
	}
	if len([]rune(guess)) != len([]rune(g.Answer)) {
		return PlayResult{}, ErrInvalidGuess
	}

	marks, complete := game.Evaluate(game.NewIndex(g.Answer), guess)
	gu := game.Guess{Marks: marks, SubmitTime: time.Now().UnixMilli()}

	res, err := s.store.AppendGuess(ctx, gameID, caller, gu)
	if err != nil {
		return PlayResult{}, fmt.Errorf("appending guess: %w", err)
	}
	switch {
	case res.Applied:
		over := complete
		if p, ok := g.PlayerByID(caller); ok {
			over = complete || len(p.Guesses)+1 >= game.MaxGuesses
		}
		return PlayResult{GameOver: over, Guess: marks}, nil
	case res.Matched:
		// The document was selected but did not change state between
		// the read and the append.
		return PlayResult{}, ErrConflict
	default:
		// The read just succeeded, so a non-matching filter here is
		// anomalous.
		return PlayResult{}, ErrInternal
	}
}

// State returns the caller's own progress in a game: whether it is
// over and the scored guesses so far.
func (s *Service) State(ctx context.Context, gameID, caller primitive.ObjectID) (GameStateView, error) {
	g, err := s.store.FindGameByPlayer(ctx, gameID, caller)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return GameStateView{}, ErrNotFound
		}
		return GameStateView{}, fmt.Errorf("fetching game %v: %w", gameID, err)
	}
	p, ok := g.PlayerByID(caller)
	if !ok {
		return GameStateView{}, ErrInternal
	}
	guesses := make([][]game.LetterMark, len(p.Guesses))
	for i, gu := range p.Guesses {
		guesses[i] = gu.Marks
	}
	return GameStateView{GameOver: game.GameOver(p.Guesses), Guesses: guesses}, nil
}
