// internal/store/memory.go
//
// In-memory implementation of Store. Used by tests and when the server
// runs without a MongoDB deployment (local development).
//
// Characteristics:
//   - Games and users keyed by ObjectID in maps.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Conditional appends evaluate their precondition and mutate under
//     one lock acquisition, mirroring the atomicity of a single
//     conditional document update.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"

	"github.com/wordparty/server/internal/game"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is a map-backed Store.
type Memory struct {
	mu    sync.RWMutex
	games map[primitive.ObjectID]*game.Game
	users map[primitive.ObjectID]*User
}

// NewMemory constructs an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{
		games: make(map[primitive.ObjectID]*game.Game),
		users: make(map[primitive.ObjectID]*User),
	}
}

func (m *Memory) InsertGame(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := copyGame(g)
	m.games[g.ID] = &cp
	return nil
}

func (m *Memory) FindGameByCreator(ctx context.Context, gameID, creatorID primitive.ObjectID) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[gameID]
	if !ok || g.Creator != creatorID {
		return nil, ErrNotFound
	}
	cp := copyGame(g)
	return &cp, nil
}

func (m *Memory) FindGameByPlayer(ctx context.Context, gameID, playerID primitive.ObjectID) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	if _, registered := g.PlayerByID(playerID); !registered {
		return nil, ErrNotFound
	}
	cp := copyGame(g)
	return &cp, nil
}

func (m *Memory) AppendPlayerIfEligible(ctx context.Context, gameID primitive.ObjectID, p game.Player) (UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[gameID]
	if !ok || g.Creator == p.ID {
		return UpdateResult{}, nil
	}
	if _, registered := g.PlayerByID(p.ID); registered {
		return UpdateResult{}, nil
	}
	g.Players = append(g.Players, p)
	return UpdateResult{Matched: true, Applied: true}, nil
}

func (m *Memory) AppendGuess(ctx context.Context, gameID, playerID primitive.ObjectID, gu game.Guess) (UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[gameID]
	if !ok {
		return UpdateResult{}, nil
	}
	p, registered := g.PlayerByID(playerID)
	if !registered {
		return UpdateResult{}, nil
	}
	p.Guesses = append(p.Guesses, gu)
	return UpdateResult{Matched: true, Applied: true}, nil
}

func (m *Memory) InsertUser(ctx context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.users {
		if other.Name == u.Name {
			return ErrDuplicate
		}
	}
	m.users[u.ID] = &u
	return nil
}

func (m *Memory) FindUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) FindUserByName(ctx context.Context, name string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Name == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// copyGame deep-copies a game so callers never share slices with the
// stored document.
func copyGame(g *game.Game) game.Game {
	cp := *g
	cp.Players = make([]game.Player, len(g.Players))
	for i, p := range g.Players {
		pc := p
		pc.Guesses = append([]game.Guess(nil), p.Guesses...)
		cp.Players[i] = pc
	}
	return cp
}
