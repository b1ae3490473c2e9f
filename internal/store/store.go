// internal/store/store.go
//
// Persistence interface for games and user accounts.
// Every mutation of shared game state is expressed as a single
// conditional document update whose filter encodes all preconditions;
// the UpdateResult reports whether the filter matched and whether the
// write applied. There are no multi-document transactions.

package store

import (
	"context"
	"errors"

	"github.com/wordparty/server/internal/game"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned by lookups when no document matches.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicate is returned by inserts that violate a uniqueness
// constraint, such as signing up an already-taken username.
var ErrDuplicate = errors.New("store: duplicate")

// UpdateResult reports the outcome of a conditional update.
// Matched means the filter selected a document; Applied means the
// document actually changed.
type UpdateResult struct {
	Matched bool
	Applied bool
}

// User is an account record. Player identity in a game equals the
// account id.
type User struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"username"`
	Password string             `bson:"password" json:"-"` // bcrypt hash
}

// Store is the storage collaborator consumed by the session layer.
// Implementations may be backed by MongoDB (package default) or memory
// (tests, local development without a database).
type Store interface {
	// InsertGame stores a newly created game.
	InsertGame(ctx context.Context, g *game.Game) error

	// FindGameByCreator fetches a game only if creatorID created it.
	// Returns ErrNotFound otherwise.
	FindGameByCreator(ctx context.Context, gameID, creatorID primitive.ObjectID) (*game.Game, error)

	// FindGameByPlayer fetches a game only if playerID is registered
	// in it. Returns ErrNotFound otherwise.
	FindGameByPlayer(ctx context.Context, gameID, playerID primitive.ObjectID) (*game.Game, error)

	// AppendPlayerIfEligible appends p to the game's player list iff
	// the game exists, its creator is not p.ID, and no player with
	// p.ID is registered yet. The precondition is re-checked
	// atomically at write time, so concurrent registrations from the
	// same account cannot both succeed.
	AppendPlayerIfEligible(ctx context.Context, gameID primitive.ObjectID, p game.Player) (UpdateResult, error)

	// AppendGuess appends a scored guess to playerID's guess list iff
	// the game exists and playerID is registered in it.
	AppendGuess(ctx context.Context, gameID, playerID primitive.ObjectID, gu game.Guess) (UpdateResult, error)

	// InsertUser stores a new account. Returns ErrDuplicate if the
	// name is taken.
	InsertUser(ctx context.Context, u User) error

	// FindUserByID fetches an account, or ErrNotFound.
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)

	// FindUserByName fetches an account by username, or ErrNotFound.
	FindUserByName(ctx context.Context, name string) (*User, error)
}
