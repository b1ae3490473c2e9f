// internal/game/types.go
//
// Core type definitions for the multiplayer word-guessing engine.
// Defines:
//   - Correctness: per-letter verdict for a scored guess.
//   - LetterMark:  a guessed letter paired with its verdict.
//   - Guess, Player, Game: the append-only game document model.

package game

import "go.mongodb.org/mongo-driver/bson/primitive"

// Correctness is the evaluation result for a single letter in a guess.
// Possible values:
//   - Correct:           right letter in the right position.
//   - IncorrectPosition: letter occurs somewhere else in the answer.
//   - Incorrect:         letter does not occur in the answer at all.
type Correctness string

const (
	Correct           Correctness = "Correct"
	IncorrectPosition Correctness = "IncorrectPosition"
	Incorrect         Correctness = "Incorrect"
)

// LetterMark is one position of a scored guess.
type LetterMark struct {
	Letter string      `bson:"letter" json:"letter"`
	Result Correctness `bson:"result" json:"result"`
}

// Guess is a scored guess as stored on a player. Its marks always have
// the same length as the game's answer.
type Guess struct {
	Marks      []LetterMark `bson:"guess" json:"guess"`
	SubmitTime int64        `bson:"submit_time" json:"submitTime"` // unix millis
}

// Player is a registered participant in a game. A given account id
// appears at most once in a game's player list, and the creator is
// never a player of their own game.
type Player struct {
	ID        primitive.ObjectID `bson:"_id" json:"-"`
	Name      string             `bson:"name" json:"name"`
	StartTime int64              `bson:"start_time" json:"startTime"` // unix millis
	Guesses   []Guess            `bson:"guesses" json:"guesses"`
}

// Game is the root document. It is created once and is otherwise
// append-only: players and guesses are added, never removed or mutated.
type Game struct {
	ID        primitive.ObjectID `bson:"_id" json:"-"`
	StartTime int64              `bson:"start_time" json:"startTime"` // unix millis
	Creator   primitive.ObjectID `bson:"creator" json:"-"`
	Players   []Player           `bson:"players" json:"players"`
	Answer    string             `bson:"answer" json:"answer"`
}

// PlayerByID returns the player entry for an account id, if registered.
func (g *Game) PlayerByID(id primitive.ObjectID) (*Player, bool) {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i], true
		}
	}
	return nil, false
}
