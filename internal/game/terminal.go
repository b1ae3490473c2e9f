// internal/game/terminal.go
//
// Terminal-state resolver: derives whether a player's game has ended
// from their guess history. This is a read-side derivation for status
// reporting only; it does not block further submissions.

package game

// MaxGuesses is the number of attempts after which a player's game is
// reported as over.
const MaxGuesses = 6

// GameOver reports whether a player is done: they have used all their
// attempts, or their latest guess solved the word.
func GameOver(guesses []Guess) bool {
	if len(guesses) >= MaxGuesses {
		return true
	}
	if len(guesses) == 0 {
		return false
	}
	return AllCorrect(guesses[len(guesses)-1].Marks)
}
