// internal/game/evaluate.go
//
// Guess evaluator. Scores a guess against the answer's letter index,
// producing a per-letter verdict and a completion flag.
//
// Duplicate letters are deliberately not budgeted: a letter that occurs
// anywhere in the answer marks every unmatched guess occurrence as
// IncorrectPosition, even when the answer has fewer occurrences left.
// For answer "aabb" and guess "aaaa" the result is
// Correct, Correct, IncorrectPosition, IncorrectPosition.

package game

// Evaluate scores guess against the answer's index. The returned marks
// have one entry per guess letter, in order. complete is true iff the
// guess has exactly the answer's letters at exactly the answer's
// positions.
//
// The guess is expected to have the answer's length; enforcing that is
// the caller's job.
func Evaluate(answer Index, guess string) (marks []LetterMark, complete bool) {
	letters := []rune(guess)
	guessIx := NewIndex(guess)

	if guessIx.Equal(answer) {
		marks = make([]LetterMark, len(letters))
		for i, r := range letters {
			marks[i] = LetterMark{Letter: string(r), Result: Correct}
		}
		return marks, true
	}

	marks = make([]LetterMark, len(letters))
	for i, r := range letters {
		marks[i] = LetterMark{Letter: string(r), Result: Incorrect}
	}
	for r, guessPos := range guessIx {
		answerPos := answer[r]
		if len(answerPos) == 0 {
			continue // letter absent from the answer, stays Incorrect
		}
		for p := range guessPos {
			if _, exact := answerPos[p]; exact {
				marks[p].Result = Correct
			} else {
				marks[p].Result = IncorrectPosition
			}
		}
	}
	return marks, false
}

// AllCorrect reports whether every mark of a scored guess is Correct.
func AllCorrect(marks []LetterMark) bool {
	for _, m := range marks {
		if m.Result != Correct {
			return false
		}
	}
	return len(marks) > 0
}
