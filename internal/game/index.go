// internal/game/index.go
//
// Letter index: a mapping from letter to the set of positions it
// occupies in a word. Both the secret answer and each submitted guess
// are indexed this way before scoring.

package game

// Index maps each letter of a word to the zero-based positions where
// it occurs. Two words have identical letter placement iff their
// indexes are equal.
type Index map[rune]map[int]struct{}

// NewIndex builds the letter index for a word. Letters are taken
// exactly as provided; no case folding is applied.
func NewIndex(word string) Index {
	ix := make(Index)
	for i, r := range []rune(word) {
		pos, ok := ix[r]
		if !ok {
			pos = make(map[int]struct{})
			ix[r] = pos
		}
		pos[i] = struct{}{}
	}
	return ix
}

// Equal reports whether two indexes contain the same letters at the
// same sets of positions.
func (ix Index) Equal(other Index) bool {
	if len(ix) != len(other) {
		return false
	}
	for r, pos := range ix {
		opos, ok := other[r]
		if !ok || len(pos) != len(opos) {
			return false
		}
		for p := range pos {
			if _, ok := opos[p]; !ok {
				return false
			}
		}
	}
	return true
}
