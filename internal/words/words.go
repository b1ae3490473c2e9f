// internal/words/words.go
//
// Answer word supply for game creation. A creator normally picks their
// own secret word; when they leave it blank the server draws one from
// this list.
//
// Initialization behavior (Init):
//   1. If WORDS_ANSWERS_FILE is set, load one word per line from it.
//   2. Otherwise fall back to the embedded default list.
//
// Words are normalized to lowercase; only 5-letter a-z words are kept.

package words

import (
	"bufio"
	"crypto/rand"
	_ "embed"
	"errors"
	"math/big"
	"os"
	"strings"
	"sync"
)

//go:embed answers.txt
var embeddedAnswers string

var (
	initOnce   sync.Once
	answers    []string
	initialErr error
)

// Init loads the answer list exactly once.
// Returns an error if the list ends up empty.
func Init() error {
	initOnce.Do(func() {
		if path := os.Getenv("WORDS_ANSWERS_FILE"); path != "" {
			list, err := readWordFile(path)
			if err != nil {
				initialErr = err
				return
			}
			answers = list
		} else {
			answers = normalizeLines(embeddedAnswers)
		}
		if len(answers) == 0 {
			initialErr = errors.New("words: answers list is empty")
		}
	})
	return initialErr
}

// RandomAnswer returns a uniformly random answer word.
func RandomAnswer() string {
	if len(answers) == 0 {
		return ""
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(answers))))
	if err != nil {
		return answers[0]
	}
	return answers[n.Int64()]
}

// Count reports how many answers are loaded.
func Count() int { return len(answers) }

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w, ok := normalizeWord(sc.Text()); ok {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

func normalizeLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if w, ok := normalizeWord(line); ok {
			out = append(out, w)
		}
	}
	return out
}

func normalizeWord(s string) (string, bool) {
	w := strings.TrimSpace(strings.ToLower(s))
	if len(w) != 5 {
		return "", false
	}
	for _, r := range w {
		if r < 'a' || r > 'z' {
			return "", false
		}
	}
	return w, true
}
