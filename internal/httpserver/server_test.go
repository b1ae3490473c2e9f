package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wordparty/server/internal/store"
)

// do runs a JSON request against the server, attaching cookies if given.
func do(t *testing.T, s *Server, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

// signup creates an account and returns its auth cookies.
func signup(t *testing.T, s *Server, username string) []*http.Cookie {
	t.Helper()
	w := do(t, s, http.MethodPost, "/auth/signup", map[string]string{
		"username": username,
		"password": "hunter2hunter2",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("signup %s: status %d: %s", username, w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("signup %s: no auth cookie set", username)
	}
	return cookies
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s := New(store.NewMemory())
	w := do(t, s, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	s := New(store.NewMemory())
	for _, path := range []string{"/game", "/game/0123456789abcdef01234567/register", "/game/0123456789abcdef01234567/play"} {
		if w := do(t, s, http.MethodPost, path, nil, nil); w.Code != http.StatusUnauthorized {
			t.Errorf("POST %s without token: status = %d, want 401", path, w.Code)
		}
	}
}

func TestSignupValidation(t *testing.T) {
	s := New(store.NewMemory())
	tests := []struct {
		name     string
		username string
		password string
		want     int
	}{
		{"valid", "player_1", "longenough", http.StatusOK},
		{"duplicate", "player_1", "longenough", http.StatusConflict},
		{"short username", "ab", "longenough", http.StatusBadRequest},
		{"bad characters", "player one", "longenough", http.StatusBadRequest},
		{"short password", "player_2", "short", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/auth/signup", map[string]string{
				"username": tt.username,
				"password": tt.password,
			}, nil)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestLogin(t *testing.T) {
	s := New(store.NewMemory())
	signup(t, s, "selene")

	w := do(t, s, http.MethodPost, "/auth/login", map[string]string{"username": "selene", "password": "hunter2hunter2"}, nil)
	if w.Code != http.StatusOK {
		t.Errorf("login: status = %d, want 200", w.Code)
	}
	w = do(t, s, http.MethodPost, "/auth/login", map[string]string{"username": "selene", "password": "wrongpassword"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password: status = %d, want 401", w.Code)
	}
}

func TestGameFlow(t *testing.T) {
	s := New(store.NewMemory())
	creator := signup(t, s, "creator")
	player := signup(t, s, "guesser")

	// Create a game with a fixed answer.
	w := do(t, s, http.MethodPost, "/game", map[string]string{"answer": "crate"}, creator)
	if w.Code != http.StatusOK {
		t.Fatalf("create: status %d: %s", w.Code, w.Body.String())
	}
	created := decode[map[string]string](t, w)
	gameID := created["gameId"]
	if gameID == "" {
		t.Fatal("create: empty gameId")
	}

	// Playing before registering is an unmet precondition.
	if w := do(t, s, http.MethodPost, "/game/"+gameID+"/play", map[string]string{"guess": "trace"}, player); w.Code != http.StatusBadRequest {
		t.Errorf("play before register: status = %d, want 400", w.Code)
	}

	// The creator cannot register for their own game.
	if w := do(t, s, http.MethodPost, "/game/"+gameID+"/register", nil, creator); w.Code != http.StatusBadRequest {
		t.Errorf("creator register: status = %d, want 400", w.Code)
	}

	// Registration succeeds once and only once.
	if w := do(t, s, http.MethodPost, "/game/"+gameID+"/register", nil, player); w.Code != http.StatusOK {
		t.Fatalf("register: status %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, s, http.MethodPost, "/game/"+gameID+"/register", nil, player); w.Code != http.StatusBadRequest {
		t.Errorf("repeat register: status = %d, want 400", w.Code)
	}

	// A guess gets scored.
	w = do(t, s, http.MethodPost, "/game/"+gameID+"/play", map[string]string{"guess": "trace"}, player)
	if w.Code != http.StatusOK {
		t.Fatalf("play: status %d: %s", w.Code, w.Body.String())
	}
	type mark struct {
		Letter string `json:"letter"`
		Result string `json:"result"`
	}
	type playRes struct {
		GameOver bool   `json:"gameOver"`
		Guess    []mark `json:"guess"`
	}
	res := decode[playRes](t, w)
	if res.GameOver {
		t.Error("play: gameOver = true after one wrong guess")
	}
	wantResults := []string{"IncorrectPosition", "Correct", "Correct", "IncorrectPosition", "Correct"}
	for i, m := range res.Guess {
		if m.Result != wantResults[i] {
			t.Fatalf("play: marks = %+v, want %v", res.Guess, wantResults)
		}
	}

	// A wrong-length guess is rejected.
	if w := do(t, s, http.MethodPost, "/game/"+gameID+"/play", map[string]string{"guess": "cr"}, player); w.Code != http.StatusBadRequest {
		t.Errorf("short guess: status = %d, want 400", w.Code)
	}

	// Solving ends the game.
	w = do(t, s, http.MethodPost, "/game/"+gameID+"/play", map[string]string{"guess": "crate"}, player)
	if w.Code != http.StatusOK {
		t.Fatalf("play: status %d: %s", w.Code, w.Body.String())
	}
	if res := decode[playRes](t, w); !res.GameOver {
		t.Error("play: gameOver = false after solving")
	}

	// The player sees their own state.
	type stateRes struct {
		GameOver bool     `json:"gameOver"`
		Guesses  [][]mark `json:"guesses"`
	}
	w = do(t, s, http.MethodGet, "/game/"+gameID+"/state", nil, player)
	if w.Code != http.StatusOK {
		t.Fatalf("state: status %d: %s", w.Code, w.Body.String())
	}
	state := decode[stateRes](t, w)
	if !state.GameOver || len(state.Guesses) != 2 {
		t.Errorf("state = %+v, want gameOver with 2 guesses", state)
	}

	// The creator sees the full management view, answer included.
	type manageRes struct {
		StartTime int64 `json:"startTime"`
		Players   []struct {
			Name string `json:"name"`
		} `json:"players"`
		Answer string `json:"answer"`
	}
	w = do(t, s, http.MethodGet, "/game/"+gameID+"/manage", nil, creator)
	if w.Code != http.StatusOK {
		t.Fatalf("manage: status %d: %s", w.Code, w.Body.String())
	}
	manage := decode[manageRes](t, w)
	if manage.Answer != "crate" || len(manage.Players) != 1 || manage.Players[0].Name != "guesser" {
		t.Errorf("manage = %+v", manage)
	}

	// Players do not get the management view.
	if w := do(t, s, http.MethodGet, "/game/"+gameID+"/manage", nil, player); w.Code != http.StatusBadRequest {
		t.Errorf("manage by player: status = %d, want 400", w.Code)
	}
}

func TestMalformedGameID(t *testing.T) {
	s := New(store.NewMemory())
	me := signup(t, s, "someone")
	if w := do(t, s, http.MethodGet, "/game/not-an-object-id/state", nil, me); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
