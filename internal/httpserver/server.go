// internal/httpserver/server.go
//
// HTTP wiring for the multiplayer word-guessing backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", /auth/signup, /auth/login, /auth/logout.
//   - Game endpoints (require auth): create, manage, register, play, state.
//   - Translating session outcomes into status codes: unmet
//     preconditions are 400, detected races are 409, storage anomalies
//     are 500. Identity problems never reach the session layer; they
//     are 401s here.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wordparty/server/internal/session"
	"github.com/wordparty/server/internal/store"
	"github.com/wordparty/server/internal/words"
)

// Server bundles the router, the storage collaborator, and the session
// service.
type Server struct {
	r        *chi.Mux
	store    store.Store
	sessions *session.Service
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store) *Server {
	s := &Server{r: chi.NewRouter(), store: st, sessions: session.New(st)}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordparty","endpoints":["/health","/auth/*","POST /game","/game/{gameID}/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)
	s.r.With(s.requireAuth()).Get("/auth/me", s.handleMe)

	s.r.Group(func(r chi.Router) {
		r.Use(s.requireAuth())
		r.Post("/game", s.handleCreateGame)
		r.Get("/game/{gameID}/manage", s.handleManageGame)
		r.Post("/game/{gameID}/register", s.handleRegister)
		r.Post("/game/{gameID}/play", s.handlePlay)
		r.Get("/game/{gameID}/state", s.handleState)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- GAME --------------------------------------

type createGameReq struct {
	Answer string `json:"answer"` // empty picks a random answer
}

// handleCreateGame inserts a new game owned by the caller.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}
	var req createGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	answer := req.Answer
	if answer == "" {
		answer = words.RandomAnswer()
	}
	if answer == "" {
		http.Error(w, `{"error":"answer_required"}`, http.StatusBadRequest)
		return
	}
	res, err := s.sessions.Create(r.Context(), me.ID, answer)
	if err != nil {
		log.Error().Err(err).Msg("create game")
		internalError(w)
		return
	}
	log.Info().Str("gameId", res.GameID).Str("creator", me.ID.Hex()).Msg("created game")
	_ = json.NewEncoder(w).Encode(res)
}

// handleManageGame returns the creator-only view of a game.
func (s *Server) handleManageGame(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}
	view, err := s.sessions.Manage(r.Context(), gameID, me.ID)
	if err != nil {
		s.writeOutcome(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(view)
}

// handleRegister adds the caller as a player of a game.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Register(r.Context(), gameID, me.ID); err != nil {
		s.writeOutcome(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

type playReq struct {
	Guess string `json:"guess"`
}

// handlePlay scores and records a guess for the caller.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}
	var req playReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	res, err := s.sessions.Play(r.Context(), gameID, me.ID, req.Guess)
	if err != nil {
		s.writeOutcome(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleState returns the caller's own progress in a game.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}
	view, err := s.sessions.State(r.Context(), gameID, me.ID)
	if err != nil {
		s.writeOutcome(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(view)
}

// ----------------------------- helpers -------------------------------------

// gameIDParam parses the {gameID} path parameter. Malformed ids are
// rejected here, before the session layer is invoked.
func gameIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	raw := chi.URLParam(r, "gameID")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		http.Error(w, `{"error":"invalid_game_id"}`, http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}

// writeOutcome maps session outcomes to status codes.
func (s *Server) writeOutcome(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		http.Error(w, `{"error":"not_found"}`, http.StatusBadRequest)
	case errors.Is(err, session.ErrInvalidGuess):
		http.Error(w, `{"error":"invalid_guess"}`, http.StatusBadRequest)
	case errors.Is(err, session.ErrConflict):
		http.Error(w, `{"error":"conflict"}`, http.StatusConflict)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("session error")
		internalError(w)
	}
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
}

func internalError(w http.ResponseWriter) {
	http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
}
