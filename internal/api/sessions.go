package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/joshuamkite/freecell-engine/internal/game"
)

// sessionEntry pairs a game session with its own lock. game.Session is not
// concurrency-safe, so each entry serializes its callers independently.
type sessionEntry struct {
	mu      sync.Mutex
	session *game.Session
}

// sessionRegistry is the in-memory table of live interactive games.
// Sessions are ephemeral: a restart forgets them, matching the engine's
// no-persistence contract for game state.
type sessionRegistry struct {
	mu      sync.RWMutex
	entries map[string]*sessionEntry
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{entries: make(map[string]*sessionEntry)}
}

// create deals a new game and returns its fresh ID.
func (reg *sessionRegistry) create(gameNumber uint32) (string, *sessionEntry) {
	id := uuid.New().String()
	entry := &sessionEntry{session: game.NewSession(gameNumber)}

	reg.mu.Lock()
	reg.entries[id] = entry
	reg.mu.Unlock()

	return id, entry
}

// get looks up a live session.
func (reg *sessionRegistry) get(id string) (*sessionEntry, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	entry, ok := reg.entries[id]
	return entry, ok
}

// remove drops a session, reporting whether it existed.
func (reg *sessionRegistry) remove(id string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.entries[id]; !ok {
		return false
	}
	delete(reg.entries, id)
	return true
}

// count returns the number of live sessions.
func (reg *sessionRegistry) count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.entries)
}

// handleCreateSession deals a new interactive game
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if req.GameNumber < game.MinGameNumber || req.GameNumber > game.MaxGameNumber {
		s.writeError(w, http.StatusBadRequest, ErrTypeInvalidGameNumber, "game_number out of range", map[string]interface{}{
			"game_number": req.GameNumber,
		})
		return
	}

	id, entry := s.sessions.create(req.GameNumber)

	requestID := middleware.GetReqID(r.Context())
	s.logger.Printf(
		"session_created session_id=%s game_number=%d request_id=%s",
		id, req.GameNumber, requestID,
	)

	entry.mu.Lock()
	resp := s.sessionSnapshot(id, entry, nil)
	entry.mu.Unlock()

	s.writeJSON(w, http.StatusCreated, resp)
}

// handleGetSession returns the session's current state
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	entry, id, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	entry.mu.Lock()
	resp := s.sessionSnapshot(id, entry, nil)
	entry.mu.Unlock()

	s.writeJSON(w, http.StatusOK, resp)
}

// handleSessionMove applies a move (single card or run) to the session.
// Rejected moves return 200 with the unchanged state; callers detect the
// rejection by comparing states, mirroring the engine's no-error contract.
func (s *Server) handleSessionMove(w http.ResponseWriter, r *http.Request) {
	entry, id, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req SessionMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	var moves []game.Move
	var moved bool

	if req.RunStart != nil {
		if req.From.Kind != game.LocTableau || req.To.Kind != game.LocTableau {
			s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "run moves go from tableau column to tableau column", nil)
			return
		}
		moves, moved = entry.session.TryMoveRun(req.From.Index, *req.RunStart, req.To.Index)
	} else {
		if !req.From.Valid() || !req.To.Valid() {
			s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "from and to must be valid locations", nil)
			return
		}
		card, err := s.resolveCard(entry.session.Current(), req.Card, req.From)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, ErrTypeInvalidCard, err.Error(), nil)
			return
		}
		moves, moved = entry.session.TryMove(card, req.From, req.To)
	}

	requestID := middleware.GetReqID(r.Context())
	s.logger.Printf(
		"session_move session_id=%s moved=%t applied=%d history_len=%d request_id=%s",
		id, moved, len(moves), entry.session.HistoryLen(), requestID,
	)

	s.writeJSON(w, http.StatusOK, s.sessionSnapshot(id, entry, moves))
}

// handleSessionUndo reverts the most recent move
func (s *Server) handleSessionUndo(w http.ResponseWriter, r *http.Request) {
	entry, id, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	undone := entry.session.Undo()

	requestID := middleware.GetReqID(r.Context())
	s.logger.Printf(
		"session_undo session_id=%s undone=%t history_len=%d request_id=%s",
		id, undone, entry.session.HistoryLen(), requestID,
	)

	s.writeJSON(w, http.StatusOK, s.sessionSnapshot(id, entry, nil))
}

// handleSessionAutoplay runs the safe-move sweep on the session
func (s *Server) handleSessionAutoplay(w http.ResponseWriter, r *http.Request) {
	entry, id, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	moves := entry.session.AutoPlay()

	requestID := middleware.GetReqID(r.Context())
	s.logger.Printf(
		"session_autoplay session_id=%s promoted=%d request_id=%s",
		id, len(moves), requestID,
	)

	s.writeJSON(w, http.StatusOK, s.sessionSnapshot(id, entry, moves))
}

// handleDeleteSession removes a session from the registry
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.remove(id) {
		s.writeError(w, http.StatusNotFound, ErrTypeSessionNotFound, "session not found", map[string]interface{}{
			"session_id": id,
		})
		return
	}

	requestID := middleware.GetReqID(r.Context())
	s.logger.Printf("session_deleted session_id=%s request_id=%s", id, requestID)

	w.WriteHeader(http.StatusNoContent)
}

// lookupSession resolves the {id} URL parameter, writing a 404 on miss.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*sessionEntry, string, bool) {
	id := chi.URLParam(r, "id")
	entry, ok := s.sessions.get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, ErrTypeSessionNotFound, "session not found", map[string]interface{}{
			"session_id": id,
		})
		return nil, "", false
	}
	return entry, id, true
}

// sessionSnapshot builds the response payload. Callers hold the entry lock.
func (s *Server) sessionSnapshot(id string, entry *sessionEntry, moves []game.Move) SessionResponse {
	state := entry.session.Current()
	return SessionResponse{
		SessionID:     id,
		State:         state,
		HistoryLen:    entry.session.HistoryLen(),
		IsWon:         state.IsWon(),
		Moves:         moves,
		EngineVersion: EngineVersion,
	}
}

// resolveCard parses an explicit card or defaults to the top of the source
// pile.
func (s *Server) resolveCard(state *game.GameState, spec string, from game.Location) (game.Card, error) {
	if spec != "" {
		return game.ParseCard(spec)
	}
	return topOfPile(state, from)
}
