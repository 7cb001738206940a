package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lazypower/widgetry/internal/calc"
	"github.com/lazypower/widgetry/internal/kv"
)

// MaxSessions bounds the calculator sessions held in memory.
const MaxSessions = 1024

var errTooManySessions = errors.New("too many sessions")

type calcResponse struct {
	ID string `json:"id"`
	calc.Snapshot
}

// addSession registers a calculator for id, or returns the one already
// registered. New sessions beyond the limit are refused.
func (s *Server) addSession(ctx context.Context, id string, store kv.Store) (*session, error) {
	c := calc.New(store,
		calc.WithLogger(s.log.With("session", id)),
		calc.WithHistoryCap(s.cfg.Calculator.HistoryCap),
		calc.WithObserver(s.metrics.ObserveToken),
	)
	c.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		return existing, nil
	}
	if len(s.sessions) >= s.maxSessions {
		return nil, errTooManySessions
	}
	sess := &session{calc: c}
	s.sessions[id] = sess
	s.metrics.SetSessions(len(s.sessions))
	return sess, nil
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (string, *session, bool) {
	id := chi.URLParam(r, "sessionID")
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		return id, sess, true
	}
	sess, err := s.resumeSession(r.Context(), id)
	switch {
	case errors.Is(err, errTooManySessions):
		httpError(w, err.Error(), http.StatusServiceUnavailable)
		return "", nil, false
	case err != nil || sess == nil:
		httpError(w, "unknown session "+id, http.StatusNotFound)
		return "", nil, false
	}
	return id, sess, true
}

// resumeSession reattaches a session created by an earlier server process.
// A session is known if any of its keys is still persisted; otherwise both
// returns are nil.
func (s *Server) resumeSession(ctx context.Context, id string) (*session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	st := kv.Prefixed(s.store, "calc/"+id+"/")
	for _, key := range []string{calc.KeyHistory, calc.KeyMemory, calc.KeyCompact} {
		if _, err := st.Get(ctx, key); err == nil {
			s.log.Debug("calculator session resumed", "session", id)
			return s.addSession(ctx, id, st)
		}
	}
	return nil, nil
}

func (s *Server) handleCalcCreate(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	sess, err := s.addSession(r.Context(), id, kv.Prefixed(s.store, "calc/"+id+"/"))
	if err != nil {
		httpError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.log.Debug("calculator session created", "session", id)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.writeJSON(w, http.StatusCreated, calcResponse{ID: id, Snapshot: sess.calc.Snapshot()})
}

func (s *Server) handleCalcGet(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.writeJSON(w, http.StatusOK, calcResponse{ID: id, Snapshot: sess.calc.Snapshot()})
}

func (s *Server) handleCalcTokens(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Tokens []string `json:"tokens"`
	}
	if err := decodeBody(r, &req); err != nil {
		httpError(w, "invalid json", http.StatusBadRequest)
		return
	}
	tokens, err := calc.ParseTokens(req.Tokens)
	if err != nil {
		httpError(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	res := sess.calc.PressAll(r.Context(), tokens)
	s.writeJSON(w, http.StatusOK, struct {
		calcResponse
		Error bool `json:"error"`
	}{calcResponse{ID: id, Snapshot: sess.calc.Snapshot()}, res.Error})
}

func (s *Server) handleCalcKey(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var ev calc.KeyEvent
	if err := decodeBody(r, &ev); err != nil {
		httpError(w, "invalid json", http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if _, ok := sess.calc.PressKey(r.Context(), ev); !ok {
		httpError(w, "unmapped key "+ev.Key, http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, calcResponse{ID: id, Snapshot: sess.calc.Snapshot()})
}

func (s *Server) handleCalcCompact(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Compact *bool `json:"compact"`
	}
	if err := decodeBody(r, &req); err != nil {
		httpError(w, "invalid json", http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	on := !sess.calc.Compact()
	if req.Compact != nil {
		on = *req.Compact
	}
	sess.calc.SetCompact(r.Context(), on)
	s.writeJSON(w, http.StatusOK, calcResponse{ID: id, Snapshot: sess.calc.Snapshot()})
}

func (s *Server) handleCalcClearHistory(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.calc.ClearHistory(r.Context())
	s.writeJSON(w, http.StatusOK, calcResponse{ID: id, Snapshot: sess.calc.Snapshot()})
}
