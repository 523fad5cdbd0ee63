package api

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zappabad/bullrun/internal/metrics"
	"github.com/zappabad/bullrun/internal/session"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("session limit reached")
)

// entry binds a live session to its WebSocket hub. The pump goroutine
// drains the session's event stream into the hub and exits when the
// session closes.
type entry struct {
	id      uuid.UUID
	sess    *session.Service
	hub     *wsHub
	created time.Time
}

func (e *entry) pump() {
	for ev := range e.sess.Events() {
		if msg, ok := eventMessage(ev); ok {
			e.hub.send(msg)
		}
	}
	e.hub.stop()
}

// registry tracks live sessions by ID.
type registry struct {
	log *slog.Logger
	max int

	mu      sync.RWMutex
	entries map[uuid.UUID]*entry
}

func newRegistry(log *slog.Logger, max int) *registry {
	return &registry{
		log:     log,
		max:     max,
		entries: make(map[uuid.UUID]*entry),
	}
}

// add registers a session, starts its hub and pump, and returns its ID.
func (r *registry) add(sess *session.Service) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) >= r.max {
		return uuid.Nil, ErrTooManySessions
	}

	id := uuid.New()
	e := &entry{
		id:      id,
		sess:    sess,
		hub:     newWSHub(r.log.With("session", id.String())),
		created: time.Now(),
	}
	r.entries[id] = e
	metrics.SessionsActive.Inc()

	go e.hub.run()
	go e.pump()
	return id, nil
}

func (r *registry) get(id uuid.UUID) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// remove unregisters and closes a session. Closing the session ends the
// pump, which in turn stops the hub.
func (r *registry) remove(id uuid.UUID) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	e.sess.Close()
	metrics.SessionsActive.Dec()
	return nil
}

// closeAll tears down every session, used on server shutdown.
func (r *registry) closeAll() {
	r.mu.Lock()
	entries := make([]*entry, 0, len(r.entries))
	for id, e := range r.entries {
		entries = append(entries, e)
		delete(r.entries, id)
	}
	r.mu.Unlock()

	for _, e := range entries {
		e.sess.Close()
		metrics.SessionsActive.Dec()
	}
}

func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
