// Package runtime owns live-connection state and event propagation.
// It orchestrates delivery without containing business logic or
// domain rules.
package runtime

import (
	"context"
	"sync"

	"chatline/contract"
	"chatline/domain"
	"chatline/domain/event"

	"github.com/google/uuid"
)

// Conn is one user's live connection: a bounded event channel plus a Done
// signal closed when the connection is replaced or removed. A user has at
// most one Conn registered at any time.
type Conn struct {
	ID     uuid.UUID
	User   domain.UserID
	Events chan event.DomainEvent
	done   chan struct{}
	once   sync.Once
}

// Done is closed once the connection stops being the user's current one,
// so a stream handler can unblock even if its client never disconnects.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

func (c *Conn) close() {
	c.once.Do(func() { close(c.done) })
}

// Consume enqueues one event for this connection. It blocks until the
// buffer accepts the event or the context expires; the fan-out worker wraps
// the call in a short deadline, so a full buffer turns into a drop instead
// of stalling delivery to other recipients.
func (c *Conn) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case c.Events <- e:
		return nil
	case <-c.done:
		return nil // stale connection, delivery is a no-op
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Registry maps each connected user to their single live connection.
// Connect, Disconnect and SinkFor may race freely; one coarse lock keeps
// the replace semantics correct, and no lock is ever held across a channel
// send. Contention is bounded by the connected-user count.
type Registry struct {
	mu         sync.RWMutex
	conns      map[domain.UserID]*Conn
	bufferSize int
}

func NewRegistry(bufferSize int) *Registry {
	return &Registry{
		conns:      make(map[domain.UserID]*Conn),
		bufferSize: bufferSize,
	}
}

// Connect registers a fresh connection for the user. If one already exists
// it is replaced, not doubled: last connection wins, and the previous
// connection's Done channel closes so its handler can exit. The new
// connection always starts with an empty backlog; missed events are not
// replayed.
func (r *Registry) Connect(user domain.UserID) *Conn {
	conn := &Conn{
		ID:     uuid.New(),
		User:   user,
		Events: make(chan event.DomainEvent, r.bufferSize),
		done:   make(chan struct{}),
	}

	r.mu.Lock()
	previous := r.conns[user]
	r.conns[user] = conn
	r.mu.Unlock()

	if previous != nil {
		previous.close()
	}
	return conn
}

// Disconnect removes the user's connection, but only when connID still
// identifies the current one. A replaced handler running its deferred
// cleanup therefore never tears down the connection that replaced it.
// Safe to call when nothing is registered.
func (r *Registry) Disconnect(user domain.UserID, connID uuid.UUID) {
	r.mu.Lock()
	current, ok := r.conns[user]
	if ok && current.ID == connID {
		delete(r.conns, user)
	} else {
		current = nil
	}
	r.mu.Unlock()

	if current != nil {
		current.close()
	}
}

// SinkFor resolves the user's current connection, if any.
func (r *Registry) SinkFor(user domain.UserID) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[user]
	return conn, ok
}

// Count reports how many users are connected, for diagnostics.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
