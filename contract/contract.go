package contract

import (
	"chatline/domain"
	"chatline/domain/event"
	"context"
	"reflect"
)

// Worker doesn't protect itself. It runs until its context is canceled and
// relies on the supervisor for restarts after a crash.
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// lifecycle events, avoiding manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives one event for one live connection. Consume honours the
// context so a slow consumer can be abandoned after a bounded wait.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry maps each connected user to their single live connection.
type IRegistry interface {
	SinkFor(user domain.UserID) (EventSink, bool)
	Count() int
}
