package workers

import (
	"context"
	"log/slog"
	"time"

	"chatline/contract"
	"chatline/domain"
	"chatline/domain/event"
	"chatline/observability"
)

// Fanout consumes the ordered publish channel and delivers each event to
// the live connections of the room's two participants.
//
// Publishing happens strictly after the append is durable, and a single
// worker drains the channel, so a given recipient always sees events in
// append order. Delivery is best effort: a recipient whose buffer stays
// full past the delivery timeout loses that event and reconciles through
// its next poll.
type Fanout struct {
	log             *slog.Logger
	events          <-chan event.DomainEvent
	registry        contract.IRegistry
	deliveryTimeout time.Duration
	metrics         *observability.Metrics
}

func NewFanout(log *slog.Logger, events <-chan event.DomainEvent,
	registry contract.IRegistry, deliveryTimeout time.Duration,
	metrics *observability.Metrics) *Fanout {
	return &Fanout{
		log:             log,
		events:          events,
		registry:        registry,
		deliveryTimeout: deliveryTimeout,
		metrics:         metrics,
	}
}

func (w *Fanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		}
	}
}

// fanout resolves the room's participants from the key and enqueues the
// event on each connected one. Unconnected participants are skipped; they
// will see the message on their next conversation poll.
func (w *Fanout) fanout(ctx context.Context, evt event.DomainEvent) {
	a, b, err := evt.RoomKey().Participants()
	if err != nil {
		w.log.Error("event carries an unusable room key",
			"room", evt.RoomKey(), "error", err)
		return
	}

	for _, user := range []domain.UserID{a, b} {
		sink, ok := w.registry.SinkFor(user)
		if !ok {
			continue
		}
		w.deliver(ctx, sink, user, evt)
	}
}

func (w *Fanout) deliver(ctx context.Context, sink contract.EventSink,
	user domain.UserID, evt event.DomainEvent) {
	deliveryCtx, cancel := context.WithTimeout(ctx, w.deliveryTimeout)
	defer cancel()

	if err := sink.Consume(deliveryCtx, evt); err != nil {
		w.metrics.EventsDropped.Inc()
		w.log.Debug("event dropped, recipient too slow",
			"user", user, "room", evt.RoomKey())
		return
	}
	w.metrics.EventsDelivered.Inc()
}
