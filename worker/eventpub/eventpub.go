package eventpub

import (
	"context"
	"errors"

	"collectordao/core"
	"collectordao/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
)

const (
	checkpointKey = "events_checkpoint"
	limit         = 100
)

// Publisher drains the event outbox so external observers can follow
// the proposal lifecycle without replaying state.
type Publisher struct {
	worker.TickWorker
	property property.Store
	events   core.EventStore
}

// New new event publisher
func New(propertyStore property.Store, events core.EventStore) *Publisher {
	return &Publisher{
		property: propertyStore,
		events:   events,
	}
}

// Run run worker
func (w *Publisher) Run(ctx context.Context) error {
	return w.StartTick(ctx, w.onWork)
}

func (w *Publisher) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "eventpub")

	v, err := w.property.Get(ctx, checkpointKey)
	if err != nil {
		log.WithError(err).Errorln("property.Get", checkpointKey)
		return err
	}

	offset := v.Int64()

	events, err := w.events.List(ctx, offset, limit)
	if err != nil {
		log.WithError(err).Errorln("events.List")
		return err
	}

	if len(events) == 0 {
		return errors.New("EOF")
	}

	for _, event := range events {
		log.WithFields(map[string]interface{}{
			"event":   event.Type,
			"trace":   event.TraceID,
			"payload": string(event.Payload),
		}).Infoln("event published")

		offset = event.ID
	}

	if err := w.property.Save(ctx, checkpointKey, offset); err != nil {
		log.WithError(err).Errorln("property.Save", checkpointKey)
		return err
	}

	return nil
}
