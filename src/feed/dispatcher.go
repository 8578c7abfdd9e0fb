// Package feed reads quotes from external sources and dispatches them to subscribers.
package feed

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/option-analytics/src/models"
	"github.com/jiaming2012/option-analytics/src/optionchain"
)

const TicksTopic = "ticks"

// Dispatcher fans ticks out to subscribers. Handlers run synchronously in publish order.
type Dispatcher struct {
	bus EventBus.Bus
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		bus: EventBus.New(),
	}
}

func (d *Dispatcher) Publish(tick models.Tick) {
	d.bus.Publish(TicksTopic, tick)
}

func (d *Dispatcher) PublishAll(ticks []models.Tick) {
	for _, tick := range ticks {
		d.Publish(tick)
	}
}

func (d *Dispatcher) Subscribe(handler func(models.Tick)) error {
	if err := d.bus.Subscribe(TicksTopic, handler); err != nil {
		return fmt.Errorf("Dispatcher.Subscribe: %w", err)
	}

	log.Debugf("Subscribed to topic %s", TicksTopic)
	return nil
}

// BoardSubscriber applies dispatched ticks to a board.
type BoardSubscriber[T optionchain.Entry[T]] struct {
	Board   *optionchain.Board[T]
	Applied int
	Dropped int
}

func (s *BoardSubscriber[T]) handle(tick models.Tick) {
	if err := s.Board.Upsert(tick); err != nil {
		s.Dropped++
		log.WithError(err).WithField("tick", tick.String()).Warn("dropping tick")
		return
	}

	s.Applied++
}

// SubscribeBoard upserts every dispatched tick into board. Ticks the board rejects are
// logged and counted as dropped.
func SubscribeBoard[T optionchain.Entry[T]](d *Dispatcher, board *optionchain.Board[T]) (*BoardSubscriber[T], error) {
	subscriber := &BoardSubscriber[T]{Board: board}
	if err := d.Subscribe(subscriber.handle); err != nil {
		return nil, err
	}

	return subscriber, nil
}
