// Package feed fans store change notifications out to view subscriptions.
// Events carry no row data; a delivery only means "refetch".
package feed

import (
	"log/slog"
	"sync"
)

type Table string

const (
	TableAgents    Table = "bdc_agents"
	TableShifts    Table = "bdc_shifts"
	TableStorewide Table = "storewide_nightly_numbers"
)

// Event is one row change as announced by the store.
type Event struct {
	Table Table  `json:"table"`
	Op    string `json:"op"`
	Date  string `json:"date,omitempty"`
}

// OpResync marks a table-wide invalidation published after the feed lost
// notifications.
const OpResync = "RESYNC"

// Tables lists every table the feed announces.
var Tables = []Table{TableAgents, TableShifts, TableStorewide}

// Filter selects events by table and, when Date is set, by business date.
// An event without a date matches every date.
type Filter struct {
	Table Table
	Date  string
}

func (f Filter) Match(e Event) bool {
	if f.Table != "" && f.Table != e.Table {
		return false
	}
	return f.Date == "" || e.Date == "" || f.Date == e.Date
}

// Broker keeps the live subscriptions. The zero value is not usable; call NewBroker.
type Broker struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	logger *slog.Logger
}

func NewBroker(logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		subs:   make(map[*Subscription]struct{}),
		logger: logger,
	}
}

// Subscribe registers a subscription; the caller must Close it.
func (b *Broker) Subscribe(f Filter) *Subscription {
	s := &Subscription{
		filter: f,
		c:      make(chan struct{}, 1),
		broker: b,
	}
	b.mu.Lock()
	b.subs[s] = struct{}{}
	total := len(b.subs)
	b.mu.Unlock()
	subscriptionsGauge.Set(float64(total))
	b.logger.Debug("feed subscribed", "table", f.Table, "date", f.Date, "subscriptions", total)
	return s
}

// Publish signals every matching subscription and returns how many matched.
// A subscription that already has a signal pending absorbs the new one.
// Publishing on a nil Broker is a no-op.
func (b *Broker) Publish(e Event) int {
	if b == nil {
		return 0
	}
	eventsTotal.WithLabelValues(string(e.Table), e.Op).Inc()

	b.mu.RLock()
	defer b.mu.RUnlock()
	matched := 0
	for s := range b.subs {
		if !s.filter.Match(e) {
			continue
		}
		matched++
		select {
		case s.c <- struct{}{}:
		default:
			coalescedTotal.Inc()
		}
	}
	return matched
}

// Len is the number of open subscriptions.
func (b *Broker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Broker) remove(s *Subscription) {
	b.mu.Lock()
	delete(b.subs, s)
	total := len(b.subs)
	b.mu.Unlock()
	subscriptionsGauge.Set(float64(total))
}

// Subscription is one view's interest in a table/date.
type Subscription struct {
	filter Filter
	c      chan struct{}
	broker *Broker
	once   sync.Once
}

// C delivers one value per pending invalidation. It is never closed; select
// on your own context to stop.
func (s *Subscription) C() <-chan struct{} {
	return s.c
}

func (s *Subscription) Filter() Filter {
	return s.filter
}

// Close unregisters the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.broker.remove(s)
	})
}
