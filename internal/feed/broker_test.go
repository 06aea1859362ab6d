package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pending(s *Subscription) bool {
	select {
	case <-s.C():
		return true
	default:
		return false
	}
}

func TestFilterMatch(t *testing.T) {
	f := Filter{Table: TableShifts, Date: "2026-10-19"}

	assert.True(t, f.Match(Event{Table: TableShifts, Op: "INSERT", Date: "2026-10-19"}))
	assert.False(t, f.Match(Event{Table: TableShifts, Op: "INSERT", Date: "2026-10-18"}))
	assert.False(t, f.Match(Event{Table: TableStorewide, Op: "UPDATE", Date: "2026-10-19"}))
	assert.True(t, Filter{Table: TableShifts}.Match(Event{Table: TableShifts, Date: "2020-01-01"}))
	assert.True(t, f.Match(Event{Table: TableShifts, Op: OpResync}))
	assert.False(t, f.Match(Event{Table: TableStorewide, Op: OpResync}))
}

func TestPublishSignalsMatchingSubscriptions(t *testing.T) {
	b := NewBroker(nil)
	today := b.Subscribe(Filter{Table: TableShifts, Date: "2026-10-19"})
	defer today.Close()
	other := b.Subscribe(Filter{Table: TableStorewide, Date: "2026-10-19"})
	defer other.Close()

	n := b.Publish(Event{Table: TableShifts, Op: "UPDATE", Date: "2026-10-19"})

	assert.Equal(t, 1, n)
	assert.True(t, pending(today))
	assert.False(t, pending(other))
}

func TestPublishCoalescesPendingSignals(t *testing.T) {
	b := NewBroker(nil)
	s := b.Subscribe(Filter{Table: TableShifts})
	defer s.Close()

	for i := 0; i < 5; i++ {
		b.Publish(Event{Table: TableShifts, Op: "INSERT"})
	}

	assert.True(t, pending(s))
	assert.False(t, pending(s))
}

func TestCloseUnsubscribes(t *testing.T) {
	b := NewBroker(nil)
	s := b.Subscribe(Filter{Table: TableShifts})
	assert.Equal(t, 1, b.Len())

	s.Close()
	s.Close()

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, b.Publish(Event{Table: TableShifts}))
	assert.False(t, pending(s))
}

func TestEachSubscriptionIsIndependent(t *testing.T) {
	b := NewBroker(nil)
	a := b.Subscribe(Filter{Table: TableShifts, Date: "2026-10-19"})
	c := b.Subscribe(Filter{Table: TableShifts, Date: "2026-10-19"})
	defer a.Close()
	defer c.Close()

	assert.Equal(t, 2, b.Publish(Event{Table: TableShifts, Date: "2026-10-19"}))
	assert.True(t, pending(a))
	assert.True(t, pending(c))
}

func TestPublishOnNilBroker(t *testing.T) {
	var b *Broker

	assert.NotPanics(t, func() {
		assert.Equal(t, 0, b.Publish(Event{Table: TableShifts, Op: "INSERT"}))
	})
}
