package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerFiresInOrder(t *testing.T) {
	s := New()
	var order []int

	s.Add(&Event{Delay: 30, Callback: func() { order = append(order, 3) }})
	s.Add(&Event{Delay: 10, Callback: func() { order = append(order, 1) }})
	s.Add(&Event{Delay: 20, Callback: func() { order = append(order, 2) }})

	next := s.Schedule(30)
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, NoEvent, next)
	assert.Equal(t, int64(30), s.Now())
}

func TestSchedulerTieBreakByInsertion(t *testing.T) {
	s := New()
	var order []string

	s.Add(&Event{Delay: 10, Callback: func() { order = append(order, "first") }})
	s.Add(&Event{Delay: 10, Callback: func() { order = append(order, "second") }})
	s.Add(&Event{Delay: 10, Callback: func() { order = append(order, "third") }})

	s.Schedule(10)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestSchedulerReturnsNextDelta(t *testing.T) {
	s := New()
	s.Add(&Event{Delay: 100, Callback: func() {}})
	s.Add(&Event{Delay: 40, Callback: func() {}})

	next := s.Schedule(25)
	assert.Equal(t, 15, next)

	next = s.Schedule(15)
	assert.Equal(t, 60, next)
}

func TestSchedulerCancel(t *testing.T) {
	s := New()
	fired := false

	ev := &Event{Delay: 10, Callback: func() { fired = true }}
	s.Add(ev)
	assert.True(t, ev.Scheduled())

	s.Cancel(ev)
	assert.False(t, ev.Scheduled())

	s.Schedule(20)
	assert.False(t, fired)

	// Cancelling twice is a no-op.
	s.Cancel(ev)
}

func TestSchedulerPeriodicReAdd(t *testing.T) {
	s := New()
	var stamps []int64

	ev := &Event{Delay: 10}
	ev.Callback = func() {
		stamps = append(stamps, s.Now())
		s.Add(ev)
	}
	s.Add(ev)

	s.Schedule(35)
	// Callbacks observe Now as their own timestamp, so re-adds stay on
	// the 10 cycle grid.
	assert.Equal(t, []int64{10, 20, 30}, stamps)
	assert.Equal(t, int64(35), s.Now())

	next := s.Schedule(0)
	assert.Equal(t, 5, next)
}

func TestSchedulerNowMonotonic(t *testing.T) {
	s := New()
	prev := s.Now()
	for _, elapsed := range []int{5, 0, 17, 3, 100} {
		s.Schedule(elapsed)
		assert.GreaterOrEqual(t, s.Now(), prev)
		prev = s.Now()
	}
}

func TestSchedulerAddWhileQueuedPanics(t *testing.T) {
	s := New()
	ev := &Event{Delay: 10, Callback: func() {}}
	s.Add(ev)
	assert.Panics(t, func() { s.Add(ev) })
}
