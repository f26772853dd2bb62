package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"
)

// eventEntry wraps an Event with a sequence ID for deterministic FIFO
// tie-breaking when timestamp and priority are equal.
type eventEntry struct {
	event Event
	seqID int64
}

// EventQueue is a min-heap ordered by (Timestamp, Priority, seqID).
// Implements heap.Interface.
type EventQueue []eventEntry

func (q EventQueue) Len() int { return len(q) }

func (q EventQueue) Less(i, j int) bool {
	if q[i].event.Timestamp() != q[j].event.Timestamp() {
		return q[i].event.Timestamp() < q[j].event.Timestamp()
	}
	if q[i].event.Priority() != q[j].event.Priority() {
		return q[i].event.Priority() < q[j].event.Priority()
	}
	return q[i].seqID < q[j].seqID
}

func (q EventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *EventQueue) Push(x any) {
	*q = append(*q, x.(eventEntry))
}

func (q *EventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = eventEntry{}
	*q = old[:n-1]
	return item
}

// EventScheduler owns the simulation clock and the queue of pending events.
// Only the run loop advances the clock, and it never moves backwards.
type EventScheduler struct {
	clock   float64
	queue   EventQueue
	nextSeq int64
}

// NewEventScheduler creates an empty scheduler with the clock at 0.
func NewEventScheduler() *EventScheduler {
	s := &EventScheduler{queue: make(EventQueue, 0)}
	heap.Init(&s.queue)
	return s
}

// Clock returns the current simulated time in days.
func (s *EventScheduler) Clock() float64 { return s.clock }

// Len returns the number of pending events.
func (s *EventScheduler) Len() int { return len(s.queue) }

// Schedule inserts an event. Sequence IDs are assigned here, strictly increasing
// and never reused. Scheduling before the current clock is a programming error.
func (s *EventScheduler) Schedule(ev Event) {
	if ev == nil {
		panic("Schedule: event must not be nil")
	}
	if ev.Timestamp() < s.clock {
		panic(fmt.Sprintf("Schedule: %T due at %v is before clock %v", ev, ev.Timestamp(), s.clock))
	}
	heap.Push(&s.queue, eventEntry{event: ev, seqID: s.nextSeq})
	s.nextSeq++
}

// Peek returns the next event without removing it, or nil if the queue is empty.
func (s *EventScheduler) Peek() Event {
	if len(s.queue) == 0 {
		return nil
	}
	return s.queue[0].event
}

// Run pops events in (time, priority, sequence) order, advances the clock to each
// event's due time and executes it, until the queue is empty or the next event is
// due after horizon. Events due exactly at horizon are executed.
// Returns the number of executed events.
func (s *EventScheduler) Run(horizon float64, sim *Simulator) int {
	executed := 0
	for len(s.queue) > 0 {
		if s.queue[0].event.Timestamp() > horizon {
			break
		}
		entry := heap.Pop(&s.queue).(eventEntry)
		s.clock = entry.event.Timestamp()
		logrus.Tracef("[day %010.4f] Executing %T", s.clock, entry.event)
		entry.event.Execute(sim)
		executed++
	}
	return executed
}
