// This file is part of GopherBlaster.
//
// GopherBlaster is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherBlaster is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherBlaster.  If not, see <https://www.gnu.org/licenses/>.

package scheduler

import (
	"container/heap"
	"fmt"
	"slices"
)

// Target is implemented by devices that receive scheduled events.
type Target interface {
	HandleEvent(kind int, token int)
}

// Callback identifies the receiver of an event.
type Callback struct {
	Target Target
	Kind   int
}

// Event is a pending event.
type Event struct {
	// the virtual time at which the event triggers
	At float64

	Callback Callback
	Token    int

	// order in which the event was scheduled. used to break ties
	seq uint64
}

func (ev Event) String() string {
	return fmt.Sprintf("%.4fms kind=%d token=%d", ev.At, ev.Callback.Kind, ev.Token)
}

// eventQueue implements heap.Interface
type eventQueue []Event

func (q eventQueue) Len() int {
	return len(q)
}

func (q eventQueue) Less(i, j int) bool {
	if q[i].At == q[j].At {
		return q[i].seq < q[j].seq
	}
	return q[i].At < q[j].At
}

func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(Event))
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	*q = old[:n-1]
	return ev
}

// Scheduler is a virtual clock and event queue.
type Scheduler struct {
	now   float64
	seq   uint64
	queue eventQueue
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type.
func NewScheduler() *Scheduler {
	return &Scheduler{
		queue: make(eventQueue, 0, 16),
	}
}

func (s *Scheduler) String() string {
	return fmt.Sprintf("%.4fms (%d pending)", s.now, len(s.queue))
}

// NowMs returns the current virtual time.
func (s *Scheduler) NowMs() float64 {
	return s.now
}

// ScheduleEvent adds an event that will trigger after delay milliseconds. A
// negative delay is treated as zero.
func (s *Scheduler) ScheduleEvent(cb Callback, delay float64, token int) {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	heap.Push(&s.queue, Event{
		At:       s.now + delay,
		Callback: cb,
		Token:    token,
		seq:      s.seq,
	})
}

// remove all events for which the filter returns true
func (s *Scheduler) remove(filter func(ev Event) bool) {
	n := slices.DeleteFunc(s.queue, filter)
	if len(n) != len(s.queue) {
		s.queue = n
		heap.Init(&s.queue)
	}
}

// CancelEvents removes all pending events for the callback.
func (s *Scheduler) CancelEvents(cb Callback) {
	s.remove(func(ev Event) bool {
		return ev.Callback == cb
	})
}

// CancelEventsToken removes all pending events for the callback with the
// specified token.
func (s *Scheduler) CancelEventsToken(cb Callback, token int) {
	s.remove(func(ev Event) bool {
		return ev.Callback == cb && ev.Token == token
	})
}

// CancelTarget removes all pending events for the target, regardless of
// kind.
func (s *Scheduler) CancelTarget(t Target) {
	s.remove(func(ev Event) bool {
		return ev.Callback.Target == t
	})
}

// Pending returns the pending events for the target in the order they will be
// dispatched. A nil target returns all pending events.
func (s *Scheduler) Pending(t Target) []Event {
	p := make([]Event, 0, len(s.queue))
	for _, ev := range s.queue {
		if t == nil || ev.Callback.Target == t {
			p = append(p, ev)
		}
	}
	slices.SortFunc(p, func(a, b Event) int {
		if a.At < b.At {
			return -1
		}
		if a.At > b.At {
			return 1
		}
		if a.seq < b.seq {
			return -1
		}
		if a.seq > b.seq {
			return 1
		}
		return 0
	})
	return p
}

// HasPending returns true if there is at least one pending event for the
// callback.
func (s *Scheduler) HasPending(cb Callback) bool {
	for _, ev := range s.queue {
		if ev.Callback == cb {
			return true
		}
	}
	return false
}

// Advance moves the virtual clock forward by ms milliseconds, dispatching
// every event that triggers on the way. Returns the number of events
// dispatched.
func (s *Scheduler) Advance(ms float64) int {
	if ms < 0 {
		ms = 0
	}
	return s.RunUntil(s.now + ms)
}

// RunUntil moves the virtual clock forward to the specified time, dispatching
// every event that triggers on the way. The clock never moves backwards.
// Returns the number of events dispatched.
//
// Events scheduled by an event handler are dispatched in the same call if
// they trigger before the end time.
func (s *Scheduler) RunUntil(end float64) int {
	var n int
	for len(s.queue) > 0 && s.queue[0].At <= end {
		ev := heap.Pop(&s.queue).(Event)
		if ev.At > s.now {
			s.now = ev.At
		}
		ev.Callback.Target.HandleEvent(ev.Callback.Kind, ev.Token)
		n++
	}
	if end > s.now {
		s.now = end
	}
	return n
}

// Reset removes all pending events and resets the clock to zero.
func (s *Scheduler) Reset() {
	s.queue = s.queue[:0]
	s.now = 0
	s.seq = 0
}
