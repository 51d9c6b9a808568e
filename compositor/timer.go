package compositor

import (
	"sort"
	"time"
)

// Timer is a one-shot timer. Its callback runs on the goroutine owning the
// compositor.
type Timer interface {
	// Start (re-)arms the timer to fire after d.
	Start(d time.Duration)
	// Stop cancels a pending firing.
	Stop()
	// IsActive is true if the timer is armed.
	IsActive() bool
}

// Timers create timers.
type Timers interface {
	NewTimer(fire func()) Timer
}

// --- Run loop timers ---------------------------------------------------------

// QueueTimers post expired timer callbacks to an event queue, which the
// owning goroutine drains:
//
//     queue := make(chan func(), 16)
//     c := compositor.New(view, compositor.WithTimers(compositor.QueueTimers(queue)))
//     for f := range queue {
//         f()
//     }
//
func QueueTimers(queue chan<- func()) Timers {
	return queueTimers{queue: queue}
}

type queueTimers struct {
	queue chan<- func()
}

func (qt queueTimers) NewTimer(fire func()) Timer {
	return &queueTimer{queue: qt.queue, fire: fire}
}

type queueTimer struct {
	queue  chan<- func()
	fire   func()
	timer  *time.Timer
	gen    uint64 // incremented on every start and stop
	active bool
}

func (t *queueTimer) Start(d time.Duration) {
	t.Stop()
	t.gen++
	gen := t.gen
	t.active = true
	t.timer = time.AfterFunc(d, func() {
		t.queue <- func() {
			if t.active && t.gen == gen {
				t.active = false
				t.fire()
			}
		}
	})
}

func (t *queueTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.active = false
}

func (t *queueTimer) IsActive() bool {
	return t.active
}

// --- Manual timers -----------------------------------------------------------

// ManualTimers is a deterministic timer source for tests. Time advances only
// by calls to Advance.
type ManualTimers struct {
	now    time.Duration
	timers []*manualTimer
}

// NewManualTimers creates a manual timer source at time 0.
func NewManualTimers() *ManualTimers {
	return &ManualTimers{}
}

// NewTimer creates a timer driven by mt.
func (mt *ManualTimers) NewTimer(fire func()) Timer {
	t := &manualTimer{owner: mt, fire: fire}
	mt.timers = append(mt.timers, t)
	return t
}

// Now returns the current manual time.
func (mt *ManualTimers) Now() time.Duration {
	return mt.now
}

// Advance moves time forward by d and fires every timer due, in order of
// their deadlines. Timers re-armed by a callback fire again if they are due.
func (mt *ManualTimers) Advance(d time.Duration) int {
	end := mt.now + d
	fired := 0
	for {
		due := mt.due(end)
		if due == nil {
			break
		}
		mt.now = due.deadline
		due.active = false
		due.fire()
		fired++
	}
	mt.now = end
	return fired
}

// RunPending fires every timer due at the current time.
func (mt *ManualTimers) RunPending() int {
	return mt.Advance(0)
}

// Pending returns the number of armed timers.
func (mt *ManualTimers) Pending() int {
	n := 0
	for _, t := range mt.timers {
		if t.active {
			n++
		}
	}
	return n
}

func (mt *ManualTimers) due(end time.Duration) *manualTimer {
	var active []*manualTimer
	for _, t := range mt.timers {
		if t.active && t.deadline <= end {
			active = append(active, t)
		}
	}
	if len(active) == 0 {
		return nil
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].deadline < active[j].deadline })
	return active[0]
}

type manualTimer struct {
	owner    *ManualTimers
	fire     func()
	deadline time.Duration
	active   bool
}

func (t *manualTimer) Start(d time.Duration) {
	t.deadline = t.owner.now + d
	t.active = true
}

func (t *manualTimer) Stop() {
	t.active = false
}

func (t *manualTimer) IsActive() bool {
	return t.active
}
