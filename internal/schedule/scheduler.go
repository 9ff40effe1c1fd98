// Package schedule provides generation-tagged delayed actions over a
// quartz clock.
//
// Every task records the scheduler generation at the time it was created.
// Advancing the generation stops all pending tasks, and a task that fires
// after the generation moved on is dropped. Owners that serialise their own
// state re-check Task.Live under their lock before acting.
package schedule

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Task is a single delayed action.
type Task struct {
	id    uint64
	name  string
	gen   uint64
	due   time.Time
	timer *quartz.Timer
	s     *Scheduler

	cancelled bool // guarded by s.mu
}

// Name returns the label the task was scheduled with.
func (t *Task) Name() string { return t.name }

// Due returns the clock time the task is set to fire at.
func (t *Task) Due() time.Time { return t.due }

// Generation returns the generation the task was scheduled in.
func (t *Task) Generation() uint64 { return t.gen }

// Live reports whether the task has not been cancelled and its generation
// is still current.
func (t *Task) Live() bool {
	if t == nil {
		return false
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return !t.cancelled && !t.s.stopped && t.gen == t.s.gen
}

// Scheduler runs named actions after a delay.
type Scheduler struct {
	clock  quartz.Clock
	logger *log.Logger

	mu      sync.Mutex
	gen     uint64
	nextID  uint64
	pending map[uint64]*Task
	stopped bool
}

// New creates a scheduler driven by clock.
func New(clock quartz.Clock, logger *log.Logger) *Scheduler {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		clock:   clock,
		logger:  logger.WithPrefix("schedule"),
		pending: make(map[uint64]*Task),
	}
}

// Clock returns the clock the scheduler uses.
func (s *Scheduler) Clock() quartz.Clock { return s.clock }

// After schedules fn to run once d has elapsed. The task is tagged with the
// current generation. Returns nil if the scheduler has been stopped.
//
// Callers wanting a zero delay should run their action inline instead.
func (s *Scheduler) After(d time.Duration, name string, fn func(*Task)) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.logger.Debug("Rejecting task on stopped scheduler", "task", name)
		return nil
	}

	s.nextID++
	t := &Task{
		id:   s.nextID,
		name: name,
		gen:  s.gen,
		due:  s.clock.Now().Add(d),
		s:    s,
	}
	s.pending[t.id] = t
	t.timer = s.clock.AfterFunc(d, func() { s.fire(t, fn) }, "schedule", name)
	return t
}

func (s *Scheduler) fire(t *Task, fn func(*Task)) {
	s.mu.Lock()
	delete(s.pending, t.id)
	live := !t.cancelled && !s.stopped && t.gen == s.gen
	current := s.gen
	s.mu.Unlock()

	if !live {
		s.logger.Debug("Dropping stale task", "task", t.name, "generation", t.gen, "current", current)
		return
	}
	fn(t)
}

// Advance bumps the generation and stops every pending task.
func (s *Scheduler) Advance() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.cancelAllLocked()
	return s.gen
}

// Cancel stops a single task. It is a no-op for nil or finished tasks.
func (s *Scheduler) Cancel(t *Task) {
	if t == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(t)
}

// Pending returns the number of tasks waiting to fire.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Generation returns the current generation.
func (s *Scheduler) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Stop cancels every pending task and rejects new ones.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.cancelAllLocked()
}

func (s *Scheduler) cancelAllLocked() {
	for _, t := range s.pending {
		s.cancelLocked(t)
	}
}

func (s *Scheduler) cancelLocked(t *Task) {
	if t.cancelled {
		return
	}
	t.cancelled = true
	if t.timer != nil {
		t.timer.Stop()
	}
	delete(s.pending, t.id)
}
