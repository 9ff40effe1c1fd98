package schedule

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestAfterFiresOnce(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	s := New(clock, testLogger())
	ctx := testContext(t)

	var fired atomic.Int32
	task := s.After(3*time.Second, "deal", func(tk *Task) {
		assert.True(t, tk.Live())
		fired.Add(1)
	})
	require.NotNil(t, task)
	assert.Equal(t, "deal", task.Name())
	assert.Equal(t, clock.Now().Add(3*time.Second), task.Due())
	assert.Equal(t, 1, s.Pending())

	d, w := clock.AdvanceNext()
	w.MustWait(ctx)
	assert.Equal(t, 3*time.Second, d)
	assert.Equal(t, int32(1), fired.Load())
	assert.Equal(t, 0, s.Pending())
}

func TestAdvanceDropsOlderGenerations(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	s := New(clock, testLogger())
	ctx := testContext(t)

	var stale, fresh atomic.Int32
	old := s.After(time.Second, "old", func(*Task) { stale.Add(1) })
	assert.Equal(t, uint64(0), old.Generation())

	assert.Equal(t, uint64(1), s.Advance())
	assert.False(t, old.Live())
	assert.Equal(t, 0, s.Pending())

	s.After(2*time.Second, "new", func(*Task) { fresh.Add(1) })
	_, w := clock.AdvanceNext()
	w.MustWait(ctx)

	assert.Equal(t, int32(0), stale.Load())
	assert.Equal(t, int32(1), fresh.Load())
}

func TestCancelSingleTask(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	s := New(clock, testLogger())
	ctx := testContext(t)

	var a, b atomic.Int32
	ta := s.After(time.Second, "a", func(*Task) { a.Add(1) })
	s.After(time.Second, "b", func(*Task) { b.Add(1) })

	s.Cancel(ta)
	s.Cancel(ta)
	s.Cancel(nil)
	assert.False(t, ta.Live())
	assert.Equal(t, 1, s.Pending())

	_, w := clock.AdvanceNext()
	w.MustWait(ctx)
	assert.Equal(t, int32(0), a.Load())
	assert.Equal(t, int32(1), b.Load())
}

func TestTaskCanScheduleFollowUp(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	s := New(clock, testLogger())
	ctx := testContext(t)

	var steps atomic.Int32
	var step func(*Task)
	step = func(*Task) {
		if steps.Add(1) < 3 {
			s.After(time.Second, "step", step)
		}
	}
	s.After(time.Second, "step", step)

	for range 3 {
		_, w := clock.AdvanceNext()
		w.MustWait(ctx)
	}
	assert.Equal(t, int32(3), steps.Load())
	assert.Equal(t, 0, s.Pending())
}

func TestStopRejectsNewTasks(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	s := New(clock, testLogger())

	pending := s.After(time.Second, "pending", func(*Task) { t.Error("stopped task fired") })
	s.Stop()
	s.Stop()

	assert.False(t, pending.Live())
	assert.Equal(t, 0, s.Pending())
	assert.Nil(t, s.After(time.Second, "late", func(*Task) {}))

	var nilTask *Task
	assert.False(t, nilTask.Live())
}
