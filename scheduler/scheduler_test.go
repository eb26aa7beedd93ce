package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerFiresRepeatedly(t *testing.T) {
	var count int32
	tk := New(10*time.Millisecond, func() {
		atomic.AddInt32(&count, 1)
	})
	defer tk.Stop()

	time.Sleep(55 * time.Millisecond)
	got := atomic.LoadInt32(&count)
	if got < 3 {
		t.Errorf("expected at least 3 ticks in 55ms at 10ms interval, got %d", got)
	}
}

func TestStopPreventsFurtherTicks(t *testing.T) {
	var count int32
	tk := New(10*time.Millisecond, func() {
		atomic.AddInt32(&count, 1)
	})
	time.Sleep(15 * time.Millisecond)
	tk.Stop()
	after := atomic.LoadInt32(&count)
	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt32(&count) != after {
		t.Errorf("expected no further ticks after Stop, count grew from %d to %d", after, atomic.LoadInt32(&count))
	}
	if !tk.Stopped() {
		t.Error("expected Stopped() to report true")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	tk := New(time.Hour, func() {})
	tk.Stop()
	tk.Stop() // must not panic or double-close Done()
}

func TestDoneClosedAfterStop(t *testing.T) {
	tk := New(time.Hour, func() {})
	select {
	case <-tk.Done():
		t.Fatal("Done() closed before Stop was called")
	default:
	}
	tk.Stop()
	select {
	case <-tk.Done():
	default:
		t.Error("expected Done() to be closed after Stop")
	}
}
