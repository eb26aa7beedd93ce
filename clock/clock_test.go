package clock

import (
	"testing"
	"time"
)

func TestRealAdvances(t *testing.T) {
	r := Real{}
	a := r.Now()
	time.Sleep(2 * time.Millisecond)
	b := r.Now()
	if b <= a {
		t.Errorf("expected Now() to advance, got %d then %d", a, b)
	}
}

func TestFakeAdvance(t *testing.T) {
	f := NewFake(1000)
	if f.Now() != 1000 {
		t.Errorf("expected 1000, got %d", f.Now())
	}
	f.Advance(20 * time.Second)
	if f.Now() != 21000 {
		t.Errorf("expected 21000 after advancing 20s, got %d", f.Now())
	}
}

func TestFakeSet(t *testing.T) {
	f := NewFake(0)
	f.Set(555)
	if f.Now() != 555 {
		t.Errorf("expected 555, got %d", f.Now())
	}
}
