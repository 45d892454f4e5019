package brightness

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerBurstFiresOnce(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var fired atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 10; i++ {
		v := int32(i)
		d.Trigger(func() {
			fired.Add(1)
			last.Store(v)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("burst fired %d times, want 1", got)
	}
	if got := last.Load(); got != 10 {
		t.Errorf("fired with value %d, want last value 10", got)
	}
}

func TestDebouncerSeparatedTriggersAllFire(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired atomic.Int32
	for n := 0; n < 3; n++ {
		d.Trigger(func() { fired.Add(1) })
		time.Sleep(80 * time.Millisecond)
	}

	if got := fired.Load(); got != 3 {
		t.Errorf("fired %d times, want 3", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(100 * time.Millisecond)

	if got := fired.Load(); got != 0 {
		t.Errorf("fired %d times after Stop, want 0", got)
	}
}

func TestDebouncerStopWithoutTrigger(_ *testing.T) {
	d := NewDebouncer(time.Millisecond)
	d.Stop() // must not panic
}
