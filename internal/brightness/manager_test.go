package brightness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeController records writes and serves a fixed level.
type fakeController struct {
	mu     sync.Mutex
	level  int
	getErr error
	writes []int
	wrote  chan int
}

func newFakeController(level int) *fakeController {
	return &fakeController{level: level, wrote: make(chan int, 16)}
}

func (f *fakeController) Get(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return 0, f.getErr
	}
	return f.level, nil
}

func (f *fakeController) Set(_ context.Context, value int) error {
	f.mu.Lock()
	f.writes = append(f.writes, value)
	f.mu.Unlock()
	f.wrote <- value
	return nil
}

func (f *fakeController) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func waitForWrite(t *testing.T, f *fakeController, timeout time.Duration) int {
	t.Helper()
	select {
	case v := <-f.wrote:
		return v
	case <-time.After(timeout):
		t.Fatal("timeout waiting for controller write")
		return -1
	}
}

func newTestManager(ctrl Controller) (*Manager, *events.Bus) {
	bus := events.New()
	m := NewManager(ctrl, bus, Config{
		Min:         0,
		Max:         100,
		ScrollStep:  1,
		SliderDelay: 40 * time.Millisecond,
		ScrollDelay: 30 * time.Millisecond,
	}, testLogger())
	m.Start()
	return m, bus
}

func TestSliderBurstWritesOnce(t *testing.T) {
	ctrl := newFakeController(50)
	m, bus := newTestManager(ctrl)
	defer m.Stop()

	for _, v := range []int{61, 62, 63, 64, 65} {
		bus.Publish(events.TargetEvent{Level: v, Source: "slider"})
		time.Sleep(5 * time.Millisecond)
	}

	if got := waitForWrite(t, ctrl, time.Second); got != 65 {
		t.Errorf("wrote %d, want last burst value 65", got)
	}

	time.Sleep(100 * time.Millisecond)
	if got := ctrl.writeCount(); got != 1 {
		t.Errorf("burst produced %d writes, want 1", got)
	}
}

func TestImmediateTargetSkipsDebounce(t *testing.T) {
	ctrl := newFakeController(50)
	m, bus := newTestManager(ctrl)
	defer m.Stop()

	bus.Publish(events.TargetEvent{Level: 25, Immediate: true, Source: "preset"})

	if got := waitForWrite(t, ctrl, 20*time.Millisecond); got != 25 {
		t.Errorf("wrote %d, want 25", got)
	}
}

func TestTargetClampedToRange(t *testing.T) {
	ctrl := newFakeController(50)
	bus := events.New()
	m := NewManager(ctrl, bus, Config{
		Min:         10,
		Max:         80,
		SliderDelay: 10 * time.Millisecond,
	}, testLogger())
	m.Start()
	defer m.Stop()

	bus.Publish(events.TargetEvent{Level: 150, Immediate: true})
	if got := waitForWrite(t, ctrl, time.Second); got != 80 {
		t.Errorf("wrote %d, want clamped 80", got)
	}

	bus.Publish(events.TargetEvent{Level: -3, Immediate: true})
	if got := waitForWrite(t, ctrl, time.Second); got != 10 {
		t.Errorf("wrote %d, want clamped 10", got)
	}
}

func TestScrollAdjustsCachedLevel(t *testing.T) {
	ctrl := newFakeController(50)
	m, bus := newTestManager(ctrl)
	defer m.Stop()

	levels := make(chan int, 8)
	unsub := bus.Subscribe(func(e events.LevelChangedEvent) { levels <- e.Level })
	defer unsub()

	// Two up ticks then one down tick, faster than the scroll delay
	bus.Publish(events.DeltaEvent{Ticks: 1, Source: "scroll"})
	bus.Publish(events.DeltaEvent{Ticks: 1, Source: "scroll"})
	bus.Publish(events.DeltaEvent{Ticks: -1, Source: "scroll"})

	// Optimistic announcements track every tick
	want := []int{51, 52, 51}
	for i, w := range want {
		select {
		case got := <-levels:
			if got != w {
				t.Errorf("announcement %d = %d, want %d", i, got, w)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for announcement %d", i)
		}
	}

	// Only the settled value is written
	if got := waitForWrite(t, ctrl, time.Second); got != 51 {
		t.Errorf("wrote %d, want settled value 51", got)
	}
	time.Sleep(100 * time.Millisecond)
	if got := ctrl.writeCount(); got != 1 {
		t.Errorf("scroll burst produced %d writes, want 1", got)
	}
}

func TestScrollAtBoundNoWrite(t *testing.T) {
	ctrl := newFakeController(100)
	m, bus := newTestManager(ctrl)
	defer m.Stop()

	bus.Publish(events.DeltaEvent{Ticks: 1, Source: "scroll"})

	time.Sleep(150 * time.Millisecond)
	if got := ctrl.writeCount(); got != 0 {
		t.Errorf("tick at max produced %d writes, want 0", got)
	}
}

func TestScrollSeedFailureDropsTick(t *testing.T) {
	ctrl := newFakeController(0)
	ctrl.getErr = fmt.Errorf("tool missing")
	m, bus := newTestManager(ctrl)
	defer m.Stop()

	bus.Publish(events.DeltaEvent{Ticks: 1, Source: "scroll"})

	time.Sleep(150 * time.Millisecond)
	if got := ctrl.writeCount(); got != 0 {
		t.Errorf("unseedable cache produced %d writes, want 0", got)
	}
}

func TestScrollCacheSeedsOnce(t *testing.T) {
	ctrl := newFakeController(50)
	m, bus := newTestManager(ctrl)
	defer m.Stop()

	bus.Publish(events.DeltaEvent{Ticks: 1, Source: "scroll"})
	waitForWrite(t, ctrl, time.Second)

	// External change: the cache must NOT pick this up
	ctrl.mu.Lock()
	ctrl.level = 10
	ctrl.mu.Unlock()

	bus.Publish(events.DeltaEvent{Ticks: 1, Source: "scroll"})
	if got := waitForWrite(t, ctrl, time.Second); got != 52 {
		t.Errorf("wrote %d, want 52 (optimistic cache, not re-read)", got)
	}
}

func TestReconfigureDropsCache(t *testing.T) {
	ctrl := newFakeController(50)
	m, bus := newTestManager(ctrl)
	defer m.Stop()

	bus.Publish(events.DeltaEvent{Ticks: 1, Source: "scroll"})
	waitForWrite(t, ctrl, time.Second)

	ctrl2 := newFakeController(30)
	m.Reconfigure(ctrl2, Config{Min: 0, Max: 100, ScrollStep: 1,
		SliderDelay: 10 * time.Millisecond, ScrollDelay: 10 * time.Millisecond})

	// Cache reseeds from the new controller's level
	bus.Publish(events.DeltaEvent{Ticks: 1, Source: "scroll"})
	if got := waitForWrite(t, ctrl2, time.Second); got != 31 {
		t.Errorf("wrote %d, want 31 after reseed", got)
	}
}

func TestRefresh(t *testing.T) {
	ctrl := newFakeController(73)
	m, _ := newTestManager(ctrl)
	defer m.Stop()

	level, err := m.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if level != 73 {
		t.Errorf("Refresh = %d, want 73", level)
	}
}
