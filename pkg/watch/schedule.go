package watch

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/serifcolakel/sc-hooks/pkg/listener"
)

// EventTick is dispatched on every schedule fire. Event.Data carries the
// 1-based tick count.
const EventTick = "tick"

// ScheduleTarget is a listener.Target that fires at a fixed interval.
type ScheduleTarget struct {
	emitter   *listener.Element
	scheduler gocron.Scheduler
	interval  time.Duration
	ticks     atomic.Int64
	closeOnce sync.Once
}

// NewScheduleTarget creates a target ticking every interval. Start must be
// called before any events fire; Close shuts the underlying scheduler down.
func NewScheduleTarget(interval time.Duration) (*ScheduleTarget, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %v", interval)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	st := &ScheduleTarget{
		emitter:   listener.NewElement(),
		scheduler: s,
		interval:  interval,
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(st.tick),
		gocron.WithName("schedule-target"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create tick job: %w", err)
	}

	return st, nil
}

// Interval returns the configured tick interval.
func (st *ScheduleTarget) Interval() time.Duration { return st.interval }

// Start begins ticking.
func (st *ScheduleTarget) Start() {
	st.scheduler.Start()
}

func (st *ScheduleTarget) tick() {
	n := st.ticks.Add(1)
	st.emitter.DispatchEvent(listener.Event{
		Type:   EventTick,
		Target: st,
		Data:   n,
		Time:   time.Now(),
	})
}

func (st *ScheduleTarget) AddEventListener(name string, h listener.Handler, opts listener.Options) {
	st.emitter.AddEventListener(name, h, opts)
}

func (st *ScheduleTarget) RemoveEventListener(name string, h listener.Handler, opts listener.Options) {
	st.emitter.RemoveEventListener(name, h, opts)
}

func (st *ScheduleTarget) DispatchEvent(ev listener.Event) bool {
	if ev.Target == nil {
		ev.Target = st
	}
	return st.emitter.DispatchEvent(ev)
}

func (st *ScheduleTarget) Kind() string { return "schedule" }

// Close shuts the scheduler down. No further ticks are dispatched.
func (st *ScheduleTarget) Close() error {
	var err error
	st.closeOnce.Do(func() {
		err = st.scheduler.Shutdown()
	})
	return err
}
