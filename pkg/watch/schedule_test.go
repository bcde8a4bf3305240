package watch

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/serifcolakel/sc-hooks/pkg/listener"
)

func TestScheduleTarget_TicksUntilClosed(t *testing.T) {
	st, err := NewScheduleTarget(20 * time.Millisecond)
	require.NoError(t, err)

	var ticks atomic.Int64
	sub := listener.NewSubscription(EventTick, func(listener.Event) {
		ticks.Add(1)
	}, listener.WithTargetRef(listener.NewRef(st)))
	sub.Start()
	defer sub.Stop()

	st.Start()
	require.Eventually(t, func() bool {
		return ticks.Load() >= 2
	}, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, st.Close())
	require.NoError(t, st.Close(), "double close must be safe")

	frozen := ticks.Load()
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, frozen, ticks.Load(), "no ticks may fire after Close")
}

func TestScheduleTarget_TickDataCounts(t *testing.T) {
	st, err := NewScheduleTarget(15 * time.Millisecond)
	require.NoError(t, err)
	defer st.Close()

	var last atomic.Int64
	st.AddEventListener(EventTick, func(ev listener.Event) {
		if n, ok := ev.Data.(int64); ok {
			last.Store(n)
		}
	}, listener.Options{})

	st.Start()
	require.Eventually(t, func() bool {
		return last.Load() >= 3
	}, 3*time.Second, 10*time.Millisecond)
}

func TestScheduleTarget_RejectsNonPositiveInterval(t *testing.T) {
	_, err := NewScheduleTarget(0)
	require.Error(t, err)
	_, err = NewScheduleTarget(-time.Second)
	require.Error(t, err)
}

func TestScheduleTarget_Kind(t *testing.T) {
	st, err := NewScheduleTarget(time.Second)
	require.NoError(t, err)
	defer st.Close()
	require.Equal(t, "schedule", st.Kind())
}
