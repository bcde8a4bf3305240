package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/serifcolakel/sc-hooks/pkg/listener"
)

func TestFileTarget_DispatchesChangeOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o644))

	ft, err := NewFileTarget(path)
	require.NoError(t, err)
	defer ft.Close()

	var changes atomic.Int64
	sub := listener.NewSubscription(EventChange, func(ev listener.Event) {
		changes.Add(1)
	}, listener.WithTargetRef(listener.NewRef(ft)))
	sub.Start()
	defer sub.Stop()

	require.NoError(t, os.WriteFile(path, []byte("a: 2\n"), 0o644))

	require.Eventually(t, func() bool {
		return changes.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond, "expected a change event after writing the file")
}

func TestFileTarget_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.txt")
	sibling := filepath.Join(dir, "sibling.txt")
	require.NoError(t, os.WriteFile(watched, []byte("x"), 0o644))

	ft, err := NewFileTarget(watched)
	require.NoError(t, err)
	defer ft.Close()

	var changes atomic.Int64
	ft.AddEventListener(EventChange, func(listener.Event) { changes.Add(1) }, listener.Options{})

	require.NoError(t, os.WriteFile(sibling, []byte("y"), 0o644))
	time.Sleep(200 * time.Millisecond)
	require.Zero(t, changes.Load(), "a sibling file write must not fire the watched target")
}

func TestFileTarget_NoEventsAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	ft, err := NewFileTarget(path)
	require.NoError(t, err)

	var changes atomic.Int64
	ft.AddEventListener(EventChange, func(listener.Event) { changes.Add(1) }, listener.Options{})

	require.NoError(t, ft.Close())
	require.NoError(t, ft.Close(), "double close must be safe")

	require.NoError(t, os.WriteFile(path, []byte(`{"k":1}`), 0o644))
	time.Sleep(200 * time.Millisecond)
	require.Zero(t, changes.Load(), "no events may be delivered after Close")
}

func TestFileTarget_DebounceCoalescesRapidWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("v0"), 0o644))

	ft, err := NewFileTarget(path, WithDebounce(150*time.Millisecond))
	require.NoError(t, err)
	defer ft.Close()

	var changes atomic.Int64
	ft.AddEventListener(EventChange, func(listener.Event) { changes.Add(1) }, listener.Options{})

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("burst"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return changes.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	require.Equal(t, int64(1), changes.Load(), "rapid writes must coalesce into one event")
}

func TestFileTarget_EventCarriesPathAndTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	ft, err := NewFileTarget(path)
	require.NoError(t, err)
	defer ft.Close()

	got := make(chan listener.Event, 1)
	ft.AddEventListener(EventChange, func(ev listener.Event) {
		select {
		case got <- ev:
		default:
		}
	}, listener.Options{})

	require.NoError(t, os.WriteFile(path, []byte("y"), 0o644))

	select {
	case ev := <-got:
		require.Equal(t, ft, ev.Target)
		require.Equal(t, ft.Path(), ev.Data)
		require.Equal(t, "file", ev.Target.Kind())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}
