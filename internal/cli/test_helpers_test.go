package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/trailmark/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// fakeClock is a settable time source for stores under test.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// newTestStore opens an in-memory store whose clock starts at start.
func newTestStore(t *testing.T, start time.Time) (*storage.SQLiteStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: start}
	store, err := storage.Open(storage.MemoryPath, storage.Options{
		Now:                       clock.Now,
		DisableStartupMaintenance: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, clock
}

// seedVisits records each URL once, one minute apart, in the given order.
func seedVisits(t *testing.T, store storage.History, clock *fakeClock, urls ...string) {
	t.Helper()
	for _, u := range urls {
		store.RecordVisit(context.Background(), u, "")
		clock.Advance(time.Minute)
	}
}
