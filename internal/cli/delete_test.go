package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/trailmark/internal/storage"
)

func TestDelete_Single(t *testing.T) {
	store, clock := newTestStore(t, testStart)
	seedVisits(t, store, clock, "https://a.test", "https://b.test")
	cmd := &DeleteCommand{globals: &GlobalFlags{}, store: store, URLs: []string{"https://a.test"}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})

	assert.Contains(t, output, "Deleted https://a.test")
	_, err := store.Get(context.Background(), "https://a.test")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, int64(1), store.Count(context.Background()))
}

func TestDelete_ManyFromFlagsAndArgs(t *testing.T) {
	store, clock := newTestStore(t, testStart)
	seedVisits(t, store, clock, "https://a.test", "https://b.test", "https://c.test")
	cmd := &DeleteCommand{globals: &GlobalFlags{JSON: true}, store: store, URLs: []string{"https://a.test"}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute([]string{"https://c.test", "https://never.test"}))
	})

	var result map[string][]string
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, []string{"https://a.test", "https://c.test", "https://never.test"}, result["deleted"])

	entries := store.List(context.Background(), storage.ListQuery{})
	require.Len(t, entries, 1)
	assert.Equal(t, "https://b.test", entries[0].URL)
}

func TestDelete_RequiresURL(t *testing.T) {
	cmd := &DeleteCommand{globals: &GlobalFlags{}}
	assert.Error(t, cmd.Execute(nil))
}

// seedClearTimeline records one entry two days ago, one three hours ago and
// one a minute ago.
func seedClearTimeline(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, clock := newTestStore(t, testStart.Add(-48*time.Hour))
	seedVisits(t, store, clock, "https://old.test")
	clock.now = testStart.Add(-3 * time.Hour)
	seedVisits(t, store, clock, "https://morning.test")
	clock.now = testStart.Add(-time.Minute)
	seedVisits(t, store, clock, "https://recent.test")
	clock.now = testStart
	return store
}

func TestClear_HourWithForce(t *testing.T) {
	store := seedClearTimeline(t)
	cmd := &ClearCommand{globals: &GlobalFlags{}, store: store, Range: "hour", Force: true}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})

	assert.Contains(t, output, "Cleared 1 entries (the last hour).")
	assert.Equal(t, int64(2), store.Count(context.Background()))
}

func TestClear_TodayConfirmedWithYes(t *testing.T) {
	store := seedClearTimeline(t)
	cmd := &ClearCommand{globals: &GlobalFlags{}, store: store, Range: "today", stdin: strings.NewReader("y\n")}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})

	assert.Contains(t, output, "[y/N]")
	assert.Contains(t, output, "Cleared 2 entries (today).")
	entries := store.List(context.Background(), storage.ListQuery{})
	require.Len(t, entries, 1)
	assert.Equal(t, "https://old.test", entries[0].URL)
}

func TestClear_AbortedByDefaultAnswer(t *testing.T) {
	store := seedClearTimeline(t)
	cmd := &ClearCommand{globals: &GlobalFlags{}, store: store, Range: "hour", stdin: strings.NewReader("\n")}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})

	assert.Contains(t, output, "Aborted.")
	assert.Equal(t, int64(3), store.Count(context.Background()))
}

func TestClear_AllRequiresTypedConfirmation(t *testing.T) {
	store := seedClearTimeline(t)
	cmd := &ClearCommand{globals: &GlobalFlags{}, store: store, Range: "all", stdin: strings.NewReader("y\n")}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})

	assert.Contains(t, output, `Type "CLEAR" to confirm`)
	assert.Contains(t, output, "Aborted.")
	assert.Equal(t, int64(3), store.Count(context.Background()))
}

func TestClear_AllConfirmed(t *testing.T) {
	store := seedClearTimeline(t)
	cmd := &ClearCommand{globals: &GlobalFlags{}, store: store, Range: "all", stdin: strings.NewReader("CLEAR\n")}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})

	assert.Contains(t, output, "ALL 3 history entries")
	assert.Contains(t, output, "Cleared 3 entries (all time).")
	assert.Equal(t, int64(0), store.Count(context.Background()))
}

func TestClear_JSON(t *testing.T) {
	store := seedClearTimeline(t)
	cmd := &ClearCommand{globals: &GlobalFlags{JSON: true}, store: store, Range: "all", Force: true}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})

	var result clearJSON
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, "all", result.Range)
	assert.Equal(t, int64(3), result.Cleared)
}

func TestClear_InvalidRange(t *testing.T) {
	cmd := &ClearCommand{globals: &GlobalFlags{}, Range: "week", Force: true}
	err := cmd.Execute(nil)
	assert.ErrorIs(t, err, storage.ErrInvalidRange)
}
