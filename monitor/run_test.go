package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/pollwatch/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAsync(ctx context.Context, m *Monitor, emit EmitFunc, opts RunOptions) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, m, emit, opts)
	}()
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestRunEmitsAndStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.txt", "a")
	m := newTestMonitor(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got [][]Event
	emit := func(events []Event) error {
		got = append(got, events)
		cancel()
		return nil
	}

	err := waitDone(t, runAsync(ctx, m, emit, RunOptions{Interval: 10 * time.Millisecond}))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []Event{{Path: filepath.Join(m.Dir(), "a.txt"), Kind: Created}}, got[0])
}

func TestRunDoesNotEmitEmptyCycles(t *testing.T) {
	m := newTestMonitor(t, t.TempDir())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	calls := 0
	emit := func(events []Event) error {
		calls++
		return nil
	}

	require.NoError(t, waitDone(t, runAsync(ctx, m, emit, RunOptions{Interval: 5 * time.Millisecond})))
	assert.Zero(t, calls)
}

func TestRunReturnsEmitError(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.txt", "a")
	m := newTestMonitor(t, dir)

	boom := errors.New("write failed")
	err := waitDone(t, runAsync(context.Background(), m, func([]Event) error { return boom }, RunOptions{}))
	assert.ErrorIs(t, err, boom)
}

func TestRunWithCancelledContextSkipsScanning(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.txt", "a")
	m := newTestMonitor(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, m, func([]Event) error {
		t.Error("emit called after cancellation")
		return nil
	}, RunOptions{})
	require.NoError(t, err)
	assert.Empty(t, m.Snapshot())
}

func TestRunAppliesIntervalUpdates(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.txt", "a")
	m := newTestMonitor(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan time.Duration, 1)
	var got []Event
	emit := func(events []Event) error {
		got = append(got, events...)
		if len(got) == 1 {
			// Without the update the next cycle would be an hour away.
			testutil.WriteFile(t, dir, "b.txt", "b")
			updates <- 10 * time.Millisecond
			return nil
		}
		cancel()
		return nil
	}

	err := waitDone(t, runAsync(ctx, m, emit, RunOptions{Interval: time.Hour, IntervalUpdates: updates}))
	require.NoError(t, err)
	assert.Equal(t, map[string]Kind{
		filepath.Join(m.Dir(), "a.txt"): Created,
		filepath.Join(m.Dir(), "b.txt"): Created,
	}, kindsByPath(got))
}

func TestRunIgnoresClosedUpdateChannel(t *testing.T) {
	dir := t.TempDir()
	m := newTestMonitor(t, dir)

	updates := make(chan time.Duration)
	close(updates)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	emit := func(events []Event) error {
		calls++
		if calls == 1 {
			testutil.WriteFile(t, dir, "late.txt", "x")
			return nil
		}
		cancel()
		return nil
	}

	testutil.WriteFile(t, dir, "first.txt", "x")
	err := waitDone(t, runAsync(ctx, m, emit, RunOptions{Interval: 5 * time.Millisecond, IntervalUpdates: updates}))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
