package view

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_GoApplies(t *testing.T) {
	s := NewScope(context.Background())
	defer s.Close()

	done := make(chan error, 1)
	require.NoError(t, s.Go(func(ctx context.Context) error {
		return errors.New("result")
	}, func(err error) { done <- err }))

	select {
	case err := <-done:
		assert.EqualError(t, err, "result")
	case <-time.After(time.Second):
		t.Fatal("apply was not called")
	}
}

func TestScope_CloseDropsLateResults(t *testing.T) {
	s := NewScope(context.Background())

	started := make(chan struct{})
	var applied atomic.Bool
	require.NoError(t, s.Go(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}, func(error) { applied.Store(true) }))

	<-started
	s.Close()
	assert.False(t, applied.Load())
	assert.True(t, s.Closed())
	assert.ErrorIs(t, s.Context().Err(), context.Canceled)
}

func TestScope_GoAfterClose(t *testing.T) {
	s := NewScope(context.Background())
	s.Close()
	s.Close()

	err := s.Go(func(context.Context) error { return nil }, nil)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestScope_CancelReachesTask(t *testing.T) {
	s := NewScope(context.Background())
	defer s.Close()

	result := make(chan error, 1)
	require.NoError(t, s.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, func(err error) { result <- err }))

	time.Sleep(20 * time.Millisecond)
	s.Cancel()
	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("apply not called after Cancel")
	}
	assert.False(t, s.Closed())
}

func TestBusy(t *testing.T) {
	var b Busy
	release := make(chan struct{})
	entered := make(chan struct{})

	go func() {
		_ = b.Do(func() error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	assert.True(t, b.Active())
	assert.ErrorIs(t, b.Do(func() error { return nil }), ErrBusy)

	close(release)
	require.Eventually(t, func() bool { return !b.Active() }, time.Second, 5*time.Millisecond)
	assert.NoError(t, b.Do(func() error { return nil }))
}
