package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	t.Run(`свободный ключ`, func(t *testing.T) {
		called := false
		success, err := WithDelay(context.Background(), "free", time.Second, func() error {
			called = true
			return nil
		})
		require.NoError(t, err)
		require.True(t, success)
		require.True(t, called)
	})
	t.Run(`занятый ключ, таймаут`, func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		go func() {
			_, _ = WithDelay(context.Background(), "busy", time.Second, func() error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started
		success, err := WithDelay(context.Background(), "busy", 120*time.Millisecond, func() error {
			t.Fatal("не должно вызываться")
			return nil
		})
		close(release)
		require.NoError(t, err)
		require.False(t, success)
	})
	t.Run(`вызовы по одному ключу не пересекаются`, func(t *testing.T) {
		var mu sync.Mutex
		inside := 0
		maxInside := 0
		wg := sync.WaitGroup{}
		for n := 0; n < 5; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				success, err := WithDelay(context.Background(), "serial", 5*time.Second, func() error {
					mu.Lock()
					inside++
					if inside > maxInside {
						maxInside = inside
					}
					mu.Unlock()
					time.Sleep(10 * time.Millisecond)
					mu.Lock()
					inside--
					mu.Unlock()
					return nil
				})
				assert.NoError(t, err)
				assert.True(t, success)
			}()
		}
		wg.Wait()
		require.Equal(t, 1, maxInside)
	})
	t.Run(`отмена контекста`, func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		go func() {
			_, _ = WithDelay(context.Background(), "cancel", time.Second, func() error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		success, err := WithDelay(ctx, "cancel", time.Second, func() error { return nil })
		close(release)
		require.ErrorIs(t, err, context.Canceled)
		require.False(t, success)
	})
}
